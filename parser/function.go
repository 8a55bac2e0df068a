package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

func (p *parser) parseFunctionDeclaration(start ast.Idx, async bool, flags ast.Flags) ast.NodeID {
	return p.parseFunction(start, async, flags|p.declareFlag(), ast.KindFunctionDeclaration, true)
}

func (p *parser) parseFunctionExpression(start ast.Idx, async bool) ast.NodeID {
	return p.parseFunction(start, async, 0, ast.KindFunctionExpression, false)
}

// parseFunction parses from the 'function' keyword on. A declaration name
// is checked in the enclosing context, an expression name in the function's
// own context.
func (p *parser) parseFunction(start ast.Idx, async bool, flags ast.Flags, kind ast.Kind, requireName bool) ast.NodeID {
	p.expect(token.Function)
	generator := p.optional(token.Multiply)
	if async {
		flags |= ast.FlagAsync
	}
	if generator {
		flags |= ast.FlagGenerator
	}

	var name ast.NodeID
	hasName := p.isIdentifierLike(p.currentKind())
	if hasName && kind == ast.KindFunctionDeclaration {
		name = p.parseBindingIdentifier()
	}
	p.openFunctionScope(async, generator)
	if hasName && kind == ast.KindFunctionExpression {
		name = p.parseBindingIdentifier()
	}
	if !hasName && requireName {
		p.errorExpected(token.Identifier)
	}
	fn := p.parseFunctionRest(start, kind, name, flags)
	p.closeScope()
	return fn
}

// parseFunctionRest parses type parameters, parameters, return type and
// body. The function scope is already open.
func (p *parser) parseFunctionRest(start ast.Idx, kind ast.Kind, name ast.NodeID, flags ast.Flags) ast.NodeID {
	var typeParams, returnType, body ast.NodeID
	if p.ts() && p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	params := p.parseFormalParameters()
	if p.ts() && p.currentKind() == token.Colon {
		returnType = p.parseReturnTypeAnnotation()
	}
	switch {
	case p.currentKind() == token.LeftBrace:
		if p.scope.inDeclare {
			p.error(diag.UnexpectedToken, "An implementation cannot be declared in ambient contexts")
		}
		body = p.parseFunctionBody()
	case p.ts():
		// Overload signature or ambient declaration.
		p.semicolon()
	default:
		p.errorExpected(token.LeftBrace)
	}
	return p.add(ast.Node{
		Kind:  kind,
		Span:  p.span(start),
		A:     name,
		B:     typeParams,
		C:     params,
		D:     returnType,
		E:     body,
		Flags: flags,
	})
}

// parseFormalParameters parses a parenthesized parameter list.
func (p *parser) parseFormalParameters() ast.NodeID {
	start := p.expect(token.LeftParenthesis)
	inFuncParams, allowIn := p.scope.inFuncParams, p.scope.allowIn
	p.scope.inFuncParams, p.scope.allowIn = true, true

	mark := len(p.buf)
	for p.currentKind() != token.RightParenthesis && p.currentKind() != token.Eof {
		if p.currentKind() == token.Ellipsis {
			p.buf = append(p.buf, p.parseRestParameter())
		} else {
			p.buf = append(p.buf, p.parseFormalParameter())
		}
		if p.currentKind() != token.RightParenthesis && !p.optional(token.Comma) {
			break
		}
	}

	p.scope.inFuncParams, p.scope.allowIn = inFuncParams, allowIn
	p.expect(token.RightParenthesis)
	return p.add(ast.Node{Kind: ast.KindFormalParameters, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseRestParameter() ast.NodeID {
	start := p.expect(token.Ellipsis)
	target := p.parseBindingTarget()
	if p.ts() && p.currentKind() == token.QuestionMark {
		p.error(diag.UnexpectedToken, "A rest parameter cannot be optional")
		p.next()
	}
	rest := p.add(ast.Node{Kind: ast.KindRestElement, Span: p.span(start), A: target})
	if p.ts() && p.currentKind() == token.Colon {
		p.attachTypeAnnotation(rest)
	}
	if p.currentKind() == token.Assign {
		p.error(diag.UnexpectedToken, "A rest parameter cannot have an initializer")
		p.next()
		p.parseAssignmentExpression()
	}
	if p.currentKind() == token.Comma {
		p.errorAt(diag.RestNotLast, p.node(rest).Span, "A rest parameter must be last in a parameter list")
	}
	return rest
}

// parameterModifiers maps TS parameter property modifiers to flags.
var parameterModifiers = map[string]ast.Flags{
	"public":    ast.FlagPublic,
	"private":   ast.FlagPrivate,
	"protected": ast.FlagProtected,
	"readonly":  ast.FlagReadonly,
	"override":  ast.FlagOverride,
}

// modifierFollows reports whether the current word is used as a modifier
// rather than as the parameter name itself.
func (p *parser) modifierFollows() bool {
	next := p.peek()
	if next.OnNewLine {
		return false
	}
	switch next.Kind {
	case token.LeftBrace, token.LeftBracket, token.This:
		return true
	}
	return p.isIdentifierLike(next.Kind)
}

func (p *parser) parseFormalParameter() ast.NodeID {
	start := p.currentOffset()
	var decorators ast.ListRef
	if p.currentKind() == token.At {
		decorators = p.parseDecorators()
	}

	var flags ast.Flags
	if p.ts() {
		for p.currentKind() == token.Identifier && !p.token.HasEscape {
			f, ok := parameterModifiers[p.token.Value]
			if !ok || !p.modifierFollows() {
				break
			}
			flags |= f
			p.next()
		}
	}

	var target ast.NodeID
	if p.ts() && p.currentKind() == token.This {
		target = p.leaf(ast.KindBindingIdentifier, "this")
	} else {
		target = p.parseBindingTarget()
	}
	if p.ts() && p.currentKind() == token.QuestionMark {
		p.next()
		p.node(target).Flags |= ast.FlagOptional
	}
	if p.ts() && p.currentKind() == token.Colon {
		p.attachTypeAnnotation(target)
	}
	if p.currentKind() == token.Assign {
		p.next()
		value := p.parseAssignmentExpression()
		target = p.add(ast.Node{Kind: ast.KindAssignmentPattern, Span: p.span(start), A: target, B: value})
	}
	return p.add(ast.Node{Kind: ast.KindFormalParameter, Span: p.span(start), List: decorators, A: target, Flags: flags})
}

// parseFunctionBody parses a braced body with its directive prologue. A
// "use strict" directive applies to the scope that is currently open.
func (p *parser) parseFunctionBody() ast.NodeID {
	start := p.expect(token.LeftBrace)
	mark := len(p.buf)
	p.parseDirectives()
	p.parseStatementListInto(token.RightBrace)
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindFunctionBody, Span: p.span(start), List: p.finishList(mark)})
}

// parseMethodFunction parses the parameter list and body of an object or
// class method into an anonymous FunctionExpression.
func (p *parser) parseMethodFunction(async, generator bool, kind uint8, derived bool) ast.NodeID {
	start := p.currentOffset()
	var flags ast.Flags
	if async {
		flags |= ast.FlagAsync
	}
	if generator {
		flags |= ast.FlagGenerator
	}
	p.openFunctionScope(async, generator)
	p.scope.allowSuper = true
	p.scope.allowSuperCall = kind == ast.MethodConstructor && derived
	fn := p.parseFunctionRest(start, ast.KindFunctionExpression, ast.NoNode, flags)
	p.closeScope()

	params := p.node(fn).C
	switch kind {
	case ast.MethodGet:
		if p.paramCount(params) != 0 {
			p.errorAt(diag.InvalidAccessorArity, p.node(params).Span, "Getter must not have any formal parameters")
		}
	case ast.MethodSet:
		if p.paramCount(params) != 1 || p.hasRestParam(params) {
			p.errorAt(diag.InvalidAccessorArity, p.node(params).Span, "Setter must have exactly one formal parameter")
		}
	}
	return fn
}

// paramCount counts parameters, ignoring a TS 'this' parameter.
func (p *parser) paramCount(params ast.NodeID) int {
	n := 0
	for _, id := range p.b.ListOf(p.node(params).List) {
		if target := p.node(id).A; p.kind(id) == ast.KindFormalParameter && p.kind(target) == ast.KindBindingIdentifier && p.node(target).Text == "this" && p.ts() {
			continue
		}
		n++
	}
	return n
}

func (p *parser) hasRestParam(params ast.NodeID) bool {
	for _, id := range p.b.ListOf(p.node(params).List) {
		if p.kind(id) == ast.KindRestElement {
			return true
		}
	}
	return false
}
