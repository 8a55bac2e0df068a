package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

func (p *parser) parseClassDeclaration(start ast.Idx, decorators ast.ListRef, flags ast.Flags) ast.NodeID {
	class := p.parseClass(start, decorators, flags|p.declareFlag(), ast.KindClassDeclaration)
	if n := p.node(class); n.A == ast.NoNode {
		p.errorAt(diag.ExpectedToken, ast.Span{Start: start, End: start}, "A class declaration requires a name")
	}
	return class
}

// parseClass parses a class declaration or expression from the 'class'
// keyword on. All parts of a class are strict mode code.
func (p *parser) parseClass(start ast.Idx, decorators ast.ListRef, flags ast.Flags, kind ast.Kind) ast.NodeID {
	p.expect(token.Class)
	strict := p.scope.strict
	p.scope.strict = true
	defer func() { p.scope.strict = strict }()

	var name, typeParams, superClass, implements ast.NodeID
	if p.isIdentifierLike(p.currentKind()) && !(p.ts() && p.is("implements")) {
		name = p.parseBindingIdentifier()
	}
	if p.ts() && p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	if p.optional(token.Extends) {
		superStart := p.currentOffset()
		superClass = p.parseLeftHandSideExpressionAllowCall()
		if p.ts() && p.currentKind() == token.Less {
			typeArgs := p.parseTypeArguments()
			superClass = p.add(ast.Node{Kind: ast.KindTSInstantiationExpression, Span: p.span(superStart), A: superClass, B: typeArgs})
		}
	}
	if p.ts() && p.is("implements") {
		implStart := p.currentOffset()
		p.next()
		list := p.parseHeritageList()
		implements = p.add(ast.Node{Kind: ast.KindTSClassImplements, Span: p.span(implStart), List: list})
	}

	p.openScope()
	p.scope.inClass = true
	body := p.parseClassBody(superClass != ast.NoNode)
	p.closeScope()

	return p.add(ast.Node{
		Kind:  kind,
		Span:  p.span(start),
		List:  decorators,
		A:     name,
		B:     typeParams,
		C:     superClass,
		D:     implements,
		E:     body,
		Flags: flags,
	})
}

func (p *parser) parseClassBody(derived bool) ast.NodeID {
	start := p.expect(token.LeftBrace)
	mark := len(p.buf)
	hasConstructor := false
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		if p.optional(token.Semicolon) {
			continue
		}
		before := p.currentOffset()
		p.buf = append(p.buf, p.parseClassMember(derived, &hasConstructor))
		if p.currentOffset() == before {
			p.errorUnexpectedToken()
			p.next()
		}
	}
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindClassBody, Span: p.span(start), List: p.finishList(mark)})
}

// classModifiers maps modifier words to the flags they set on a member.
var classModifiers = map[string]ast.Flags{
	"public":    ast.FlagPublic,
	"private":   ast.FlagPrivate,
	"protected": ast.FlagProtected,
	"readonly":  ast.FlagReadonly,
	"abstract":  ast.FlagAbstract,
	"override":  ast.FlagOverride,
	"declare":   ast.FlagDeclare,
}

// parseClassModifiers consumes static, accessor and TS modifiers. A word is
// only a modifier when a member name follows it.
func (p *parser) parseClassModifiers() ast.Flags {
	var flags ast.Flags
	for {
		var f ast.Flags
		switch {
		case p.currentKind() == token.Static:
			f = ast.FlagStatic
		case p.is("accessor"):
			f = ast.FlagAccessor
		case p.ts() && p.currentKind() == token.Identifier && !p.token.HasEscape:
			f = classModifiers[p.token.Value]
		}
		if f == 0 || !p.propertyKeyFollows(f == ast.FlagAccessor) {
			return flags
		}
		if flags&f != 0 {
			p.error(diag.UnexpectedToken, "'%s' modifier already seen", p.token.Value)
		}
		flags |= f
		p.next()
	}
}

func isConstructorKey(n *ast.Node) bool {
	return (n.Kind == ast.KindIdentifierName || n.Kind == ast.KindStringLiteral) && n.Text == "constructor"
}

func (p *parser) parseClassMember(derived bool, hasConstructor *bool) ast.NodeID {
	start := p.currentOffset()
	if p.currentKind() == token.Static && p.peek().Kind == token.LeftBrace {
		return p.parseStaticBlock()
	}

	var decorators ast.ListRef
	if p.currentKind() == token.At {
		decorators = p.parseDecorators()
	}
	flags := p.parseClassModifiers()

	if p.ts() && p.currentKind() == token.LeftBracket && p.isIndexSignature() {
		return p.parseIndexSignature(start, flags&(ast.FlagStatic|ast.FlagReadonly))
	}

	async, generator := false, false
	variant := ast.MethodMethod
	if p.currentKind() == token.Async && p.propertyKeyFollows(true) {
		async = true
		p.next()
	}
	if p.optional(token.Multiply) {
		generator = true
	}
	if !async && !generator && (p.is("get") || p.is("set")) && p.propertyKeyFollows(false) {
		variant = ast.MethodGet
		if p.is("set") {
			variant = ast.MethodSet
		}
		p.next()
	}

	key, computed := p.parsePropertyKey()
	if computed {
		flags |= ast.FlagComputed
	}
	keyNode := p.node(key)
	if keyNode.Kind == ast.KindPrivateIdentifier && keyNode.Text == "constructor" {
		p.errorAt(diag.InvalidConstructor, keyNode.Span, "Classes may not have a private field named '#constructor'")
	}
	isConstructor := !computed && flags&ast.FlagStatic == 0 && isConstructorKey(keyNode)

	if p.ts() {
		if p.currentKind() == token.QuestionMark {
			flags |= ast.FlagOptional
			p.next()
		} else if p.currentKind() == token.Not && !p.token.OnNewLine {
			flags |= ast.FlagDefinite
			p.next()
		}
	}

	if p.currentKind() == token.LeftParenthesis || p.currentKind() == token.Less && p.ts() {
		if isConstructor {
			switch {
			case variant != ast.MethodMethod:
				p.errorAt(diag.InvalidConstructor, keyNode.Span, "Class constructor may not be an accessor")
			case async:
				p.errorAt(diag.InvalidConstructor, keyNode.Span, "Class constructor may not be an async method")
			case generator:
				p.errorAt(diag.InvalidConstructor, keyNode.Span, "Class constructor may not be a generator")
			default:
				variant = ast.MethodConstructor
			}
		}
		fn := p.parseMethodFunction(async, generator, variant, derived)
		if variant == ast.MethodConstructor && p.node(fn).E != ast.NoNode {
			if *hasConstructor {
				p.errorAt(diag.DuplicateConstructor, keyNode.Span, "A class may only have one constructor")
			}
			*hasConstructor = true
		}
		return p.add(ast.Node{
			Kind:    ast.KindMethodDefinition,
			Span:    p.span(start),
			List:    decorators,
			A:       key,
			B:       fn,
			Variant: variant,
			Flags:   flags,
		})
	}

	if async || generator || variant != ast.MethodMethod {
		p.errorExpected(token.LeftParenthesis)
	}
	if isConstructor {
		p.errorAt(diag.InvalidConstructor, keyNode.Span, "Classes may not have a field named 'constructor'")
	}
	var annotation, value ast.NodeID
	if p.ts() && p.currentKind() == token.Colon {
		annotation = p.parseTypeAnnotation()
	}
	if p.optional(token.Assign) {
		value = p.parseFieldInitializer()
	}
	p.semicolon()
	return p.add(ast.Node{
		Kind:  ast.KindPropertyDefinition,
		Span:  p.span(start),
		List:  decorators,
		A:     key,
		B:     annotation,
		C:     value,
		Flags: flags,
	})
}

// parseFieldInitializer parses a class field value. It behaves like a method
// body: super property access and new.target are allowed, await and yield
// are not.
func (p *parser) parseFieldInitializer() ast.NodeID {
	p.openScope()
	p.scope.allowAwait = false
	p.scope.allowYield = false
	p.scope.allowSuper = true
	p.scope.allowSuperCall = false
	p.scope.allowNewTarget = true
	value := p.parseAssignmentExpression()
	p.closeScope()
	return value
}

func (p *parser) parseStaticBlock() ast.NodeID {
	start := p.expect(token.Static)
	p.expect(token.LeftBrace)
	p.openScope()
	p.scope.inStaticInit = true
	p.scope.allowAwait = false
	p.scope.allowYield = false
	p.scope.allowSuper = true
	p.scope.allowSuperCall = false
	p.scope.allowNewTarget = true
	mark := len(p.buf)
	p.parseStatementListInto(token.RightBrace)
	p.closeScope()
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindStaticBlock, Span: p.span(start), List: p.finishList(mark)})
}

// parseDecorators parses a run of '@' decorators. A decorator is either a
// parenthesized expression or a member chain with an optional call.
func (p *parser) parseDecorators() ast.ListRef {
	mark := len(p.buf)
	for p.currentKind() == token.At {
		start := p.currentOffset()
		p.next()
		var expr ast.NodeID
		if p.currentKind() == token.LeftParenthesis {
			expr = p.parseParenthesizedExpression()
		} else {
			exprStart := p.currentOffset()
			if p.isIdentifierLike(p.currentKind()) {
				expr = p.parseIdentifierReference()
			} else {
				expr = p.unexpected()
			}
			for p.optional(token.Period) {
				expr = p.parseMemberName(exprStart, expr, 0)
			}
			if p.currentKind() == token.LeftParenthesis {
				expr = p.parseCall(exprStart, expr, ast.NoNode, 0)
			}
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindDecorator, Span: p.span(start), A: expr}))
	}
	return p.finishList(mark)
}
