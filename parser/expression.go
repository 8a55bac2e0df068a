package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser/scanner"
	"github.com/t14raptor/fastfront/token"
)

// isIdentifierLike reports whether kind may be used as an identifier. Whether
// the word is allowed in the current context is decided by checkIdentifier.
func (p *parser) isIdentifierLike(kind token.Token) bool {
	return kind == token.Identifier || token.UnreservedWord(kind)
}

// checkIdentifier reports context dependent restrictions on identifier names.
func (p *parser) checkIdentifier(name string, span ast.Span, binding bool) {
	switch {
	case name == "await" && (p.scope.allowAwait || p.scope.inStaticInit || p.opts.SourceType.Module):
		p.errorAt(diag.InvalidAwait, span, "'await' is not a valid identifier here")
	case name == "yield" && (p.scope.allowYield || p.scope.strict):
		p.errorAt(diag.InvalidYield, span, "'yield' is not a valid identifier here")
	case p.scope.strict && token.StrictReserved(name):
		p.errorAt(diag.ReservedWord, span, "Unexpected strict mode reserved word '%s'", name)
	case binding && p.scope.strict && (name == "eval" || name == "arguments"):
		p.errorAt(diag.ReservedWord, span, "Unexpected eval or arguments in strict mode")
	}
}

func (p *parser) parseIdentifierReference() ast.NodeID {
	p.checkIdentifier(p.token.Value, p.token.Span(), false)
	return p.leaf(ast.KindIdentifierReference, p.token.Value)
}

// parseIdentifierName parses any word, keywords included.
func (p *parser) parseIdentifierName() ast.NodeID {
	if !token.ID(p.currentKind()) {
		p.errorExpected(token.Identifier)
		return p.errorNode()
	}
	return p.leaf(ast.KindIdentifierName, p.token.Value)
}

func (p *parser) parsePrivateName() ast.NodeID {
	if !p.scope.inClass {
		p.error(diag.UnexpectedToken, "Private field '#%s' must be declared in an enclosing class", p.token.Value)
	}
	return p.leaf(ast.KindPrivateIdentifier, p.token.Value)
}

// startsExpression reports whether the current token can begin an expression.
func (p *parser) startsExpression() bool {
	switch kind := p.currentKind(); kind {
	case token.LeftParenthesis, token.LeftBracket, token.LeftBrace,
		token.Plus, token.Minus, token.Not, token.BitwiseNot, token.Increment, token.Decrement,
		token.Slash, token.QuotientAssign, token.String, token.Number,
		token.NoSubstitutionTemplate, token.TemplateHead, token.PrivateIdentifier, token.At,
		token.This, token.Super, token.Null, token.Boolean, token.Function, token.Class,
		token.New, token.Typeof, token.Void, token.Delete, token.Import:
		return true
	case token.Less:
		return p.jsx() || p.ts()
	default:
		return p.isIdentifierLike(kind)
	}
}

func (p *parser) parseExpression() ast.NodeID {
	start := p.currentOffset()
	left := p.parseAssignmentExpression()
	if p.currentKind() != token.Comma {
		return left
	}
	mark := len(p.buf)
	p.buf = append(p.buf, left)
	for p.optional(token.Comma) {
		p.buf = append(p.buf, p.parseAssignmentExpression())
	}
	return p.add(ast.Node{Kind: ast.KindSequenceExpression, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseAssignmentExpression() ast.NodeID {
	start := p.currentOffset()
	switch kind := p.currentKind(); {
	case kind == token.Yield && p.scope.allowYield:
		return p.parseYieldExpression()
	case kind == token.LeftParenthesis, kind == token.Less && p.ts():
		if arrow, ok := p.tryArrowFunction(start, false); ok {
			return arrow
		}
	case kind == token.Async:
		next := p.peek()
		switch {
		case next.OnNewLine:
		case next.Kind == token.Arrow:
			return p.parseSingleParamArrow(start, false)
		case next.Kind == token.LeftParenthesis, next.Kind == token.Less && p.ts():
			if arrow, ok := p.tryArrowFunction(start, true); ok {
				return arrow
			}
		case p.isIdentifierLike(next.Kind):
			if after := p.peekAt(2); after.Kind == token.Arrow && !after.OnNewLine {
				return p.parseSingleParamArrow(start, true)
			}
		}
	case p.isIdentifierLike(kind):
		if next := p.peek(); next.Kind == token.Arrow && !next.OnNewLine {
			return p.parseSingleParamArrow(start, false)
		}
	}

	left := p.parseConditionalExpression()
	op := p.currentKind()
	if !token.IsAssign(op) {
		return left
	}
	target := p.toAssignmentTarget(left, op == token.Assign)
	p.next()
	value := p.parseAssignmentExpression()
	return p.add(ast.Node{Kind: ast.KindAssignmentExpression, Op: op, Span: p.span(start), A: target, B: value})
}

// tryArrowFunction parses an arrow function head speculatively. It succeeds
// when the parameter list, and the return type if any, is followed by '=>'
// on the same line and nothing was reported on the way. Otherwise the parser
// is rewound to start.
func (p *parser) tryArrowFunction(start ast.Idx, async bool) (ast.NodeID, bool) {
	state := p.mark()
	if async {
		p.next()
	}
	p.openArrowScope(async)
	fail := func() (ast.NodeID, bool) {
		p.closeScope()
		p.restore(state)
		return ast.NoNode, false
	}

	var typeParams, returnType ast.NodeID
	if p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	if p.currentKind() != token.LeftParenthesis {
		return fail()
	}
	params := p.parseFormalParameters()
	if p.ts() && p.currentKind() == token.Colon {
		returnType = p.parseReturnTypeAnnotation()
	}
	if p.currentKind() != token.Arrow || p.token.OnNewLine || p.failedSince(state) {
		return fail()
	}
	arrow := p.parseArrowFunctionRest(start, typeParams, params, returnType, async)
	p.closeScope()
	return arrow, true
}

func (p *parser) parseSingleParamArrow(start ast.Idx, async bool) ast.NodeID {
	if async {
		p.next()
	}
	p.openArrowScope(async)
	id := p.parseBindingIdentifier()
	span := p.node(id).Span
	param := p.add(ast.Node{Kind: ast.KindFormalParameter, Span: span, A: id})
	params := p.add(ast.Node{Kind: ast.KindFormalParameters, Span: span, List: p.b.List([]ast.NodeID{param})})
	arrow := p.parseArrowFunctionRest(start, ast.NoNode, params, ast.NoNode, async)
	p.closeScope()
	return arrow
}

// parseArrowFunctionRest parses '=>' and the body. The arrow scope is open.
func (p *parser) parseArrowFunctionRest(start ast.Idx, typeParams, params, returnType ast.NodeID, async bool) ast.NodeID {
	p.expect(token.Arrow)
	var flags ast.Flags
	if async {
		flags |= ast.FlagAsync
	}
	var body ast.NodeID
	if p.currentKind() == token.LeftBrace {
		body = p.parseFunctionBody()
	} else {
		flags |= ast.FlagExpressionBody
		p.scope.allowIn = p.scope.outer.allowIn
		body = p.parseAssignmentExpression()
	}
	return p.add(ast.Node{
		Kind:  ast.KindArrowFunctionExpression,
		Span:  p.span(start),
		A:     typeParams,
		B:     params,
		C:     returnType,
		D:     body,
		Flags: flags,
	})
}

func (p *parser) parseYieldExpression() ast.NodeID {
	start := p.expect(token.Yield)
	if p.scope.inFuncParams {
		p.errorAt(diag.InvalidYield, p.span(start), "Yield expression not allowed in formal parameter")
	}
	var flags ast.Flags
	var argument ast.NodeID
	if !p.token.OnNewLine {
		if p.optional(token.Multiply) {
			flags |= ast.FlagDelegate
			argument = p.parseAssignmentExpression()
		} else if p.startsExpression() {
			argument = p.parseAssignmentExpression()
		}
	}
	return p.add(ast.Node{Kind: ast.KindYieldExpression, Span: p.span(start), A: argument, Flags: flags})
}

func (p *parser) parseConditionalExpression() ast.NodeID {
	start := p.currentOffset()
	test := p.parseBinaryExpressionOrHigher(PrecedenceLowest)
	if p.currentKind() != token.QuestionMark {
		return test
	}
	p.next()
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	consequent := p.parseAssignmentExpression()
	p.scope.allowIn = allowIn
	p.expect(token.Colon)
	alternate := p.parseAssignmentExpression()
	return p.add(ast.Node{Kind: ast.KindConditionalExpression, Span: p.span(start), A: test, B: consequent, C: alternate})
}

func (p *parser) parseBinaryExpressionOrHigher(minPrecedence Precedence) ast.NodeID {
	start := p.currentOffset()
	var lhs ast.NodeID
	if p.currentKind() == token.PrivateIdentifier {
		lhs = p.parsePrivateInExpression(minPrecedence)
	} else {
		lhs = p.parseUnaryExpression()
	}
	return p.parseBinaryExpressionRest(start, lhs, minPrecedence)
}

func (p *parser) parseBinaryExpressionRest(start ast.Idx, lhs ast.NodeID, minPrecedence Precedence) ast.NodeID {
	for {
		kind := p.currentKind()
		if p.ts() && !p.token.OnNewLine && (p.is("as") || p.is("satisfies")) {
			if PrecedenceCompare <= minPrecedence {
				break
			}
			lhs = p.parseTSAsExpression(start, lhs)
			continue
		}

		lbp := kindToPrecedence(kind)
		if lbp <= minPrecedence {
			break
		}
		if kind == token.In && !p.scope.allowIn {
			break
		}
		p.next()

		rhs := p.parseBinaryExpressionOrHigher(lbp ^ 1)
		p.checkBinaryOperands(kind, lhs, rhs, start)

		nodeKind := ast.KindBinaryExpression
		if isLogicalOperator(kind) {
			nodeKind = ast.KindLogicalExpression
		}
		lhs = p.add(ast.Node{Kind: nodeKind, Op: kind, Span: p.span(start), A: lhs, B: rhs})
	}
	return lhs
}

// checkBinaryOperands reports operator mixes that need parentheses.
// Parenthesized operands are ParenthesizedExpression nodes and pass.
func (p *parser) checkBinaryOperands(op token.Token, lhs, rhs ast.NodeID, start ast.Idx) {
	logicalOp := func(id ast.NodeID) token.Token {
		if p.kind(id) == ast.KindLogicalExpression {
			return p.node(id).Op
		}
		return token.Undetermined
	}
	switch op {
	case token.Coalesce:
		for _, side := range [2]ast.NodeID{lhs, rhs} {
			if o := logicalOp(side); o == token.LogicalAnd || o == token.LogicalOr {
				p.errorAt(diag.MixedCoalesce, p.span(start), "Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
				return
			}
		}
	case token.LogicalAnd, token.LogicalOr:
		if logicalOp(lhs) == token.Coalesce || logicalOp(rhs) == token.Coalesce {
			p.errorAt(diag.MixedCoalesce, p.span(start), "Logical expressions and coalesce expressions cannot be mixed. Wrap either by parentheses")
		}
	case token.Exponent:
		if k := p.kind(lhs); k == ast.KindUnaryExpression || k == ast.KindAwaitExpression || k == ast.KindTSTypeAssertion {
			p.errorAt(diag.UnaryBeforeExponent, p.node(lhs).Span, "Unary operator used immediately before exponentiation expression. Parenthesis must be used to disambiguate operator precedence")
		}
	}
}

func (p *parser) parsePrivateInExpression(minPrecedence Precedence) ast.NodeID {
	start := p.currentOffset()
	left := p.parsePrivateName()
	if p.currentKind() != token.In || PrecedenceCompare <= minPrecedence || !p.scope.allowIn {
		p.errorAt(diag.UnexpectedToken, p.node(left).Span, "Unexpected private name #%s", p.node(left).Text)
		return left
	}
	p.next()
	rhs := p.parseBinaryExpressionOrHigher(PrecedenceCompare)
	return p.add(ast.Node{Kind: ast.KindBinaryExpression, Op: token.In, Span: p.span(start), A: left, B: rhs})
}

func (p *parser) parseTSAsExpression(start ast.Idx, expr ast.NodeID) ast.NodeID {
	kind := ast.KindTSAsExpression
	if p.is("satisfies") {
		kind = ast.KindTSSatisfiesExpression
	}
	p.next()
	var typ ast.NodeID
	if p.currentKind() == token.Const {
		constStart := p.currentOffset()
		name := p.leaf(ast.KindIdentifierName, "const")
		typ = p.add(ast.Node{Kind: ast.KindTSTypeReference, Span: p.span(constStart), A: name})
	} else {
		typ = p.parseType()
	}
	return p.add(ast.Node{Kind: kind, Span: p.span(start), A: expr, B: typ})
}

func (p *parser) parseUnaryExpression() ast.NodeID {
	start := p.currentOffset()
	switch kind := p.currentKind(); kind {
	case token.Plus, token.Minus, token.Not, token.BitwiseNot, token.Delete, token.Void, token.Typeof:
		p.next()
		argument := p.parseUnaryExpression()
		if kind == token.Delete && p.scope.strict && p.kind(argument) == ast.KindIdentifierReference {
			p.errorAt(diag.ReservedWord, p.span(start), "Delete of an unqualified identifier in strict mode")
		}
		return p.add(ast.Node{Kind: ast.KindUnaryExpression, Op: kind, Span: p.span(start), A: argument})
	case token.Increment, token.Decrement:
		p.next()
		argument := p.toAssignmentTarget(p.parseUnaryExpression(), false)
		return p.add(ast.Node{Kind: ast.KindUpdateExpression, Op: kind, Span: p.span(start), A: argument, Flags: ast.FlagPrefix})
	case token.Await:
		if p.scope.allowAwait {
			return p.parseAwaitExpression()
		}
	case token.Less:
		if p.ts() && !p.jsx() {
			return p.parseTSTypeAssertion()
		}
	}

	expr := p.parseLeftHandSideExpressionAllowCall()
	if kind := p.currentKind(); (kind == token.Increment || kind == token.Decrement) && !p.token.OnNewLine {
		target := p.toAssignmentTarget(expr, false)
		p.next()
		return p.add(ast.Node{Kind: ast.KindUpdateExpression, Op: kind, Span: p.span(start), A: target})
	}
	return expr
}

func (p *parser) parseAwaitExpression() ast.NodeID {
	start := p.expect(token.Await)
	if p.scope.inFuncParams {
		p.errorAt(diag.InvalidAwait, p.span(start), "Illegal await-expression in formal parameters of async function")
	}
	argument := p.parseUnaryExpression()
	return p.add(ast.Node{Kind: ast.KindAwaitExpression, Span: p.span(start), A: argument})
}

// parseTSTypeAssertion parses the angle bracket form <T>expr.
func (p *parser) parseTSTypeAssertion() ast.NodeID {
	start := p.expect(token.Less)
	typ := p.parseType()
	p.expectGreater()
	expr := p.parseUnaryExpression()
	return p.add(ast.Node{Kind: ast.KindTSTypeAssertion, Span: p.span(start), A: typ, B: expr})
}

func (p *parser) parseLeftHandSideExpressionAllowCall() ast.NodeID {
	start := p.currentOffset()
	var left ast.NodeID
	switch p.currentKind() {
	case token.New:
		left = p.parseNewExpression()
	case token.Super:
		left = p.parseSuper()
	case token.Import:
		left = p.parseImportMetaOrCall()
	default:
		left = p.parsePrimaryExpression()
	}
	return p.parseCallTail(start, left, true)
}

// parseCallTail parses member accesses, calls, tagged templates and TS
// postfix forms after left. An optional chain is wrapped in a
// ChainExpression. Without allowCall the tail stops before '(' so a new
// expression can take its arguments.
func (p *parser) parseCallTail(start ast.Idx, left ast.NodeID, allowCall bool) ast.NodeID {
	inChain := false
loop:
	for {
		switch p.currentKind() {
		case token.Period:
			p.next()
			left = p.parseMemberName(start, left, 0)
		case token.QuestionDot:
			if !allowCall {
				p.error(diag.InvalidOptionalChain, "Invalid optional chain from new expression")
				break loop
			}
			inChain = true
			p.next()
			switch p.currentKind() {
			case token.LeftParenthesis:
				left = p.parseCall(start, left, ast.NoNode, ast.FlagOptional)
			case token.LeftBracket:
				left = p.parseComputedMember(start, left, ast.FlagOptional)
			case token.NoSubstitutionTemplate, token.TemplateHead:
				p.error(diag.InvalidOptionalChain, "Tagged template cannot be used in optional chain")
				left = p.parseTaggedTemplate(start, left, ast.NoNode)
			case token.Less:
				if !p.ts() {
					left = p.parseMemberName(start, left, ast.FlagOptional)
					continue
				}
				typeArgs := p.parseTypeArguments()
				left = p.parseCall(start, left, typeArgs, ast.FlagOptional)
			default:
				left = p.parseMemberName(start, left, ast.FlagOptional)
			}
		case token.LeftBracket:
			left = p.parseComputedMember(start, left, 0)
		case token.LeftParenthesis:
			if !allowCall {
				break loop
			}
			left = p.parseCall(start, left, ast.NoNode, 0)
		case token.NoSubstitutionTemplate, token.TemplateHead:
			if inChain {
				p.error(diag.InvalidOptionalChain, "Tagged template cannot be used in optional chain")
			}
			left = p.parseTaggedTemplate(start, left, ast.NoNode)
		case token.Not:
			if !p.ts() || p.token.OnNewLine {
				break loop
			}
			p.next()
			left = p.add(ast.Node{Kind: ast.KindTSNonNullExpression, Span: p.span(start), A: left})
		case token.Less:
			if !p.ts() || !allowCall {
				break loop
			}
			typeArgs, ok := p.tryTypeArgumentsInExpression()
			if !ok {
				break loop
			}
			switch p.currentKind() {
			case token.LeftParenthesis:
				left = p.parseCall(start, left, typeArgs, 0)
			case token.NoSubstitutionTemplate, token.TemplateHead:
				left = p.parseTaggedTemplate(start, left, typeArgs)
			default:
				left = p.add(ast.Node{Kind: ast.KindTSInstantiationExpression, Span: p.span(start), A: left, B: typeArgs})
			}
		default:
			break loop
		}
	}
	if inChain {
		left = p.add(ast.Node{Kind: ast.KindChainExpression, Span: p.span(start), A: left})
	}
	return left
}

func (p *parser) parseMemberName(start ast.Idx, object ast.NodeID, flags ast.Flags) ast.NodeID {
	var property ast.NodeID
	if p.currentKind() == token.PrivateIdentifier {
		property = p.parsePrivateName()
	} else {
		property = p.parseIdentifierName()
	}
	return p.add(ast.Node{Kind: ast.KindMemberExpression, Span: p.span(start), A: object, B: property, Flags: flags})
}

func (p *parser) parseComputedMember(start ast.Idx, object ast.NodeID, flags ast.Flags) ast.NodeID {
	p.expect(token.LeftBracket)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	property := p.parseExpression()
	p.scope.allowIn = allowIn
	p.expect(token.RightBracket)
	return p.add(ast.Node{Kind: ast.KindComputedMemberExpression, Span: p.span(start), A: object, B: property, Flags: flags})
}

func (p *parser) parseCall(start ast.Idx, callee, typeArgs ast.NodeID, flags ast.Flags) ast.NodeID {
	args := p.parseArguments()
	return p.add(ast.Node{Kind: ast.KindCallExpression, Span: p.span(start), A: callee, B: typeArgs, List: args, Flags: flags})
}

func (p *parser) parseTaggedTemplate(start ast.Idx, tag, typeArgs ast.NodeID) ast.NodeID {
	quasi := p.parseTemplateLiteral(true)
	return p.add(ast.Node{Kind: ast.KindTaggedTemplateExpression, Span: p.span(start), A: tag, B: typeArgs, C: quasi})
}

// tryTypeArgumentsInExpression parses f<T> speculatively. The arguments are
// kept only if what follows cannot continue a comparison.
func (p *parser) tryTypeArgumentsInExpression() (ast.NodeID, bool) {
	state := p.mark()
	args := p.parseTypeArguments()
	if p.failedSince(state) || !p.canFollowTypeArguments() {
		p.restore(state)
		return ast.NoNode, false
	}
	return args, true
}

func (p *parser) canFollowTypeArguments() bool {
	switch p.currentKind() {
	case token.LeftParenthesis, token.NoSubstitutionTemplate, token.TemplateHead:
		return true
	case token.Less, token.Greater, token.Plus, token.Minus:
		return false
	}
	return p.token.OnNewLine || kindToPrecedence(p.currentKind()) > 0 || !p.startsExpression()
}

func (p *parser) parseArguments() ast.ListRef {
	p.expect(token.LeftParenthesis)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	mark := len(p.buf)
	for p.currentKind() != token.RightParenthesis && p.currentKind() != token.Eof {
		p.buf = append(p.buf, p.parseSpreadOrAssignment())
		if p.currentKind() != token.RightParenthesis && !p.optional(token.Comma) {
			break
		}
	}
	p.scope.allowIn = allowIn
	p.expect(token.RightParenthesis)
	return p.finishList(mark)
}

func (p *parser) parseSpreadOrAssignment() ast.NodeID {
	if p.currentKind() != token.Ellipsis {
		return p.parseAssignmentExpression()
	}
	start := p.currentOffset()
	p.next()
	argument := p.parseAssignmentExpression()
	return p.add(ast.Node{Kind: ast.KindSpreadElement, Span: p.span(start), A: argument})
}

func (p *parser) parseNewExpression() ast.NodeID {
	start := p.expect(token.New)
	if p.currentKind() == token.Period {
		meta := p.add(ast.Node{Kind: ast.KindIdentifierName, Span: ast.Span{Start: start, End: start + 3}, Text: "new"})
		p.next()
		var property ast.NodeID
		if p.is("target") {
			property = p.leaf(ast.KindIdentifierName, "target")
		} else {
			p.errorUnexpectedToken()
			property = p.errorNode()
		}
		if !p.scope.allowNewTarget {
			p.errorAt(diag.InvalidNewTarget, p.span(start), "new.target expression is not allowed here")
		}
		return p.add(ast.Node{Kind: ast.KindMetaProperty, Span: p.span(start), A: meta, B: property})
	}

	calleeStart := p.currentOffset()
	var callee ast.NodeID
	switch p.currentKind() {
	case token.New:
		callee = p.parseNewExpression()
	case token.Super:
		callee = p.parseSuper()
	case token.Import:
		p.error(diag.UnexpectedToken, "Cannot use new with import")
		callee = p.parseImportMetaOrCall()
	default:
		callee = p.parsePrimaryExpression()
	}
	callee = p.parseCallTail(calleeStart, callee, false)

	var typeArgs ast.NodeID
	if p.ts() && p.currentKind() == token.Less {
		typeArgs, _ = p.tryTypeArgumentsInExpression()
	}
	var args ast.ListRef
	if p.currentKind() == token.LeftParenthesis {
		args = p.parseArguments()
	}
	return p.add(ast.Node{Kind: ast.KindNewExpression, Span: p.span(start), A: callee, B: typeArgs, List: args})
}

func (p *parser) parseSuper() ast.NodeID {
	id := p.leaf(ast.KindSuper, "")
	span := p.node(id).Span
	switch p.currentKind() {
	case token.LeftParenthesis:
		if !p.scope.allowSuperCall {
			p.errorAt(diag.UnexpectedToken, span, "'super' keyword unexpected here")
		}
	case token.Period, token.LeftBracket:
		if !p.scope.allowSuper {
			p.errorAt(diag.UnexpectedToken, span, "'super' keyword unexpected here")
		}
	default:
		p.errorAt(diag.UnexpectedToken, span, "'super' keyword unexpected here")
	}
	return id
}

// parseImportMetaOrCall parses import.meta or a dynamic import(...).
func (p *parser) parseImportMetaOrCall() ast.NodeID {
	start := p.expect(token.Import)
	if p.currentKind() == token.Period {
		meta := p.add(ast.Node{Kind: ast.KindIdentifierName, Span: ast.Span{Start: start, End: start + 6}, Text: "import"})
		p.next()
		var property ast.NodeID
		if p.is("meta") {
			property = p.leaf(ast.KindIdentifierName, "meta")
		} else {
			p.errorUnexpectedToken()
			property = p.errorNode()
		}
		if !p.opts.SourceType.Module {
			p.errorAt(diag.ModuleSyntaxInScript, p.span(start), "Cannot use 'import.meta' outside a module")
		}
		return p.add(ast.Node{Kind: ast.KindMetaProperty, Span: p.span(start), A: meta, B: property})
	}

	p.expect(token.LeftParenthesis)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	source := p.parseAssignmentExpression()
	var options ast.NodeID
	if p.optional(token.Comma) && p.currentKind() != token.RightParenthesis {
		options = p.parseAssignmentExpression()
		p.optional(token.Comma)
	}
	p.scope.allowIn = allowIn
	p.expect(token.RightParenthesis)
	return p.add(ast.Node{Kind: ast.KindImportExpression, Span: p.span(start), A: source, B: options})
}

func (p *parser) parsePrimaryExpression() ast.NodeID {
	start := p.currentOffset()
	switch p.currentKind() {
	case token.This:
		return p.leaf(ast.KindThisExpression, "")
	case token.Null:
		return p.leaf(ast.KindNullLiteral, "")
	case token.Boolean:
		value := p.token.Value == "true"
		id := p.leaf(ast.KindBooleanLiteral, "")
		if value {
			p.node(id).Variant = 1
		}
		return id
	case token.Number:
		return p.parseNumericLiteral()
	case token.String:
		return p.parseStringLiteral()
	case token.Slash, token.QuotientAssign:
		return p.parseRegExpLiteral()
	case token.NoSubstitutionTemplate, token.TemplateHead:
		return p.parseTemplateLiteral(false)
	case token.LeftParenthesis:
		return p.parseParenthesizedExpression()
	case token.LeftBracket:
		return p.parseArrayLiteral()
	case token.LeftBrace:
		return p.parseObjectLiteral()
	case token.Function:
		return p.parseFunctionExpression(start, false)
	case token.Async:
		if next := p.peek(); next.Kind == token.Function && !next.OnNewLine {
			p.next()
			return p.parseFunctionExpression(start, true)
		}
	case token.Class:
		return p.parseClass(start, ast.ListRef{}, 0, ast.KindClassExpression)
	case token.At:
		decorators := p.parseDecorators()
		if p.currentKind() != token.Class {
			return p.unexpected()
		}
		return p.parseClass(start, decorators, 0, ast.KindClassExpression)
	case token.Less:
		if p.jsx() {
			return p.parseJSXElement(jsxInExpression)
		}
	}
	if p.isIdentifierLike(p.currentKind()) {
		return p.parseIdentifierReference()
	}
	return p.unexpected()
}

func (p *parser) parseNumericLiteral() ast.NodeID {
	tok := p.token
	if tok.Flags&scanner.FlagLegacyOctal != 0 && p.scope.strict {
		p.errorAt(diag.InvalidNumber, tok.Span(), "Octal literals are not allowed in strict mode")
	}
	kind, text := ast.KindNumericLiteral, ""
	if tok.Flags&scanner.FlagBigInt != 0 {
		kind, text = ast.KindBigIntLiteral, tok.Value
	}
	id := p.leaf(kind, text)
	n := p.node(id)
	n.Num = tok.Number
	n.Variant = tok.Base()
	return id
}

func (p *parser) parseStringLiteral() ast.NodeID {
	tok := p.token
	if tok.Flags&scanner.FlagLegacyOctalEscape != 0 && p.scope.strict {
		p.errorAt(diag.InvalidEscape, tok.Span(), "Octal escape sequences are not allowed in strict mode")
	}
	return p.leaf(ast.KindStringLiteral, tok.Value)
}

func (p *parser) parseRegExpLiteral() ast.NodeID {
	p.scanner.ReScanRegExp()
	p.sync()
	flags := p.token.RegExpFlags
	id := p.leaf(ast.KindRegExpLiteral, p.token.Value)
	p.node(id).Variant = flags
	return id
}

func (p *parser) parseTemplateLiteral(tagged bool) ast.NodeID {
	start := p.currentOffset()
	mark := len(p.buf)
	for {
		tok := p.token
		tail := tok.Kind == token.NoSubstitutionTemplate || tok.Kind == token.TemplateTail
		p.buf = append(p.buf, p.templateElement(tok, tail, tagged))
		p.next()
		if tail {
			break
		}
		allowIn := p.scope.allowIn
		p.scope.allowIn = true
		p.buf = append(p.buf, p.parseExpression())
		p.scope.allowIn = allowIn
		if p.currentKind() != token.RightBrace {
			p.errorExpected(token.RightBrace)
			break
		}
		p.scanner.ReScanTemplate()
		p.sync()
	}
	return p.add(ast.Node{Kind: ast.KindTemplateLiteral, Span: p.span(start), List: p.finishList(mark)})
}

// templateElement builds the node for one template piece. Its span is the
// raw text between the delimiters.
func (p *parser) templateElement(tok scanner.Token, tail, tagged bool) ast.NodeID {
	raw := tok.TemplateRaw(p.scanner)
	start := tok.Idx0 + 1
	span := ast.Span{Start: start, End: start + ast.Idx(len(raw))}
	var flags ast.Flags
	if tail {
		flags |= ast.FlagTail
	}
	cooked := tok.Value
	if tok.Flags&scanner.FlagInvalidEscape != 0 {
		flags |= ast.FlagInvalidCooked
		cooked = ""
		if !tagged {
			p.errorAt(diag.InvalidEscape, span, "Invalid escape sequence in template")
		}
	}
	return p.add(ast.Node{Kind: ast.KindTemplateElement, Span: span, Text: cooked, Flags: flags})
}

func (p *parser) parseParenthesizedExpression() ast.NodeID {
	start := p.expect(token.LeftParenthesis)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	var expr ast.NodeID
	if p.currentKind() == token.RightParenthesis {
		expr = p.unexpected()
	} else {
		expr = p.parseExpression()
	}
	p.scope.allowIn = allowIn
	p.expect(token.RightParenthesis)
	return p.add(ast.Node{Kind: ast.KindParenthesizedExpression, Span: p.span(start), A: expr})
}

func (p *parser) parseArrayLiteral() ast.NodeID {
	start := p.expect(token.LeftBracket)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	mark := len(p.buf)
	for p.currentKind() != token.RightBracket && p.currentKind() != token.Eof {
		if p.currentKind() == token.Comma {
			p.buf = append(p.buf, p.elision())
			continue
		}
		p.buf = append(p.buf, p.parseSpreadOrAssignment())
		if p.currentKind() != token.RightBracket && !p.optional(token.Comma) {
			break
		}
	}
	p.scope.allowIn = allowIn
	p.expect(token.RightBracket)
	return p.add(ast.Node{Kind: ast.KindArrayExpression, Span: p.span(start), List: p.finishList(mark)})
}

// elision consumes a ',' that leaves a hole and returns a zero width node
// at the comma.
func (p *parser) elision() ast.NodeID {
	at := p.currentOffset()
	p.next()
	return p.add(ast.Node{Kind: ast.KindElision, Span: ast.Span{Start: at, End: at}})
}

func (p *parser) parseObjectLiteral() ast.NodeID {
	start := p.expect(token.LeftBrace)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	mark := len(p.buf)
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		p.buf = append(p.buf, p.parseObjectMember())
		if p.currentKind() != token.RightBrace && !p.optional(token.Comma) {
			break
		}
	}
	p.scope.allowIn = allowIn
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindObjectExpression, Span: p.span(start), List: p.finishList(mark)})
}

// propertyKeyFollows reports whether the token after a modifier word such as
// get, set, async or static starts a property key.
func (p *parser) propertyKeyFollows(sameLine bool) bool {
	next := p.peek()
	if sameLine && next.OnNewLine {
		return false
	}
	switch next.Kind {
	case token.LeftBracket, token.String, token.Number, token.PrivateIdentifier, token.Multiply:
		return true
	}
	return token.ID(next.Kind)
}

func (p *parser) parseObjectMember() ast.NodeID {
	start := p.currentOffset()
	if p.currentKind() == token.Ellipsis {
		p.next()
		argument := p.parseAssignmentExpression()
		return p.add(ast.Node{Kind: ast.KindSpreadElement, Span: p.span(start), A: argument})
	}

	async, generator := false, false
	variant := ast.PropInit
	if p.currentKind() == token.Async && p.propertyKeyFollows(true) {
		async = true
		p.next()
	}
	if p.optional(token.Multiply) {
		generator = true
	}
	if !async && !generator && (p.is("get") || p.is("set")) && p.propertyKeyFollows(false) {
		variant = ast.PropGet
		if p.is("set") {
			variant = ast.PropSet
		}
		p.next()
	}

	keyTok := p.token
	key, computed := p.parsePropertyKey()
	if p.kind(key) == ast.KindPrivateIdentifier {
		p.errorAt(diag.UnexpectedToken, p.node(key).Span, "Private names are not allowed in object literals")
	}
	var flags ast.Flags
	if computed {
		flags |= ast.FlagComputed
	}

	switch {
	case async || generator || variant != ast.PropInit ||
		p.currentKind() == token.LeftParenthesis || p.currentKind() == token.Less && p.ts():
		methodKind := ast.MethodMethod
		switch variant {
		case ast.PropGet:
			methodKind = ast.MethodGet
		case ast.PropSet:
			methodKind = ast.MethodSet
		default:
			flags |= ast.FlagMethod
		}
		fn := p.parseMethodFunction(async, generator, methodKind, false)
		return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), A: key, B: fn, Variant: variant, Flags: flags})

	case p.currentKind() == token.Colon:
		p.next()
		value := p.parseAssignmentExpression()
		return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), A: key, B: value, Flags: flags})

	case !computed && p.isIdentifierLike(keyTok.Kind):
		p.checkIdentifier(keyTok.Value, keyTok.Span(), false)
		value := key
		p.node(value).Kind = ast.KindIdentifierReference
		if p.currentKind() == token.Assign {
			p.next()
			init := p.parseAssignmentExpression()
			value = p.add(ast.Node{Kind: ast.KindAssignmentExpression, Op: token.Assign, Span: p.span(start), A: key, B: init})
			p.coverInit = append(p.coverInit, value)
		}
		return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), B: value, Flags: flags | ast.FlagShorthand})
	}

	p.errorExpected(token.Colon)
	return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), A: key, B: p.errorNode(), Flags: flags})
}

// parsePropertyKey parses a literal, identifier, private or computed key.
func (p *parser) parsePropertyKey() (ast.NodeID, bool) {
	switch kind := p.currentKind(); {
	case kind == token.LeftBracket:
		p.next()
		allowIn := p.scope.allowIn
		p.scope.allowIn = true
		key := p.parseAssignmentExpression()
		p.scope.allowIn = allowIn
		p.expect(token.RightBracket)
		return key, true
	case kind == token.String:
		return p.parseStringLiteral(), false
	case kind == token.Number:
		return p.parseNumericLiteral(), false
	case kind == token.PrivateIdentifier:
		return p.parsePrivateName(), false
	case token.ID(kind):
		return p.leaf(ast.KindIdentifierName, p.token.Value), false
	}
	return p.unexpected(), false
}
