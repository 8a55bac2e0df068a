package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser/scanner"
	"github.com/t14raptor/fastfront/token"
)

// keywordTypes are the predefined type names that become TSKeywordType.
var keywordTypes = map[string]bool{
	"any":       true,
	"unknown":   true,
	"number":    true,
	"bigint":    true,
	"boolean":   true,
	"string":    true,
	"symbol":    true,
	"undefined": true,
	"never":     true,
	"object":    true,
	"intrinsic": true,
}

// expectGreater closes a type parameter or argument list, splitting tokens
// such as '>>' or '>=' that the scanner produced greedily.
func (p *parser) expectGreater() {
	p.scanner.ReScanGreater()
	p.sync()
	p.expect(token.Greater)
}

func (p *parser) parseTypeAnnotation() ast.NodeID {
	start := p.expect(token.Colon)
	typ := p.parseType()
	return p.add(ast.Node{Kind: ast.KindTSTypeAnnotation, Span: p.span(start), A: typ})
}

// parseReturnTypeAnnotation is parseTypeAnnotation for return positions,
// where type predicates are allowed.
func (p *parser) parseReturnTypeAnnotation() ast.NodeID {
	start := p.expect(token.Colon)
	typ := p.parseTypeOrTypePredicate()
	return p.add(ast.Node{Kind: ast.KindTSTypeAnnotation, Span: p.span(start), A: typ})
}

func (p *parser) parsePredicateParameter() ast.NodeID {
	if p.currentKind() == token.This {
		return p.leaf(ast.KindTSThisType, "")
	}
	return p.leaf(ast.KindIdentifierName, p.token.Value)
}

func (p *parser) parseTypeOrTypePredicate() ast.NodeID {
	start := p.currentOffset()
	if p.is("asserts") {
		if next := p.peek(); !next.OnNewLine && (p.isIdentifierLike(next.Kind) || next.Kind == token.This) {
			p.next()
			param := p.parsePredicateParameter()
			var annotation ast.NodeID
			if p.is("is") && !p.token.OnNewLine {
				annStart := p.currentOffset()
				p.next()
				typ := p.parseType()
				annotation = p.add(ast.Node{Kind: ast.KindTSTypeAnnotation, Span: p.span(annStart), A: typ})
			}
			return p.add(ast.Node{Kind: ast.KindTSTypePredicate, Span: p.span(start), A: param, B: annotation, Flags: ast.FlagAsserts})
		}
	}
	if kind := p.currentKind(); p.isIdentifierLike(kind) || kind == token.This {
		if next := p.peek(); !next.OnNewLine && next.Kind == token.Identifier && next.Value == "is" {
			param := p.parsePredicateParameter()
			annStart := p.currentOffset()
			p.next()
			typ := p.parseType()
			annotation := p.add(ast.Node{Kind: ast.KindTSTypeAnnotation, Span: p.span(annStart), A: typ})
			return p.add(ast.Node{Kind: ast.KindTSTypePredicate, Span: p.span(start), A: param, B: annotation})
		}
	}
	return p.parseType()
}

// parseTypeNoConditional parses a type in which a top level conditional type
// is not allowed, as in the extends clause of a conditional.
func (p *parser) parseTypeNoConditional() ast.NodeID {
	p.noConditional = true
	return p.parseType()
}

func (p *parser) parseType() ast.NodeID {
	noConditional := p.noConditional
	p.noConditional = false
	defer func() { p.noConditional = noConditional }()

	start := p.currentOffset()
	if fn, ok := p.tryFunctionType(start); ok {
		return fn
	}
	check := p.parseUnionType()
	if noConditional || p.currentKind() != token.Extends || p.token.OnNewLine {
		return check
	}
	p.next()
	extends := p.parseTypeNoConditional()
	p.expect(token.QuestionMark)
	trueType := p.parseType()
	p.expect(token.Colon)
	falseType := p.parseType()
	return p.add(ast.Node{Kind: ast.KindTSConditionalType, Span: p.span(start), A: check, B: extends, C: trueType, D: falseType})
}

// tryFunctionType parses function and constructor types. A '(' only starts
// a function type when a parameter list followed by '=>' parses cleanly.
func (p *parser) tryFunctionType(start ast.Idx) (ast.NodeID, bool) {
	switch {
	case p.currentKind() == token.Less:
		typeParams := p.parseTypeParameters()
		params := p.parseFormalParameters()
		return p.parseFunctionTypeRest(start, ast.KindTSFunctionType, typeParams, params, 0), true
	case p.currentKind() == token.LeftParenthesis:
		state := p.mark()
		params := p.parseFormalParameters()
		if p.currentKind() == token.Arrow && !p.failedSince(state) {
			return p.parseFunctionTypeRest(start, ast.KindTSFunctionType, ast.NoNode, params, 0), true
		}
		p.restore(state)
	case p.currentKind() == token.New:
		p.next()
		return p.parseConstructorType(start, 0), true
	case p.is("abstract") && p.peek().Kind == token.New:
		p.next()
		p.next()
		return p.parseConstructorType(start, ast.FlagAbstract), true
	}
	return ast.NoNode, false
}

func (p *parser) parseConstructorType(start ast.Idx, flags ast.Flags) ast.NodeID {
	var typeParams ast.NodeID
	if p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	params := p.parseFormalParameters()
	return p.parseFunctionTypeRest(start, ast.KindTSConstructorType, typeParams, params, flags)
}

func (p *parser) parseFunctionTypeRest(start ast.Idx, kind ast.Kind, typeParams, params ast.NodeID, flags ast.Flags) ast.NodeID {
	p.expect(token.Arrow)
	retStart := p.currentOffset()
	ret := p.parseTypeOrTypePredicate()
	annotation := p.add(ast.Node{Kind: ast.KindTSTypeAnnotation, Span: p.span(retStart), A: ret})
	return p.add(ast.Node{Kind: kind, Span: p.span(start), A: typeParams, B: params, C: annotation, Flags: flags})
}

// parseUnionType and parseIntersectionType accept a leading separator, as in
// type T = | A | B.
func (p *parser) parseUnionType() ast.NodeID {
	return p.parseTypeList(token.Or, ast.KindTSUnionType, p.parseIntersectionType)
}

func (p *parser) parseIntersectionType() ast.NodeID {
	return p.parseTypeList(token.And, ast.KindTSIntersectionType, p.parseTypeOperator)
}

func (p *parser) parseTypeList(sep token.Token, kind ast.Kind, parseElem func() ast.NodeID) ast.NodeID {
	start := p.currentOffset()
	leading := p.optional(sep)
	first := parseElem()
	if !leading && p.currentKind() != sep {
		return first
	}
	mark := len(p.buf)
	p.buf = append(p.buf, first)
	for p.optional(sep) {
		p.buf = append(p.buf, parseElem())
	}
	if len(p.buf)-mark == 1 {
		p.buf = p.buf[:mark]
		return first
	}
	return p.add(ast.Node{Kind: kind, Span: p.span(start), List: p.finishList(mark)})
}

// typeFollows reports whether the token after a prefix word such as keyof
// starts a type, which makes the word an operator rather than a type name.
func (p *parser) typeFollows() bool {
	next := p.peek()
	switch next.Kind {
	case token.Comma, token.RightParenthesis, token.RightBracket, token.RightBrace,
		token.Greater, token.Assign, token.Semicolon, token.Or, token.And,
		token.QuestionMark, token.Colon, token.Period, token.Eof, token.Extends:
		return false
	}
	return !next.OnNewLine || p.isIdentifierLike(next.Kind)
}

func (p *parser) parseTypeOperator() ast.NodeID {
	start := p.currentOffset()
	switch {
	case (p.is("keyof") || p.is("unique") || p.is("readonly")) && p.typeFollows():
		op := p.token.Value
		p.next()
		typ := p.parseTypeOperator()
		return p.add(ast.Node{Kind: ast.KindTSTypeOperator, Span: p.span(start), Text: op, A: typ})
	case p.is("infer") && p.isIdentifierLike(p.peek().Kind):
		p.next()
		paramStart := p.currentOffset()
		name := p.parseBindingIdentifier()
		var constraint ast.NodeID
		if p.currentKind() == token.Extends {
			state := p.mark()
			p.next()
			constraint = p.parseTypeNoConditional()
			if p.failedSince(state) || p.currentKind() == token.QuestionMark {
				p.restore(state)
				constraint = ast.NoNode
			}
		}
		param := p.add(ast.Node{Kind: ast.KindTSTypeParameter, Span: p.span(paramStart), A: name, B: constraint})
		return p.add(ast.Node{Kind: ast.KindTSInferType, Span: p.span(start), A: param})
	}
	return p.parsePostfixType()
}

func (p *parser) parsePostfixType() ast.NodeID {
	start := p.currentOffset()
	typ := p.parseNonArrayType()
	for p.currentKind() == token.LeftBracket && !p.token.OnNewLine {
		p.next()
		if p.optional(token.RightBracket) {
			typ = p.add(ast.Node{Kind: ast.KindTSArrayType, Span: p.span(start), A: typ})
			continue
		}
		index := p.parseType()
		p.expect(token.RightBracket)
		typ = p.add(ast.Node{Kind: ast.KindTSIndexedAccessType, Span: p.span(start), A: typ, B: index})
	}
	return typ
}

func (p *parser) parseNonArrayType() ast.NodeID {
	start := p.currentOffset()
	switch kind := p.currentKind(); kind {
	case token.Void, token.Null:
		return p.leaf(ast.KindTSKeywordType, p.currentString())
	case token.This:
		return p.leaf(ast.KindTSThisType, "")
	case token.Typeof:
		return p.parseTypeQuery()
	case token.Import:
		return p.parseImportType()
	case token.String, token.Number, token.Boolean, token.NoSubstitutionTemplate:
		var literal ast.NodeID
		switch kind {
		case token.String:
			literal = p.parseStringLiteral()
		case token.Number:
			literal = p.parseNumericLiteral()
		case token.Boolean:
			literal = p.parsePrimaryExpression()
		default:
			literal = p.parseTemplateLiteral(true)
		}
		return p.add(ast.Node{Kind: ast.KindTSLiteralType, Span: p.span(start), A: literal})
	case token.Minus:
		p.next()
		if p.currentKind() != token.Number {
			return p.unexpected()
		}
		number := p.parseNumericLiteral()
		neg := p.add(ast.Node{Kind: ast.KindUnaryExpression, Op: token.Minus, Span: p.span(start), A: number})
		return p.add(ast.Node{Kind: ast.KindTSLiteralType, Span: p.span(start), A: neg})
	case token.TemplateHead:
		return p.parseTemplateLiteralType()
	case token.LeftParenthesis:
		p.next()
		typ := p.parseType()
		p.expect(token.RightParenthesis)
		return p.add(ast.Node{Kind: ast.KindTSParenthesizedType, Span: p.span(start), A: typ})
	case token.LeftBracket:
		return p.parseTupleType()
	case token.LeftBrace:
		if p.isMappedTypeStart() {
			return p.parseMappedType()
		}
		members := p.parseTypeMembers()
		return p.add(ast.Node{Kind: ast.KindTSTypeLiteral, Span: p.span(start), List: members})
	}

	if !p.isIdentifierLike(p.currentKind()) {
		return p.unexpected()
	}
	if keywordTypes[p.token.Value] && !p.token.HasEscape && p.peek().Kind != token.Period {
		return p.leaf(ast.KindTSKeywordType, p.token.Value)
	}
	return p.parseTypeReference()
}

func (p *parser) parseTypeReference() ast.NodeID {
	start := p.currentOffset()
	name := p.parseEntityName(true)
	var typeArgs ast.NodeID
	if p.currentKind() == token.Less && !p.token.OnNewLine {
		typeArgs = p.parseTypeArguments()
	}
	return p.add(ast.Node{Kind: ast.KindTSTypeReference, Span: p.span(start), A: name, B: typeArgs})
}

// parseEntityName parses A.B.C as nested TSQualifiedName nodes. The first
// part is a reference; with allowKeywords the rest may be any word.
func (p *parser) parseEntityName(allowKeywords bool) ast.NodeID {
	start := p.currentOffset()
	var name ast.NodeID
	if p.isIdentifierLike(p.currentKind()) {
		name = p.leaf(ast.KindIdentifierReference, p.token.Value)
	} else {
		return p.unexpected()
	}
	for p.currentKind() == token.Period {
		p.next()
		var right ast.NodeID
		if allowKeywords || p.isIdentifierLike(p.currentKind()) {
			right = p.parseIdentifierName()
		} else {
			right = p.unexpected()
		}
		name = p.add(ast.Node{Kind: ast.KindTSQualifiedName, Span: p.span(start), A: name, B: right})
	}
	return name
}

func (p *parser) parseTypeQuery() ast.NodeID {
	start := p.expect(token.Typeof)
	var name ast.NodeID
	if p.currentKind() == token.Import {
		name = p.parseImportType()
	} else {
		name = p.parseEntityName(true)
	}
	var typeArgs ast.NodeID
	if p.currentKind() == token.Less && !p.token.OnNewLine {
		typeArgs = p.parseTypeArguments()
	}
	return p.add(ast.Node{Kind: ast.KindTSTypeQuery, Span: p.span(start), A: name, B: typeArgs})
}

// parseImportType parses import("mod").Name<Args>.
func (p *parser) parseImportType() ast.NodeID {
	start := p.expect(token.Import)
	p.expect(token.LeftParenthesis)
	argStart := p.currentOffset()
	source := p.parseModuleSpecifier()
	argument := p.add(ast.Node{Kind: ast.KindTSLiteralType, Span: p.span(argStart), A: source})
	p.expect(token.RightParenthesis)

	var qualifier ast.NodeID
	if p.optional(token.Period) {
		qualStart := p.currentOffset()
		qualifier = p.parseIdentifierName()
		for p.optional(token.Period) {
			right := p.parseIdentifierName()
			qualifier = p.add(ast.Node{Kind: ast.KindTSQualifiedName, Span: p.span(qualStart), A: qualifier, B: right})
		}
	}
	var typeArgs ast.NodeID
	if p.currentKind() == token.Less && !p.token.OnNewLine {
		typeArgs = p.parseTypeArguments()
	}
	return p.add(ast.Node{Kind: ast.KindTSImportType, Span: p.span(start), A: argument, B: qualifier, C: typeArgs})
}

func (p *parser) parseTemplateLiteralType() ast.NodeID {
	start := p.currentOffset()
	mark := len(p.buf)
	for {
		tok := p.token
		tail := tok.Kind == token.NoSubstitutionTemplate || tok.Kind == token.TemplateTail
		p.buf = append(p.buf, p.templateElement(tok, tail, true))
		p.next()
		if tail {
			break
		}
		p.buf = append(p.buf, p.parseType())
		if p.currentKind() != token.RightBrace {
			p.errorExpected(token.RightBrace)
			break
		}
		p.scanner.ReScanTemplate()
		p.sync()
	}
	return p.add(ast.Node{Kind: ast.KindTSTemplateLiteralType, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseTupleType() ast.NodeID {
	start := p.expect(token.LeftBracket)
	mark := len(p.buf)
	for p.currentKind() != token.RightBracket && p.currentKind() != token.Eof {
		p.buf = append(p.buf, p.parseTupleElement())
		if p.currentKind() != token.RightBracket && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBracket)
	return p.add(ast.Node{Kind: ast.KindTSTupleType, Span: p.span(start), List: p.finishList(mark)})
}

// namedTupleMemberFollows reports whether the element starts with 'name:'
// or 'name?:'.
func (p *parser) namedTupleMemberFollows() bool {
	if !token.ID(p.currentKind()) {
		return false
	}
	next := p.peek()
	return next.Kind == token.Colon || next.Kind == token.QuestionMark && p.peekAt(2).Kind == token.Colon
}

func (p *parser) parseTupleElement() ast.NodeID {
	start := p.currentOffset()
	rest := p.optional(token.Ellipsis)

	var elem ast.NodeID
	if p.namedTupleMemberFollows() {
		name := p.leaf(ast.KindIdentifierName, p.token.Value)
		var flags ast.Flags
		if p.optional(token.QuestionMark) {
			flags |= ast.FlagOptional
		}
		p.expect(token.Colon)
		typ := p.parseType()
		elem = p.add(ast.Node{Kind: ast.KindTSNamedTupleMember, Span: p.span(start), A: name, B: typ, Flags: flags})
	} else {
		elem = p.parseType()
		if !rest && p.currentKind() == token.QuestionMark {
			p.next()
			elem = p.add(ast.Node{Kind: ast.KindTSOptionalType, Span: p.span(start), A: elem})
		}
	}
	if rest {
		elem = p.add(ast.Node{Kind: ast.KindTSRestType, Span: p.span(start), A: elem})
	}
	return elem
}

// isMappedTypeStart looks past '{' for '[K in', optionally preceded by a
// readonly modifier.
func (p *parser) isMappedTypeStart() bool {
	next := p.peek()
	at := 1
	if next.Kind == token.Plus || next.Kind == token.Minus {
		return p.peekAt(2).Value == "readonly"
	}
	if next.Kind == token.Identifier && next.Value == "readonly" {
		at = 2
	}
	return p.peekAt(at).Kind == token.LeftBracket &&
		p.isIdentifierLike(p.peekAt(at+1).Kind) &&
		p.peekAt(at+2).Kind == token.In
}

func (p *parser) parseMappedType() ast.NodeID {
	start := p.expect(token.LeftBrace)
	var modifiers uint8
	switch {
	case p.optional(token.Plus):
		p.expectContextual("readonly")
		modifiers |= ast.MappedReadonly
	case p.optional(token.Minus):
		p.expectContextual("readonly")
		modifiers |= ast.MappedReadonlyMinus
	case p.is("readonly"):
		p.next()
		modifiers |= ast.MappedReadonly
	}

	p.expect(token.LeftBracket)
	paramStart := p.currentOffset()
	name := p.parseBindingIdentifier()
	p.expect(token.In)
	constraint := p.parseType()
	param := p.add(ast.Node{Kind: ast.KindTSTypeParameter, Span: p.span(paramStart), A: name, B: constraint})
	var nameType ast.NodeID
	if p.is("as") {
		p.next()
		nameType = p.parseType()
	}
	p.expect(token.RightBracket)

	switch {
	case p.optional(token.Plus):
		p.expect(token.QuestionMark)
		modifiers |= ast.MappedOptional
	case p.optional(token.Minus):
		p.expect(token.QuestionMark)
		modifiers |= ast.MappedOptionalMinus
	case p.optional(token.QuestionMark):
		modifiers |= ast.MappedOptional
	}
	var typ ast.NodeID
	if p.optional(token.Colon) {
		typ = p.parseType()
	}
	if !p.optional(token.Semicolon) {
		p.optional(token.Comma)
	}
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindTSMappedType, Span: p.span(start), A: param, B: nameType, C: typ, Variant: modifiers})
}

// parseTypeMembers parses the braced member list of a type literal or
// interface body.
func (p *parser) parseTypeMembers() ast.ListRef {
	p.expect(token.LeftBrace)
	mark := len(p.buf)
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		before := p.currentOffset()
		p.buf = append(p.buf, p.parseTypeMember())
		if !p.optional(token.Semicolon) && !p.optional(token.Comma) &&
			p.currentKind() != token.RightBrace && !p.token.OnNewLine {
			p.errorExpected(token.Semicolon)
		}
		if p.currentOffset() == before {
			p.next()
		}
	}
	p.expect(token.RightBrace)
	return p.finishList(mark)
}

// parseSignatureRest parses '<T>(params): R' of call, construct and method
// signatures.
func (p *parser) parseSignatureRest() (typeParams, params, ret ast.NodeID) {
	if p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	params = p.parseFormalParameters()
	if p.currentKind() == token.Colon {
		ret = p.parseReturnTypeAnnotation()
	}
	return
}

func (p *parser) parseTypeMember() ast.NodeID {
	start := p.currentOffset()
	switch kind := p.currentKind(); {
	case kind == token.LeftParenthesis || kind == token.Less:
		tp, params, ret := p.parseSignatureRest()
		return p.add(ast.Node{Kind: ast.KindTSCallSignature, Span: p.span(start), A: tp, B: params, C: ret})
	case kind == token.New && (p.peek().Kind == token.LeftParenthesis || p.peek().Kind == token.Less):
		p.next()
		tp, params, ret := p.parseSignatureRest()
		return p.add(ast.Node{Kind: ast.KindTSConstructSignature, Span: p.span(start), A: tp, B: params, C: ret})
	}

	var flags ast.Flags
	if p.is("readonly") && p.propertyKeyFollows(false) {
		flags |= ast.FlagReadonly
		p.next()
	}
	if p.currentKind() == token.LeftBracket && p.isIndexSignature() {
		return p.parseIndexSignature(start, flags)
	}

	variant := ast.MethodMethod
	if (p.is("get") || p.is("set")) && p.propertyKeyFollows(false) {
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
	if p.optional(token.QuestionMark) {
		flags |= ast.FlagOptional
	}
	if p.currentKind() == token.LeftParenthesis || p.currentKind() == token.Less {
		tp, params, ret := p.parseSignatureRest()
		return p.add(ast.Node{
			Kind:    ast.KindTSMethodSignature,
			Span:    p.span(start),
			A:       key,
			B:       tp,
			C:       params,
			D:       ret,
			Variant: variant,
			Flags:   flags,
		})
	}
	var annotation ast.NodeID
	if p.currentKind() == token.Colon {
		annotation = p.parseTypeAnnotation()
	}
	return p.add(ast.Node{Kind: ast.KindTSPropertySignature, Span: p.span(start), A: key, B: annotation, Flags: flags})
}

// isIndexSignature reports whether '[' starts '[key: T]'.
func (p *parser) isIndexSignature() bool {
	return p.isIdentifierLike(p.peek().Kind) && p.peekAt(2).Kind == token.Colon
}

func (p *parser) parseIndexSignature(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.expect(token.LeftBracket)
	param := p.parseBindingIdentifier()
	if p.currentKind() == token.Colon {
		p.attachTypeAnnotation(param)
	} else {
		p.errorExpected(token.Colon)
	}
	p.expect(token.RightBracket)
	var annotation ast.NodeID
	if p.currentKind() == token.Colon {
		annotation = p.parseTypeAnnotation()
	}
	return p.add(ast.Node{Kind: ast.KindTSIndexSignature, Span: p.span(start), List: p.b.List([]ast.NodeID{param}), A: annotation, Flags: flags})
}

func (p *parser) parseTypeParameters() ast.NodeID {
	p.scanner.ReScanLess()
	p.sync()
	start := p.expect(token.Less)
	mark := len(p.buf)
	for p.currentKind() != token.Greater && p.currentKind() != token.Eof {
		p.buf = append(p.buf, p.parseTypeParameter())
		if p.currentKind() != token.Greater && !p.optional(token.Comma) {
			break
		}
	}
	if len(p.buf) == mark {
		p.error(diag.UnexpectedToken, "Type parameter list cannot be empty")
	}
	p.expectGreater()
	return p.add(ast.Node{Kind: ast.KindTSTypeParameterDecl, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseTypeParameter() ast.NodeID {
	start := p.currentOffset()
	var flags ast.Flags
	for modifier := true; modifier; {
		switch {
		case p.currentKind() == token.Const && p.isIdentifierLike(p.peek().Kind):
			flags |= ast.FlagConst
		case p.currentKind() == token.In && p.isIdentifierLike(p.peek().Kind):
			flags |= ast.FlagIn
		case p.is("out") && p.isIdentifierLike(p.peek().Kind):
			flags |= ast.FlagOut
		default:
			modifier = false
			continue
		}
		p.next()
	}
	id := p.parseBindingIdentifier()
	var constraint, def ast.NodeID
	if p.optional(token.Extends) {
		constraint = p.parseType()
	}
	if p.optional(token.Assign) {
		def = p.parseType()
	}
	return p.add(ast.Node{Kind: ast.KindTSTypeParameter, Span: p.span(start), A: id, B: constraint, C: def, Flags: flags})
}

func (p *parser) parseTypeArguments() ast.NodeID {
	p.scanner.ReScanLess()
	p.sync()
	start := p.expect(token.Less)
	mark := len(p.buf)
	for p.currentKind() != token.Greater && p.currentKind() != token.Eof {
		p.buf = append(p.buf, p.parseType())
		p.scanner.ReScanGreater()
		p.sync()
		if p.currentKind() != token.Greater && !p.optional(token.Comma) {
			break
		}
	}
	p.expectGreater()
	return p.add(ast.Node{Kind: ast.KindTSTypeParameterInst, Span: p.span(start), List: p.finishList(mark)})
}

// parseHeritageList parses 'A, B.C<T>' after implements or interface
// extends.
func (p *parser) parseHeritageList() ast.ListRef {
	mark := len(p.buf)
	for {
		start := p.currentOffset()
		var expr ast.NodeID
		if p.isIdentifierLike(p.currentKind()) {
			expr = p.parseIdentifierReference()
		} else {
			expr = p.unexpected()
		}
		for p.optional(token.Period) {
			expr = p.parseMemberName(start, expr, 0)
		}
		var typeArgs ast.NodeID
		if p.currentKind() == token.Less {
			typeArgs = p.parseTypeArguments()
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindTSExpressionWithTypeArgs, Span: p.span(start), A: expr, B: typeArgs}))
		if !p.optional(token.Comma) {
			break
		}
	}
	return p.finishList(mark)
}

// tryTSDeclaration parses declarations introduced by a contextual keyword:
// type, interface, declare, abstract, namespace, module and global. It
// reports false without consuming anything when the word is used as an
// identifier.
func (p *parser) tryTSDeclaration(start ast.Idx, flags ast.Flags) (ast.NodeID, bool) {
	if p.token.HasEscape {
		return ast.NoNode, false
	}
	next := p.peek()
	if next.OnNewLine {
		return ast.NoNode, false
	}
	switch p.token.Value {
	case "type":
		if p.isIdentifierLike(next.Kind) {
			return p.parseTypeAlias(start, flags), true
		}
	case "interface":
		if p.isIdentifierLike(next.Kind) {
			return p.parseInterface(start, flags), true
		}
	case "abstract":
		if next.Kind == token.Class {
			p.next()
			return p.parseClassDeclaration(start, ast.ListRef{}, flags|ast.FlagAbstract), true
		}
	case "namespace":
		if p.isIdentifierLike(next.Kind) {
			return p.parseModuleDeclaration(start, flags, ast.ModuleNamespace), true
		}
	case "module":
		if p.isIdentifierLike(next.Kind) || next.Kind == token.String {
			return p.parseModuleDeclaration(start, flags, ast.ModuleModule), true
		}
	case "global":
		if next.Kind == token.LeftBrace {
			return p.parseModuleDeclaration(start, flags, ast.ModuleGlobal), true
		}
	case "declare":
		if p.declarationFollows(next) {
			p.next()
			return p.parseDeclare(start), true
		}
	}
	return ast.NoNode, false
}

func (p *parser) declarationFollows(next scanner.Token) bool {
	switch next.Kind {
	case token.Var, token.Let, token.Const, token.Function, token.Class, token.Enum, token.Async:
		return true
	case token.Identifier:
		switch next.Value {
		case "type", "interface", "abstract", "namespace", "module", "global":
			return true
		}
	}
	return false
}

// parseDeclare parses the declaration after 'declare'. Everything inside is
// ambient: no initializers or bodies are required.
func (p *parser) parseDeclare(start ast.Idx) ast.NodeID {
	inDeclare := p.scope.inDeclare
	p.scope.inDeclare = true
	defer func() { p.scope.inDeclare = inDeclare }()

	var decl ast.NodeID
	switch kind := p.currentKind(); {
	case kind == token.Var, kind == token.Let:
		decl = p.parseLexicalDeclaration()
	case kind == token.Const:
		if p.peek().Kind == token.Enum {
			p.next()
			return p.parseEnumDeclaration(start, ast.FlagConst|ast.FlagDeclare)
		}
		decl = p.parseLexicalDeclaration()
	case kind == token.Function:
		return p.parseFunctionDeclaration(start, false, ast.FlagDeclare)
	case kind == token.Async:
		p.next()
		return p.parseFunctionDeclaration(start, true, ast.FlagDeclare)
	case kind == token.Class:
		return p.parseClassDeclaration(start, ast.ListRef{}, ast.FlagDeclare)
	case kind == token.Enum:
		return p.parseEnumDeclaration(start, ast.FlagDeclare)
	default:
		if d, ok := p.tryTSDeclaration(start, ast.FlagDeclare); ok {
			return d
		}
		return p.unexpected()
	}
	p.node(decl).Span.Start = start
	return decl
}

func (p *parser) parseTypeAlias(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.next()
	name := p.parseBindingIdentifier()
	var typeParams ast.NodeID
	if p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	p.expect(token.Assign)
	typ := p.parseType()
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindTSTypeAliasDeclaration, Span: p.span(start), A: name, B: typeParams, C: typ, Flags: flags | p.declareFlag()})
}

func (p *parser) parseInterface(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.next()
	name := p.parseBindingIdentifier()
	var typeParams, heritage ast.NodeID
	if p.currentKind() == token.Less {
		typeParams = p.parseTypeParameters()
	}
	if p.currentKind() == token.Extends {
		heritageStart := p.currentOffset()
		p.next()
		list := p.parseHeritageList()
		heritage = p.add(ast.Node{Kind: ast.KindTSInterfaceHeritage, Span: p.span(heritageStart), List: list})
	}
	bodyStart := p.currentOffset()
	members := p.parseTypeMembers()
	body := p.add(ast.Node{Kind: ast.KindTSInterfaceBody, Span: p.span(bodyStart), List: members})
	return p.add(ast.Node{Kind: ast.KindTSInterfaceDeclaration, Span: p.span(start), A: name, B: typeParams, C: heritage, D: body, Flags: flags | p.declareFlag()})
}

func (p *parser) parseEnumDeclaration(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.expect(token.Enum)
	name := p.parseBindingIdentifier()
	p.expect(token.LeftBrace)
	mark := len(p.buf)
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		memberStart := p.currentOffset()
		var id ast.NodeID
		switch kind := p.currentKind(); {
		case kind == token.String:
			id = p.parseStringLiteral()
		case token.ID(kind):
			id = p.leaf(ast.KindIdentifierName, p.token.Value)
		default:
			id = p.unexpected()
		}
		var init ast.NodeID
		if p.optional(token.Assign) {
			init = p.parseAssignmentExpression()
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindTSEnumMember, Span: p.span(memberStart), A: id, B: init}))
		if p.currentKind() != token.RightBrace && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindTSEnumDeclaration, Span: p.span(start), A: name, List: p.finishList(mark), Flags: flags | p.declareFlag()})
}

func (p *parser) parseModuleDeclaration(start ast.Idx, flags ast.Flags, variant uint8) ast.NodeID {
	var name ast.NodeID
	switch {
	case variant == ast.ModuleGlobal:
		name = p.leaf(ast.KindIdentifierName, "global")
	default:
		p.next()
		if p.currentKind() == token.String {
			name = p.parseStringLiteral()
			break
		}
		nameStart := p.currentOffset()
		name = p.parseBindingIdentifier()
		for p.optional(token.Period) {
			right := p.parseIdentifierName()
			name = p.add(ast.Node{Kind: ast.KindTSQualifiedName, Span: p.span(nameStart), A: name, B: right})
		}
	}

	var body ast.NodeID
	if p.currentKind() == token.LeftBrace {
		body = p.parseModuleBlock()
	} else {
		p.semicolon()
	}
	return p.add(ast.Node{Kind: ast.KindTSModuleDeclaration, Span: p.span(start), A: name, B: body, Variant: variant, Flags: flags | p.declareFlag()})
}

func (p *parser) parseModuleBlock() ast.NodeID {
	start := p.expect(token.LeftBrace)
	p.openScope()
	p.scope.inNamespace = true
	mark := len(p.buf)
	p.parseStatementListInto(token.RightBrace)
	p.closeScope()
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindTSModuleBlock, Span: p.span(start), List: p.finishList(mark)})
}
