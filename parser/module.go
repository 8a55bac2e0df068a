package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

// expectContextual consumes the contextual keyword word or reports it
// missing.
func (p *parser) expectContextual(word string) {
	if p.is(word) {
		p.next()
		return
	}
	p.panic = true
	p.error(diag.ExpectedToken, "Expected '%s' but found %s", word, p.describe())
}

// checkModuleSyntax reports import and export declarations outside of
// modules and TS namespaces.
func (p *parser) checkModuleSyntax(span ast.Span, what string) {
	if !p.opts.SourceType.Module && !p.scope.inNamespace {
		p.errorAt(diag.ModuleSyntaxInScript, span, "Cannot use %s statement outside a module", what)
	}
}

func (p *parser) parseModuleSpecifier() ast.NodeID {
	if p.currentKind() != token.String {
		p.errorExpected(token.String)
		return p.errorNode()
	}
	return p.parseStringLiteral()
}

// parseImportAttributes parses a trailing 'with { ... }' clause, or the
// legacy 'assert' form.
func (p *parser) parseImportAttributes() ast.NodeID {
	if p.currentKind() == token.With || p.is("assert") && !p.token.OnNewLine {
		p.next()
		if p.currentKind() != token.LeftBrace {
			p.errorExpected(token.LeftBrace)
			return ast.NoNode
		}
		return p.parseObjectLiteral()
	}
	return ast.NoNode
}

// typeModifierFollows reports whether a 'type' word in an import or export
// clause marks the clause or specifier as type only.
func (p *parser) typeModifierFollows() bool {
	if !p.ts() || !p.is("type") {
		return false
	}
	next := p.peek()
	switch next.Kind {
	case token.LeftBrace, token.Multiply, token.String:
		return true
	}
	return token.ID(next.Kind) && !(next.Kind == token.Identifier && (next.Value == "from" || next.Value == "as"))
}

func (p *parser) parseImportDeclaration() ast.NodeID {
	start := p.expect(token.Import)
	var flags ast.Flags
	if p.typeModifierFollows() {
		flags |= ast.FlagTypeOnly
		p.next()
	}

	if p.currentKind() == token.String {
		p.checkModuleSyntax(p.span(start), "import")
		source := p.parseStringLiteral()
		attrs := p.parseImportAttributes()
		p.semicolon()
		return p.add(ast.Node{Kind: ast.KindImportDeclaration, Span: p.span(start), A: source, B: attrs, Flags: flags})
	}

	mark := len(p.buf)
	needClause := true
	if p.isIdentifierLike(p.currentKind()) {
		specStart := p.currentOffset()
		local := p.parseBindingIdentifier()
		if p.ts() && p.currentKind() == token.Assign {
			p.buf = p.buf[:mark]
			return p.parseImportEquals(start, local, flags)
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindImportDefaultSpecifier, Span: p.span(specStart), A: local}))
		needClause = p.optional(token.Comma)
	}
	p.checkModuleSyntax(p.span(start), "import")

	if needClause {
		switch p.currentKind() {
		case token.Multiply:
			specStart := p.currentOffset()
			p.next()
			p.expectContextual("as")
			local := p.parseBindingIdentifier()
			p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindImportNamespaceSpecifier, Span: p.span(specStart), A: local}))
		case token.LeftBrace:
			p.parseImportSpecifiers()
		default:
			p.errorUnexpectedToken()
		}
	}

	p.expectContextual("from")
	source := p.parseModuleSpecifier()
	attrs := p.parseImportAttributes()
	p.semicolon()
	return p.add(ast.Node{
		Kind:  ast.KindImportDeclaration,
		Span:  p.span(start),
		List:  p.finishList(mark),
		A:     source,
		B:     attrs,
		Flags: flags,
	})
}

// parseImportSpecifiers appends the specifiers of '{ a, b as c }' to p.buf.
func (p *parser) parseImportSpecifiers() {
	p.expect(token.LeftBrace)
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		start := p.currentOffset()
		var flags ast.Flags
		if p.typeModifierFollows() {
			flags |= ast.FlagTypeOnly
			p.next()
		}

		var imported, local ast.NodeID
		switch kind := p.currentKind(); {
		case kind == token.String:
			imported = p.parseStringLiteral()
			p.expectContextual("as")
			local = p.parseBindingIdentifier()
		case token.ID(kind) && (!p.isIdentifierLike(kind) || p.peekIsWord("as")):
			imported = p.leaf(ast.KindIdentifierName, p.token.Value)
			p.expectContextual("as")
			local = p.parseBindingIdentifier()
		default:
			local = p.parseBindingIdentifier()
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindImportSpecifier, Span: p.span(start), A: imported, B: local, Flags: flags}))
		if p.currentKind() != token.RightBrace && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace)
}

func (p *parser) peekIsWord(word string) bool {
	next := p.peek()
	return next.Kind == token.Identifier && !next.HasEscape && next.Value == word
}

// parseImportEquals parses the TS forms 'import x = require("m")' and
// 'import x = A.B'. The current token is '='.
func (p *parser) parseImportEquals(start ast.Idx, local ast.NodeID, flags ast.Flags) ast.NodeID {
	p.expect(token.Assign)
	var ref ast.NodeID
	if p.is("require") && p.peek().Kind == token.LeftParenthesis {
		refStart := p.currentOffset()
		p.next()
		p.expect(token.LeftParenthesis)
		source := p.parseModuleSpecifier()
		p.expect(token.RightParenthesis)
		ref = p.add(ast.Node{Kind: ast.KindTSExternalModuleReference, Span: p.span(refStart), A: source})
	} else {
		ref = p.parseEntityName(false)
	}
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindTSImportEqualsDeclaration, Span: p.span(start), A: local, B: ref, Flags: flags})
}

// parseModuleExportName parses an exported name, which may be any word or a
// string literal.
func (p *parser) parseModuleExportName() ast.NodeID {
	if p.currentKind() == token.String {
		return p.parseStringLiteral()
	}
	return p.parseIdentifierName()
}

func (p *parser) parseExportDeclaration() ast.NodeID {
	start := p.expect(token.Export)
	p.checkModuleSyntax(p.span(start), "export")

	switch {
	case p.currentKind() == token.Multiply:
		return p.parseExportAll(start, 0)
	case p.currentKind() == token.Default:
		return p.parseExportDefault(start, ast.ListRef{})
	case p.ts() && p.currentKind() == token.Assign:
		p.next()
		expr := p.parseAssignmentExpression()
		p.semicolon()
		return p.add(ast.Node{Kind: ast.KindTSExportAssignment, Span: p.span(start), A: expr})
	case p.ts() && p.currentKind() == token.Import:
		importStart := p.currentOffset()
		p.next()
		local := p.parseBindingIdentifier()
		if p.currentKind() != token.Assign {
			p.errorExpected(token.Assign)
		}
		decl := p.parseImportEquals(importStart, local, 0)
		return p.add(ast.Node{Kind: ast.KindExportNamedDeclaration, Span: p.span(start), A: decl})
	case p.currentKind() == token.LeftBrace:
		return p.parseExportNamed(start, 0)
	case p.typeModifierFollows():
		switch p.peek().Kind {
		case token.LeftBrace:
			p.next()
			return p.parseExportNamed(start, ast.FlagTypeOnly)
		case token.Multiply:
			p.next()
			return p.parseExportAll(start, ast.FlagTypeOnly)
		}
	case p.currentKind() == token.At:
		declStart := p.currentOffset()
		decorators := p.parseDecorators()
		decl := p.parseExportedClass(declStart, decorators)
		return p.add(ast.Node{Kind: ast.KindExportNamedDeclaration, Span: p.span(start), A: decl})
	}

	decl := p.parseExportedDeclaration()
	return p.add(ast.Node{Kind: ast.KindExportNamedDeclaration, Span: p.span(start), A: decl})
}

// parseExportDeclarationWithDecorators handles '@dec export class ...' where
// the decorators precede the export keyword.
func (p *parser) parseExportDeclarationWithDecorators(start ast.Idx, decorators ast.ListRef) ast.NodeID {
	exportStart := p.expect(token.Export)
	p.checkModuleSyntax(p.span(exportStart), "export")
	if p.currentKind() == token.Default {
		return p.parseExportDefault(start, decorators)
	}
	decl := p.parseExportedClass(start, decorators)
	return p.add(ast.Node{Kind: ast.KindExportNamedDeclaration, Span: p.span(start), A: decl})
}

func (p *parser) parseExportedClass(start ast.Idx, decorators ast.ListRef) ast.NodeID {
	var flags ast.Flags
	if p.ts() && p.is("abstract") && p.peek().Kind == token.Class {
		flags |= ast.FlagAbstract
		p.next()
	}
	if p.currentKind() != token.Class {
		return p.unexpected()
	}
	return p.parseClassDeclaration(start, decorators, flags)
}

func (p *parser) parseExportAll(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.expect(token.Multiply)
	var exported ast.NodeID
	if p.is("as") {
		p.next()
		exported = p.parseModuleExportName()
	}
	p.expectContextual("from")
	source := p.parseModuleSpecifier()
	attrs := p.parseImportAttributes()
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindExportAllDeclaration, Span: p.span(start), A: exported, B: source, C: attrs, Flags: flags})
}

// parseExportNamed parses 'export { ... }' with an optional from clause.
// Without a source the local names are references into this module and
// must be identifiers.
func (p *parser) parseExportNamed(start ast.Idx, flags ast.Flags) ast.NodeID {
	p.expect(token.LeftBrace)
	mark := len(p.buf)
	var badLocal ast.NodeID
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		specStart := p.currentOffset()
		var specFlags ast.Flags
		if p.typeModifierFollows() {
			specFlags |= ast.FlagTypeOnly
			p.next()
		}

		var local ast.NodeID
		switch kind := p.currentKind(); {
		case kind == token.String:
			local = p.parseStringLiteral()
			if badLocal == ast.NoNode {
				badLocal = local
			}
		case token.ID(kind):
			local = p.leaf(ast.KindIdentifierReference, p.token.Value)
			if !p.isIdentifierLike(kind) && badLocal == ast.NoNode {
				badLocal = local
			}
		default:
			local = p.unexpected()
		}
		var exported ast.NodeID
		if p.is("as") {
			p.next()
			exported = p.parseModuleExportName()
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindExportSpecifier, Span: p.span(specStart), A: local, B: exported, Flags: specFlags}))
		if p.currentKind() != token.RightBrace && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace)
	specifiers := p.buf[mark:]

	var source, attrs ast.NodeID
	if p.is("from") {
		p.next()
		source = p.parseModuleSpecifier()
		attrs = p.parseImportAttributes()
		for _, spec := range specifiers {
			if local := p.node(spec).A; p.kind(local) == ast.KindIdentifierReference {
				p.node(local).Kind = ast.KindIdentifierName
			}
		}
	} else if badLocal != ast.NoNode {
		p.errorAt(diag.ReservedWord, p.node(badLocal).Span, "A local export must name an identifier")
	}
	p.semicolon()
	return p.add(ast.Node{
		Kind:  ast.KindExportNamedDeclaration,
		Span:  p.span(start),
		List:  p.finishList(mark),
		B:     source,
		C:     attrs,
		Flags: flags,
	})
}

// parseExportDefault parses everything after 'export'. Function and class
// declarations may be anonymous here.
func (p *parser) parseExportDefault(start ast.Idx, decorators ast.ListRef) ast.NodeID {
	p.expect(token.Default)
	declStart := p.currentOffset()
	if decorators.Len > 0 {
		declStart = start
	}
	if p.currentKind() == token.At {
		decorators = p.parseDecorators()
	}

	var decl ast.NodeID
	switch kind := p.currentKind(); {
	case kind == token.Class:
		decl = p.parseClass(declStart, decorators, 0, ast.KindClassDeclaration)
	case p.ts() && p.is("abstract") && p.peek().Kind == token.Class:
		p.next()
		decl = p.parseClass(declStart, decorators, ast.FlagAbstract, ast.KindClassDeclaration)
	case decorators.Len > 0:
		decl = p.unexpected()
	case kind == token.Function:
		decl = p.parseFunction(declStart, false, 0, ast.KindFunctionDeclaration, false)
	case kind == token.Async && p.peek().Kind == token.Function && !p.peek().OnNewLine:
		p.next()
		decl = p.parseFunction(declStart, true, 0, ast.KindFunctionDeclaration, false)
	case p.ts() && p.is("interface") && p.isIdentifierLike(p.peek().Kind):
		decl, _ = p.tryTSDeclaration(declStart, 0)
	default:
		allowIn := p.scope.allowIn
		p.scope.allowIn = true
		decl = p.parseAssignmentExpression()
		p.scope.allowIn = allowIn
		p.semicolon()
	}
	return p.add(ast.Node{Kind: ast.KindExportDefaultDeclaration, Span: p.span(start), A: decl})
}

// parseExportedDeclaration parses the declaration after 'export'.
func (p *parser) parseExportedDeclaration() ast.NodeID {
	start := p.currentOffset()
	switch kind := p.currentKind(); {
	case kind == token.Var, kind == token.Let:
		return p.parseLexicalDeclaration()
	case kind == token.Const:
		if p.ts() && p.peek().Kind == token.Enum {
			p.next()
			return p.parseEnumDeclaration(start, ast.FlagConst)
		}
		return p.parseLexicalDeclaration()
	case kind == token.Function:
		return p.parseFunctionDeclaration(start, false, 0)
	case kind == token.Async && p.peek().Kind == token.Function && !p.peek().OnNewLine:
		p.next()
		return p.parseFunctionDeclaration(start, true, 0)
	case kind == token.Class:
		return p.parseClassDeclaration(start, ast.ListRef{}, 0)
	case kind == token.Enum && p.ts():
		return p.parseEnumDeclaration(start, 0)
	case kind == token.Identifier && p.ts():
		if decl, ok := p.tryTSDeclaration(start, 0); ok {
			return decl
		}
	}
	return p.unexpected()
}
