package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

// parseStatementListInto appends statements to p.buf until end.
func (p *parser) parseStatementListInto(end token.Token) {
	for p.currentKind() != end && p.currentKind() != token.Eof {
		p.parseStatementRecovering()
	}
}

// parseStatementRecovering parses one statement list item into p.buf. After
// a syntax error it skips to the next synchronizing token and records the
// skipped range as an Error node. It always consumes at least one token.
func (p *parser) parseStatementRecovering() ast.NodeID {
	start := p.currentOffset()
	p.panic = false
	p.scope.allowLet = true
	stmt := p.parseStatementListItem()
	p.buf = append(p.buf, stmt)
	// A statement that already reached its ';' needs no skipping.
	if p.panic && p.prevKind != token.Semicolon {
		if span, skipped := p.nextStatement(); skipped {
			p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindError, Span: span}))
		}
	}
	p.panic = false
	if p.currentOffset() == start && p.currentKind() != token.Eof {
		p.errorUnexpectedToken()
		p.panic = false
		p.next()
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindError, Span: p.span(start)}))
	}
	return stmt
}

// parseDirectives parses the directive prologue of a program or function
// body into p.buf. A "use strict" directive makes the current scope strict.
func (p *parser) parseDirectives() {
	for p.currentKind() == token.String {
		tok := p.token
		stmt := p.parseStatementRecovering()
		n := p.node(stmt)
		if n.Kind != ast.KindExpressionStatement || p.kind(n.A) != ast.KindStringLiteral || p.node(n.A).Span != tok.Span() {
			return
		}
		n.Flags |= ast.FlagDirective
		if raw := tok.Raw(p.scanner); len(raw) >= 2 && raw[1:len(raw)-1] == "use strict" {
			p.scope.strict = true
		}
	}
}

func (p *parser) parseBlockStatement() ast.NodeID {
	start := p.currentOffset()
	p.expect(token.LeftBrace)
	mark := len(p.buf)
	p.parseStatementListInto(token.RightBrace)
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindBlockStatement, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseEmptyStatement() ast.NodeID {
	return p.leaf(ast.KindEmptyStatement, "")
}

// parseStatementListItem parses a statement or declaration.
func (p *parser) parseStatementListItem() ast.NodeID {
	switch p.currentKind() {
	case token.Function:
		return p.parseFunctionDeclaration(p.currentOffset(), false, 0)
	case token.Class:
		return p.parseClassDeclaration(p.currentOffset(), ast.ListRef{}, 0)
	case token.At:
		return p.parseDecoratedStatement()
	case token.Import:
		if next := p.peek().Kind; next != token.LeftParenthesis && next != token.Period {
			return p.parseImportDeclaration()
		}
	case token.Export:
		return p.parseExportDeclaration()
	case token.Const:
		if p.ts() && p.peek().Kind == token.Enum {
			start := p.currentOffset()
			p.next()
			return p.parseEnumDeclaration(start, ast.FlagConst)
		}
		return p.parseLexicalDeclaration()
	case token.Let:
		if p.letStartsDeclaration() {
			return p.parseLexicalDeclaration()
		}
	case token.Async:
		if next := p.peek(); next.Kind == token.Function && !next.OnNewLine {
			start := p.currentOffset()
			p.next()
			return p.parseFunctionDeclaration(start, true, 0)
		}
	case token.Enum:
		if p.ts() {
			return p.parseEnumDeclaration(p.currentOffset(), 0)
		}
	case token.Identifier:
		if p.ts() {
			if decl, ok := p.tryTSDeclaration(p.currentOffset(), 0); ok {
				return decl
			}
		}
	}
	return p.parseStatement()
}

func (p *parser) letStartsDeclaration() bool {
	next := p.peek()
	switch {
	case next.Kind == token.LeftBracket:
		return true
	case next.Kind == token.LeftBrace:
		return p.scope.allowLet
	case next.Kind == token.Identifier || token.UnreservedWord(next.Kind):
		return p.scope.allowLet && !(next.OnNewLine && next.Kind == token.Of)
	}
	return false
}

func (p *parser) parseStatement() ast.NodeID {
	switch p.currentKind() {
	case token.Eof:
		return p.unexpected()
	case token.Semicolon:
		return p.parseEmptyStatement()
	case token.LeftBrace:
		return p.parseBlockStatement()
	case token.If:
		return p.parseIfStatement()
	case token.Do:
		return p.parseDoWhileStatement()
	case token.While:
		return p.parseWhileStatement()
	case token.For:
		return p.parseForOrForInStatement()
	case token.Break:
		return p.parseBreakStatement()
	case token.Continue:
		return p.parseContinueStatement()
	case token.Debugger:
		start := p.currentOffset()
		p.next()
		p.semicolon()
		return p.add(ast.Node{Kind: ast.KindDebuggerStatement, Span: p.span(start)})
	case token.With:
		return p.parseWithStatement()
	case token.Var:
		return p.parseLexicalDeclaration()
	case token.Switch:
		return p.parseSwitchStatement()
	case token.Return:
		return p.parseReturnStatement()
	case token.Throw:
		return p.parseThrowStatement()
	case token.Try:
		return p.parseTryStatement()
	case token.Function:
		// Sloppy-mode function declarations in statement position.
		return p.parseFunctionDeclaration(p.currentOffset(), false, 0)
	case token.Class, token.Const:
		return p.parseStatementListItem()
	}

	start := p.currentOffset()
	expression := p.parseExpression()

	if n := p.node(expression); n.Kind == ast.KindIdentifierReference && p.currentKind() == token.Colon && n.Span.Start == start {
		return p.parseLabelledStatement(start, expression)
	}

	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindExpressionStatement, Span: p.span(start), A: expression})
}

func (p *parser) parseLabelledStatement(start ast.Idx, id ast.NodeID) ast.NodeID {
	n := p.node(id)
	n.Kind = ast.KindLabelIdentifier
	name := n.Text
	p.next() // :

	if _, exists := p.scope.findLabel(name); exists {
		p.errorAt(diag.DuplicateLabel, n.Span, "Label '%s' has already been declared", name)
	}
	loop := false
	switch p.currentKind() {
	case token.For, token.While, token.Do:
		loop = true
	case token.Identifier:
		// A chain of labels may still end in a loop.
		loop = p.peek().Kind == token.Colon
	}
	p.scope.labels = append(p.scope.labels, label{name: name, loop: loop})
	p.scope.allowLet = false
	body := p.parseStatement()
	p.scope.labels = p.scope.labels[:len(p.scope.labels)-1]
	return p.add(ast.Node{Kind: ast.KindLabeledStatement, Span: p.span(start), A: id, B: body})
}

func (p *parser) parseIfStatement() ast.NodeID {
	start := p.expect(token.If)
	test := p.parseParenthesizedCondition()
	p.scope.allowLet = false
	consequent := p.parseStatement()
	var alternate ast.NodeID
	if p.optional(token.Else) {
		p.scope.allowLet = false
		alternate = p.parseStatement()
	}
	return p.add(ast.Node{Kind: ast.KindIfStatement, Span: p.span(start), A: test, B: consequent, C: alternate})
}

func (p *parser) parseParenthesizedCondition() ast.NodeID {
	p.expect(token.LeftParenthesis)
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	test := p.parseExpression()
	p.scope.allowIn = allowIn
	p.expect(token.RightParenthesis)
	return test
}

// parseLoopBody parses the body of an iteration statement.
func (p *parser) parseLoopBody() ast.NodeID {
	inIteration := p.scope.inIteration
	p.scope.inIteration = true
	p.scope.allowLet = false
	body := p.parseStatement()
	p.scope.inIteration = inIteration
	return body
}

func (p *parser) parseWhileStatement() ast.NodeID {
	start := p.expect(token.While)
	test := p.parseParenthesizedCondition()
	body := p.parseLoopBody()
	return p.add(ast.Node{Kind: ast.KindWhileStatement, Span: p.span(start), A: test, B: body})
}

func (p *parser) parseDoWhileStatement() ast.NodeID {
	start := p.expect(token.Do)
	body := p.parseLoopBody()
	p.expect(token.While)
	test := p.parseParenthesizedCondition()
	// A semicolon is always insertable after do-while.
	p.optional(token.Semicolon)
	return p.add(ast.Node{Kind: ast.KindDoWhileStatement, Span: p.span(start), A: body, B: test})
}

func (p *parser) parseForOrForInStatement() ast.NodeID {
	start := p.expect(token.For)
	var flags ast.Flags
	if p.currentKind() == token.Await {
		if !p.scope.allowAwait {
			p.error(diag.InvalidAwait, "for await is only valid in async functions and modules")
		}
		flags |= ast.FlagAwait
		p.next()
	}
	p.expect(token.LeftParenthesis)

	var init ast.NodeID
	forIn, forOf := false, false

	allowIn := p.scope.allowIn
	p.scope.allowIn = false
	switch kind := p.currentKind(); {
	case kind == token.Semicolon:
	case kind == token.Var || kind == token.Const || kind == token.Let && p.letStartsForDeclaration():
		init = p.parseVariableDeclarationList(true)
		forIn, forOf = p.currentKind() == token.In, p.currentKind() == token.Of
		if forIn || forOf {
			p.checkForInOfDeclaration(init, forOf)
		}
	default:
		exprStart := p.currentOffset()
		isAsync := p.currentKind() == token.Async
		init = p.parseExpression()
		forIn, forOf = p.currentKind() == token.In, p.currentKind() == token.Of
		if forOf && isAsync && p.kind(init) == ast.KindIdentifierReference && flags&ast.FlagAwait == 0 {
			p.errorAt(diag.InvalidForInOfInit, p.span(exprStart), "The left-hand side of a for-of loop may not be 'async'")
		}
		if forIn || forOf {
			init = p.toAssignmentTarget(init, true)
		}
	}
	p.scope.allowIn = allowIn

	if forIn || forOf {
		p.next()
		var right ast.NodeID
		if forOf {
			right = p.parseAssignmentExpression()
		} else {
			right = p.parseExpression()
		}
		p.expect(token.RightParenthesis)
		body := p.parseLoopBody()
		kind := ast.KindForInStatement
		if forOf {
			kind = ast.KindForOfStatement
		} else if flags&ast.FlagAwait != 0 {
			p.errorAt(diag.InvalidAwait, p.span(start), "for await requires an of loop")
		}
		return p.add(ast.Node{Kind: kind, Span: p.span(start), A: init, B: right, C: body, Flags: flags})
	}

	if flags&ast.FlagAwait != 0 {
		p.errorAt(diag.InvalidAwait, p.span(start), "for await requires an of loop")
	}
	if init != ast.NoNode && p.kind(init) == ast.KindVariableDeclaration {
		p.checkDeclarationInitializers(init)
	}
	p.expect(token.Semicolon)
	var test, update ast.NodeID
	if p.currentKind() != token.Semicolon {
		test = p.parseExpression()
	}
	p.expect(token.Semicolon)
	if p.currentKind() != token.RightParenthesis {
		update = p.parseExpression()
	}
	p.expect(token.RightParenthesis)
	body := p.parseLoopBody()
	return p.add(ast.Node{Kind: ast.KindForStatement, Span: p.span(start), A: init, B: test, C: update, D: body, Flags: flags})
}

func (p *parser) letStartsForDeclaration() bool {
	next := p.peek().Kind
	return next == token.LeftBracket || next == token.LeftBrace || next == token.Identifier || token.UnreservedWord(next) && next != token.Of && next != token.In
}

// checkForInOfDeclaration enforces a single declarator without initializer
// in a for-in or for-of head.
func (p *parser) checkForInOfDeclaration(decl ast.NodeID, forOf bool) {
	n := p.node(decl)
	list := p.b.ListOf(n.List)
	if len(list) != 1 {
		p.errorAt(diag.InvalidForInOfInit, n.Span, "Only a single variable declaration is allowed in a for-in or for-of statement")
		return
	}
	d := p.node(list[0])
	if d.B == ast.NoNode {
		return
	}
	// for (var x = 1 in o) is tolerated in sloppy scripts.
	if !forOf && n.Op == token.Var && !p.scope.strict && p.kind(d.A) == ast.KindBindingIdentifier {
		return
	}
	p.errorAt(diag.InvalidForInOfInit, d.Span, "for-in and for-of loop variable declarations may not have an initializer")
}

func (p *parser) parseBreakStatement() ast.NodeID {
	start := p.expect(token.Break)
	var target ast.NodeID
	if p.currentKind() == token.Identifier || token.UnreservedWord(p.currentKind()) {
		if !p.token.OnNewLine {
			name := p.token.Value
			target = p.leaf(ast.KindLabelIdentifier, name)
			if _, ok := p.scope.findLabel(name); !ok {
				p.errorAt(diag.UndefinedLabel, p.node(target).Span, "Undefined label '%s'", name)
			}
		}
	}
	if target == ast.NoNode && !p.scope.inIteration && !p.scope.inSwitch {
		p.errorAt(diag.IllegalBreak, p.span(start), "Illegal break statement")
	}
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindBreakStatement, Span: p.span(start), A: target})
}

func (p *parser) parseContinueStatement() ast.NodeID {
	start := p.expect(token.Continue)
	var target ast.NodeID
	if p.currentKind() == token.Identifier || token.UnreservedWord(p.currentKind()) {
		if !p.token.OnNewLine {
			name := p.token.Value
			target = p.leaf(ast.KindLabelIdentifier, name)
			if l, ok := p.scope.findLabel(name); !ok {
				p.errorAt(diag.UndefinedLabel, p.node(target).Span, "Undefined label '%s'", name)
			} else if !l.loop {
				p.errorAt(diag.IllegalContinue, p.node(target).Span, "Label '%s' does not denote an iteration statement", name)
			}
		}
	}
	if !p.scope.inIteration {
		p.errorAt(diag.IllegalContinue, p.span(start), "Illegal continue statement")
	}
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindContinueStatement, Span: p.span(start), A: target})
}

func (p *parser) parseReturnStatement() ast.NodeID {
	start := p.expect(token.Return)
	if !p.scope.inFunction {
		p.errorAt(diag.IllegalReturn, p.span(start), "Illegal return statement")
	}
	var argument ast.NodeID
	if !p.canInsertSemicolon() {
		argument = p.parseExpression()
	}
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindReturnStatement, Span: p.span(start), A: argument})
}

func (p *parser) parseThrowStatement() ast.NodeID {
	start := p.expect(token.Throw)
	if p.token.OnNewLine {
		p.error(diag.LineTerminatorNotAllow, "Illegal newline after throw")
	}
	argument := p.parseExpression()
	p.semicolon()
	return p.add(ast.Node{Kind: ast.KindThrowStatement, Span: p.span(start), A: argument})
}

func (p *parser) parseWithStatement() ast.NodeID {
	start := p.expect(token.With)
	if p.scope.strict {
		p.errorAt(diag.StrictWith, p.span(start), "Strict mode code may not include a with statement")
	}
	object := p.parseParenthesizedCondition()
	p.scope.allowLet = false
	body := p.parseStatement()
	return p.add(ast.Node{Kind: ast.KindWithStatement, Span: p.span(start), A: object, B: body})
}

func (p *parser) parseSwitchStatement() ast.NodeID {
	start := p.expect(token.Switch)
	discriminant := p.parseParenthesizedCondition()
	p.expect(token.LeftBrace)

	inSwitch := p.scope.inSwitch
	p.scope.inSwitch = true
	defer func() { p.scope.inSwitch = inSwitch }()

	mark := len(p.buf)
	seenDefault := false
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		caseStart := p.currentOffset()
		var test ast.NodeID
		switch p.currentKind() {
		case token.Case:
			p.next()
			test = p.parseExpression()
		case token.Default:
			if seenDefault {
				p.error(diag.MultipleDefaults, "More than one default clause in switch statement")
			}
			seenDefault = true
			p.next()
		default:
			p.errorUnexpectedToken()
			p.panic = false
			if span, skipped := p.nextStatement(); skipped {
				p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindError, Span: span}))
			}
			if p.currentOffset() == caseStart && p.currentKind() != token.RightBrace {
				p.next()
			}
			continue
		}
		p.expect(token.Colon)
		consequent := len(p.buf)
		for k := p.currentKind(); k != token.Case && k != token.Default && k != token.RightBrace && k != token.Eof; k = p.currentKind() {
			p.parseStatementRecovering()
		}
		p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindSwitchCase, Span: p.span(caseStart), A: test, List: p.finishList(consequent)}))
	}
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindSwitchStatement, Span: p.span(start), A: discriminant, List: p.finishList(mark)})
}

func (p *parser) parseTryStatement() ast.NodeID {
	start := p.expect(token.Try)
	block := p.parseBlockStatement()

	var handler, finalizer ast.NodeID
	if p.currentKind() == token.Catch {
		catchStart := p.currentOffset()
		p.next()
		var param ast.NodeID
		if p.optional(token.LeftParenthesis) {
			param = p.parseBindingTarget()
			if p.ts() && p.currentKind() == token.Colon {
				p.attachTypeAnnotation(param)
			}
			p.expect(token.RightParenthesis)
		}
		body := p.parseBlockStatement()
		handler = p.add(ast.Node{Kind: ast.KindCatchClause, Span: p.span(catchStart), A: param, B: body})
	}
	if p.optional(token.Finally) {
		finalizer = p.parseBlockStatement()
	}
	if handler == ast.NoNode && finalizer == ast.NoNode {
		p.errorAt(diag.MissingCatchOrFinally, p.span(start), "Missing catch or finally after try")
	}
	return p.add(ast.Node{Kind: ast.KindTryStatement, Span: p.span(start), A: block, B: handler, C: finalizer})
}

// parseLexicalDeclaration parses a var, let or const statement.
func (p *parser) parseLexicalDeclaration() ast.NodeID {
	decl := p.parseVariableDeclarationList(false)
	p.checkDeclarationInitializers(decl)
	p.semicolon()
	p.node(decl).Span = p.span(p.node(decl).Span.Start)
	return decl
}

// parseVariableDeclarationList parses the keyword and declarators. The
// caller checks initializers since for-in/of heads have different rules.
func (p *parser) parseVariableDeclarationList(inFor bool) ast.NodeID {
	start := p.currentOffset()
	kind := p.currentKind()
	p.next()
	mark := len(p.buf)
	for {
		p.buf = append(p.buf, p.parseVariableDeclarator(kind, inFor))
		if !p.optional(token.Comma) {
			break
		}
	}
	return p.add(ast.Node{
		Kind:  ast.KindVariableDeclaration,
		Op:    kind,
		Span:  p.span(start),
		List:  p.finishList(mark),
		Flags: p.declareFlag(),
	})
}

func (p *parser) declareFlag() ast.Flags {
	if p.scope.inDeclare {
		return ast.FlagDeclare
	}
	return 0
}

func (p *parser) parseVariableDeclarator(kind token.Token, inFor bool) ast.NodeID {
	start := p.currentOffset()
	if kind != token.Var && p.currentKind() == token.Let {
		p.error(diag.ReservedWord, "let is disallowed as a lexically bound name")
	}
	target := p.parseBindingTarget()
	var flags ast.Flags
	if p.ts() {
		if p.currentKind() == token.Not && !p.token.OnNewLine {
			p.next()
			flags |= ast.FlagDefinite
		}
		if p.currentKind() == token.Colon {
			p.attachTypeAnnotation(target)
		}
	}
	var init ast.NodeID
	if p.optional(token.Assign) {
		init = p.parseAssignmentExpression()
	}
	return p.add(ast.Node{Kind: ast.KindVariableDeclarator, Span: p.span(start), A: target, B: init, Flags: flags})
}

// checkDeclarationInitializers reports const and destructuring declarators
// without an initializer.
func (p *parser) checkDeclarationInitializers(decl ast.NodeID) {
	n := p.node(decl)
	if n.Has(ast.FlagDeclare) || p.scope.inDeclare {
		return
	}
	for _, id := range p.b.ListOf(n.List) {
		d := p.node(id)
		if d.B != ast.NoNode || p.kind(d.A) == ast.KindError {
			continue
		}
		switch {
		case n.Op == token.Const:
			p.errorAt(diag.MissingInitializer, d.Span, "Missing initializer in const declaration")
		case p.kind(d.A) != ast.KindBindingIdentifier:
			p.errorAt(diag.MissingInitializer, d.Span, "Missing initializer in destructuring declaration")
		}
	}
}

// parseDecoratedStatement handles decorators before a class declaration or
// an exported class.
func (p *parser) parseDecoratedStatement() ast.NodeID {
	start := p.currentOffset()
	decorators := p.parseDecorators()
	switch {
	case p.currentKind() == token.Class:
		return p.parseClassDeclaration(start, decorators, 0)
	case p.is("abstract") && p.peek().Kind == token.Class:
		p.next()
		return p.parseClassDeclaration(start, decorators, ast.FlagAbstract)
	case p.currentKind() == token.Export:
		return p.parseExportDeclarationWithDecorators(start, decorators)
	}
	p.error(diag.UnexpectedToken, "Decorators are not valid here")
	return p.parseStatementListItem()
}
