package parser

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

// jsxContext says how to scan the token after an element's final '>'.
type jsxContext uint8

const (
	jsxInExpression jsxContext = iota // default scanning resumes
	jsxInChildren                     // the element is a child of another
	jsxInAttribute                    // the element is an attribute value
)

// nextInsideJSX advances inside a tag.
func (p *parser) nextInsideJSX() {
	p.consume()
	p.scanner.NextInsideJSXElement()
	p.token = p.scanner.Token
}

// nextJSXChild advances between tags.
func (p *parser) nextJSXChild() {
	p.consume()
	p.scanner.NextJSXChild()
	p.token = p.scanner.Token
}

// nextAfterJSX consumes the current token and scans the next one the way
// ctx requires.
func (p *parser) nextAfterJSX(ctx jsxContext) {
	switch ctx {
	case jsxInChildren:
		p.nextJSXChild()
	case jsxInAttribute:
		p.nextInsideJSX()
	default:
		p.next()
	}
}

// closeJSXTag expects the '>' that ends a tag.
func (p *parser) closeJSXTag(ctx jsxContext) {
	if p.currentKind() != token.Greater {
		p.errorExpected(token.Greater)
		return
	}
	p.nextAfterJSX(ctx)
}

// peekClosingTag reports whether the current '<' starts '</'.
func (p *parser) peekClosingTag() bool {
	c := p.scanner.Checkpoint()
	p.scanner.NextInsideJSXElement()
	closing := p.scanner.Token.Kind == token.Slash
	p.scanner.Rewind(c)
	return closing
}

// parseJSXElement parses an element or fragment starting at '<'.
func (p *parser) parseJSXElement(ctx jsxContext) ast.NodeID {
	start := p.currentOffset()
	p.nextInsideJSX()

	if p.currentKind() == token.Greater {
		p.nextJSXChild()
		children := p.parseJSXChildren()
		if p.currentKind() == token.Less {
			p.nextInsideJSX()
			p.expectJSX(token.Slash)
			if p.currentKind() != token.Greater {
				p.errorAt(diag.JSXTagMismatch, p.token.Span(), "Expected corresponding closing tag for JSX fragment")
				p.parseJSXElementName()
			}
			p.closeJSXTag(ctx)
		}
		return p.add(ast.Node{Kind: ast.KindJSXFragment, Span: p.span(start), List: children})
	}

	name := p.parseJSXElementName()
	var typeArgs ast.NodeID
	if p.ts() && p.currentKind() == token.Less {
		typeArgs = p.parseTypeArguments()
	}
	attrs := p.parseJSXAttributes()

	if p.currentKind() == token.Slash {
		p.nextInsideJSX()
		p.closeJSXTag(ctx)
		opening := p.add(ast.Node{Kind: ast.KindJSXOpeningElement, Span: p.span(start), A: name, B: typeArgs, List: attrs, Flags: ast.FlagSelfClosing})
		return p.add(ast.Node{Kind: ast.KindJSXElement, Span: p.span(start), A: opening})
	}

	if p.currentKind() != token.Greater {
		p.errorExpected(token.Greater)
		opening := p.add(ast.Node{Kind: ast.KindJSXOpeningElement, Span: p.span(start), A: name, B: typeArgs, List: attrs})
		return p.add(ast.Node{Kind: ast.KindJSXElement, Span: p.span(start), A: opening})
	}
	p.nextJSXChild()
	opening := p.add(ast.Node{Kind: ast.KindJSXOpeningElement, Span: p.span(start), A: name, B: typeArgs, List: attrs})

	children := p.parseJSXChildren()
	var closing ast.NodeID
	if p.currentKind() == token.Less {
		closeStart := p.currentOffset()
		p.nextInsideJSX()
		p.expectJSX(token.Slash)
		closeName := p.parseJSXElementName()
		if want, got := p.jsxName(name), p.jsxName(closeName); want != got {
			p.errorAt(diag.JSXTagMismatch, p.node(closeName).Span, "Expected corresponding JSX closing tag for '%s'", want)
		}
		p.closeJSXTag(ctx)
		closing = p.add(ast.Node{Kind: ast.KindJSXClosingElement, Span: p.span(closeStart), A: closeName})
	}
	return p.add(ast.Node{Kind: ast.KindJSXElement, Span: p.span(start), A: opening, List: children, B: closing})
}

// expectJSX consumes kind inside a tag.
func (p *parser) expectJSX(kind token.Token) {
	if p.currentKind() != kind {
		p.errorExpected(kind)
		return
	}
	p.nextInsideJSX()
}

// jsxIdentifier creates a JSXIdentifier from the current tag token. Names
// may contain '-'.
func (p *parser) jsxIdentifier() ast.NodeID {
	if !token.ID(p.currentKind()) {
		p.errorUnexpectedToken()
		return p.errorNode()
	}
	p.scanner.ReScanJSXIdentifier()
	p.sync()
	start := p.currentOffset()
	text := p.currentString()
	p.nextInsideJSX()
	return p.add(ast.Node{Kind: ast.KindJSXIdentifier, Span: p.span(start), Text: text})
}

func (p *parser) parseJSXElementName() ast.NodeID {
	start := p.currentOffset()
	name := p.jsxIdentifier()
	if p.currentKind() == token.Colon {
		p.nextInsideJSX()
		local := p.jsxIdentifier()
		return p.add(ast.Node{Kind: ast.KindJSXNamespacedName, Span: p.span(start), A: name, B: local})
	}
	for p.currentKind() == token.Period {
		p.nextInsideJSX()
		property := p.jsxIdentifier()
		name = p.add(ast.Node{Kind: ast.KindJSXMemberExpression, Span: p.span(start), A: name, B: property})
	}
	return name
}

// jsxName renders an element name for comparing opening and closing tags.
func (p *parser) jsxName(id ast.NodeID) string {
	n := p.node(id)
	switch n.Kind {
	case ast.KindJSXIdentifier:
		return n.Text
	case ast.KindJSXNamespacedName:
		return p.jsxName(n.A) + ":" + p.jsxName(n.B)
	case ast.KindJSXMemberExpression:
		return p.jsxName(n.A) + "." + p.jsxName(n.B)
	}
	return ""
}

func (p *parser) parseJSXAttributes() ast.ListRef {
	mark := len(p.buf)
	for {
		switch kind := p.currentKind(); {
		case kind == token.Slash, kind == token.Greater, kind == token.Eof:
			return p.finishList(mark)
		case kind == token.LeftBrace:
			p.buf = append(p.buf, p.parseJSXSpreadAttribute())
		case token.ID(kind):
			p.buf = append(p.buf, p.parseJSXAttribute())
		default:
			p.errorUnexpectedToken()
			return p.finishList(mark)
		}
	}
}

func (p *parser) parseJSXSpreadAttribute() ast.NodeID {
	start := p.currentOffset()
	p.next()
	p.expect(token.Ellipsis)
	argument := p.parseAssignmentExpression()
	p.closeJSXExpression()
	return p.add(ast.Node{Kind: ast.KindJSXSpreadAttribute, Span: p.span(start), A: argument})
}

// closeJSXExpression expects the '}' that ends an expression inside a tag.
func (p *parser) closeJSXExpression() {
	if p.currentKind() != token.RightBrace {
		p.errorExpected(token.RightBrace)
		return
	}
	p.nextInsideJSX()
}

func (p *parser) parseJSXAttribute() ast.NodeID {
	start := p.currentOffset()
	name := p.jsxIdentifier()
	if p.currentKind() == token.Colon {
		p.nextInsideJSX()
		local := p.jsxIdentifier()
		name = p.add(ast.Node{Kind: ast.KindJSXNamespacedName, Span: p.span(start), A: name, B: local})
	}
	var value ast.NodeID
	if p.currentKind() == token.Assign {
		p.nextInsideJSX()
		value = p.parseJSXAttributeValue()
	}
	return p.add(ast.Node{Kind: ast.KindJSXAttribute, Span: p.span(start), A: name, B: value})
}

func (p *parser) parseJSXAttributeValue() ast.NodeID {
	start := p.currentOffset()
	switch p.currentKind() {
	case token.String:
		value := p.token.Value
		p.nextInsideJSX()
		return p.add(ast.Node{Kind: ast.KindStringLiteral, Span: p.span(start), Text: value})
	case token.LeftBrace:
		p.next()
		var expr ast.NodeID
		if p.currentKind() == token.RightBrace {
			p.error(diag.UnexpectedToken, "JSX attributes must only be assigned a non-empty expression")
			expr = p.add(ast.Node{Kind: ast.KindJSXEmptyExpression, Span: ast.Span{Start: start + 1, End: p.currentOffset()}})
		} else {
			expr = p.parseAssignmentExpression()
		}
		p.closeJSXExpression()
		return p.add(ast.Node{Kind: ast.KindJSXExpressionContainer, Span: p.span(start), A: expr})
	case token.Less:
		return p.parseJSXElement(jsxInAttribute)
	}
	p.errorUnexpectedToken()
	return p.errorNode()
}

// parseJSXChildren parses children up to a closing tag. The current token
// was scanned in child mode.
func (p *parser) parseJSXChildren() ast.ListRef {
	mark := len(p.buf)
	for {
		switch p.currentKind() {
		case token.JSXText:
			start := p.currentOffset()
			text := p.token.Value
			p.nextJSXChild()
			p.buf = append(p.buf, p.add(ast.Node{Kind: ast.KindJSXText, Span: p.span(start), Text: text}))
		case token.LeftBrace:
			p.buf = append(p.buf, p.parseJSXChildExpression())
		case token.Less:
			if p.peekClosingTag() {
				return p.finishList(mark)
			}
			p.buf = append(p.buf, p.parseJSXElement(jsxInChildren))
		default:
			p.errorExpected(token.Less)
			return p.finishList(mark)
		}
	}
}

func (p *parser) parseJSXChildExpression() ast.NodeID {
	start := p.currentOffset()
	p.next()
	kind := ast.KindJSXExpressionContainer
	var expr ast.NodeID
	switch p.currentKind() {
	case token.RightBrace:
		expr = p.add(ast.Node{Kind: ast.KindJSXEmptyExpression, Span: ast.Span{Start: start + 1, End: p.currentOffset()}})
	case token.Ellipsis:
		p.next()
		kind = ast.KindJSXSpreadChild
		expr = p.parseExpression()
	default:
		expr = p.parseExpression()
	}
	if p.currentKind() != token.RightBrace {
		p.errorExpected(token.RightBrace)
	} else {
		p.nextJSXChild()
	}
	return p.add(ast.Node{Kind: kind, Span: p.span(start), A: expr})
}
