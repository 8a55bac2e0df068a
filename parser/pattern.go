package parser

import (
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

const errInvalidTarget = "Invalid left-hand side in assignment"

// toAssignmentTarget checks that expr may be assigned to. With allowPattern
// array and object literals are reinterpreted in place as patterns, which is
// how the cover grammar of destructuring assignment is resolved.
func (p *parser) toAssignmentTarget(id ast.NodeID, allowPattern bool) ast.NodeID {
	if id == ast.NoNode {
		return id
	}
	n := p.node(id)
	switch n.Kind {
	case ast.KindIdentifierReference:
		if p.scope.strict && (n.Text == "eval" || n.Text == "arguments") {
			p.semanticError(diag.InvalidAssignmentTarget, n.Span, "Assigning to '"+n.Text+"' in strict mode")
		}
		return id
	case ast.KindMemberExpression, ast.KindComputedMemberExpression, ast.KindError:
		return id
	case ast.KindParenthesizedExpression, ast.KindTSAsExpression, ast.KindTSSatisfiesExpression,
		ast.KindTSNonNullExpression, ast.KindTSTypeAssertion:
		switch p.kind(p.unparen(id)) {
		case ast.KindIdentifierReference, ast.KindMemberExpression, ast.KindComputedMemberExpression:
			return id
		}
	case ast.KindArrayExpression:
		if allowPattern {
			p.toArrayPattern(id)
			return id
		}
	case ast.KindObjectExpression:
		if allowPattern {
			p.toObjectPattern(id)
			return id
		}
	case ast.KindArrayPattern, ast.KindObjectPattern:
		if allowPattern {
			return id
		}
	}
	p.semanticError(diag.InvalidAssignmentTarget, n.Span, errInvalidTarget)
	return id
}

// unparen strips parentheses and TS wrappers while the tree is still being
// built.
func (p *parser) unparen(id ast.NodeID) ast.NodeID {
	for id != ast.NoNode {
		n := p.node(id)
		switch n.Kind {
		case ast.KindParenthesizedExpression, ast.KindTSNonNullExpression,
			ast.KindTSAsExpression, ast.KindTSSatisfiesExpression:
			id = n.A
		case ast.KindTSTypeAssertion:
			id = n.B
		default:
			return id
		}
	}
	return id
}

// toPatternElement converts one element of an array or object literal that
// is becoming a pattern.
func (p *parser) toPatternElement(id ast.NodeID) ast.NodeID {
	n := p.node(id)
	if n.Kind == ast.KindAssignmentExpression {
		if n.Op != token.Assign {
			p.semanticError(diag.InvalidAssignmentTarget, n.Span, errInvalidTarget)
			return id
		}
		p.dropCoverInit(id)
		n.Kind = ast.KindAssignmentPattern
		n.Op = 0
		return id
	}
	return p.toAssignmentTarget(id, true)
}

// dropCoverInit marks a {a = 1} property as legitimately consumed by a
// pattern.
func (p *parser) dropCoverInit(id ast.NodeID) {
	for i, c := range p.coverInit {
		if c == id {
			p.coverInit[i] = ast.NoNode
		}
	}
}

// toRestElement converts a trailing spread into a rest element.
func (p *parser) toRestElement(id ast.NodeID, last bool, simple bool) {
	n := p.node(id)
	n.Kind = ast.KindRestElement
	if !last {
		p.errorAt(diag.RestNotLast, n.Span, "Rest element must be last element")
	}
	if p.kind(n.A) == ast.KindAssignmentExpression {
		p.semanticError(diag.InvalidAssignmentTarget, p.node(n.A).Span, "Rest elements cannot have a default value")
		return
	}
	n.A = p.toAssignmentTarget(n.A, !simple)
}

// trailingCommaAfter reports whether a ',' separates the end of a rest
// element from the closing bracket of its literal.
func (p *parser) trailingCommaAfter(elem, literal ast.NodeID) bool {
	from, to := p.node(elem).Span.End, p.node(literal).Span.End-1
	if from >= to {
		return false
	}
	return strings.IndexByte(p.src[from:to], ',') >= 0
}

func (p *parser) toArrayPattern(id ast.NodeID) {
	n := p.node(id)
	n.Kind = ast.KindArrayPattern
	elems := p.b.ListOf(n.List)
	for i, elem := range elems {
		switch p.kind(elem) {
		case ast.KindElision:
		case ast.KindSpreadElement:
			last := i == len(elems)-1 && !p.trailingCommaAfter(elem, id)
			p.toRestElement(elem, last, false)
		default:
			p.toPatternElement(elem)
		}
	}
}

func (p *parser) toObjectPattern(id ast.NodeID) {
	n := p.node(id)
	n.Kind = ast.KindObjectPattern
	props := p.b.ListOf(n.List)
	for i, prop := range props {
		pn := p.node(prop)
		switch {
		case pn.Kind == ast.KindSpreadElement:
			last := i == len(props)-1 && !p.trailingCommaAfter(prop, id)
			p.toRestElement(prop, last, true)
		case pn.Kind != ast.KindProperty:
		case pn.Has(ast.FlagMethod) || pn.Variant != ast.PropInit:
			p.semanticError(diag.InvalidAssignmentTarget, pn.Span, "Object pattern can't contain getter, setter or method")
		default:
			p.toPatternElement(pn.B)
		}
	}
}

// parseBindingTarget parses a BindingIdentifier, ObjectPattern or
// ArrayPattern.
func (p *parser) parseBindingTarget() ast.NodeID {
	switch p.currentKind() {
	case token.LeftBracket:
		return p.parseArrayBindingPattern()
	case token.LeftBrace:
		return p.parseObjectBindingPattern()
	}
	return p.parseBindingIdentifier()
}

func (p *parser) parseBindingIdentifier() ast.NodeID {
	if !p.isIdentifierLike(p.currentKind()) {
		return p.unexpected()
	}
	p.checkIdentifier(p.token.Value, p.token.Span(), true)
	return p.leaf(ast.KindBindingIdentifier, p.token.Value)
}

// parseBindingElement parses a binding target with an optional default.
func (p *parser) parseBindingElement() ast.NodeID {
	start := p.currentOffset()
	target := p.parseBindingTarget()
	if p.currentKind() != token.Assign {
		return target
	}
	p.next()
	allowIn := p.scope.allowIn
	p.scope.allowIn = true
	value := p.parseAssignmentExpression()
	p.scope.allowIn = allowIn
	return p.add(ast.Node{Kind: ast.KindAssignmentPattern, Span: p.span(start), A: target, B: value})
}

func (p *parser) parseBindingRest(simple bool) ast.NodeID {
	start := p.expect(token.Ellipsis)
	var target ast.NodeID
	if simple {
		target = p.parseBindingIdentifier()
	} else {
		target = p.parseBindingTarget()
	}
	rest := p.add(ast.Node{Kind: ast.KindRestElement, Span: p.span(start), A: target})
	if p.currentKind() == token.Comma {
		p.errorAt(diag.RestNotLast, p.node(rest).Span, "Rest element must be last element")
	}
	return rest
}

func (p *parser) parseArrayBindingPattern() ast.NodeID {
	start := p.expect(token.LeftBracket)
	mark := len(p.buf)
	for p.currentKind() != token.RightBracket && p.currentKind() != token.Eof {
		switch p.currentKind() {
		case token.Comma:
			p.buf = append(p.buf, p.elision())
			continue
		case token.Ellipsis:
			p.buf = append(p.buf, p.parseBindingRest(false))
		default:
			p.buf = append(p.buf, p.parseBindingElement())
		}
		if p.currentKind() != token.RightBracket && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBracket)
	return p.add(ast.Node{Kind: ast.KindArrayPattern, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseObjectBindingPattern() ast.NodeID {
	start := p.expect(token.LeftBrace)
	mark := len(p.buf)
	for p.currentKind() != token.RightBrace && p.currentKind() != token.Eof {
		if p.currentKind() == token.Ellipsis {
			p.buf = append(p.buf, p.parseBindingRest(true))
		} else {
			p.buf = append(p.buf, p.parseBindingProperty())
		}
		if p.currentKind() != token.RightBrace && !p.optional(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace)
	return p.add(ast.Node{Kind: ast.KindObjectPattern, Span: p.span(start), List: p.finishList(mark)})
}

func (p *parser) parseBindingProperty() ast.NodeID {
	start := p.currentOffset()
	keyTok := p.token
	key, computed := p.parsePropertyKey()
	var flags ast.Flags
	if computed {
		flags |= ast.FlagComputed
	}
	if p.optional(token.Colon) {
		value := p.parseBindingElement()
		return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), A: key, B: value, Flags: flags})
	}

	if computed || !p.isIdentifierLike(keyTok.Kind) {
		p.errorExpected(token.Colon)
		return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), A: key, B: p.errorNode(), Flags: flags})
	}
	p.checkIdentifier(keyTok.Value, keyTok.Span(), true)
	p.node(key).Kind = ast.KindBindingIdentifier
	value := key
	if p.optional(token.Assign) {
		allowIn := p.scope.allowIn
		p.scope.allowIn = true
		init := p.parseAssignmentExpression()
		p.scope.allowIn = allowIn
		value = p.add(ast.Node{Kind: ast.KindAssignmentPattern, Span: p.span(start), A: key, B: init})
	}
	return p.add(ast.Node{Kind: ast.KindProperty, Span: p.span(start), B: value, Flags: flags | ast.FlagShorthand})
}

// attachTypeAnnotation parses ': Type' after a binding and stores it on the
// target, widening the target's span to cover it.
func (p *parser) attachTypeAnnotation(target ast.NodeID) {
	ann := p.parseTypeAnnotation()
	n := p.node(target)
	switch n.Kind {
	case ast.KindBindingIdentifier, ast.KindObjectPattern, ast.KindArrayPattern:
		n.A = ann
	case ast.KindRestElement:
		n.B = ann
	default:
		p.errorAt(diag.UnexpectedToken, p.node(ann).Span, "Type annotation is not allowed here")
		return
	}
	n.Span.End = p.prevEnd
}
