package parser

import (
	"fmt"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

const (
	errUnexpectedToken      = "Unexpected token %s"
	errUnexpectedEndOfInput = "Unexpected end of input"
)

// errorAt records a syntax error. A second error at the same offset as the
// previous one is dropped so that one bad token yields one diagnostic.
func (p *parser) errorAt(code diag.Code, span ast.Span, format string, args ...any) {
	p.errs++
	if span.Start == p.lastErr {
		return
	}
	p.lastErr = span.Start
	p.diags.Errorf(code, span, format, args...)
}

// error reports a syntax error at the current token.
func (p *parser) error(code diag.Code, format string, args ...any) {
	p.errorAt(code, p.token.Span(), format, args...)
}

// semanticError reports an early error that belongs to the semantic class,
// such as an invalid assignment target.
func (p *parser) semanticError(code diag.Code, span ast.Span, msg string) {
	p.errs++
	p.diags.Errorf(code, span, "%s", msg)
}

// describe renders the current token for messages.
func (p *parser) describe() string {
	switch p.token.Kind {
	case token.Eof:
		return "end of input"
	case token.Identifier:
		return fmt.Sprintf("identifier %q", p.token.Value)
	case token.String:
		return "string"
	case token.Number:
		return "number"
	case token.EscapedReservedWord:
		return "escaped keyword"
	}
	if token.IsKeyword(p.token.Kind) {
		return "keyword " + p.currentString()
	}
	return "'" + p.currentString() + "'"
}

func (p *parser) errorUnexpectedToken() {
	p.panic = true
	switch p.token.Kind {
	case token.Eof:
		p.error(diag.UnexpectedEnd, errUnexpectedEndOfInput)
	case token.EscapedReservedWord:
		p.error(diag.UnexpectedToken, "Keyword must not contain escaped characters")
	default:
		p.error(diag.UnexpectedToken, errUnexpectedToken, p.describe())
	}
}

func (p *parser) errorExpected(want token.Token) {
	p.panic = true
	if p.token.Kind == token.Eof {
		p.error(diag.UnexpectedEnd, "Expected '%s' but found end of input", want)
		return
	}
	p.error(diag.ExpectedToken, "Expected '%s' but found %s", want, p.describe())
}

// errorNode returns a zero-width placeholder at the current token.
func (p *parser) errorNode() ast.NodeID {
	at := p.currentOffset()
	p.errAt = at
	return p.add(ast.Node{Kind: ast.KindError, Span: ast.Span{Start: at, End: at}})
}

// unexpected reports the current token and returns a placeholder without
// consuming anything.
func (p *parser) unexpected() ast.NodeID {
	p.errorUnexpectedToken()
	return p.errorNode()
}

// isStatementStart reports whether the token begins a statement that is safe
// to resume at after an error.
func isStatementStart(kind token.Token) bool {
	switch kind {
	case token.Break, token.Continue, token.For, token.If, token.Return,
		token.Switch, token.Var, token.Let, token.Const, token.Do, token.Try,
		token.With, token.While, token.Throw, token.Function, token.Class,
		token.Import, token.Export, token.Debugger:
		return true
	}
	return false
}

// nextStatement skips tokens after an error until a synchronizing point: a
// ';' (consumed), a '}' or statement keyword on a new line at bracket depth
// zero, or the end of input. It returns the skipped range. Callers guarantee
// progress when nothing was skipped.
func (p *parser) nextStatement() (ast.Span, bool) {
	start := p.currentOffset()
	skipped := false
	depth := 0
	for {
		switch kind := p.currentKind(); {
		case kind == token.Eof:
			return p.span(start), skipped
		case depth == 0 && kind == token.Semicolon:
			p.next()
			return p.span(start), true
		case depth == 0 && kind == token.RightBrace:
			return p.span(start), skipped
		case depth == 0 && p.token.OnNewLine && isStatementStart(kind):
			return p.span(start), skipped
		case kind == token.LeftBrace || kind == token.LeftParenthesis || kind == token.LeftBracket:
			depth++
		case kind == token.RightParenthesis || kind == token.RightBracket || kind == token.RightBrace:
			if depth > 0 {
				depth--
			}
		}
		p.next()
		skipped = true
	}
}
