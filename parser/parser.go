// Package parser turns JavaScript, TypeScript and JSX source into an arena
// backed syntax tree. Parsing never fails: malformed input produces
// diagnostics and Error placeholder nodes.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser/scanner"
	"github.com/t14raptor/fastfront/token"
)

// SourceType selects which grammar productions are legal. It has no effect
// on semantics.
type SourceType struct {
	Module     bool
	TypeScript bool
	JSX        bool
}

// SourceTypeFromPath infers the source type from a file name.
func SourceTypeFromPath(path string) SourceType {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ".d.ts"), strings.HasSuffix(base, ".d.mts"), strings.HasSuffix(base, ".d.cts"):
		return SourceType{Module: true, TypeScript: true}
	}
	switch filepath.Ext(base) {
	case ".mjs":
		return SourceType{Module: true}
	case ".cjs":
		return SourceType{}
	case ".jsx":
		return SourceType{Module: true, JSX: true}
	case ".ts", ".mts":
		return SourceType{Module: true, TypeScript: true}
	case ".cts":
		return SourceType{TypeScript: true}
	case ".tsx":
		return SourceType{Module: true, TypeScript: true, JSX: true}
	}
	return SourceType{Module: true}
}

// Options configure a parse.
type Options struct {
	SourceType SourceType
}

// DefaultOptions parses plain JavaScript modules.
var DefaultOptions = Options{
	SourceType: SourceType{Module: true},
}

type parser struct {
	token    scanner.Token
	prevEnd  ast.Idx
	prevKind token.Token
	src      string
	opts     Options

	scanner *scanner.Scanner
	b       *ast.Builder

	scope *scope
	diags diag.List

	// lastErr is the offset of the most recent syntax error. A second error
	// at the same offset is dropped.
	lastErr ast.Idx
	// errs counts reported errors, including dropped duplicates.
	errs int
	// errAt is the offset of the latest zero width Error placeholder. Nodes
	// finished before any token past it is consumed are widened to cover it.
	errAt ast.Idx

	// buf is scratch space for lists under construction. Callers record
	// len(buf) before appending and hand the tail to finishList.
	buf []ast.NodeID

	// coverInit holds shorthand properties with an initializer, {a = 1},
	// that are only valid once the object is reinterpreted as a pattern.
	coverInit []ast.NodeID

	// noConditional is set while parsing the extends clause of a
	// conditional type, where another conditional must be parenthesized.
	noConditional bool

	// panic is set by an unexpected token and cleared once the statement
	// list has skipped to a synchronizing token.
	panic bool

	// tokens collects consumed tokens once parsing starts, if keepTokens is set.
	keepTokens bool
	tokens     []scanner.Token
}

func newParser(src string, opts Options) *parser {
	return &parser{
		src:     src,
		opts:    opts,
		scanner: scanner.NewScanner(src),
		b:       ast.NewBuilder(),
		lastErr: -1,
		errAt:   -1,
	}
}

// ParseFile parses one source text. The returned program is always complete;
// the diagnostic list holds lexical errors followed by syntax errors.
func ParseFile(src string, opts Options) (*ast.Program, diag.List) {
	return newParser(src, opts).parse()
}

// Tokens parses src and returns the tokens the parser consumed, ending with
// EOF. Regular expressions, template continuations, split '>' tokens and JSX
// text appear as the grammar re-scanned them.
func Tokens(src string, opts Options) []scanner.Token {
	p := newParser(src, opts)
	p.keepTokens = true
	p.parse()
	return p.tokens
}

func (p *parser) parse() (*ast.Program, diag.List) {
	p.openScope()
	p.scope.inFunction = false
	p.scope.strict = p.opts.SourceType.Module
	p.scope.allowAwait = p.opts.SourceType.Module
	p.next()
	if p.keepTokens {
		p.tokens = []scanner.Token{}
	}
	root := p.parseProgram()
	p.closeScope()
	if p.tokens != nil {
		p.tokens = append(p.tokens, p.token)
	}

	for _, id := range p.coverInit {
		if id != ast.NoNode {
			p.diags.Errorf(diag.UnexpectedToken, p.b.Node(id).Span, "Invalid shorthand property initializer")
		}
	}

	diags := append(diag.List{}, p.scanner.Diagnostics()...)
	diags = append(diags, p.diags...)
	return &ast.Program{
		Arena:    p.b.Finish(root),
		Root:     root,
		Source:   p.src,
		Comments: p.scanner.Comments(),
		Hashbang: p.scanner.Hashbang,
	}, diags
}

func (p *parser) ts() bool {
	return p.opts.SourceType.TypeScript
}

func (p *parser) jsx() bool {
	return p.opts.SourceType.JSX
}

func (p *parser) next() {
	p.consume()
	p.scanner.Next()
	p.token = p.scanner.Token
}

// consume retires the current token.
func (p *parser) consume() {
	p.prevEnd, p.prevKind = p.token.Idx1, p.token.Kind
	if p.tokens != nil {
		p.tokens = append(p.tokens, p.token)
	}
}

// sync copies the scanner token after a re-scan request.
func (p *parser) sync() {
	p.token = p.scanner.Token
}

type parserState struct {
	c scanner.Checkpoint

	tok       scanner.Token
	prevEnd   ast.Idx
	prevKind  token.Token
	size      ast.Size
	buf       int
	diags     int
	scanDiags int
	coverInit int
	lastErr   ast.Idx
	errAt     ast.Idx
	errs      int
	panic     bool
	tokens    int
}

func (p *parser) mark() parserState {
	return parserState{
		c:         p.scanner.Checkpoint(),
		tok:       p.token,
		prevEnd:   p.prevEnd,
		prevKind:  p.prevKind,
		size:      p.b.Size(),
		buf:       len(p.buf),
		diags:     len(p.diags),
		scanDiags: len(p.scanner.Diagnostics()),
		coverInit: len(p.coverInit),
		lastErr:   p.lastErr,
		errAt:     p.errAt,
		errs:      p.errs,
		panic:     p.panic,
		tokens:    len(p.tokens),
	}
}

// restore rewinds the scanner and drops every node, list entry and
// diagnostic created since the state was marked.
func (p *parser) restore(state parserState) {
	p.scanner.Rewind(state.c)
	p.token = state.tok
	p.prevEnd, p.prevKind = state.prevEnd, state.prevKind
	p.b.Truncate(state.size)
	p.buf = p.buf[:state.buf]
	p.diags = p.diags[:state.diags]
	p.coverInit = p.coverInit[:state.coverInit]
	p.lastErr = state.lastErr
	p.errAt = state.errAt
	p.errs = state.errs
	p.panic = state.panic
	if p.tokens != nil {
		p.tokens = p.tokens[:state.tokens]
	}
}

// failedSince reports whether anything was diagnosed after state was marked.
// Speculative parses give up on the first problem.
func (p *parser) failedSince(state parserState) bool {
	return p.errs != state.errs || len(p.scanner.Diagnostics()) != state.scanDiags
}

func (p *parser) peek() scanner.Token {
	return p.peekAt(1)
}

// peekAt returns the token n positions ahead without consuming anything.
func (p *parser) peekAt(n int) scanner.Token {
	c := p.scanner.Checkpoint()
	for i := 0; i < n; i++ {
		p.scanner.Next()
	}
	tok := p.scanner.Token
	p.scanner.Rewind(c)
	return tok
}

func (p *parser) currentKind() token.Token {
	return p.token.Kind
}

func (p *parser) currentOffset() ast.Idx {
	return p.token.Idx0
}

func (p *parser) currentString() string {
	return p.token.Raw(p.scanner)
}

// is reports whether the current token is the contextual keyword word,
// written without escapes.
func (p *parser) is(word string) bool {
	return p.token.Kind == token.Identifier && !p.token.HasEscape && p.token.Value == word
}

func (p *parser) canInsertSemicolon() bool {
	kind := p.currentKind()
	return kind == token.Semicolon || kind == token.RightBrace || kind == token.Eof || p.token.OnNewLine
}

// semicolon consumes a statement terminator, inserting one where the
// grammar allows it.
func (p *parser) semicolon() {
	if p.currentKind() == token.Semicolon {
		p.next()
		return
	}
	if !p.canInsertSemicolon() {
		p.errorAt(diag.MissingSemicolon, p.token.Span(), "Missing semicolon before %s", p.describe())
	}
}

func (p *parser) expect(value token.Token) ast.Idx {
	idx := p.currentOffset()
	if p.token.Kind != value {
		p.errorExpected(value)
		return idx
	}
	p.next()
	return idx
}

// optional consumes the current token if it has the given kind.
func (p *parser) optional(kind token.Token) bool {
	if p.token.Kind == kind {
		p.next()
		return true
	}
	return false
}

// span returns the range from start to the end of the last consumed token.
func (p *parser) span(start ast.Idx) ast.Span {
	end := p.prevEnd
	if p.errAt > end && p.errAt >= start {
		end = p.errAt
	}
	if end < start {
		end = start
	}
	return ast.Span{Start: start, End: end}
}

func (p *parser) add(n ast.Node) ast.NodeID {
	return p.b.Add(n)
}

func (p *parser) node(id ast.NodeID) *ast.Node {
	return p.b.Node(id)
}

func (p *parser) kind(id ast.NodeID) ast.Kind {
	if id == ast.NoNode {
		return ast.KindInvalid
	}
	return p.b.Node(id).Kind
}

func (p *parser) finishList(mark int) ast.ListRef {
	ref := p.b.List(p.buf[mark:])
	p.buf = p.buf[:mark]
	return ref
}

// leaf creates a node from the current token and advances.
func (p *parser) leaf(kind ast.Kind, text string) ast.NodeID {
	start := p.currentOffset()
	p.next()
	return p.add(ast.Node{Kind: kind, Span: p.span(start), Text: text})
}

func (p *parser) parseProgram() ast.NodeID {
	start := ast.Idx(0)
	mark := len(p.buf)
	p.parseDirectives()
	p.parseStatementListInto(token.Eof)
	var flags ast.Flags
	if p.opts.SourceType.Module {
		flags |= ast.FlagModule
	}
	if p.scope.strict {
		flags |= ast.FlagStrict
	}
	end := ast.Idx(len(p.src))
	return p.add(ast.Node{
		Kind:  ast.KindProgram,
		Span:  ast.Span{Start: start, End: end},
		List:  p.finishList(mark),
		Flags: flags,
	})
}
