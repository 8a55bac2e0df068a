package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser"
	"github.com/t14raptor/fastfront/token"
)

var (
	script = parser.SourceType{}
	module = parser.SourceType{Module: true}
	ts     = parser.SourceType{Module: true, TypeScript: true}
	tsx    = parser.SourceType{Module: true, TypeScript: true, JSX: true}
	jsx    = parser.SourceType{Module: true, JSX: true}
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func parse(src string, st parser.SourceType) (*ast.Program, diag.List) {
	return parser.ParseFile(src, parser.Options{SourceType: st})
}

// mustParse parses code and fails the test if any diagnostic is reported.
func mustParse(t *testing.T, code string, st parser.SourceType) *ast.Program {
	t.Helper()
	p, diags := parse(code, st)
	require.Empty(t, diags, "parsing %q:\n%s", code, diags)
	return p
}

// stmts returns the top-level statements.
func stmts(p *ast.Program) []ast.NodeID {
	return p.Arena.List(p.Node(p.Root).List)
}

// stmt returns the i-th top-level statement.
func stmt(p *ast.Program, i int) *ast.Node {
	return p.Node(stmts(p)[i])
}

// exprOf returns the expression of the i-th top-level expression statement.
func exprOf(t *testing.T, p *ast.Program, i int) *ast.Node {
	t.Helper()
	s := stmt(p, i)
	require.Equal(t, ast.KindExpressionStatement, s.Kind)
	return p.Node(s.A)
}

// initOf returns the initializer of the first declarator of the i-th
// top-level variable declaration.
func initOf(t *testing.T, p *ast.Program, i int) *ast.Node {
	t.Helper()
	s := stmt(p, i)
	require.Equal(t, ast.KindVariableDeclaration, s.Kind)
	d := p.Node(p.Arena.List(s.List)[0])
	require.NotEqual(t, ast.NoNode, d.B)
	return p.Node(d.B)
}

func list(p *ast.Program, n *ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, id := range p.Arena.List(n.List) {
		out = append(out, p.Node(id))
	}
	return out
}

func kindsOf(nodes []*ast.Node) []ast.Kind {
	var out []ast.Kind
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func codes(diags diag.List) []diag.Code {
	var out []diag.Code
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

// ===========================================================================
// STRUCTURE
// ===========================================================================

func TestVariableDeclarations(t *testing.T) {
	p := mustParse(t, "var a = 1; let b = 2\nconst c = 3", module)
	require.Len(t, stmts(p), 3)
	assert.Equal(t, token.Var, stmt(p, 0).Op)
	assert.Equal(t, token.Let, stmt(p, 1).Op)
	assert.Equal(t, token.Const, stmt(p, 2).Op)

	d := p.Node(p.Arena.List(stmt(p, 0).List)[0])
	assert.Equal(t, ast.KindBindingIdentifier, p.Arena.Kind(d.A))
	assert.Equal(t, "a", p.Node(d.A).Text)
	assert.Equal(t, 1.0, p.Node(d.B).Num)
	assert.Equal(t, "var a = 1;", p.Text(stmt(p, 0).Span))
}

func TestArrayLiteralElisions(t *testing.T) {
	p := mustParse(t, "var a = [1,,2,,3]", module)
	arr := initOf(t, p, 0)
	assert.Equal(t, []ast.Kind{
		ast.KindNumericLiteral, ast.KindElision, ast.KindNumericLiteral, ast.KindElision, ast.KindNumericLiteral,
	}, kindsOf(list(p, arr)))

	p = mustParse(t, "var a = [,]", module)
	assert.Equal(t, []ast.Kind{ast.KindElision}, kindsOf(list(p, initOf(t, p, 0))))
}

func TestLiterals(t *testing.T) {
	p := mustParse(t, "x = [0x1F, 1_000, 10n, 'a\\nb', true, null, /ab+c/gi]", module)
	arr := list(p, p.Node(exprOf(t, p, 0).B))
	require.Len(t, arr, 7)

	assert.Equal(t, 31.0, arr[0].Num)
	assert.Equal(t, ast.BaseHex, arr[0].Variant)
	assert.Equal(t, 1000.0, arr[1].Num)
	assert.Equal(t, ast.KindBigIntLiteral, arr[2].Kind)
	assert.Equal(t, "10", arr[2].Text)
	assert.Equal(t, "a\nb", arr[3].Text)
	assert.Equal(t, uint8(1), arr[4].Variant)
	assert.Equal(t, ast.KindNullLiteral, arr[5].Kind)
	assert.Equal(t, ast.KindRegExpLiteral, arr[6].Kind)
	assert.Equal(t, "ab+c", arr[6].Text)
	assert.Equal(t, "gi", ast.RegExpFlagString(arr[6].Variant))
}

func TestRegExpVersusDivide(t *testing.T) {
	p := mustParse(t, "a / b / c", module)
	e := exprOf(t, p, 0)
	assert.Equal(t, ast.KindBinaryExpression, e.Kind)
	assert.Equal(t, token.Slash, e.Op)
	assert.Equal(t, ast.KindBinaryExpression, p.Arena.Kind(e.A))

	p = mustParse(t, "if (x) /re/.test(y)", module)
	call := p.Node(stmt(p, 0).B)
	require.Equal(t, ast.KindExpressionStatement, call.Kind)
	member := p.Node(p.Node(call.A).A)
	assert.Equal(t, ast.KindRegExpLiteral, p.Arena.Kind(member.A))
}

func TestTokensFollowReScans(t *testing.T) {
	kinds := func(src string, st parser.SourceType) []token.Token {
		var out []token.Token
		for _, tok := range parser.Tokens(src, parser.Options{SourceType: st}) {
			out = append(out, tok.Kind)
		}
		return out
	}

	assert.Equal(t, []token.Token{
		token.Identifier, token.Assign, token.RegExp, token.Semicolon, token.Eof,
	}, kinds("a = /b/g;", module))
	assert.Equal(t, []token.Token{
		token.TemplateHead, token.Identifier, token.TemplateTail, token.Semicolon, token.Eof,
	}, kinds("`x${y}z`;", module))
	assert.Equal(t, []token.Token{
		token.Identifier, token.Less, token.Identifier, token.Greater,
		token.LeftParenthesis, token.Identifier, token.RightParenthesis, token.Semicolon, token.Eof,
	}, kinds("f<T>(x);", ts))

	toks := parser.Tokens("a = /b/g;", parser.Options{SourceType: module})
	require.Len(t, toks, 5)
	assert.Equal(t, "b", toks[2].Value)
	assert.Equal(t, ast.Idx(4), toks[2].Idx0)
	assert.Equal(t, ast.Idx(8), toks[2].Idx1)
}

func TestBinaryPrecedence(t *testing.T) {
	p := mustParse(t, "a + b * c", module)
	e := exprOf(t, p, 0)
	assert.Equal(t, token.Plus, e.Op)
	assert.Equal(t, token.Multiply, p.Node(e.B).Op)

	p = mustParse(t, "a ** b ** c", module)
	e = exprOf(t, p, 0)
	assert.Equal(t, token.Exponent, e.Op)
	assert.Equal(t, ast.KindIdentifierReference, p.Arena.Kind(e.A))
	assert.Equal(t, token.Exponent, p.Node(e.B).Op)

	p = mustParse(t, "a - b - c", module)
	e = exprOf(t, p, 0)
	assert.Equal(t, ast.KindBinaryExpression, p.Arena.Kind(e.A))
	assert.Equal(t, ast.KindIdentifierReference, p.Arena.Kind(e.B))

	p = mustParse(t, "a ?? b", module)
	e = exprOf(t, p, 0)
	assert.Equal(t, ast.KindLogicalExpression, e.Kind)
	assert.Equal(t, token.Coalesce, e.Op)

	p = mustParse(t, "a = b ? c : d", module)
	e = exprOf(t, p, 0)
	assert.Equal(t, ast.KindAssignmentExpression, e.Kind)
	assert.Equal(t, ast.KindConditionalExpression, p.Arena.Kind(e.B))
}

func TestArrowFunctions(t *testing.T) {
	p := mustParse(t, "(a, b = 1, ...c) => a", module)
	arrow := exprOf(t, p, 0)
	require.Equal(t, ast.KindArrowFunctionExpression, arrow.Kind)
	assert.True(t, arrow.Has(ast.FlagExpressionBody))
	params := list(p, p.Node(arrow.B))
	assert.Equal(t, []ast.Kind{ast.KindFormalParameter, ast.KindFormalParameter, ast.KindRestElement}, kindsOf(params))
	assert.Equal(t, ast.KindAssignmentPattern, p.Arena.Kind(params[1].A))

	p = mustParse(t, "async x => x", module)
	arrow = exprOf(t, p, 0)
	assert.Equal(t, ast.KindArrowFunctionExpression, arrow.Kind)
	assert.True(t, arrow.Has(ast.FlagAsync))

	p = mustParse(t, "async ({a}, [b]) => { await a }", module)
	arrow = exprOf(t, p, 0)
	assert.True(t, arrow.Has(ast.FlagAsync))
	assert.False(t, arrow.Has(ast.FlagExpressionBody))
	assert.Equal(t, ast.KindFunctionBody, p.Arena.Kind(arrow.D))

	p = mustParse(t, "(a, b)", module)
	paren := exprOf(t, p, 0)
	require.Equal(t, ast.KindParenthesizedExpression, paren.Kind)
	assert.Equal(t, ast.KindSequenceExpression, p.Arena.Kind(paren.A))

	p = mustParse(t, "async(x)", module)
	call := exprOf(t, p, 0)
	require.Equal(t, ast.KindCallExpression, call.Kind)
	assert.Equal(t, "async", p.Node(call.A).Text)
}

func TestDestructuringAssignment(t *testing.T) {
	p := mustParse(t, "[a, {b, c: [d]}, ...e] = f", module)
	assign := exprOf(t, p, 0)
	require.Equal(t, ast.KindAssignmentExpression, assign.Kind)
	target := p.Node(assign.A)
	require.Equal(t, ast.KindArrayPattern, target.Kind)
	elems := list(p, target)
	assert.Equal(t, []ast.Kind{ast.KindIdentifierReference, ast.KindObjectPattern, ast.KindRestElement}, kindsOf(elems))

	props := list(p, elems[1])
	assert.Equal(t, ast.KindArrayPattern, p.Arena.Kind(props[1].B))

	p = mustParse(t, "({a = 1, b: c = 2} = o)", module)
	assign = p.Node(exprOf(t, p, 0).A)
	props = list(p, p.Node(assign.A))
	assert.Equal(t, ast.KindAssignmentPattern, p.Arena.Kind(props[0].B))
	assert.Equal(t, ast.KindAssignmentPattern, p.Arena.Kind(props[1].B))

	p = mustParse(t, "for ([k, v] of m) ;", module)
	assert.Equal(t, ast.KindArrayPattern, p.Arena.Kind(stmt(p, 0).A))
}

func TestBindingPatterns(t *testing.T) {
	p := mustParse(t, "let {a, b: [c, , d = 1], ...rest} = o", module)
	d := p.Node(p.Arena.List(stmt(p, 0).List)[0])
	pattern := p.Node(d.A)
	require.Equal(t, ast.KindObjectPattern, pattern.Kind)
	props := list(p, pattern)
	assert.Equal(t, []ast.Kind{ast.KindProperty, ast.KindProperty, ast.KindRestElement}, kindsOf(props))
	assert.True(t, props[0].Has(ast.FlagShorthand))
	assert.Equal(t, ast.KindBindingIdentifier, p.Arena.Kind(props[0].B))

	inner := list(p, p.Node(props[1].B))
	assert.Equal(t, []ast.Kind{ast.KindBindingIdentifier, ast.KindElision, ast.KindAssignmentPattern}, kindsOf(inner))
}

func TestCoverInitializedName(t *testing.T) {
	_, diags := parse("({a = 1})", module)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnexpectedToken, diags[0].Code)

	mustParse(t, "({a = 1} = b)", module)
	mustParse(t, "[{a = 1}] = b", module)
	mustParse(t, "({a = 1}) => a", module)
}

func TestOptionalChain(t *testing.T) {
	p := mustParse(t, "a?.b.c()", module)
	chain := exprOf(t, p, 0)
	require.Equal(t, ast.KindChainExpression, chain.Kind)
	call := p.Node(chain.A)
	require.Equal(t, ast.KindCallExpression, call.Kind)
	member := p.Node(call.A)
	assert.Equal(t, "c", p.Node(member.B).Text)
	assert.False(t, member.Has(ast.FlagOptional))
	assert.True(t, p.Node(member.A).Has(ast.FlagOptional))

	p = mustParse(t, "a?.[0]?.(1)", module)
	chain = exprOf(t, p, 0)
	call = p.Node(chain.A)
	assert.True(t, call.Has(ast.FlagOptional))
	assert.Equal(t, ast.KindComputedMemberExpression, p.Arena.Kind(call.A))
}

func TestTemplateLiterals(t *testing.T) {
	p := mustParse(t, "`a${b}c${d}`", module)
	tpl := exprOf(t, p, 0)
	require.Equal(t, ast.KindTemplateLiteral, tpl.Kind)
	parts := list(p, tpl)
	assert.Equal(t, []ast.Kind{
		ast.KindTemplateElement, ast.KindIdentifierReference,
		ast.KindTemplateElement, ast.KindIdentifierReference,
		ast.KindTemplateElement,
	}, kindsOf(parts))
	assert.Equal(t, "a", parts[0].Text)
	assert.Equal(t, ast.Span{Start: 1, End: 2}, parts[0].Span)
	assert.Equal(t, "c", parts[2].Text)
	assert.True(t, parts[4].Has(ast.FlagTail))
	assert.Equal(t, "", parts[4].Text)

	p = mustParse(t, "tag`\\unicode ${x}`", module)
	tagged := exprOf(t, p, 0)
	require.Equal(t, ast.KindTaggedTemplateExpression, tagged.Kind)
	first := list(p, p.Node(tagged.C))[0]
	assert.True(t, first.Has(ast.FlagInvalidCooked))
	assert.Equal(t, `\unicode `, p.Text(first.Span))

	_, diags := parse("`\\unicode`", module)
	assert.Equal(t, []diag.Code{diag.InvalidEscape}, codes(diags))
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	p := mustParse(t, "a\n++b", module)
	require.Len(t, stmts(p), 2)
	assert.Equal(t, ast.KindIdentifierReference, exprOf(t, p, 0).Kind)
	assert.True(t, exprOf(t, p, 1).Has(ast.FlagPrefix))

	p = mustParse(t, "function f() { return\nx }", module)
	body := list(p, p.Node(stmt(p, 0).E))
	require.Len(t, body, 2)
	assert.Equal(t, ast.NoNode, body[0].A)

	_, diags := parse("a b", module)
	assert.Contains(t, codes(diags), diag.MissingSemicolon)
}

func TestDirectives(t *testing.T) {
	p, diags := parse("'use strict'; with (a) {}", script)
	assert.True(t, stmt(p, 0).Has(ast.FlagDirective))
	assert.Equal(t, []diag.Code{diag.StrictWith}, codes(diags))

	mustParse(t, "with (a) {}", script)

	p = mustParse(t, "function f() { 'a'; 'b'; c }", module)
	body := list(p, p.Node(stmt(p, 0).E))
	assert.True(t, body[0].Has(ast.FlagDirective))
	assert.True(t, body[1].Has(ast.FlagDirective))
	assert.False(t, body[2].Has(ast.FlagDirective))
}

func TestClasses(t *testing.T) {
	p := mustParse(t, `class A extends B {
  #x = 1
  static y
  get z() { return this.#x }
  static { }
  constructor() { super() }
  async *gen() {}
}`, module)
	class := stmt(p, 0)
	require.Equal(t, ast.KindClassDeclaration, class.Kind)
	assert.Equal(t, "A", p.Node(class.A).Text)
	assert.Equal(t, "B", p.Node(class.C).Text)

	members := list(p, p.Node(class.E))
	assert.Equal(t, []ast.Kind{
		ast.KindPropertyDefinition, ast.KindPropertyDefinition, ast.KindMethodDefinition,
		ast.KindStaticBlock, ast.KindMethodDefinition, ast.KindMethodDefinition,
	}, kindsOf(members))
	assert.Equal(t, ast.KindPrivateIdentifier, p.Arena.Kind(members[0].A))
	assert.True(t, members[1].Has(ast.FlagStatic))
	assert.Equal(t, ast.MethodGet, members[2].Variant)
	assert.Equal(t, ast.MethodConstructor, members[4].Variant)
	fn := p.Node(members[5].B)
	assert.True(t, fn.Has(ast.FlagAsync|ast.FlagGenerator))

	p = mustParse(t, "x = class { static async = 1; get; set = 2; static() {} }", module)
	members = list(p, p.Node(p.Node(exprOf(t, p, 0).B).E))
	assert.Equal(t, []ast.Kind{
		ast.KindPropertyDefinition, ast.KindPropertyDefinition, ast.KindPropertyDefinition, ast.KindMethodDefinition,
	}, kindsOf(members))
	assert.True(t, members[0].Has(ast.FlagStatic))
	assert.Equal(t, "async", p.Node(members[0].A).Text)
	assert.False(t, members[3].Has(ast.FlagStatic))
}

func TestPrivateIn(t *testing.T) {
	p := mustParse(t, "class A { #x; has(o) { return #x in o } }", module)
	method := list(p, p.Node(stmt(p, 0).E))[1]
	ret := list(p, p.Node(p.Node(method.B).E))[0]
	in := p.Node(ret.A)
	assert.Equal(t, token.In, in.Op)
	assert.Equal(t, ast.KindPrivateIdentifier, p.Arena.Kind(in.A))

	_, diags := parse("#x in o", module)
	assert.NotEmpty(t, diags)
}

func TestDecorators(t *testing.T) {
	p := mustParse(t, "@dec class A { @log() m(@inject p) {} }", module)
	class := stmt(p, 0)
	assert.Len(t, p.Arena.List(class.List), 1)
	method := list(p, p.Node(class.E))[0]
	assert.Len(t, p.Arena.List(method.List), 1)

	p = mustParse(t, "@a.b() export class C {}", module)
	export := stmt(p, 0)
	require.Equal(t, ast.KindExportNamedDeclaration, export.Kind)
	class = p.Node(export.A)
	assert.Equal(t, export.Span.Start, class.Span.Start)

	p = mustParse(t, "export @dec class D {}", module)
	assert.Equal(t, ast.KindClassDeclaration, p.Arena.Kind(stmt(p, 0).A))
}

func TestModules(t *testing.T) {
	p := mustParse(t, `import a, { b as c, d, "e-f" as g } from 'm'
import * as ns from 'n'
import 'side'
import j from './a.json' with { type: 'json' }
export { a as default, c }
export * from 'x'
export * as y from 'y'
export const k = 1
export default function () {}`, module)

	assert.Equal(t, []ast.Kind{
		ast.KindImportDeclaration, ast.KindImportDeclaration, ast.KindImportDeclaration, ast.KindImportDeclaration,
		ast.KindExportNamedDeclaration, ast.KindExportAllDeclaration, ast.KindExportAllDeclaration,
		ast.KindExportNamedDeclaration, ast.KindExportDefaultDeclaration,
	}, kindsOf(list(p, p.Node(p.Root))))

	specs := list(p, stmt(p, 0))
	assert.Equal(t, []ast.Kind{
		ast.KindImportDefaultSpecifier, ast.KindImportSpecifier, ast.KindImportSpecifier, ast.KindImportSpecifier,
	}, kindsOf(specs))
	assert.Equal(t, "b", p.Node(specs[1].A).Text)
	assert.Equal(t, "c", p.Node(specs[1].B).Text)
	assert.Equal(t, ast.NoNode, specs[2].A)
	assert.Equal(t, ast.KindStringLiteral, p.Arena.Kind(specs[3].A))

	assert.Equal(t, ast.KindImportNamespaceSpecifier, list(p, stmt(p, 1))[0].Kind)
	assert.Empty(t, p.Arena.List(stmt(p, 2).List))
	assert.Equal(t, ast.KindObjectExpression, p.Arena.Kind(stmt(p, 3).B))

	exported := list(p, stmt(p, 4))
	assert.Equal(t, ast.KindIdentifierReference, p.Arena.Kind(exported[0].A))
	assert.Equal(t, "default", p.Node(exported[0].B).Text)

	assert.Equal(t, "y", p.Node(stmt(p, 6).A).Text)
	def := p.Node(stmt(p, 8).A)
	assert.Equal(t, ast.KindFunctionDeclaration, def.Kind)
	assert.Equal(t, ast.NoNode, def.A)

	p = mustParse(t, "export { x as y } from 'z'", module)
	assert.Equal(t, ast.KindIdentifierName, p.Arena.Kind(list(p, stmt(p, 0))[0].A))
}

func TestDynamicImportAndMeta(t *testing.T) {
	p := mustParse(t, "import('a').then(f); import.meta.url", module)
	call := exprOf(t, p, 0)
	assert.Equal(t, ast.KindImportExpression, p.Arena.Kind(p.Node(call.A).A))
	member := exprOf(t, p, 1)
	assert.Equal(t, ast.KindMetaProperty, p.Arena.Kind(member.A))

	_, diags := parse("import.meta", script)
	assert.Equal(t, []diag.Code{diag.ModuleSyntaxInScript}, codes(diags))
	mustParse(t, "import('a')", script)
}

// ===========================================================================
// DIAGNOSTICS
// ===========================================================================

func TestEarlyErrors(t *testing.T) {
	tests := []struct {
		code string
		st   parser.SourceType
		want diag.Code
	}{
		{"return 1", module, diag.IllegalReturn},
		{"break", module, diag.IllegalBreak},
		{"continue", module, diag.IllegalContinue},
		{"a: if (x) continue a", module, diag.IllegalContinue},
		{"while (1) { break foo }", module, diag.UndefinedLabel},
		{"a: a: ;", module, diag.DuplicateLabel},
		{"const a;", module, diag.MissingInitializer},
		{"let [a];", module, diag.MissingInitializer},
		{"function f(...a, b) {}", module, diag.RestNotLast},
		{"[...a, b] = c", module, diag.RestNotLast},
		{"({ get a(x) {} })", module, diag.InvalidAccessorArity},
		{"({ set a() {} })", module, diag.InvalidAccessorArity},
		{"class A { get constructor() {} }", module, diag.InvalidConstructor},
		{"class A { async constructor() {} }", module, diag.InvalidConstructor},
		{"a ?? b || c", module, diag.MixedCoalesce},
		{"a || b ?? c", module, diag.MixedCoalesce},
		{"-a ** 2", module, diag.UnaryBeforeExponent},
		{"var await = 1", module, diag.InvalidAwait},
		{"async function f(a = await 1) {}", module, diag.InvalidAwait},
		{"function* g() { var yield }", module, diag.InvalidYield},
		{"with (a) {}", module, diag.StrictWith},
		{"import a from 'b'", script, diag.ModuleSyntaxInScript},
		{"export const a = 1", script, diag.ModuleSyntaxInScript},
		{"<a></b>", jsx, diag.JSXTagMismatch},
		{"try {}", module, diag.MissingCatchOrFinally},
		{"new.target", module, diag.InvalidNewTarget},
		{"switch (a) { default: default: }", module, diag.MultipleDefaults},
		{"throw\nerr", module, diag.LineTerminatorNotAllow},
		{"new a?.b()", module, diag.InvalidOptionalChain},
		{"class A { constructor() {} constructor() {} }", module, diag.DuplicateConstructor},
		{"var implements = 1", module, diag.ReservedWord},
		{"for (let a = 1 of b) {}", module, diag.InvalidForInOfInit},
		{"1 = 2", module, diag.InvalidAssignmentTarget},
		{"a + 1 = 2", module, diag.InvalidAssignmentTarget},
		{"++f()", module, diag.InvalidAssignmentTarget},
		{"({ m() {} } = o)", module, diag.InvalidAssignmentTarget},
	}
	for _, tt := range tests {
		_, diags := parse(tt.code, tt.st)
		assert.Contains(t, codes(diags), tt.want, "parsing %q: %s", tt.code, diags)
	}
}

func TestValidEdgeCases(t *testing.T) {
	for _, code := range []string{
		"(a) = 1",
		"(a.b) = 1",
		"a: for (;;) { continue a }",
		"a: { break a }",
		"for (var x in o) ;",
		"for await (const x of y) ;",
		"var yield = 1",
		"async function f() { for await (const x of y) ; }",
		"class A { static async *[Symbol.iterator]() {} }",
		"({ async, get, set, static: 1 })",
		"x = function* () { yield* y }",
		"label: function f() {}",
		"a = b\n/c/g.exec(d)",
		"let \\u0061 = 1",
		"if (a) b; else c",
		"do x; while (y) z",
	} {
		st := module
		if code == "var yield = 1" || code == "label: function f() {}" {
			st = script
		}
		mustParse(t, code, st)
	}
}

func TestInvalidAssignmentIsSemantic(t *testing.T) {
	_, diags := parse("1 = 2", module)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.SemanticError, diags[0].Code.Category())
	assert.Equal(t, diag.Error, diags[0].Severity)
}

func TestRecovery(t *testing.T) {
	p, diags := parse("const = ;\nlet ok = 1;\nok", module)
	require.True(t, diags.HasErrors())
	assert.Greater(t, diags.Count(diag.SyntaxError), 0)

	body := stmts(p)
	require.NotEmpty(t, body)
	last := p.Node(body[len(body)-1])
	assert.Equal(t, ast.KindExpressionStatement, last.Kind)
	prev := p.Node(body[len(body)-2])
	require.Equal(t, ast.KindVariableDeclaration, prev.Kind)
	assert.Equal(t, token.Let, prev.Op)
	checkSpans(t, p)
}

func TestRecoverySkipsToStatement(t *testing.T) {
	p, diags := parse("let x = (1 + ;\nfoo()\nif (a) { b( }\nbar()", module)
	require.True(t, diags.HasErrors())

	var calls []string
	ast.Inspect(p.Arena, p.Root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind == ast.KindCallExpression && p.Arena.Kind(n.A) == ast.KindIdentifierReference {
			calls = append(calls, p.Node(n.A).Text)
		}
		return true
	})
	assert.Contains(t, calls, "foo")
	assert.Contains(t, calls, "bar")
}

func TestRecoveryAlwaysProgresses(t *testing.T) {
	for _, code := range []string{
		"}}}",
		")))",
		"class { ",
		"function (",
		"a ? b",
		"switch (x) { foo }",
		"<",
		"`${",
		"{[(",
		"import { a",
		"x = {a: 1,,}",
		"for (;;",
	} {
		p, diags := parse(code, tsx)
		assert.True(t, diags.HasErrors(), "parsing %q", code)
		assert.NotNil(t, p.Arena)
		checkSpans(t, p)
	}
}

func TestDuplicateErrorsAreSuppressed(t *testing.T) {
	_, diags := parse("let x = ;", module)
	assert.Len(t, diags.Filter(diag.SyntaxError), 1)
}

// ===========================================================================
// TREE INVARIANTS
// ===========================================================================

var corpus = []struct {
	code string
	st   parser.SourceType
}{
	{"var a = [1,,2], {b, c: [d] = []} = o; a?.b?.(c)[d] ?? e;", module},
	{"function f(a, {b} = {}, ...c) { if (a) return b; else { for (const x of c) continue } }", module},
	{"class A extends B { #p = 1; static { this.q = 2 } m() { return super.m() } }", module},
	{"`a${b + `c${d}`}e`; tag`x`; x => y => z; async () => await w", module},
	{"switch (a) { case 1: b(); default: c() } try { d() } catch ({e}) { } finally { f() }", module},
	{"import x, {y as z} from 'm'; export default class {}; export {x};", module},
	{"let x: Array<{a?: number}> = []; type T<U> = U extends infer V ? V : never;", ts},
	{"abstract class C<T> implements I { private readonly x?: T; constructor(public y: number) {} }", ts},
	{"enum E { A = 1, B } namespace N.M { export const v = 1 } declare module 'm' {}", ts},
	{"const el = <div a=\"b\" {...c}>text {d} <e.f /><g:h i={<j />} /></div>", jsx},
	{"const f = <T,>(x: T): T => x; const g = <a>{/* c */}</a>;", tsx},
}

// checkSpans verifies that every child span lies within its parent span and
// that sibling spans do not overlap.
func checkSpans(t *testing.T, p *ast.Program) {
	t.Helper()
	ast.Inspect(p.Arena, p.Root, func(id ast.NodeID, n *ast.Node) bool {
		var prev *ast.Node
		for c := range p.Arena.Children(id) {
			child := p.Node(c)
			assert.True(t, n.Span.Contains(child.Span), "%s %v does not contain %s %v",
				n.Kind, n.Span, child.Kind, child.Span)
			if prev != nil {
				assert.LessOrEqual(t, prev.Span.End, child.Span.Start, "%s %v overlaps %s %v",
					prev.Kind, prev.Span, child.Kind, child.Span)
			}
			prev = child
		}
		return true
	})
}

func TestSpanContainment(t *testing.T) {
	for _, tt := range corpus {
		p := mustParse(t, tt.code, tt.st)
		checkSpans(t, p)
		root := p.Node(p.Root)
		assert.Equal(t, ast.Span{Start: 0, End: ast.Idx(len(tt.code))}, root.Span)
	}
}

func TestParentLinks(t *testing.T) {
	for _, tt := range corpus {
		p := mustParse(t, tt.code, tt.st)
		assert.Equal(t, ast.NoNode, p.Arena.Parent(p.Root))
		ast.Inspect(p.Arena, p.Root, func(id ast.NodeID, n *ast.Node) bool {
			for c := range p.Arena.Children(id) {
				assert.Equal(t, id, p.Arena.Parent(c))
			}
			return true
		})
	}
}

func TestBacktrackingLeavesNoTrace(t *testing.T) {
	p := mustParse(t, "(a, b); (c = 1, {d}) => d", module)
	reachable := 0
	ast.Inspect(p.Arena, p.Root, func(ast.NodeID, *ast.Node) bool {
		reachable++
		return true
	})
	created := 0
	for range p.Arena.All() {
		created++
	}
	assert.Equal(t, created, reachable)
}

func TestCommentsAndHashbang(t *testing.T) {
	p := mustParse(t, "#!/usr/bin/env node\n// a\n/* b */ x", module)
	assert.Equal(t, "#!/usr/bin/env node", p.Hashbang)
	require.Len(t, p.Comments, 2)
	assert.False(t, p.Comments[0].Block)
	assert.True(t, p.Comments[1].Block)
	assert.Equal(t, "/* b */", p.Text(p.Comments[1].Span))
}

func TestUnitsAreDistinct(t *testing.T) {
	a := mustParse(t, "x", module)
	b := mustParse(t, "x", module)
	assert.NotEqual(t, a.Arena.Unit(), b.Arena.Unit())
}

func TestSourceTypeFromPath(t *testing.T) {
	tests := map[string]parser.SourceType{
		"a.js":      module,
		"a.mjs":     module,
		"a.cjs":     script,
		"a.jsx":     jsx,
		"a.ts":      ts,
		"a.mts":     ts,
		"a.cts":     {TypeScript: true},
		"a.tsx":     tsx,
		"lib.d.ts":  ts,
		"dir/B.TSX": tsx,
	}
	for path, want := range tests {
		assert.Equal(t, want, parser.SourceTypeFromPath(path), path)
	}
}
