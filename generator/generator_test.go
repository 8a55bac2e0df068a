package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/parser"
)

var (
	script = parser.SourceType{}
	module = parser.SourceType{Module: true}
	ts     = parser.SourceType{Module: true, TypeScript: true}
	jsx    = parser.SourceType{Module: true, JSX: true}
	tsx    = parser.SourceType{Module: true, TypeScript: true, JSX: true}
)

func parseSource(t *testing.T, src string, st parser.SourceType) *ast.Program {
	t.Helper()
	prog, diags := parser.ParseFile(src, parser.Options{SourceType: st})
	require.Empty(t, diags, "parsing %q:\n%s", src, diags)
	return prog
}

func generateNoIndent(prog *ast.Program) string {
	return strings.ReplaceAll(strings.ReplaceAll(Generate(prog), "\n", ""), "    ", "")
}

// shape drops spans so that trees parsed from different text compare equal.
func shape(t *ast.Tree) *ast.Tree {
	if t == nil {
		return nil
	}
	t.Span = ast.Span{}
	for _, c := range t.Children {
		shape(c)
	}
	return t
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		st       parser.SourceType
		expected string
	}{
		{
			name:     "assignment",
			input:    "a  =  b",
			st:       module,
			expected: "a = b;",
		},
		{
			name:     "unary operators keep their operands apart",
			input:    "x = - -y; z = - --w; t = typeof a; u = !b",
			st:       module,
			expected: "x = - -y;z = - --w;t = typeof a;u = !b;",
		},
		{
			name:     "member access on integer literal",
			input:    "1..toString(); 1 .toString(); 1.5.toFixed()",
			st:       module,
			expected: "1..toString();1 .toString();1.5.toFixed();",
		},
		{
			name:     "array holes",
			input:    "var a = [1,,2,,]; var b = [,]",
			st:       module,
			expected: "var a = [1, ,2, ,];var b = [,];",
		},
		{
			name:     "parentheses come from the source",
			input:    "x = (a + b) * c; y = a + b * c;",
			st:       module,
			expected: "x = (a + b) * c;y = a + b * c;",
		},
		{
			name:     "if else",
			input:    "if (a) b(); else { c() }",
			st:       module,
			expected: "if (a) b(); else {c();}",
		},
		{
			name:     "for head declaration has no semicolon",
			input:    "for (let i = 0, j; i < n; i++) {} for (;;) break",
			st:       module,
			expected: "for (let i = 0, j; i < n; i++) {}for (;;) break;",
		},
		{
			name:     "labeled for-in",
			input:    "label: for (const k in o) continue label;",
			st:       module,
			expected: "label: for (const k in o) continue label;",
		},
		{
			name:     "switch",
			input:    "switch (x) { case 1: a(); break; default: b() }",
			st:       module,
			expected: "switch (x) {case 1:a();break;default:b();}",
		},
		{
			name:     "object literal members",
			input:    "let o = { a, b: 1, [c]: 2, get d() { return 1 }, *e() {} }",
			st:       module,
			expected: "let o = {a, b: 1, [c]: 2, get d() {return 1;}, *e() {}};",
		},
		{
			name:     "imports and exports",
			input:    "import a, { b as c, d } from 'm'; export * as ns from \"x\"; export { a as default };",
			st:       module,
			expected: "import a, {b as c, d} from 'm';export * as ns from \"x\";export {a as default};",
		},
		{
			name:     "optional chain",
			input:    "a?.b.c?.(d)?.[e]",
			st:       module,
			expected: "a?.b.c?.(d)?.[e];",
		},
		{
			name:     "types",
			input:    "let x: Map<string, number[]> = new Map(); type T = { readonly [K in keyof U]?: U[K] }",
			st:       ts,
			expected: "let x: Map<string, number[]> = new Map();type T = { readonly [K in keyof U]?: U[K] };",
		},
		{
			name:     "class members",
			input:    "class A<T> extends B implements C { private x?: number; static #y = 1; constructor(public z: string) { super(); } }",
			st:       ts,
			expected: "class A<T> extends B implements C {private x?: number;static #y = 1;constructor(public z: string) {super();}}",
		},
		{
			name:     "declare is not repeated inside ambient blocks",
			input:    "declare namespace N { function f(): void; var x: number; }",
			st:       ts,
			expected: "declare namespace N {function f(): void;var x: number;}",
		},
		{
			name:     "jsx text is kept verbatim",
			input:    "<div a=\"b\" {...c}>hi {d}<e.f /></div>;",
			st:       jsx,
			expected: "<div a=\"b\" {...c}>hi {d}<e.f /></div>;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, generateNoIndent(parseSource(t, tt.input, tt.st)))
		})
	}
}

func TestIndentation(t *testing.T) {
	prog := parseSource(t, "function f() { if (a) { return 1 } }", module)
	assert.Equal(t, "function f() {\n    if (a) {\n        return 1;\n    }\n}", Generate(prog))
}

func TestHashbang(t *testing.T) {
	prog := parseSource(t, "#!/usr/bin/env node\nx", module)
	assert.Equal(t, "#!/usr/bin/env node\nx;", Generate(prog))
}

func TestGenerateNode(t *testing.T) {
	prog := parseSource(t, "let v = f(a, ...b) ?? `t${c}`;", module)
	decl := prog.Node(prog.Arena.List(prog.Node(prog.Root).List)[0])
	declarator := prog.Node(prog.Arena.List(decl.List)[0])
	assert.Equal(t, "f(a, ...b) ?? `t${c}`", GenerateNode(prog, declarator.B))
}

var roundTripCorpus = []struct {
	code string
	st   parser.SourceType
}{
	{"var a = [1,,2], {b, c: [d] = []} = o; a?.b?.(c)[d] ?? e;", module},
	{"function f(a, {b} = {}, ...c) { if (a) return b; else { for (const x of c) continue } }", module},
	{"class A extends B { #p = 1; static { this.q = 2 } m() { return super.m() } get g() { return #p in this } }", module},
	{"`a${b + `c${d}`}e`; tag`x\\u{41}`; x => y => z; async () => await w", module},
	{"switch (a) { case 1: b(); default: c() } try { d() } catch ({e}) { } finally { f() }", module},
	{"import x, {y as z} from 'm'; export default class {}; export {x};", module},
	{"import * as ns from 'n'; import 'side'; export * from 'o'; export const k = 1, l = 2;", module},
	{"export default function () {} export function* g() { yield; yield* h(); }", module},
	{"'use strict'; function s() { 'use asm'; return void 0 }", script},
	{"do x++; while (x < 10); while (y) --y; with (o) p;", script},
	{"[a, {b, c: [d]}, ...e] = f; ({a = 1, b: c = 2} = o); for ([k, v] of m) ;", module},
	{"a = b ? c : d; a += 1; a ||= b; a ??= c; a **= 2; x = a instanceof B, 'k' in o;", module},
	{"new Foo; new Foo.Bar(1)(2); new (f())(); function nt() { return new.target }", script},
	{"let re = /ab+c/gi, n = 0x1F + 1_000 + 10n + .5 + 1e3, s = 'a\\nb' + \"q\";", module},
	{"async function* g() { for await (const x of y) {} } const o = { async m() {}, async *n() {}, set p(v) {} };", module},
	{"label: { break label } outer: while (1) { inner: for (;;) { continue outer } }", module},
	{"import('a').then(f); import.meta.url; delete o.p; +(+x); - -y; ~z; !w", module},
	{"@dec class A { @log() m(@inject p) {} } @a.b() export class C {}", module},
	{"let x: Array<{a?: number}> = []; type T<U> = U extends infer V ? V : never;", ts},
	{"abstract class C<T> implements I { private readonly x?: T; constructor(public y: number) {} abstract m(): void; }", ts},
	{"enum E { A = 1, B } const enum F { X } namespace N.M { export const v = 1 } declare module 'm' {}", ts},
	{"declare global { var g: number } declare function d(x: string): void; declare let q: unique symbol;", ts},
	{"interface I<T> extends A, B<T> { readonly x: number; m?(): void; [k: string]: any; new (x: number): I<T>; (y: string): void; get z(): number }", ts},
	{"type M = { -readonly [K in keyof T as `get${K}`]-?: T[K] }; type L = 'lit' | -1 | `p-${string}`;", ts},
	{"type F = (a: number) => void; type G = new () => Foo; type H = abstract new () => object; type Q = import('mod').Name<T>;", ts},
	{"type Tup = [a: string, b?: number, ...rest: boolean[]]; type O = [string?, ...number[]]; type P = (string | number)[];", ts},
	{"function is(v: unknown): v is string { return true } function as(v: unknown): asserts v is number {} function t(this: Window) {}", ts},
	{"x as const; x satisfies T; <T>y; z!; f<T>(a); g<string>; let v = a as unknown as B;", ts},
	{"class K<T> extends Base<T> implements I, J { declare b?: string; c!: T; static [key: string]: any; accessor d = 1; constructor(protected override y = 2) { super() } m(): void; m(a?: number): void {} }", ts},
	{"import type { A } from 'a'; import { type B, C } from 'b'; export type { D }; export type E = 1; type D = 2;", ts},
	{"import fs = require('fs'); import type T = N.M; export import U = N.M;", ts},
	{"let d!: number; function o(a: string): void; function o(a: any) {} export declare const c: typeof d;", ts},
	{"type C<T> = T extends Promise<infer R extends object> ? R : never; type K = keyof typeof obj; type I = T['a']['b'];", ts},
	{"const el = <div a=\"b\" {...c}>text {d} <e.f /><g:h i={<j />} /></div>; const fr = <><p>x</p>{[1].map(i => <b key={i} />)}</>;", jsx},
	{"const f = <T,>(x: T): T => x; const g = <a>{/* c */}</a>;", tsx},
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range roundTripCorpus {
		prog := parseSource(t, tt.code, tt.st)
		out := Generate(prog)

		again, diags := parser.ParseFile(out, parser.Options{SourceType: tt.st})
		require.Empty(t, diags, "reparsing output of %q:\n%s\n%s", tt.code, out, diags)
		assert.Equal(t, shape(ast.TreeOf(prog.Arena, prog.Root)), shape(ast.TreeOf(again.Arena, again.Root)), "output:\n%s", out)
		assert.Equal(t, out, Generate(again), "generation is not stable for %q", tt.code)
	}
}
