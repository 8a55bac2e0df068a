package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser"
	"github.com/t14raptor/fastfront/resolver"
	"github.com/t14raptor/fastfront/semantic"
)

var (
	script = parser.SourceType{}
	module = parser.SourceType{Module: true}
	ts     = parser.SourceType{Module: true, TypeScript: true}
	jsx    = parser.SourceType{Module: true, JSX: true}
)

func resolve(t *testing.T, code string, st parser.SourceType) *semantic.Semantic {
	t.Helper()
	prog, diags := parser.ParseFile(code, parser.Options{SourceType: st})
	require.Empty(t, diags, "parsing %q:\n%s", code, diags)
	sem := semantic.Build(prog)
	resolver.Resolve(prog, sem)
	return sem
}

// refs returns the references to name in source order.
func refs(sem *semantic.Semantic, name string) []*semantic.Reference {
	var out []*semantic.Reference
	for _, r := range sem.References() {
		if r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

func symbol(t *testing.T, sem *semantic.Semantic, name string) semantic.SymbolID {
	t.Helper()
	ids := sem.SymbolsNamed(name)
	require.Len(t, ids, 1, "symbols named %q", name)
	return ids[0]
}

func TestHoistedVarResolves(t *testing.T) {
	sem := resolve(t, "function f(){ if (true) { var x = 1; } return x; }", module)

	x := symbol(t, sem, "x")
	rs := refs(sem, "x")
	require.Len(t, rs, 1)
	assert.Equal(t, x, rs[0].Symbol)
	assert.True(t, rs[0].Resolved())
	assert.NotContains(t, sem.Unresolved, "x")
	assert.Equal(t, []semantic.ReferenceID{1}, sem.Symbol(x).References)
}

func TestUsedBeforeDeclaration(t *testing.T) {
	tests := []struct {
		code    string
		flagged bool
	}{
		{"function f(){ console.log(x); let x = 1; }", true},
		{"x; const x = 1;", true},
		{"new C(); class C {}", true},
		{"let x = 1; x;", false},
		{"function f(){ return x; } let x = 1;", false},
		{"function f(){ function g(){ return x; } let x = 1; }", false},
		{"x; var x;", false},
		{"f(); function f() {}", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			sem := resolve(t, tt.code, module)
			rs := refs(sem, "x")
			if len(rs) == 0 {
				rs = append(refs(sem, "C"), refs(sem, "f")...)
			}
			require.NotEmpty(t, rs)
			r := rs[0]
			assert.True(t, r.Resolved())
			assert.Equal(t, tt.flagged, r.Flags&semantic.RefUsedBeforeDeclaration != 0)

			warnings := sem.Diagnostics.WithCode(diag.UsedBeforeDeclaration)
			if tt.flagged {
				require.Len(t, warnings, 1)
				assert.Equal(t, diag.Warning, warnings[0].Severity)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestAccessKinds(t *testing.T) {
	sem := resolve(t, `let a, b, c;
a;
a = 1;
a += 1;
a++;
--a;
[b, { c }] = o;
for (b of o) {}
for (const d in o) {}
(a) = 2;`, script)

	access := func(name string) []semantic.Access {
		var out []semantic.Access
		for _, r := range refs(sem, name) {
			out = append(out, r.Access)
		}
		return out
	}
	assert.Equal(t, []semantic.Access{
		semantic.Read, semantic.Write, semantic.ReadWrite, semantic.ReadWrite, semantic.ReadWrite, semantic.Write,
	}, access("a"))
	assert.Equal(t, []semantic.Access{semantic.Write, semantic.Write}, access("b"))
	assert.Equal(t, []semantic.Access{semantic.Write}, access("c"))
	assert.Empty(t, refs(sem, "d"))
	assert.Equal(t, []semantic.Access{semantic.Read, semantic.Read, semantic.Read}, access("o"))
}

func TestSymbolUsageFlags(t *testing.T) {
	sem := resolve(t, "let r = 1, w, rw = 0, unused; r; w = 1; rw++;", module)
	flags := func(name string) (read, written bool) {
		sym := sem.Symbol(symbol(t, sem, name))
		return sym.Has(semantic.SymRead), sym.Has(semantic.SymWritten)
	}
	read, written := flags("r")
	assert.True(t, read)
	assert.False(t, written)
	read, written = flags("w")
	assert.False(t, read)
	assert.True(t, written)
	read, written = flags("rw")
	assert.True(t, read)
	assert.True(t, written)
	read, written = flags("unused")
	assert.False(t, read)
	assert.False(t, written)
}

func TestImmutableBindings(t *testing.T) {
	tests := []struct {
		src  string
		want diag.Code
	}{
		{"const c = 1; c = 2;", diag.AssignToConstant},
		{"const c = 1; c++;", diag.AssignToConstant},
		{"const c = 1; [c] = [2];", diag.AssignToConstant},
		{"import i from 'i'; i = 1;", diag.AssignToImport},
		{"import * as ns from 'n'; ns += 1;", diag.AssignToImport},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			sem := resolve(t, tt.src, module)
			got := sem.Diagnostics.WithCode(tt.want)
			require.Len(t, got, 1, "%s", sem.Diagnostics)
			assert.Equal(t, diag.Error, got[0].Severity)
		})
	}

	sem := resolve(t, "const c = 1; c; { let c; c = 2; }", module)
	assert.False(t, sem.Diagnostics.HasErrors(), "%s", sem.Diagnostics)
}

func TestUnresolvedGrouping(t *testing.T) {
	sem := resolve(t, "console.log(1); console.warn(window); let local; local;", script)
	require.Len(t, sem.Unresolved["console"], 2)
	require.Len(t, sem.Unresolved["window"], 1)
	assert.NotContains(t, sem.Unresolved, "local")
	for _, id := range sem.Unresolved["console"] {
		r := sem.Reference(id)
		assert.Equal(t, semantic.NoSymbol, r.Symbol)
		assert.Equal(t, "console", r.Name)
	}
	assert.Empty(t, refs(sem, "log"), "property names are not references")
}

func TestNonReferences(t *testing.T) {
	sem := resolve(t, `outer: for (;;) { break outer; }
const o = { key: 1, [k]: 2 };
o.key;
class C { #p = 1; m() { return this.#p; } static s; }
function nt() { return new.target; }`, script)
	for _, name := range []string{"outer", "key", "p", "#p", "m", "s", "target"} {
		assert.Empty(t, refs(sem, name), name)
	}
	assert.Len(t, refs(sem, "k"), 1)
	assert.Len(t, refs(sem, "o"), 1)
}

// corpus exercises scoping constructs for the soundness check below.
var corpus = []struct {
	src string
	st  parser.SourceType
}{
	{"function f(a){ if (a) { var x = a; } return x; }", module},
	{"let x = 1; { let x = 2; x; } x;", module},
	{"for (let i = 0; i < 3; i++) { setTimeout(() => i); }", module},
	{"try { risky(); } catch (e) { log(e); } finally { done(); }", module},
	{"const f = function g(n) { return n ? g(n - 1) : 0; };", module},
	{"class A extends B { static #c = A; m(x = this) { return A.#c + x; } }", module},
	{"switch (v) { case 1: let w = v; break; default: w; }", module},
	{"label: { const { a, b: [c = a] } = o; break label; }", module},
	{"namespace N { export const k = 1; k; } N.k;", ts},
	{"function id<T>(x: T): T { return x; } type P<T> = { [K in keyof T]: T[K] };", ts},
	{"import D, { n as m } from 'd'; export { m as renamed }; export default D;", module},
}

func TestReferenceScopesAreSound(t *testing.T) {
	for _, tt := range corpus {
		t.Run(tt.src, func(t *testing.T) {
			sem := resolve(t, tt.src, tt.st)
			require.NotZero(t, sem.NumReferences())
			for id, r := range sem.References() {
				got, ok := sem.ReferenceOf(r.Node)
				require.True(t, ok)
				assert.Equal(t, id, got)
				if !r.Resolved() {
					assert.Contains(t, sem.Unresolved[r.Name], id)
					continue
				}
				sym := sem.Symbol(r.Symbol)
				assert.Equal(t, r.Name, sym.Name)
				assert.True(t, sem.IsAncestor(sym.Scope, r.Scope), "%s resolved outside its scope chain", r.Name)
				assert.Contains(t, sym.References, id)
			}
		})
	}
}

func TestTypeAndValueMeaning(t *testing.T) {
	sem := resolve(t, `type T = number;
const T = 1;
let a: T = T;
let v = 1;
type V = typeof v;
interface I extends Array<T> {}`, ts)

	var typ, val semantic.SymbolID
	for _, id := range sem.SymbolsNamed("T") {
		switch sem.Symbol(id).Kind {
		case semantic.DeclTypeAlias:
			typ = id
		case semantic.DeclConst:
			val = id
		}
	}
	require.NotEqual(t, semantic.NoSymbol, typ)
	require.NotEqual(t, semantic.NoSymbol, val)

	rs := refs(sem, "T")
	require.Len(t, rs, 3)
	assert.Equal(t, typ, rs[0].Symbol)
	assert.NotZero(t, rs[0].Flags&semantic.RefType)
	assert.Equal(t, val, rs[1].Symbol)
	assert.Zero(t, rs[1].Flags&semantic.RefType)
	assert.Equal(t, typ, rs[2].Symbol)

	vs := refs(sem, "v")
	require.Len(t, vs, 1)
	assert.Equal(t, symbol(t, sem, "v"), vs[0].Symbol)
	assert.NotZero(t, vs[0].Flags&semantic.RefType)
	assert.Empty(t, sem.Diagnostics.WithCode(diag.UsedBeforeDeclaration))
}

func TestTypeOnlyImportIsNotAValue(t *testing.T) {
	sem := resolve(t, "import type { T } from 't'; let a: T; T;", ts)
	rs := refs(sem, "T")
	require.Len(t, rs, 2)
	assert.True(t, rs[0].Resolved())
	assert.False(t, rs[1].Resolved())
}

func TestJSXTagNames(t *testing.T) {
	sem := resolve(t, `import Comp from 'c';
import * as UI from 'ui';
const el = <div className={cls}><Comp /><UI.Button.Icon /><span>{Comp}</span></div>;`, jsx)

	assert.Empty(t, refs(sem, "div"))
	assert.Empty(t, refs(sem, "span"))
	assert.Empty(t, refs(sem, "className"))
	assert.Empty(t, refs(sem, "Button"))

	comp := symbol(t, sem, "Comp")
	rs := refs(sem, "Comp")
	require.Len(t, rs, 2)
	for _, r := range rs {
		assert.Equal(t, comp, r.Symbol)
	}
	ui := refs(sem, "UI")
	require.Len(t, ui, 1)
	assert.Equal(t, symbol(t, sem, "UI"), ui[0].Symbol)
	assert.Len(t, sem.Unresolved["cls"], 1)
}

func TestExportSpecifiers(t *testing.T) {
	sem := resolve(t, "const x = 1, y = 2; export { x, y as z }; export { w } from 'm';", module)
	assert.True(t, sem.Symbol(symbol(t, sem, "x")).Has(semantic.SymExported))
	assert.True(t, sem.Symbol(symbol(t, sem, "y")).Has(semantic.SymExported))
	assert.Len(t, refs(sem, "x"), 1)
	assert.Empty(t, refs(sem, "z"))
	assert.Empty(t, refs(sem, "w"), "re-exports name another module's bindings")
}

func TestSwitchDiscriminantScope(t *testing.T) {
	sem := resolve(t, "let v = 1; switch (v) { case 0: let v = 2; }", module)
	ids := sem.SymbolsNamed("v")
	require.Len(t, ids, 2)
	rs := refs(sem, "v")
	require.Len(t, rs, 1)
	assert.Equal(t, ids[0], rs[0].Symbol)
	assert.Empty(t, sem.Diagnostics.WithCode(diag.UsedBeforeDeclaration))
}
