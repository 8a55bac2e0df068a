package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/cfg"
	"github.com/t14raptor/fastfront/parser"
)

func mustBuild(t *testing.T, src string) (*ast.Program, *cfg.Set) {
	t.Helper()
	prog, diags := parser.ParseFile(src, parser.Options{SourceType: parser.SourceType{Module: true, TypeScript: true}})
	require.Empty(t, diags, "parsing %q:\n%s", src, diags)
	return prog, cfg.Build(prog)
}

// call returns the expression statement that calls name.
func call(t *testing.T, prog *ast.Program, name string) ast.NodeID {
	t.Helper()
	for id, n := range prog.Arena.All() {
		if n.Kind != ast.KindExpressionStatement {
			continue
		}
		c := prog.Node(n.A)
		if c.Kind == ast.KindCallExpression && prog.Node(c.A).Kind == ast.KindIdentifierReference && prog.Node(c.A).Text == name {
			return id
		}
	}
	require.Failf(t, "no call", "%s() not found", name)
	return ast.NoNode
}

func blockOf(t *testing.T, g *cfg.Graph, node ast.NodeID) cfg.BlockID {
	t.Helper()
	b, ok := g.BlockOf(node)
	require.True(t, ok)
	return b
}

func TestUnreachableAfterReturn(t *testing.T) {
	prog, set := mustBuild(t, "function f(){ return 1; console.log('x'); }")

	logStmt := ast.NoNode
	for id, n := range prog.Arena.All() {
		if n.Kind == ast.KindExpressionStatement {
			logStmt = id
		}
	}
	require.NotEqual(t, ast.NoNode, logStmt)

	assert.False(t, set.NodeReachable(logStmt))
	assert.Equal(t, []ast.NodeID{logStmt}, set.UnreachableNodes())

	fn := prog.Arena.List(prog.Node(prog.Root).List)[0]
	g, ok := set.Of(fn)
	require.True(t, ok)
	ret := prog.Arena.List(prog.Node(prog.Node(fn).E).List)[0]
	assert.True(t, g.NodeReachable(ret))
	assert.Equal(t, cfg.TermReturn, g.Block(blockOf(t, g, ret)).Terminal)
	assert.Equal(t, cfg.TermExit, g.Block(g.Exit).Terminal)
	assert.True(t, g.Reachable(g.Exit))
}

func TestReachability(t *testing.T) {
	tests := []struct {
		src         string
		reachable   []string
		unreachable []string
	}{
		{"throw 1; x();", nil, []string{"x"}},
		{"if (a) { b(); } else { return_(); } c();", []string{"b", "return_", "c"}, nil},
		{"function f() { if (a) return; else throw e; g(); }", nil, []string{"g"}},
		{"for (;;) {} after();", nil, []string{"after"}},
		{"while (true) { inner(); } after();", []string{"inner"}, []string{"after"}},
		{"while (true) { break; } after();", []string{"after"}, nil},
		{"do { body(); } while (true); after();", []string{"body"}, []string{"after"}},
		{"for (const k in o) { if (k) continue; use(); } after();", []string{"use", "after"}, nil},
		{"outer: for (;;) { for (;;) { break outer; } } done();", []string{"done"}, nil},
		{"outer: for (;;) { for (;;) { continue outer; } } done();", nil, []string{"done"}},
		{"out: { a(); break out; b(); } c();", []string{"a", "c"}, []string{"b"}},
		{"switch (x) { case 1: a(); case 2: b(); break; default: c(); } d();", []string{"a", "b", "c", "d"}, nil},
		{"switch (x) { case 1: return_(); default: throw e; } d();", []string{"return_"}, []string{"d"}},
		{"try { a(); } catch (e) { b(); } c();", []string{"a", "b", "c"}, nil},
		{"try { throw e; } catch (x) { h(); } after();", []string{"h", "after"}, nil},
		{"function f() { try { return; } finally { fin(); } after(); }", []string{"fin"}, []string{"after"}},
		{"function f() { try { return; } catch (e) { recover(); } after(); }", []string{"recover", "after"}, nil},
		{"for (;;) { try { break; } finally { fin(); } } after();", []string{"fin", "after"}, nil},
		{"function f() { return; function g() { h(); } }", []string{"h"}, nil},
		{"namespace N { throw e; } next();", nil, []string{"next"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, set := mustBuild(t, tt.src)
			for _, name := range tt.reachable {
				assert.True(t, set.NodeReachable(call(t, prog, name)), "%s() should be reachable", name)
			}
			for _, name := range tt.unreachable {
				assert.False(t, set.NodeReachable(call(t, prog, name)), "%s() should be unreachable", name)
			}
		})
	}
}

func TestConditionalEdges(t *testing.T) {
	prog, set := mustBuild(t, "if (a) b(); else c(); d();")
	g := set.Root()
	then, els := blockOf(t, g, call(t, prog, "b")), blockOf(t, g, call(t, prog, "c"))

	kind, ok := g.Edge(g.Entry, then)
	require.True(t, ok)
	assert.Equal(t, cfg.EdgeTrue, kind)
	kind, ok = g.Edge(g.Entry, els)
	require.True(t, ok)
	assert.Equal(t, cfg.EdgeFalse, kind)

	join := blockOf(t, g, call(t, prog, "d"))
	var preds []cfg.BlockID
	for p, k := range g.Predecessors(join) {
		preds = append(preds, p)
		assert.Equal(t, cfg.EdgeNormal, k)
	}
	assert.ElementsMatch(t, []cfg.BlockID{then, els}, preds)
}

func TestShortCircuitEdges(t *testing.T) {
	tests := []struct {
		src  string
		cont cfg.EdgeKind
	}{
		{"a && b();", cfg.EdgeTrue},
		{"a || b();", cfg.EdgeFalse},
		{"a ?? b();", cfg.EdgeTrue},
		{"x &&= b();", cfg.EdgeTrue},
		{"x ||= b();", cfg.EdgeFalse},
		{"a ? b() : 0;", cfg.EdgeTrue},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, set := mustBuild(t, tt.src)
			g := set.Root()
			stmt := prog.Arena.List(prog.Node(prog.Root).List)[0]
			var right ast.NodeID
			ast.Inspect(prog.Arena, stmt, func(id ast.NodeID, n *ast.Node) bool {
				if n.Kind == ast.KindCallExpression {
					right = id
				}
				return true
			})
			rb := blockOf(t, g, right)
			assert.NotEqual(t, g.Entry, rb)
			kind, ok := g.Edge(g.Entry, rb)
			require.True(t, ok)
			assert.Equal(t, tt.cont, kind)
			assert.True(t, g.Reachable(rb))
			assert.Equal(t, g.Entry, blockOf(t, g, stmt))
		})
	}
}

func TestOptionalChainEdges(t *testing.T) {
	prog, set := mustBuild(t, "a?.b.c(); after();")
	g := set.Root()

	var optional ast.NodeID
	for id, n := range prog.Arena.All() {
		if n.Kind == ast.KindMemberExpression && n.Has(ast.FlagOptional) {
			optional = id
		}
	}
	require.NotEqual(t, ast.NoNode, optional)
	link := blockOf(t, g, optional)
	kind, _ := g.Edge(g.Entry, link)
	assert.Equal(t, cfg.EdgeTrue, kind)

	after := blockOf(t, g, call(t, prog, "after"))
	kind, _ = g.Edge(g.Entry, after)
	assert.Equal(t, cfg.EdgeFalse, kind, "a nullish object skips the rest of the chain")
	kind, _ = g.Edge(link, after)
	assert.Equal(t, cfg.EdgeNormal, kind)
}

func TestSwitchFallthrough(t *testing.T) {
	prog, set := mustBuild(t, "switch (x) { case 1: a(); case 2: b(); break; default: c(); }")
	g := set.Root()
	a, b, c := blockOf(t, g, call(t, prog, "a")), blockOf(t, g, call(t, prog, "b")), blockOf(t, g, call(t, prog, "c"))

	kind, ok := g.Edge(a, b)
	require.True(t, ok, "case 1 falls through into case 2")
	assert.Equal(t, cfg.EdgeNormal, kind)

	var trueIn, falseIn int
	for _, blk := range []cfg.BlockID{a, b, c} {
		for _, k := range g.Predecessors(blk) {
			if k&cfg.EdgeTrue != 0 {
				trueIn++
			}
			if k&cfg.EdgeFalse != 0 {
				falseIn++
			}
		}
	}
	assert.Equal(t, 2, trueIn, "one edge per case test")
	assert.Equal(t, 1, falseIn, "the last failing test enters default")
}

func TestExceptionEdges(t *testing.T) {
	prog, set := mustBuild(t, "try { a(); if (x) { b(); } } catch (e) { c(); } finally { d(); }")
	g := set.Root()
	catch := blockOf(t, g, call(t, prog, "c"))
	fin := blockOf(t, g, call(t, prog, "d"))

	for _, name := range []string{"a", "b"} {
		kind, ok := g.Edge(blockOf(t, g, call(t, prog, name)), catch)
		require.True(t, ok, "%s() has no exception edge", name)
		assert.Equal(t, cfg.EdgeException, kind)
	}
	kind, ok := g.Edge(catch, fin)
	require.True(t, ok)
	assert.Equal(t, cfg.EdgeException|cfg.EdgeFinally, kind)

	var finallyIn int
	for _, k := range g.Predecessors(fin) {
		if k&cfg.EdgeFinally != 0 {
			finallyIn++
		}
	}
	assert.Equal(t, 2, finallyIn, "normal completion of try and catch both enter finally")
}

func TestThrowTerminal(t *testing.T) {
	prog, set := mustBuild(t, "function f() { throw e; }")
	fn := prog.Arena.List(prog.Node(prog.Root).List)[0]
	g, ok := set.Of(fn)
	require.True(t, ok)
	kind, ok := g.Edge(g.Entry, g.Exit)
	require.True(t, ok)
	assert.Equal(t, cfg.EdgeException, kind)
	assert.Equal(t, cfg.TermThrow, g.Block(g.Entry).Terminal)
}

func TestLoops(t *testing.T) {
	tests := []struct {
		src   string
		loops int
	}{
		{"a(); b();", 0},
		{"while (x) { y(); }", 1},
		{"do { y(); } while (x);", 1},
		{"for (let i = 0; i < n; i++) { for (const v of xs) {} }", 2},
		{"for (;;) { if (x) break; }", 1},
		{"for (;;) { break; }", 0},
		{"if (x) { y(); }", 0},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, set := mustBuild(t, tt.src)
			loops := set.Root().Loops()
			reachable := 0
			for _, l := range loops {
				require.NotEmpty(t, l)
				if set.Root().Reachable(l[0]) {
					reachable++
				}
			}
			if tt.loops == 2 {
				// Nested loops form one component around the outer header.
				assert.Equal(t, 1, reachable)
				assert.Greater(t, len(loops[0]), 3)
				return
			}
			assert.Equal(t, tt.loops, reachable)
		})
	}
}

func TestGraphPerBody(t *testing.T) {
	prog, set := mustBuild(t, `function f() {}
declare function ambient(): void;
const g = () => 1;
class C { m() {} static { x(); } field = function () {}; }`)

	var kinds []ast.Kind
	for owner, g := range set.All() {
		kinds = append(kinds, prog.Arena.Kind(owner))
		assert.Equal(t, owner, g.Owner)
		assert.True(t, g.Reachable(g.Entry))
	}
	assert.Equal(t, []ast.Kind{
		ast.KindProgram,
		ast.KindFunctionDeclaration,
		ast.KindArrowFunctionExpression,
		ast.KindFunctionExpression,
		ast.KindStaticBlock,
		ast.KindFunctionExpression,
	}, kinds)
	assert.Equal(t, 6, set.Len())
	assert.Equal(t, prog.Root, set.Root().Owner)

	x := call(t, prog, "x")
	assert.Equal(t, ast.KindStaticBlock, prog.Arena.Kind(set.Enclosing(x).Owner))
}

func TestDot(t *testing.T) {
	_, set := mustBuild(t, "if (a) { return_(); } else { throw e; }")
	dot := set.Root().Dot()
	assert.Contains(t, dot, `digraph "Program" {`)
	assert.Contains(t, dot, "b1 entry")
	assert.Contains(t, dot, "throw")
	assert.Contains(t, dot, `[label="true"]`)
	assert.Contains(t, dot, `[label="false"]`)
	assert.Contains(t, dot, "IfStatement")
}

func TestEdgeKindString(t *testing.T) {
	assert.Equal(t, "true", cfg.EdgeTrue.String())
	assert.Equal(t, "exception|finally", (cfg.EdgeException | cfg.EdgeFinally).String())
	assert.Equal(t, "none", cfg.EdgeKind(0).String())
}
