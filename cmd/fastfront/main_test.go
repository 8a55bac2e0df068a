package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func runArgs(a args) (status int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	if a.Repeat == 0 {
		a.Repeat = 1
	}
	status = run(a, zap.NewNop(), &out, &errOut)
	return status, out.String(), errOut.String()
}

func TestPrint(t *testing.T) {
	status, out, errOut := runArgs(args{Files: []string{writeFile(t, "a.js", "let  x=1")}, Print: true})
	assert.Equal(t, 0, status)
	assert.Equal(t, "let x = 1;\n", out)
	assert.Empty(t, errOut)
}

func TestDiagnosticsSetExitStatus(t *testing.T) {
	path := writeFile(t, "a.js", "let a = 1;\nlet = ;")
	status, _, errOut := runArgs(args{Files: []string{path}})
	assert.Equal(t, 1, status)
	assert.Contains(t, errOut, path+":2:")
	assert.Contains(t, errOut, "error S")
}

func TestInvalidAssignmentSetsExitStatus(t *testing.T) {
	status, _, errOut := runArgs(args{Files: []string{writeFile(t, "a.js", "1 = 2;")}})
	assert.Equal(t, 1, status)
	assert.Contains(t, errOut, ":1:1: error E2000")
}

func TestWarningsKeepExitStatus(t *testing.T) {
	status, _, errOut := runArgs(args{Files: []string{writeFile(t, "a.js", "x; let x;")}})
	assert.Equal(t, 0, status)
	assert.Contains(t, errOut, "warning W2002")
}

func TestSourceTypeFlags(t *testing.T) {
	path := writeFile(t, "a.js", "let x: number = 1;")

	status, _, _ := runArgs(args{Files: []string{path}})
	assert.Equal(t, 1, status)

	status, _, errOut := runArgs(args{Files: []string{path}, TS: true})
	assert.Equal(t, 0, status, errOut)
}

func TestScopes(t *testing.T) {
	status, out, _ := runArgs(args{Files: []string{writeFile(t, "a.js", "function f(a) { let b; { const c = b } }")}, Scopes: true})
	require.Equal(t, 0, status)
	assert.Contains(t, out, "module strict\n")
	assert.Contains(t, out, "  function f refs=0\n")
	assert.Contains(t, out, "  function strict\n")
	assert.Contains(t, out, "let b refs=1\n")
	assert.Contains(t, out, "const c refs=0\n")
}

func TestCFG(t *testing.T) {
	status, out, _ := runArgs(args{Files: []string{writeFile(t, "a.js", "function f() { return; g() }")}, CFG: true})
	require.Equal(t, 0, status)
	assert.Contains(t, out, `digraph "Program" {`)
	assert.Contains(t, out, `digraph "FunctionDeclaration" {`)
	assert.Contains(t, out, "style=dashed")
}

func TestTokensAndAST(t *testing.T) {
	status, out, _ := runArgs(args{Files: []string{writeFile(t, "a.js", "a + 'b'")}, Tokens: true, AST: true})
	require.Equal(t, 0, status)
	assert.Contains(t, out, `"b"`)
	assert.Contains(t, out, "Program [0,7)")
	assert.Contains(t, out, "BinaryExpression [0,7)")

	status, out, _ = runArgs(args{Files: []string{writeFile(t, "a.js", "a")}, Pretty: true})
	require.Equal(t, 0, status)
	assert.Contains(t, out, `Kind:`)
	assert.Contains(t, out, `"IdentifierReference"`)
}

func TestTokensAfterReScan(t *testing.T) {
	status, out, _ := runArgs(args{Files: []string{writeFile(t, "a.js", "x = /a/g; `b${c}d`")}, Tokens: true})
	require.Equal(t, 0, status)
	assert.Contains(t, out, "RegExp [4,8) \"a\"\n")
	assert.Contains(t, out, "TemplateTail [15,18)")
	assert.NotContains(t, out, "/ [4,5)")
	assert.NotContains(t, out, "} [15,16)")
}

func TestMultipleFiles(t *testing.T) {
	a := writeFile(t, "a.js", "a")
	b := writeFile(t, "b.ts", "let b: string")
	status, out, _ := runArgs(args{Files: []string{a, b}, Print: true, Workers: 2})
	require.Equal(t, 0, status)
	assert.Equal(t, "== "+a+"\na;\n== "+b+"\nlet b: string;\n", out)
}

func TestRepeat(t *testing.T) {
	path := writeFile(t, "a.js", "for (;;) {}")
	status, out, _ := runArgs(args{Files: []string{path}, Repeat: 3})
	require.Equal(t, 0, status)
	assert.Contains(t, out, path+": 3 runs\n")
	for _, s := range []string{"Median:", "Mean:", "StdDev:", "Min:", "Max:"} {
		assert.Contains(t, out, s)
	}
}

func TestMissingFile(t *testing.T) {
	status, _, errOut := runArgs(args{Files: []string{filepath.Join(t.TempDir(), "missing.js")}})
	assert.Equal(t, 1, status)
	assert.Contains(t, errOut, "missing.js")
}
