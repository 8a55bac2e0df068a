package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/unicode"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser"
)

func analyze(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Analyze(File{Path: "test.js", Source: src}, DefaultOptions)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func codes(l diag.List) []diag.Code {
	var out []diag.Code
	for _, d := range l {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyze(t *testing.T) {
	res := analyze(t, "import {a} from 'm'; function f(x) { if (x) return a; return x + 1 } export const g = () => f(2);")
	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.HasErrors())

	require.NotNil(t, res.Program)
	require.NotNil(t, res.Semantic)
	require.NotNil(t, res.CFG)
	assert.Equal(t, 3, res.CFG.Len())
	assert.Len(t, res.Semantic.SymbolsNamed("f"), 1)
	assert.Empty(t, res.Semantic.Unresolved)
}

func TestDiagnosticsOrderedByPass(t *testing.T) {
	// The use of y comes first in the text but is reported by the resolver,
	// which runs after the scope builder reports z.
	res := analyze(t, "y; const y = 1; let z; let z;")
	assert.Equal(t, []diag.Code{diag.Redeclaration, diag.UsedBeforeDeclaration}, codes(res.Diagnostics))
}

func TestEarlySemanticErrorsReported(t *testing.T) {
	for _, src := range []string{"1 = 2;", "a++ = 1;", "eval = 1;", "[...a = 1] = b;"} {
		t.Run(src, func(t *testing.T) {
			res := analyze(t, src)
			assert.Equal(t, []diag.Code{diag.InvalidAssignmentTarget}, codes(res.Diagnostics))
			assert.True(t, res.HasErrors())
		})
	}

	// Parser errors of the semantic class come out with the scope pass.
	res := analyze(t, "let z; let z; 1 = 2;")
	assert.Equal(t, []diag.Code{diag.Redeclaration, diag.InvalidAssignmentTarget}, codes(res.Diagnostics))
}

func TestDiagnosticsOrderedByOffset(t *testing.T) {
	res := analyze(t, "let a = 'open\nlet b = ;\nlet c = \"open\n")
	require.True(t, res.HasErrors())

	rank := map[diag.Category]int{diag.LexError: 0, diag.SyntaxError: 1, diag.SemanticError: 2, diag.Internal: 3}
	for i := 1; i < len(res.Diagnostics); i++ {
		prev, cur := res.Diagnostics[i-1], res.Diagnostics[i]
		assert.LessOrEqual(t, rank[prev.Code.Category()], rank[cur.Code.Category()], "%s before %s", prev, cur)
		if prev.Code.Category() == cur.Code.Category() && prev.Code.Category() != diag.SemanticError {
			assert.LessOrEqual(t, prev.Span.Start, cur.Span.Start, "%s before %s", prev, cur)
		}
	}
	assert.NotEmpty(t, res.Diagnostics.Filter(diag.LexError))
	assert.NotEmpty(t, res.Diagnostics.Filter(diag.SyntaxError))
}

func TestMalformedSourceStillAnalyzed(t *testing.T) {
	res := analyze(t, "function f( { return 1 } let x = ;")
	assert.True(t, res.HasErrors())
	assert.NotNil(t, res.Semantic)
	assert.NotNil(t, res.CFG.Root())
}

func TestSourceType(t *testing.T) {
	opts := DefaultOptions
	opts.Parser.SourceType = parser.SourceType{Module: true, TypeScript: true}

	res, err := Analyze(File{Path: "a", Source: "let x: number = 1;"}, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, opts.Parser.SourceType, res.SourceType)

	js := parser.SourceType{Module: true}
	res, err = Analyze(File{Path: "a", Source: "let x: number = 1;", SourceType: &js}, opts)
	require.NoError(t, err)
	assert.True(t, res.HasErrors())
	assert.Equal(t, js, res.SourceType)
}

func TestRecovered(t *testing.T) {
	assert.NoError(t, recovered(nil, "a.js", zap.NewNop()))

	err := recovered(ast.Invariantf("node %d has no parent", 7), "a.js", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzing a.js")
	assert.Contains(t, err.Error(), "node 7 has no parent")
	var inv *ast.InvariantError
	assert.True(t, errors.As(err, &inv))
	assert.Equal(t, inv, errors.Cause(err))

	assert.PanicsWithValue(t, "other", func() {
		_ = recovered("other", "a.js", zap.NewNop())
	})
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := DefaultOptions
	opts.Logger = zap.New(core)

	_, err := Analyze(File{Path: "log.js", Source: "let a = 1; a;"}, opts)
	require.NoError(t, err)

	for _, msg := range []string{"parsed", "built scopes", "resolved", "built control flow"} {
		entries := logs.FilterMessage(msg).All()
		require.Len(t, entries, 1, msg)
		assert.Equal(t, "log.js", entries[0].ContextMap()["file"])
		assert.Contains(t, entries[0].ContextMap(), "duration")
	}
}

func TestAnalyzeAll(t *testing.T) {
	var files []File
	for i := 0; i < 20; i++ {
		files = append(files, File{
			Path:   fmt.Sprintf("f%d.js", i),
			Source: fmt.Sprintf("function f%d() { return %d }", i, i),
		})
	}
	opts := DefaultOptions
	opts.Workers = 3

	results, err := AnalyzeAll(context.Background(), files, opts)
	require.NoError(t, err)
	require.Len(t, results, len(files))
	units := make(map[uint32]bool)
	for i, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, files[i].Path, res.File.Path)
		assert.Len(t, res.Semantic.SymbolsNamed(fmt.Sprintf("f%d", i)), 1)
		units[res.Program.Arena.Unit()] = true
	}
	assert.Len(t, units, len(files), "every unit gets its own arena")
}

func TestAnalyzeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AnalyzeAll(ctx, []File{{Path: "a.js", Source: "a"}}, DefaultOptions)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}
	utf16 := func(order unicode.Endianness, s string) []byte {
		out, err := unicode.UTF16(order, unicode.UseBOM).NewEncoder().String(s)
		require.NoError(t, err)
		return []byte(out)
	}

	tests := []struct {
		name string
		data []byte
		st   parser.SourceType
	}{
		{"plain.js", []byte("let s = '\u00e9';"), parser.SourceType{Module: true}},
		{"bom.cjs", append([]byte{0xef, 0xbb, 0xbf}, "let s = '\u00e9';"...), parser.SourceType{}},
		{"le.ts", utf16(unicode.LittleEndian, "let s = '\u00e9';"), parser.SourceType{Module: true, TypeScript: true}},
		{"be.tsx", utf16(unicode.BigEndian, "let s = '\u00e9';"), parser.SourceType{Module: true, TypeScript: true, JSX: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := LoadFile(write(tt.name, tt.data))
			require.NoError(t, err)
			assert.Equal(t, "let s = '\u00e9';", f.Source)
			require.NotNil(t, f.SourceType)
			assert.Equal(t, tt.st, *f.SourceType)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "missing.js"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))

	files, err := LoadFiles([]string{a})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, a, files[0].Path)

	_, err = LoadFiles([]string{a, filepath.Join(dir, "b.js")})
	assert.Error(t, err)
}
