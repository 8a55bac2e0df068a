package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/kr/pretty"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/generator"
	"github.com/t14raptor/fastfront/parser"
	"github.com/t14raptor/fastfront/pipeline"
	"github.com/t14raptor/fastfront/semantic"
)

type args struct {
	Files []string `arg:"positional,required,help:source files to analyze"`

	TS     bool `arg:"help:parse as TypeScript"`
	JSX    bool `arg:"help:accept JSX"`
	Module bool `arg:"help:parse as an ES module"`
	Script bool `arg:"help:parse as a classic script"`

	Tokens bool   `arg:"help:print the tokens consumed by the parser"`
	AST    bool   `arg:"help:print the syntax tree"`
	Pretty bool   `arg:"help:print the syntax tree as nested values"`
	Print  bool   `arg:"help:print source generated from the syntax tree"`
	Scopes bool   `arg:"help:print the scope tree and symbols"`
	CFG    bool   `arg:"help:print control flow graphs in Graphviz format"`
	Repeat uint64 `arg:"help:analyze every file repeatedly and print timings"`

	Workers int  `arg:"help:number of files analyzed at once"`
	Verbose bool `arg:"-v,help:log pass durations"`
}

func main() {
	a := args{Repeat: 1}
	arg.MustParse(&a)

	var (
		logger *zap.Logger
		err    error
	)
	if a.Verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalln(err)
	}

	status := run(a, logger, os.Stdout, os.Stderr)
	logger.Sync()
	os.Exit(status)
}

// sourceType returns the source type forced by flags, or nil when the type
// should be inferred from each file name.
func (a args) sourceType() *parser.SourceType {
	if !a.TS && !a.JSX && !a.Module && !a.Script {
		return nil
	}
	return &parser.SourceType{
		Module:     !a.Script,
		TypeScript: a.TS,
		JSX:        a.JSX,
	}
}

func run(a args, logger *zap.Logger, stdout, stderr io.Writer) int {
	files, err := pipeline.LoadFiles(a.Files)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if st := a.sourceType(); st != nil {
		for i := range files {
			files[i].SourceType = st
		}
	}

	opts := pipeline.DefaultOptions
	opts.Workers = a.Workers
	opts.Logger = logger

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	if a.Repeat > 1 {
		if err := repeat(out, files, opts, a.Repeat); err != nil {
			fmt.Fprintf(stderr, "%+v\n", err)
			return 1
		}
		return 0
	}

	results, err := pipeline.AnalyzeAll(context.Background(), files, opts)
	if err != nil {
		fmt.Fprintf(stderr, "%+v\n", err)
		return 1
	}

	status := 0
	for _, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(out, "== %s\n", res.File.Path)
		}
		if err := report(out, a, res); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		for _, d := range res.Diagnostics {
			line, col := res.Program.Position(d.Span.Start)
			fmt.Fprintf(stderr, "%s:%d:%d: %s %s: %s\n", res.File.Path, line, col, d.Severity, d.Code, d.Message)
		}
		if res.HasErrors() {
			status = 1
		}
	}
	return status
}

func report(w io.Writer, a args, res *pipeline.Result) error {
	prog := res.Program
	if a.Tokens {
		for _, tok := range parser.Tokens(prog.Source, parser.Options{SourceType: res.SourceType}) {
			fmt.Fprintf(w, "%s [%d,%d)", tok.Kind, tok.Idx0, tok.Idx1)
			if tok.Value != "" {
				fmt.Fprintf(w, " %q", tok.Value)
			}
			fmt.Fprintln(w)
		}
	}
	if a.AST || a.Pretty {
		if a.Pretty {
			pretty.Fprintf(w, "%# v\n", ast.TreeOf(prog.Arena, prog.Root))
		} else if err := ast.Dump(w, prog, "  "); err != nil {
			return err
		}
	}
	if a.Print {
		fmt.Fprintln(w, generator.Generate(prog))
	}
	if a.Scopes {
		printScope(w, res.Semantic, res.Semantic.Root(), 0)
	}
	if a.CFG {
		for _, g := range res.CFG.All() {
			fmt.Fprint(w, g.Dot())
		}
	}
	return nil
}

func printScope(w io.Writer, sem *semantic.Semantic, id semantic.ScopeID, depth int) {
	indent := strings.Repeat("  ", depth)
	sc := sem.Scope(id)
	fmt.Fprintf(w, "%s%s", indent, sc.Kind)
	if sc.Strict {
		fmt.Fprint(w, " strict")
	}
	fmt.Fprintln(w)

	seen := make(map[semantic.SymbolID]bool)
	var syms []semantic.SymbolID
	for _, names := range []map[string]semantic.SymbolID{sc.Values, sc.Types} {
		for _, sym := range names {
			if !seen[sym] {
				seen[sym] = true
				syms = append(syms, sym)
			}
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	for _, sym := range syms {
		s := sem.Symbol(sym)
		fmt.Fprintf(w, "%s  %s %s refs=%d\n", indent, s.Kind, s.Name, len(s.References))
	}
	for _, child := range sc.Children {
		printScope(w, sem, child, depth+1)
	}
}

// repeat analyzes every file n times and prints a timing summary per file.
func repeat(w io.Writer, files []pipeline.File, opts pipeline.Options, n uint64) error {
	for _, f := range files {
		var times []float64
		for i := uint64(0); i < n; i++ {
			begin := time.Now()
			if _, err := pipeline.Analyze(f, opts); err != nil {
				return err
			}
			times = append(times, float64(time.Since(begin)))
		}

		fmt.Fprintf(w, "%s: %d runs\n", f.Path, n)
		m, _ := stats.Median(times)
		fmt.Fprintf(w, "  Median: %v\n", time.Duration(m))
		m, _ = stats.Mean(times)
		fmt.Fprintf(w, "  Mean: %v\n", time.Duration(m))
		m, _ = stats.StdDevS(times)
		fmt.Fprintf(w, "  StdDev: %v\n", time.Duration(m))
		m, _ = stats.Min(times)
		fmt.Fprintf(w, "  Min: %v\n", time.Duration(m))
		m, _ = stats.Max(times)
		fmt.Fprintf(w, "  Max: %v\n", time.Duration(m))
	}
	return nil
}
