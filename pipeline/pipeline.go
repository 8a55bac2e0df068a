// Package pipeline runs the front end passes over source units: parse,
// scope building, reference resolution and control flow graph construction.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/cfg"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/parser"
	"github.com/t14raptor/fastfront/resolver"
	"github.com/t14raptor/fastfront/semantic"
)

// File is one source unit.
type File struct {
	Path   string
	Source string
	// SourceType overrides Options.Parser.SourceType when set.
	SourceType *parser.SourceType
}

// Options configure a pipeline run.
type Options struct {
	// Parser is used for files that do not carry their own source type.
	Parser parser.Options
	// Workers bounds the number of units analyzed at once by AnalyzeAll.
	// Zero means runtime.GOMAXPROCS.
	Workers int
	// Logger receives pass durations at debug level. Nil means zap.NewNop().
	Logger *zap.Logger
}

// DefaultOptions analyze JavaScript modules with one worker per CPU.
var DefaultOptions = Options{
	Parser: parser.DefaultOptions,
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Result is the immutable output of analyzing one unit.
type Result struct {
	File File
	// SourceType is the one the unit was parsed with.
	SourceType parser.SourceType
	Program    *ast.Program
	Semantic   *semantic.Semantic
	CFG        *cfg.Set

	// Diagnostics are ordered by pass, then by offset.
	Diagnostics diag.List
}

// HasErrors reports whether any pass reported an error diagnostic.
func (r *Result) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// Analyze runs every pass over file. Malformed source is never an error: it
// shows up in Result.Diagnostics. The returned error is set only when an
// internal invariant breaks.
func Analyze(file File, opts Options) (res *Result, err error) {
	log := opts.logger().With(zap.String("file", file.Path))

	defer func() {
		if err = recovered(recover(), file.Path, log); err != nil {
			res = nil
		}
	}()

	st := opts.Parser.SourceType
	if file.SourceType != nil {
		st = *file.SourceType
	}

	res = &Result{File: file, SourceType: st}

	start := time.Now()
	prog, parseDiags := parser.ParseFile(file.Source, parser.Options{SourceType: st})
	res.Program = prog
	lex, syntax := parseDiags.Filter(diag.LexError), parseDiags.Filter(diag.SyntaxError)
	lex.SortStable()
	syntax.SortStable()
	log.Debug("parsed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("nodes", prog.Arena.Len()),
		zap.Int("diagnostics", len(parseDiags)))

	start = time.Now()
	sem := semantic.Build(prog)
	res.Semantic = sem
	built := len(sem.Diagnostics)
	log.Debug("built scopes",
		zap.Duration("duration", time.Since(start)),
		zap.Int("scopes", sem.NumScopes()),
		zap.Int("symbols", sem.NumSymbols()))

	start = time.Now()
	resolver.Resolve(prog, sem)
	log.Debug("resolved",
		zap.Duration("duration", time.Since(start)),
		zap.Int("references", sem.NumReferences()),
		zap.Int("unresolved", len(sem.Unresolved)))

	start = time.Now()
	res.CFG = cfg.Build(prog)
	log.Debug("built control flow",
		zap.Duration("duration", time.Since(start)),
		zap.Int("graphs", res.CFG.Len()))

	// Early errors of the semantic class, such as invalid assignment targets,
	// are found by the parser but reported with the scope pass.
	scopes := append(parseDiags.Filter(diag.SemanticError), sem.Diagnostics[:built]...)
	refs := append(diag.List{}, sem.Diagnostics[built:]...)
	scopes.SortStable()
	refs.SortStable()
	for _, pass := range []diag.List{lex, syntax, scopes, refs} {
		res.Diagnostics = append(res.Diagnostics, pass...)
	}
	return res, nil
}

// recovered turns an invariant panic into an error. Any other panic value is
// re-raised.
func recovered(r any, path string, log *zap.Logger) error {
	if r == nil {
		return nil
	}
	inv, ok := r.(*ast.InvariantError)
	if !ok {
		panic(r)
	}
	log.Error("internal invariant violated", zap.String("code", string(diag.InvariantViolation)), zap.Error(inv))
	return errors.Wrapf(inv, "analyzing %s", path)
}

// AnalyzeAll analyzes files in parallel, at most opts.Workers at a time.
// Results are in input order. The context is checked between units; a unit
// that has started always runs to completion.
func AnalyzeAll(ctx context.Context, files []File, opts Options) ([]*Result, error) {
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Analyze(f, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
