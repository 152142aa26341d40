// Package mint implements the Mint scripting language: a lexer, a parser that
// builds an arena AST, a resolver computing lexical binding distances and a
// tree-walking interpreter with closures.
package mint

import (
	sterrors "errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
)

// Runner owns one interpreter and its persistent global frame. Successive
// calls to Run or RunLine share globals; only the diagnostics of the previous
// unit are discarded. A Runner is not safe for concurrent use.
type Runner struct {
	id          string
	interp      *Interpreter
	out         io.Writer
	diag        io.Writer
	logger      *log.Logger
	useCache    bool
	diagnostics []*Error
}

type Option func(*Runner)

// WithOutput sets where print writes. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithDiagnostics sets where error lines are written. Defaults to os.Stderr.
func WithDiagnostics(w io.Writer) Option {
	return func(r *Runner) { r.diag = w }
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithCompileCache turns the shared compile cache on or off for this runner.
func WithCompileCache(enabled bool) Option {
	return func(r *Runner) { r.useCache = enabled }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		id:       xid.New().String(),
		out:      os.Stdout,
		diag:     os.Stderr,
		logger:   &log.Logger{Level: log.WarnLevel, Writer: &log.IOWriter{Writer: os.Stderr}},
		useCache: GetRuntimeConfig().CacheCompiledUnits,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.interp = NewInterpreter(r.out)
	return r
}

func (r *Runner) ID() string { return r.id }

func (r *Runner) Interpreter() *Interpreter { return r.interp }

// Diagnostics returns the errors reported by the most recent run.
func (r *Runner) Diagnostics() []*Error { return r.diagnostics }

// Define binds a Go value as a global. See ToValue for the accepted types.
func (r *Runner) Define(name string, v any) error {
	value, err := ToValue(v)
	if err != nil {
		return err
	}
	r.interp.Globals().Define(name, value)
	return nil
}

// Run compiles and executes source against the persistent global frame.
func (r *Runner) Run(source string) Status {
	r.diagnostics = nil
	unit, errs := r.compile(source)
	if len(errs) > 0 {
		r.report(errs...)
		r.logger.Debug().Str("session", r.id).Int("errors", len(errs)).Msg("static errors")
		return StatusStaticError
	}

	start := time.Now()
	err := r.interp.Interpret(unit)
	if GetRuntimeConfig().LogExecution {
		r.logger.Debug().Str("session", r.id).Dur("duration", time.Since(start)).Msg("unit executed")
	}
	if err != nil {
		var rerr *Error
		if !sterrors.As(err, &rerr) {
			rerr = &Error{Code: ErrCodeRuntime, Message: err.Error()}
		}
		r.report(rerr)
		r.logger.Debug().Str("session", r.id).Int("line", rerr.Line).Msg("runtime error")
		return StatusRuntimeError
	}
	return StatusOK
}

// RunLine runs one line of interactive input. Declarations made by earlier
// lines remain visible.
func (r *Runner) RunLine(line string) Status {
	return r.Run(line)
}

// RunSource runs a complete program in a fresh runner.
func RunSource(source string, opts ...Option) Status {
	return NewRunner(opts...).Run(source)
}

func (r *Runner) report(errs ...*Error) {
	r.diagnostics = append(r.diagnostics, errs...)
	for _, e := range errs {
		fmt.Fprintln(r.diag, e.Error())
	}
}

func (r *Runner) compile(source string) (*Unit, []*Error) {
	var cache *compileCache
	if r.useCache {
		cache = sharedCache(r.logger)
		if unit, ok := cache.get(source); ok {
			r.logger.Debug().Str("session", r.id).Msg("compile cache hit")
			return unit, nil
		}
	}
	start := time.Now()
	unit, errs := Compile(source)
	if len(errs) > 0 {
		return nil, errs
	}
	r.logger.Debug().
		Str("session", r.id).
		Int("statements", len(unit.Tree.Roots)).
		Int("nodes", unit.Tree.NumExprs()+unit.Tree.NumStmts()).
		Dur("duration", time.Since(start)).
		Msg("unit compiled")
	if cache != nil {
		cache.put(unit)
		r.logger.Debug().Str("session", r.id).Int("cost", len(source)+1).Msg("unit cached")
	}
	return unit, nil
}

// Compile scans, parses and resolves source. Any error stops the pipeline at
// the stage that raised it.
func Compile(source string) (*Unit, []*Error) {
	lexer := NewLexer(source)
	tokens := lexer.ScanTokens()
	if errs := lexer.Errors(); len(errs) > 0 {
		return nil, errs
	}
	parser := NewParser(tokens)
	tree := parser.Parse()
	if errs := parser.Errors(); len(errs) > 0 {
		return nil, errs
	}
	locals, errs := NewResolver().Resolve(tree)
	if len(errs) > 0 {
		return nil, errs
	}
	return &Unit{Tree: tree, Locals: locals, Source: source}, nil
}

var (
	sharedCacheMu sync.Mutex
	shared        *compileCache
	sharedSize    int64
)

// sharedCache returns the process-wide compile cache, rebuilding it when the
// configured size changes.
func sharedCache(logger *log.Logger) *compileCache {
	size := GetRuntimeConfig().CompileCacheSize
	sharedCacheMu.Lock()
	defer sharedCacheMu.Unlock()
	if shared != nil && sharedSize == size {
		return shared
	}
	c, err := newCompileCache(size)
	if err != nil {
		logger.Warn().Err(err).Msg("compile cache disabled")
	}
	shared.close()
	shared, sharedSize = c, size
	return shared
}
