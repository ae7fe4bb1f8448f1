package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/klauspost/readahead"

	"github.com/ardnew/infix/log"
)

// DefaultMaxDepth is the default limit on nested brackets and call
// argument lists.
var DefaultMaxDepth = 256

// DefaultResolver is consulted when no resolver is given with
// [WithResolver]. It resolves the built-in functions and constants.
var DefaultResolver = sync.OnceValue(func() Resolver { return Builtins() })

// config holds compilation options.
type config struct {
	resolver Resolver
	logger   log.Logger
	maxDepth int
	noFold   bool
}

// Option configures compilation.
type Option func(*config)

// WithResolver sets the resolver for identifiers and function calls.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		c.resolver = r
	}
}

// WithFolding enables or disables constant folding. Folding is enabled by
// default.
func WithFolding(enable bool) Option {
	return func(c *config) {
		c.noFold = !enable
	}
}

// WithMaxDepth sets the maximum bracket nesting depth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func makeConfig(opts ...Option) config {
	var c config

	c.maxDepth = DefaultMaxDepth

	for _, opt := range opts {
		opt(&c)
	}

	if c.resolver == nil {
		c.resolver = DefaultResolver()
	}

	return c
}

// Expression is a compiled expression. It is immutable and safe for
// concurrent evaluation.
type Expression struct {
	root   Node
	source string
}

// Compile parses source into a typed expression tree, folding constant
// subtrees unless disabled with [WithFolding].
//
// Compilation is all-or-nothing: on error no partial tree is returned.
func Compile(ctx context.Context, source string, opts ...Option) (*Expression, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "compile start",
		slog.Int("source_bytes", len(source)),
		slog.Bool("fold", !cfg.noFold),
	)

	root, err := parse(ctx, source, cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.noFold {
		folded := Optimize(root)

		cfg.logger.TraceContext(ctx, "fold",
			slog.Any("before", rendered{root}),
			slog.Any("after", rendered{folded}),
		)

		root = folded
	}

	cfg.logger.TraceContext(ctx, "compile complete",
		slog.String("type", root.Type().String()),
		slog.Any("canonical", rendered{root}),
	)

	return &Expression{root: root, source: source}, nil
}

// CompileAs is [Compile] with the additional requirement that the result
// type is want.
func CompileAs(ctx context.Context, source string, want Type, opts ...Option) (*Expression, error) {
	e, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	if got := e.Type(); got != want {
		return nil, ErrWrongReturnType.With(
			slog.String("expected", want.String()),
			slog.String("actual", got.String()),
		)
	}

	return e, nil
}

// CompileReader compiles the entire content of r as one expression.
// Surrounding whitespace is ignored.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Expression, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Compile(ctx, strings.TrimSpace(string(data)), opts...)
}

// Source returns the text the expression was compiled from.
func (e *Expression) Source() string { return e.source }

// Root returns the root node of the tree.
func (e *Expression) Root() Node { return e.root }

// Type returns the result type.
func (e *Expression) Type() Type { return e.root.Type() }

// String returns the canonical rendering of the tree.
func (e *Expression) String() string { return e.root.String() }

// Pure reports whether the expression is a constant.
func (e *Expression) Pure() bool {
	_, ok := e.root.(*Constant)

	return ok
}

// Eval evaluates the expression against env, which may be nil if the
// expression has no variables.
func (e *Expression) Eval(env Env) (Value, error) {
	return e.root.Eval(env)
}

// Optimize returns the expression with constant subtrees folded.
func (e *Expression) Optimize() *Expression {
	return &Expression{root: Optimize(e.root), source: e.source}
}

// Eval evaluates e and returns its value as the Go type T.
func Eval[T int64 | float64 | bool | string](e *Expression, env Env) (T, error) {
	var zero T

	v, err := e.Eval(env)
	if err != nil {
		return zero, err
	}

	x, ok := v.Any().(T)
	if !ok {
		return zero, ErrWrongReturnType.With(
			slog.String("expected", resultTypeName(zero)),
			slog.String("actual", v.Type().String()),
		)
	}

	return x, nil
}

// Optimize folds every maximal pure subtree of n into a constant.
// Optimizing an optimized tree returns it unchanged.
func Optimize(n Node) Node {
	folded, _ := n.Simplify()

	return folded
}
