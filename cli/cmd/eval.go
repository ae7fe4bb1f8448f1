package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

// Eval compiles an expression and prints its value.
type Eval struct {
	Input    input    `embed:""`
	Bindings bindings `embed:""`

	Type    string `default:""   enum:",${types}" help:"Require the result to have the given type." placeholder:"TYPE"`
	NoFold  bool   `                               help:"Disable constant folding."`
	Verify  bool   `                               help:"Cross-check the result with the expr-lang evaluator."`
	Literal bool   `                               help:"Print strings as quoted literals."                     short:"l"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, std *Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := e.Input.read(std.In)
	if err != nil {
		return err
	}

	opts := []lang.Option{
		lang.WithFolding(!e.NoFold),
		lang.WithLogger(log.Default()),
	}

	r, env, err := e.Bindings.resolve(ctx, opts...)
	if err != nil {
		return err
	}

	opts = append(opts, lang.WithResolver(r))

	expr, err := e.compile(ctx, src, opts...)
	if err != nil {
		fmt.Fprintln(std.Err, lang.Describe(src, err))

		return ErrCompile.Wrap(err)
	}

	var v lang.Value

	if e.Verify {
		v, err = lang.CrossCheck(ctx, expr, env, opts...)
	} else {
		v, err = expr.Eval(env)
	}

	if err != nil {
		return ErrEvaluate.Wrap(err).With(slog.String("expr", expr.String()))
	}

	log.DebugContext(ctx, "evaluated",
		slog.String("source", src),
		slog.String("tree", expr.String()),
		slog.Any("result", v),
	)

	_, err = fmt.Fprintln(std.Out, render(v, e.Literal))

	return err
}

func (e *Eval) compile(ctx context.Context, src string, opts ...lang.Option) (*lang.Expression, error) {
	if e.Type == "" {
		return lang.Compile(ctx, src, opts...)
	}

	typ, err := lang.ParseType(e.Type)
	if err != nil {
		return nil, err
	}

	return lang.CompileAs(ctx, src, typ, opts...)
}

// render formats a result for printing. Strings are printed raw unless
// literal is set.
func render(v lang.Value, literal bool) string {
	switch {
	case literal:
		return v.String()
	case v.Type() == lang.TypeString:
		return v.Text()
	case v.Type() == lang.TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	}

	return v.String()
}
