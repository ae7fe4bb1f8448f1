package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

// Fmt compiles an expression and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical infix source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the typed tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the typed tree as YAML."`
	Tree   Tree   `cmd:""                    help:"Format the typed tree as an indented outline."`
}

// source holds the flags shared by every format.
type source struct {
	Input    input    `embed:""`
	Bindings bindings `embed:""`

	NoFold bool `help:"Disable constant folding."`
}

// compile reads and compiles the expression, describing any compile error
// on std.Err.
func (s *source) compile(ctx context.Context, std *Streams, format string) (*lang.Expression, error) {
	src, err := s.Input.read(std.In)
	if err != nil {
		return nil, err
	}

	opts := []lang.Option{
		lang.WithFolding(!s.NoFold),
		lang.WithLogger(log.Default()),
	}

	r, _, err := s.Bindings.resolve(ctx, opts...)
	if err != nil {
		return nil, err
	}

	e, err := lang.Compile(ctx, src, append(opts, lang.WithResolver(r))...)
	if err != nil {
		fmt.Fprintln(std.Err, lang.Describe(src, err))

		return nil, ErrCompile.Wrap(err).With(slog.String("format", format))
	}

	return e, nil
}

// write compiles the expression and passes it to fn, wrapping any error.
func (s *source) write(
	ctx context.Context,
	std *Streams,
	format string,
	fn func(e *lang.Expression, w io.Writer) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := s.compile(ctx, std, format)
	if err != nil {
		return err
	}

	if err := fn(e, std.Out); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", format))
	}

	return nil
}

// Native formats an expression as canonical infix source.
type Native struct {
	Source source `embed:""`
}

// Run executes the fmt native command.
func (n *Native) Run(ctx context.Context, std *Streams) error {
	return n.Source.write(ctx, std, "native", func(e *lang.Expression, w io.Writer) error {
		return e.Format(ctx, w)
	})
}

// JSON formats an expression tree as JSON.
type JSON struct {
	Source source `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output, or 0 for a single line." short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context, std *Streams) error {
	return j.Source.write(ctx, std, "json", func(e *lang.Expression, w io.Writer) error {
		return e.FormatJSON(ctx, w, j.Indent)
	})
}

// YAML formats an expression tree as YAML.
type YAML struct {
	Source source `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context, std *Streams) error {
	return y.Source.write(ctx, std, "yaml", func(e *lang.Expression, w io.Writer) error {
		return e.FormatYAML(ctx, w, y.Indent)
	})
}

// Tree formats an expression tree as an indented outline.
type Tree struct {
	Source source `embed:""`

	Indent int `default:"2" help:"Indent width of each level." short:"i"`
}

// Run executes the fmt tree command.
func (t *Tree) Run(ctx context.Context, std *Streams) error {
	return t.Source.write(ctx, std, "tree", func(e *lang.Expression, w io.Writer) error {
		return e.FormatTree(ctx, w, t.Indent)
	})
}
