package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
	"github.com/ardnew/infix/pkg"
)

// Check verifies a file of expressions, one per line. Blank lines and lines
// starting with '#' are skipped.
//
// Each expression must compile, render to a fixpoint, agree with its
// unfolded form and agree with the expr-lang evaluator.
type Check struct {
	Sources  []string `arg:"" default:"-" help:"Input files, or '-' for stdin." name:"source" type:"path"`
	Bindings bindings `embed:""`

	Quiet bool `help:"Print failures only." short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context, std *Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := buildSourceFiles(c.Sources, std.In)
	if err != nil {
		return err
	}
	defer srcs.Close()

	opts := []lang.Option{lang.WithLogger(log.Default())}

	r, env, err := c.Bindings.resolve(ctx, opts...)
	if err != nil {
		return err
	}

	opts = append(opts, lang.WithResolver(r))

	var (
		failed  pkg.Error
		checked int
	)

	scanner := bufio.NewScanner(srcs.Reader())

	for num := 1; scanner.Scan(); num++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		checked++

		if err := checkExpr(ctx, line, env, opts...); err != nil {
			failed = failed.Wrap(fmt.Errorf("line %d: %w", num, err))

			fmt.Fprintf(std.Out, "FAIL %d: %s\n", num, line)
			fmt.Fprintf(std.Out, "     %s\n", strings.ReplaceAll(lang.Describe(line, err), "\n", "\n     "))

			continue
		}

		if !c.Quiet {
			fmt.Fprintf(std.Out, "ok   %d: %s\n", num, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrReadInput.Wrap(err)
	}

	log.DebugContext(ctx, "check complete",
		slog.Int("checked", checked),
		slog.Int("failed", len(failed)),
	)

	if len(failed) > 0 {
		return pkg.ErrCheck.Wrap(failed...)
	}

	return nil
}

// checkExpr compiles src with and without folding and verifies that both
// trees render to a fixpoint and evaluate to the same result, and that the
// folded tree agrees with the expr-lang evaluator.
func checkExpr(ctx context.Context, src string, env lang.Env, opts ...lang.Option) error {
	folded, err := lang.Compile(ctx, src, opts...)
	if err != nil {
		return err
	}

	raw, err := lang.Compile(ctx, src, append(opts, lang.WithFolding(false))...)
	if err != nil {
		return err
	}

	for _, e := range []*lang.Expression{folded, raw} {
		again, err := lang.Compile(ctx, e.String(), append(opts, lang.WithFolding(false))...)
		if err != nil {
			return fmt.Errorf("rendering %s does not compile: %w", e, err)
		}

		if again.String() != e.String() {
			return fmt.Errorf("rendering is not a fixpoint: %s became %s", e, again)
		}
	}

	want, werr := folded.Eval(env)
	got, gerr := raw.Eval(env)

	switch {
	case (werr == nil) != (gerr == nil):
		return fmt.Errorf("folding changed the outcome: folded %v, unfolded %v", errOr(want, werr), errOr(got, gerr))
	case werr == nil && !sameValue(want, got):
		return fmt.Errorf("folding changed the result: folded %v, unfolded %v", want, got)
	}

	_, err = lang.CrossCheck(ctx, folded, env, opts...)
	if err != nil && werr != nil && !errors.Is(err, lang.ErrCrossCheck) {
		// Both evaluators rejected the expression, as they should for
		// errors such as division by zero.
		return nil
	}

	return err
}

func errOr(v lang.Value, err error) any {
	if err != nil {
		return err
	}

	return v
}

func sameValue(a, b lang.Value) bool {
	if a.Type() == lang.TypeFloat && b.Type() == lang.TypeFloat &&
		math.IsNaN(a.Float()) && math.IsNaN(b.Float()) {
		return true
	}

	return a.Equal(b)
}
