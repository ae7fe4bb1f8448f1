package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/infix/lang"
)

// Funcs lists the functions and constants available to expressions.
type Funcs struct {
	Bindings bindings `embed:""`

	Filter string `arg:"" help:"Only list names that fuzzy-match the filter." optional:""`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context, std *Streams) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	bound := lang.NewScope()

	if _, _, err := f.Bindings.resolveInto(ctx, bound); err != nil {
		return err
	}

	scopes := []struct {
		title string
		scope *lang.Scope
	}{
		{"bound", bound},
		{"host", hostScope()},
		{"builtin", lang.Builtins()},
	}

	for _, s := range scopes {
		lines := f.describe(s.scope)
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(std.Out, "# %s\n", s.title)

		for _, line := range lines {
			fmt.Fprintln(std.Out, line)
		}
	}

	return nil
}

// describe lists the constants, variables and function signatures of s
// whose names match the filter.
func (f *Funcs) describe(s *lang.Scope) []string {
	keep := func(string) bool { return true }

	if f.Filter != "" {
		names := s.Names()

		matched := make(map[string]bool)
		for _, m := range fuzzy.Find(f.Filter, names) {
			matched[m.Str] = true
		}

		keep = func(name string) bool { return matched[name] }
	}

	var lines []string

	for name, n := range s.Variables() {
		if !keep(name) {
			continue
		}

		if c, ok := n.(*lang.Constant); ok {
			lines = append(lines, fmt.Sprintf("%s %s = %s", name, n.Type(), c.Value()))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s", name, n.Type()))
		}
	}

	for sig := range s.Signatures() {
		name, _, _ := strings.Cut(sig, "(")
		if keep(name) {
			lines = append(lines, sig)
		}
	}

	return lines
}
