package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

// session holds the names visible to the REPL and compiles input against
// them. Names bound with let live in defs, which shadows every other scope.
type session struct {
	defs   *lang.Scope
	scopes []*lang.Scope
	env    lang.Env
	cache  *lang.Cache
	logger log.Logger
}

func newSession(scopes []*lang.Scope, env lang.Env, logger log.Logger) *session {
	defs := lang.NewScope()
	all := append([]*lang.Scope{defs}, scopes...)

	chain := make(lang.Chain, len(all))
	for i, s := range all {
		chain[i] = s
	}

	return &session{
		defs:   defs,
		scopes: all,
		env:    env,
		cache:  lang.NewCache(lang.WithResolver(chain), lang.WithLogger(logger)),
		logger: logger,
	}
}

// compile compiles src, reusing an earlier compilation of the same text.
func (s *session) compile(ctx context.Context, src string) (*lang.Expression, error) {
	return s.cache.Compile(ctx, src)
}

// eval compiles and evaluates src.
func (s *session) eval(ctx context.Context, src string) (lang.Value, error) {
	e, err := s.compile(ctx, src)
	if err != nil {
		return lang.Value{}, err
	}

	return e.Eval(s.env)
}

// let binds name to the value of src. Cached compilations are dropped,
// since they may have resolved name differently.
func (s *session) let(ctx context.Context, name, src string) (lang.Value, error) {
	v, err := s.eval(ctx, src)
	if err != nil {
		return lang.Value{}, err
	}

	s.defs.Const(name, v)
	s.cache.Clear()

	s.logger.TraceContext(ctx, "repl let",
		slog.String("name", name),
		slog.Any("value", v),
	)

	return v, nil
}

// tree renders the compiled tree of src as an outline.
func (s *session) tree(ctx context.Context, src string) (string, error) {
	e, err := s.compile(ctx, src)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	if err := e.FormatTree(ctx, &sb, 2); err != nil {
		return "", err
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// isFunc reports whether name is a function in any scope.
func (s *session) isFunc(name string) bool {
	for _, sc := range s.scopes {
		for fn := range sc.Functions() {
			if fn == name {
				return true
			}
		}
	}

	return false
}

// list describes the names bound with let, then every other name.
func (s *session) list() string {
	var b strings.Builder

	for name, n := range s.defs.Variables() {
		if c, ok := n.(*lang.Constant); ok {
			fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(c.Value().String()+" : "+c.Type().String()))
		}
	}

	for _, sc := range s.scopes[1:] {
		var consts, funcs []string

		for name := range sc.Variables() {
			consts = append(consts, name)
		}

		for name := range sc.Functions() {
			funcs = append(funcs, name+"()")
		}

		if names := append(consts, funcs...); len(names) > 0 {
			fmt.Fprintf(&b, "  %s\n", hintStyle.Render(strings.Join(names, " ")))
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
