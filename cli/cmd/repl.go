package cmd

import (
	"context"

	"github.com/ardnew/infix/cli/cmd/repl"
	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

// Repl starts an interactive session.
type Repl struct {
	Bindings bindings `embed:""`

	NoHistory bool `help:"Do not load or save input history."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	bound := lang.NewScope()

	_, env, err := r.Bindings.resolveInto(ctx, bound)
	if err != nil {
		return err
	}

	return repl.Run(ctx, repl.Config{
		Scopes:   []*lang.Scope{bound, hostScope(), lang.Builtins()},
		Env:      env,
		CacheDir: r.cacheDir(ctx),
		Logger:   log.Default(),
	})
}

// cacheDir returns the directory holding the history database, or the empty
// string if history is disabled.
func (r *Repl) cacheDir(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[CacheIdentifier]
}
