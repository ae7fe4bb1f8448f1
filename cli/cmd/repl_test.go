package cmd

import (
	"testing"

	"github.com/alecthomas/kong"
)

func TestRepl_CacheDir(t *testing.T) {
	if got := (&Repl{}).cacheDir(t.Context()); got != "" {
		t.Errorf("without kong context: got %q", got)
	}

	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{CacheIdentifier: "/tmp/infix-cache"})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)

	if got := (&Repl{}).cacheDir(ctx); got != "/tmp/infix-cache" {
		t.Errorf("got %q", got)
	}

	if got := (&Repl{NoHistory: true}).cacheDir(ctx); got != "" {
		t.Errorf("with --no-history: got %q", got)
	}
}

func TestRepl_BadBinding(t *testing.T) {
	r := Repl{Bindings: bindings{Var: []string{"=1"}}}

	if err := r.Run(t.Context()); err == nil {
		t.Error("bad binding started a session")
	}
}
