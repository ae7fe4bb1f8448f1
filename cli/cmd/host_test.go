package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/infix/lang"
)

func evalHost(t *testing.T, src string) (*lang.Expression, lang.Value) {
	t.Helper()

	e, err := lang.Compile(t.Context(), src,
		lang.WithResolver(lang.Chain{hostScope(), lang.Builtins()}))
	if err != nil {
		t.Fatalf("compile %s: %v", src, err)
	}

	v, err := e.Eval(nil)
	if err != nil {
		t.Fatalf("eval %s: %v", src, err)
	}

	return e, v
}

func TestHost_Env(t *testing.T) {
	t.Setenv("INFIX_HOST", "value")

	e, v := evalHost(t, `env("INFIX_HOST")`)
	if v.Text() != "value" {
		t.Errorf("got %v", v)
	}

	if e.Pure() {
		t.Error("env was folded")
	}

	if _, v := evalHost(t, `env("INFIX_HOST_UNSET")`); v.Text() != "" {
		t.Errorf("unset: got %v", v)
	}

	if _, v := evalHost(t, `env("INFIX_HOST_UNSET", "fallback")`); v.Text() != "fallback" {
		t.Errorf("default: got %v", v)
	}
}

func TestHost_PathJoin(t *testing.T) {
	e, v := evalHost(t, `pathjoin("/usr/", "bin")`)

	if want := filepath.Join("/usr/", "bin"); v.Text() != want {
		t.Errorf("got %v, want %q", v, want)
	}

	if !e.Pure() {
		t.Error("pathjoin with constant arguments was not folded")
	}
}

func TestHost_PathPrefix(t *testing.T) {
	sep := string(os.PathListSeparator)

	dir := t.TempDir()
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")

	for _, d := range []string{a, b} {
		if err := os.Mkdir(d, 0o700); err != nil {
			t.Fatal(err)
		}
	}

	missing := filepath.Join(dir, "missing")
	list := strings.Join([]string{a, missing}, sep)

	t.Setenv("INFIX_LIST", list)
	t.Setenv("INFIX_ITEM", b)

	_, v := evalHost(t, `pathprefix(env("INFIX_LIST"), env("INFIX_ITEM"))`)

	got := strings.Split(v.Text(), sep)
	if len(got) == 0 || got[0] != b {
		t.Errorf("got %q, want %q first", v.Text(), b)
	}

	if !strings.Contains(v.Text(), a) {
		t.Errorf("got %q, lost %q", v.Text(), a)
	}

	_, v = evalHost(t, `pathprefix(env("INFIX_LIST"), env("INFIX_ITEM"), true)`)

	if strings.Contains(v.Text(), missing) {
		t.Errorf("got %q, kept missing directory", v.Text())
	}

	if !strings.HasPrefix(v.Text(), b) {
		t.Errorf("got %q, want %q first", v.Text(), b)
	}

	e, _ := evalHost(t, `pathprefix("/x", "/y", true)`)
	if e.Pure() {
		t.Error("filtering pathprefix was folded")
	}
}
