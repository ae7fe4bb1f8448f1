package cmd

import (
	"strings"
	"testing"
)

func TestFuncs_Run(t *testing.T) {
	std, out, _ := testStreams("")

	f := Funcs{}
	if err := f.Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	got := out.String()

	for _, want := range []string{
		"# host\n",
		"# builtin\n",
		"env(string) string\n",
		"env(string, string) string\n",
		"pathprefix(string, string, bool) string\n",
		"pathjoin(string, string) string\n",
		"sqrt(float) float\n",
		"pi float = 3.14",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(got, "# bound") {
		t.Error("empty bound section printed")
	}

	if strings.Index(got, "# host") > strings.Index(got, "# builtin") {
		t.Error("host section after built-ins")
	}
}

func TestFuncs_Bindings(t *testing.T) {
	std, out, _ := testStreams("")

	f := Funcs{Bindings: bindings{
		Var:  []string{"k=2*3"},
		Decl: []string{"w=float"},
	}}
	if err := f.Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(out.String(), "# bound\nk int = 6\nw float\n") {
		t.Errorf("got:\n%s", out)
	}
}

func TestFuncs_Filter(t *testing.T) {
	std, out, _ := testStreams("")

	f := Funcs{Filter: "sqr"}
	if err := f.Run(t.Context(), std); err != nil {
		t.Fatal(err)
	}

	want := "# builtin\nsqrt(float) float\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
