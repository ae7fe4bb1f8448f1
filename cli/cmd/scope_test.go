package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/infix/lang"
)

func TestInput_Read(t *testing.T) {
	file := writeFile(t, t.TempDir(), "expr.txt", "\n 1 + 2 \n")

	tests := []struct {
		name  string
		in    input
		stdin string
		want  string
		err   error
	}{
		{"arg", input{Expr: "1 + 2"}, "", "1 + 2", nil},
		{"file", input{File: file}, "", "1 + 2", nil},
		{"stdin", input{File: "-"}, "\t3\n", "3", nil},
		{"none", input{}, "", "", ErrNoInput},
		{"both", input{Expr: "1", File: file}, "", "", ErrNoInput},
		{"missing", input{File: file + ".missing"}, "", "", ErrReadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.read(strings.NewReader(tt.stdin))

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("got %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil || got != tt.want {
				t.Errorf("got %q, %v, want %q", got, err, tt.want)
			}
		})
	}
}

func TestSplitBinding(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		text     string
		wantFail bool
	}{
		{"a=1", "a", "1", false},
		{" a =1 + 2", "a", "1 + 2", false},
		{"x=a==b", "x", "a==b", false},
		{"_v2=", "_v2", "", false},
		{"a", "", "", true},
		{"=1", "", "", true},
		{"2a=1", "", "", true},
		{"a-b=1", "", "", true},
		{"True=1", "", "", true},
	}

	for _, tt := range tests {
		name, text, err := splitBinding(tt.in)

		if tt.wantFail {
			if !errors.Is(err, ErrBinding) {
				t.Errorf("%q: got %v, want %v", tt.in, err, ErrBinding)
			}

			continue
		}

		if err != nil || name != tt.name || text != tt.text {
			t.Errorf("%q: got (%q, %q, %v)", tt.in, name, text, err)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		text string
		typ  lang.Type
		want lang.Value
		fail bool
	}{
		{"42", lang.TypeInt, lang.Int(42), false},
		{" 0x10 ", lang.TypeInt, lang.Int(16), false},
		{"-7", lang.TypeInt, lang.Int(-7), false},
		{"1.5", lang.TypeInt, lang.Value{}, true},
		{"1.5", lang.TypeFloat, lang.Float(1.5), false},
		{"3", lang.TypeFloat, lang.Float(3), false},
		{"x", lang.TypeFloat, lang.Value{}, true},
		{"true", lang.TypeBool, lang.Bool(true), false},
		{"0", lang.TypeBool, lang.Bool(false), false},
		{"yes", lang.TypeBool, lang.Value{}, true},
		{" raw text ", lang.TypeString, lang.String(" raw text "), false},
	}

	for _, tt := range tests {
		got, err := parseValue(tt.text, tt.typ)

		if tt.fail {
			if err == nil {
				t.Errorf("%q as %v: no error", tt.text, tt.typ)
			}

			continue
		}

		if err != nil || !got.Equal(tt.want) {
			t.Errorf("%q as %v: got %v, %v", tt.text, tt.typ, got, err)
		}
	}
}

func TestEnviron_Lookup(t *testing.T) {
	t.Setenv("INFIX_N", "12")
	t.Setenv("INFIX_BAD", "twelve")

	env := environ{"INFIX_N": lang.TypeInt, "INFIX_BAD": lang.TypeInt, "INFIX_NONE": lang.TypeString}

	if v, err := env.Lookup("INFIX_N"); err != nil || !v.Equal(lang.Int(12)) {
		t.Errorf("got %v, %v", v, err)
	}

	if _, err := env.Lookup("INFIX_BAD"); !errors.Is(err, lang.ErrInvalidValue) {
		t.Errorf("got %v, want %v", err, lang.ErrInvalidValue)
	}

	if _, err := env.Lookup("INFIX_NONE"); !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Errorf("got %v, want %v", err, lang.ErrUndefinedVariable)
	}

	// Only declared names are read.
	if _, err := env.Lookup("HOME"); !errors.Is(err, lang.ErrUndefinedVariable) {
		t.Errorf("got %v, want %v", err, lang.ErrUndefinedVariable)
	}
}

func TestBindings_Resolve(t *testing.T) {
	b := bindings{
		Var:  []string{"two=2", "four=two*two", "pi=3"},
		Decl: []string{"w=int"},
	}

	r, env, err := b.resolve(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	e, err := lang.Compile(t.Context(), "w + four * pi", lang.WithResolver(r))
	if err != nil {
		t.Fatal(err)
	}

	// Bound constants shadow built-ins and fold away.
	if got := e.String(); got != "(w + 12)" {
		t.Errorf("got %s, want (w + 12)", got)
	}

	if _, ok := env.(environ)["w"]; !ok {
		t.Error("declared variable missing from env")
	}

	if _, _, err := (bindings{Var: []string{"x=nope"}}).resolve(t.Context()); !errors.Is(err, ErrBinding) {
		t.Errorf("got %v, want %v", err, ErrBinding)
	}
}
