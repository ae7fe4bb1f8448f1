package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func formatExpr(t *testing.T) *Expression {
	t.Helper()

	e, err := Compile(t.Context(), "x + 1",
		WithResolver(NewScope().Var("x", TypeInt)), WithFolding(false))
	if err != nil {
		t.Fatal(err)
	}

	return e
}

func TestTreeOf(t *testing.T) {
	e, err := Compile(t.Context(), `b ? max(x, 2.5) : -1.0`,
		WithResolver(Chain{
			NewScope().Var("b", TypeBool).Var("x", TypeInt),
			Builtins(),
		}))
	if err != nil {
		t.Fatal(err)
	}

	tree := e.Tree()

	if tree.Kind != "select" || tree.Type != "float" || len(tree.Children) != 3 {
		t.Fatalf("root = %+v", tree)
	}

	call := tree.Children[1]
	if call.Kind != "call" || call.Name != "max" {
		t.Errorf("then = %+v, want call max", call)
	}

	if w := call.Children[0]; w.Kind != "widen" || w.Children[0].Name != "x" {
		t.Errorf("first argument = %+v, want widened x", w)
	}

	if c := tree.Children[2]; c.Kind != "constant" || c.Value != "-1.0" {
		t.Errorf("else = %+v, want folded constant -1.0", c)
	}
}

func TestExpression_Format(t *testing.T) {
	var buf bytes.Buffer

	if err := formatExpr(t).Format(t.Context(), &buf); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "(x + 1)\n" {
		t.Errorf("got %q", got)
	}
}

func TestExpression_FormatJSON(t *testing.T) {
	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer

		if err := formatExpr(t).FormatJSON(t.Context(), &buf, indent); err != nil {
			t.Fatal(err)
		}

		var tree Tree
		if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
			t.Fatalf("indent %d: %v", indent, err)
		}

		if tree.Kind != "arith" || tree.Op != "+" || len(tree.Children) != 2 {
			t.Errorf("indent %d: root = %+v", indent, tree)
		}

		if tree.Children[1].Value != "1" {
			t.Errorf("indent %d: constant = %+v", indent, tree.Children[1])
		}

		if indent == 0 && strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("compact output spans lines: %q", buf.String())
		}
	}
}

func TestExpression_FormatYAML(t *testing.T) {
	var buf bytes.Buffer

	if err := formatExpr(t).FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	for _, want := range []string{"kind: arith", "kind: variable", "name: x", "type: int"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExpression_FormatTree(t *testing.T) {
	var buf bytes.Buffer

	if err := formatExpr(t).FormatTree(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	want := "arith + : int\n" +
		"  variable x : int\n" +
		"  constant 1 : int\n"

	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
