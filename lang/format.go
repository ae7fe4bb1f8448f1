package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Tree is a structural rendering of a node for JSON and YAML output.
type Tree struct {
	Kind     string `json:"kind"               yaml:"kind"`
	Type     string `json:"type"               yaml:"type"`
	Op       string `json:"op,omitempty"       yaml:"op,omitempty"`
	Name     string `json:"name,omitempty"     yaml:"name,omitempty"`
	Value    string `json:"value,omitempty"    yaml:"value,omitempty"`
	Children []Tree `json:"children,omitempty" yaml:"children,omitempty"`
}

// TreeOf returns the structural rendering of n and its descendants.
// Constant values are given in source syntax.
func TreeOf(n Node) Tree {
	t := Tree{Kind: kindOf(n), Type: n.Type().String()}

	switch n := n.(type) {
	case *Constant:
		t.Value = n.value.String()
	case *Variable:
		t.Name = n.name
	case *Name:
		t.Name = n.name
	case *Call:
		t.Name = n.name
	case *Arith:
		t.Op = n.op.String()
	case *Compare:
		t.Op = n.op.String()
	case *Logical:
		t.Op = n.op.String()
	case *Concat:
		t.Op = OpAdd.String()
	case *Negate:
		t.Op = OpSub.String()
	case *Not:
		t.Op = OpNot.String()
	}

	for _, kid := range n.Children() {
		t.Children = append(t.Children, TreeOf(kid))
	}

	return t
}

func kindOf(n Node) string {
	switch n.(type) {
	case *Constant:
		return "constant"
	case *Variable:
		return "variable"
	case *Name:
		return "name"
	case *Call:
		return "call"
	case *Arith:
		return "arith"
	case *Concat:
		return "concat"
	case *Negate:
		return "negate"
	case *Compare:
		return "compare"
	case *Logical:
		return "logical"
	case *Not:
		return "not"
	case *Select:
		return "select"
	case *Widen:
		return "widen"
	}

	return fmt.Sprintf("%T", n)
}

// Tree returns the structural rendering of the expression.
func (e *Expression) Tree() Tree { return TreeOf(e.root) }

// Format writes the canonical rendering of the expression followed by a
// newline.
func (e *Expression) Format(_ context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, e.root.String())

	return err
}

// FormatJSON writes the expression tree as JSON to the writer.
func (e *Expression) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(e.Tree(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(e.Tree())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the expression tree as YAML to the writer.
func (e *Expression) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, e.Tree(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatTree writes the expression tree as an indented outline, one node
// per line.
func (e *Expression) FormatTree(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	var sb strings.Builder

	writeTree(&sb, e.Tree(), strings.Repeat(" ", indent), 0)

	_, err := io.WriteString(w, sb.String())

	return err
}

func writeTree(sb *strings.Builder, t Tree, pad string, depth int) {
	for range depth {
		sb.WriteString(pad)
	}

	sb.WriteString(t.Kind)

	for _, s := range [...]string{t.Op, t.Name, t.Value} {
		if s != "" {
			sb.WriteByte(' ')
			sb.WriteString(s)
		}
	}

	sb.WriteString(" : ")
	sb.WriteString(t.Type)
	sb.WriteByte('\n')

	for _, kid := range t.Children {
		writeTree(sb, kid, pad, depth+1)
	}
}
