package lang

import "log/slog"

// Node is one vertex of a compiled expression tree.
//
// A finished tree is read-only: nodes are never mutated after construction,
// so a tree may be evaluated from multiple goroutines at once. Rewrites such
// as [Optimize] build new nodes and leave the originals untouched.
type Node interface {
	// Type returns the static result type of the node.
	Type() Type

	// String renders the node as canonical source text. Compiling the
	// rendering yields a tree that renders identically.
	String() string

	// Eval computes the value of the node. The env is consulted only by
	// variable nodes and may be nil for trees without them.
	Eval(env Env) (Value, error)

	// Pure reports whether the node's own operation is free of context
	// dependencies and side effects, disregarding its children.
	Pure() bool

	// Children returns the direct children in evaluation order.
	Children() []Node

	// WithChildren returns a copy of the node with its direct children
	// replaced. The slice must match Children in length and types.
	WithChildren(children []Node) Node

	// Simplify returns a folded equivalent of the node and whether the
	// result is pure.
	Simplify() (Node, bool)
}

// simplify is the folding rule shared by every node without special
// handling: simplify the children, and if the node and all of its children
// are pure, replace it with a constant holding its value.
//
// A pure subtree whose evaluation fails is left in place, and reported
// impure so that its ancestors keep it, which defers the error to Eval.
func simplify(n Node) (Node, bool) {
	pure := n.Pure()

	if kids := n.Children(); len(kids) > 0 {
		next := make([]Node, len(kids))
		changed := false

		for i, kid := range kids {
			s, p := kid.Simplify()
			next[i] = s
			pure = pure && p
			changed = changed || s != kid
		}

		if changed {
			n = n.WithChildren(next)
		}
	}

	if !pure {
		return n, false
	}

	v, err := n.Eval(nil)
	if err != nil {
		return n, false
	}

	return &Constant{value: v}, true
}

// Constant is a literal or folded value.
type Constant struct {
	value Value
}

// NewConstant returns a node that always evaluates to v.
func NewConstant(v Value) *Constant { return &Constant{value: v} }

// Value returns the value held by the constant.
func (c *Constant) Value() Value { return c.value }

func (c *Constant) Type() Type { return c.value.Type() }
func (c *Constant) String() string { return c.value.String() }
func (c *Constant) Eval(Env) (Value, error) { return c.value, nil }
func (c *Constant) Pure() bool { return true }
func (c *Constant) Children() []Node { return nil }
func (c *Constant) WithChildren([]Node) Node { return c }
func (c *Constant) Simplify() (Node, bool) { return c, true }

// Name is an identifier awaiting resolution. It exists only while parsing.
type Name struct {
	name string
}

func (n *Name) Type() Type { return TypeInvalid }
func (n *Name) String() string { return n.name }
func (n *Name) Pure() bool { return false }
func (n *Name) Children() []Node { return nil }
func (n *Name) WithChildren([]Node) Node { return n }
func (n *Name) Simplify() (Node, bool) { return n, false }

func (n *Name) Eval(Env) (Value, error) {
	return Value{}, ErrUnresolvedName.With(slog.String("name", n.name))
}

// Variable reads a named value from the evaluation environment.
type Variable struct {
	name string
	typ  Type
}

// NewVariable returns a node that looks up name in the [Env] at evaluation
// time and requires the result to have type typ.
func NewVariable(name string, typ Type) *Variable {
	return &Variable{name: name, typ: typ}
}

// Name returns the looked-up name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) Type() Type { return v.typ }
func (v *Variable) String() string { return v.name }
func (v *Variable) Pure() bool { return false }
func (v *Variable) Children() []Node { return nil }
func (v *Variable) WithChildren([]Node) Node { return v }
func (v *Variable) Simplify() (Node, bool) { return v, false }

func (v *Variable) Eval(env Env) (Value, error) {
	if env == nil {
		return Value{}, ErrUndefinedVariable.With(slog.String("name", v.name))
	}

	val, err := env.Lookup(v.name)
	if err != nil {
		return Value{}, err
	}

	if val.Type() != v.typ {
		return Value{}, ErrTypeMismatch.With(
			slog.String("name", v.name),
			slog.String("declared", v.typ.String()),
			slog.String("actual", val.Type().String()),
		)
	}

	return val, nil
}

// Widen converts an Int operand to Float. Resolvers insert it where a
// function parameter requires a Float and the argument is an Int; it renders
// as its operand so the conversion is rebuilt on reparse.
type Widen struct {
	operand Node
}

// NewWiden returns a Float view of the Int node n.
func NewWiden(n Node) *Widen { return &Widen{operand: n} }

func (w *Widen) Type() Type { return TypeFloat }
func (w *Widen) String() string { return w.operand.String() }
func (w *Widen) Pure() bool { return true }
func (w *Widen) Children() []Node { return []Node{w.operand} }
func (w *Widen) Simplify() (Node, bool) { return simplify(w) }

func (w *Widen) WithChildren(children []Node) Node {
	return &Widen{operand: children[0]}
}

func (w *Widen) Eval(env Env) (Value, error) {
	v, err := w.operand.Eval(env)
	if err != nil {
		return Value{}, err
	}

	return Float(float64(v.Int())), nil
}
