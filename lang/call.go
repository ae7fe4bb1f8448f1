package lang

import (
	"log/slog"
	"strings"
)

// Func computes a function result from evaluated arguments.
type Func func(args []Value) (Value, error)

// Call invokes a host or built-in function. Its purity is declared by the
// resolver that built it, never inferred.
type Call struct {
	fn   Func
	name string
	args []Node
	typ  Type
	pure bool
}

// NewCall returns a node that evaluates args and passes them to fn.
// The name is used only for rendering and diagnostics.
func NewCall(name string, typ Type, pure bool, fn Func, args ...Node) *Call {
	return &Call{name: name, typ: typ, pure: pure, fn: fn, args: args}
}

// Name returns the function name.
func (c *Call) Name() string { return c.name }

func (c *Call) Type() Type { return c.typ }
func (c *Call) Pure() bool { return c.pure }
func (c *Call) Children() []Node { return c.args }
func (c *Call) Simplify() (Node, bool) { return simplify(c) }

func (c *Call) String() string {
	var sb strings.Builder

	sb.WriteString(c.name)
	sb.WriteByte('(')

	for i, arg := range c.args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(arg.String())
	}

	sb.WriteByte(')')

	return sb.String()
}

func (c *Call) WithChildren(children []Node) Node {
	d := *c
	d.args = children

	return &d
}

func (c *Call) Eval(env Env) (Value, error) {
	args := make([]Value, len(c.args))

	for i, arg := range c.args {
		v, err := arg.Eval(env)
		if err != nil {
			return Value{}, err
		}

		args[i] = v
	}

	v, err := c.fn(args)
	if err != nil {
		return Value{}, WrapError(err).With(slog.String("function", c.name))
	}

	if v.Type() != c.typ {
		return Value{}, ErrWrongReturnType.With(
			slog.String("function", c.name),
			slog.String("expected", c.typ.String()),
			slog.String("actual", v.Type().String()),
		)
	}

	return v, nil
}

// Overload is one typed signature of a named function.
type Overload struct {
	Fn     Func
	Params []Type
	Result Type
	Impure bool
}

// Signature renders the overload as name(param, ...) result.
func (o Overload) Signature(name string) string {
	var sb strings.Builder

	sb.WriteString(name)
	sb.WriteString(typeList(o.Params))
	sb.WriteByte(' ')
	sb.WriteString(o.Result.String())

	return sb.String()
}

// match reports whether args satisfy the parameters, exactly or, when widen
// is set, by converting Int arguments to Float parameters.
func (o Overload) match(args []Node, widen bool) bool {
	if len(args) != len(o.Params) {
		return false
	}

	for i, p := range o.Params {
		switch t := args[i].Type(); {
		case t == p:
		case widen && t == TypeInt && p == TypeFloat:
		default:
			return false
		}
	}

	return true
}

// bind builds the call node, widening Int arguments where needed.
func (o Overload) bind(name string, args []Node) *Call {
	bound := make([]Node, len(args))

	for i, arg := range args {
		if arg.Type() == TypeInt && o.Params[i] == TypeFloat {
			arg = NewWiden(arg)
		}

		bound[i] = arg
	}

	return NewCall(name, o.Result, !o.Impure, o.Fn, bound...)
}

// resolveOverload picks the first overload matching args exactly, then the
// first matching with Int to Float widening.
func resolveOverload(name string, overloads []Overload, args []Node) (Node, error) {
	for _, widen := range [...]bool{false, true} {
		for _, o := range overloads {
			if o.match(args, widen) {
				return o.bind(name, args), nil
			}
		}
	}

	types := make([]Type, len(args))
	for i, arg := range args {
		types[i] = arg.Type()
	}

	return nil, ErrNoOverload.With(slog.String("call", name+typeList(types)))
}

// typeList renders types as a parenthesized, comma-separated list.
func typeList(types []Type) string {
	var sb strings.Builder

	sb.WriteByte('(')

	for i, t := range types {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(t.String())
	}

	sb.WriteByte(')')

	return sb.String()
}
