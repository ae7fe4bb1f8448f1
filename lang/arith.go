package lang

import (
	"log/slog"
	"math"
	"strings"
)

// Arith applies one arithmetic operator across two or more operands of the
// same numeric type, left to right.
type Arith struct {
	operands []Node
	op       Operator
	typ      Type
}

// NewArith returns an arithmetic node over operands, which must all have type
// typ (TypeInt or TypeFloat). Op is one of Add, Sub, Mul, Div, Mod.
func NewArith(op Operator, typ Type, operands ...Node) *Arith {
	return &Arith{op: op, typ: typ, operands: operands}
}

// Operator returns the arithmetic operator.
func (a *Arith) Operator() Operator { return a.op }

func (a *Arith) Type() Type { return a.typ }
func (a *Arith) String() string { return join(a.op, a.operands) }
func (a *Arith) Pure() bool { return true }
func (a *Arith) Children() []Node { return a.operands }
func (a *Arith) Simplify() (Node, bool) { return simplify(a) }

func (a *Arith) WithChildren(children []Node) Node {
	return &Arith{op: a.op, typ: a.typ, operands: children}
}

func (a *Arith) Eval(env Env) (Value, error) {
	if a.typ == TypeFloat {
		return a.evalFloat(env)
	}

	return a.evalInt(env)
}

func (a *Arith) evalInt(env Env) (Value, error) {
	acc, err := a.operands[0].Eval(env)
	if err != nil {
		return Value{}, err
	}

	x := acc.Int()

	for _, operand := range a.operands[1:] {
		v, err := operand.Eval(env)
		if err != nil {
			return Value{}, err
		}

		y := v.Int()

		switch a.op {
		case OpAdd:
			x += y
		case OpSub:
			x -= y
		case OpMul:
			x *= y
		case OpDiv, OpMod:
			if y == 0 {
				return Value{}, ErrDivisionByZero.With(
					slog.String("operator", a.op.String()),
					slog.Int64("dividend", x),
				)
			}

			if a.op == OpDiv {
				x /= y
			} else {
				x %= y
			}
		}
	}

	return Int(x), nil
}

func (a *Arith) evalFloat(env Env) (Value, error) {
	acc, err := a.operands[0].Eval(env)
	if err != nil {
		return Value{}, err
	}

	x := acc.Float()

	for _, operand := range a.operands[1:] {
		v, err := operand.Eval(env)
		if err != nil {
			return Value{}, err
		}

		y := v.Float()

		switch a.op {
		case OpAdd:
			x += y
		case OpSub:
			x -= y
		case OpMul:
			x *= y
		case OpDiv:
			x /= y
		case OpMod:
			x = math.Mod(x, y)
		}
	}

	return Float(x), nil
}

// Concat joins string operands.
type Concat struct {
	operands []Node
}

// NewConcat returns a node concatenating the String operands in order.
func NewConcat(operands ...Node) *Concat { return &Concat{operands: operands} }

func (c *Concat) Type() Type { return TypeString }
func (c *Concat) Pure() bool { return true }
func (c *Concat) Children() []Node { return c.operands }
func (c *Concat) Simplify() (Node, bool) { return simplify(c) }

func (c *Concat) String() string {
	if len(c.operands) == 1 {
		return c.operands[0].String()
	}

	return join(OpAdd, c.operands)
}

func (c *Concat) WithChildren(children []Node) Node {
	return &Concat{operands: children}
}

func (c *Concat) Eval(env Env) (Value, error) {
	var sb strings.Builder

	for _, operand := range c.operands {
		v, err := operand.Eval(env)
		if err != nil {
			return Value{}, err
		}

		sb.WriteString(v.Text())
	}

	return String(sb.String()), nil
}

// Negate is unary minus on an Int or Float operand.
type Negate struct {
	operand Node
}

// NewNegate returns the arithmetic negation of the numeric node n.
func NewNegate(n Node) *Negate { return &Negate{operand: n} }

func (n *Negate) Type() Type { return n.operand.Type() }
func (n *Negate) String() string { return "-" + n.operand.String() }
func (n *Negate) Pure() bool { return true }
func (n *Negate) Children() []Node { return []Node{n.operand} }
func (n *Negate) Simplify() (Node, bool) { return simplify(n) }

func (n *Negate) WithChildren(children []Node) Node {
	return &Negate{operand: children[0]}
}

func (n *Negate) Eval(env Env) (Value, error) {
	v, err := n.operand.Eval(env)
	if err != nil {
		return Value{}, err
	}

	if v.Type() == TypeFloat {
		return Float(-v.Float()), nil
	}

	return Int(-v.Int()), nil
}

// join renders operands separated by the spelling of op, wrapped in one
// pair of parentheses.
func join(op Operator, operands []Node) string {
	var sb strings.Builder

	sep := " " + op.String() + " "

	sb.WriteByte('(')

	for i, operand := range operands {
		if i > 0 {
			sb.WriteString(sep)
		}

		sb.WriteString(operand.String())
	}

	sb.WriteByte(')')

	return sb.String()
}
