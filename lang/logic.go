package lang

import "strings"

// Compare tests two operands of the same type with a relational or equality
// operator.
type Compare struct {
	lhs, rhs Node
	op       Operator
}

// NewCompare returns a Bool node comparing lhs and rhs, which must share a
// type. Op is one of Eq, Ne, Lt, Gt, Le, Ge.
func NewCompare(op Operator, lhs, rhs Node) *Compare {
	return &Compare{op: op, lhs: lhs, rhs: rhs}
}

// Operator returns the comparison operator.
func (c *Compare) Operator() Operator { return c.op }

func (c *Compare) Type() Type { return TypeBool }
func (c *Compare) Pure() bool { return true }
func (c *Compare) Children() []Node { return []Node{c.lhs, c.rhs} }
func (c *Compare) Simplify() (Node, bool) { return simplify(c) }

func (c *Compare) String() string {
	return "(" + c.lhs.String() + " " + c.op.String() + " " + c.rhs.String() + ")"
}

func (c *Compare) WithChildren(children []Node) Node {
	return &Compare{op: c.op, lhs: children[0], rhs: children[1]}
}

func (c *Compare) Eval(env Env) (Value, error) {
	l, err := c.lhs.Eval(env)
	if err != nil {
		return Value{}, err
	}

	r, err := c.rhs.Eval(env)
	if err != nil {
		return Value{}, err
	}

	return Bool(compare(c.op, l, r)), nil
}

// compare applies op to two values of the same type. Floats use IEEE
// semantics, so every comparison with NaN is false except !=. Strings
// compare bytewise and false orders before true.
func compare(op Operator, l, r Value) bool {
	var order int

	switch l.Type() {
	case TypeFloat:
		x, y := l.Float(), r.Float()

		switch op {
		case OpEq:
			return x == y
		case OpNe:
			return x != y
		case OpLt:
			return x < y
		case OpLe:
			return x <= y
		case OpGt:
			return x > y
		case OpGe:
			return x >= y
		}

		return false

	case TypeString:
		order = strings.Compare(l.Text(), r.Text())

	default:
		switch x, y := l.i, r.i; {
		case x < y:
			order = -1
		case x > y:
			order = 1
		}
	}

	switch op {
	case OpEq:
		return order == 0
	case OpNe:
		return order != 0
	case OpLt:
		return order < 0
	case OpLe:
		return order <= 0
	case OpGt:
		return order > 0
	case OpGe:
		return order >= 0
	}

	return false
}

// Logical combines two or more Bool operands with And, Or or Xor.
// And and Or stop at the first operand that decides the result.
type Logical struct {
	operands []Node
	op       Operator
}

// NewLogical returns a Bool node combining the Bool operands with op.
func NewLogical(op Operator, operands ...Node) *Logical {
	return &Logical{op: op, operands: operands}
}

// Operator returns the logical operator.
func (l *Logical) Operator() Operator { return l.op }

func (l *Logical) Type() Type { return TypeBool }
func (l *Logical) String() string { return join(l.op, l.operands) }
func (l *Logical) Pure() bool { return true }
func (l *Logical) Children() []Node { return l.operands }
func (l *Logical) Simplify() (Node, bool) { return simplify(l) }

func (l *Logical) WithChildren(children []Node) Node {
	return &Logical{op: l.op, operands: children}
}

func (l *Logical) Eval(env Env) (Value, error) {
	acc := false

	for i, operand := range l.operands {
		v, err := operand.Eval(env)
		if err != nil {
			return Value{}, err
		}

		b := v.Bool()

		switch l.op {
		case OpAnd:
			if !b {
				return Bool(false), nil
			}

			acc = true
		case OpOr:
			if b {
				return Bool(true), nil
			}
		case OpXor:
			if i == 0 {
				acc = b
			} else {
				acc = acc != b
			}
		}
	}

	return Bool(acc), nil
}

// Not is boolean negation.
type Not struct {
	operand Node
}

// NewNot returns the negation of the Bool node n.
func NewNot(n Node) *Not { return &Not{operand: n} }

func (n *Not) Type() Type { return TypeBool }
func (n *Not) String() string { return "!" + n.operand.String() }
func (n *Not) Pure() bool { return true }
func (n *Not) Children() []Node { return []Node{n.operand} }
func (n *Not) Simplify() (Node, bool) { return simplify(n) }

func (n *Not) WithChildren(children []Node) Node {
	return &Not{operand: children[0]}
}

func (n *Not) Eval(env Env) (Value, error) {
	v, err := n.operand.Eval(env)
	if err != nil {
		return Value{}, err
	}

	return Bool(!v.Bool()), nil
}

// Select is the conditional operator cond ? then : els.
type Select struct {
	cond, then, els Node
}

// NewSelect returns a conditional over a Bool condition and two branches of
// the same type.
func NewSelect(cond, then, els Node) *Select {
	return &Select{cond: cond, then: then, els: els}
}

func (s *Select) Type() Type { return s.then.Type() }
func (s *Select) Pure() bool { return true }
func (s *Select) Children() []Node { return []Node{s.cond, s.then, s.els} }

func (s *Select) String() string {
	return "(" + s.cond.String() + "?" + s.then.String() + ":" + s.els.String() + ")"
}

func (s *Select) WithChildren(children []Node) Node {
	return &Select{cond: children[0], then: children[1], els: children[2]}
}

func (s *Select) Eval(env Env) (Value, error) {
	c, err := s.cond.Eval(env)
	if err != nil {
		return Value{}, err
	}

	if c.Bool() {
		return s.then.Eval(env)
	}

	return s.els.Eval(env)
}

// Simplify folds the condition first. A pure condition picks its branch at
// compile time and the other branch is dropped without being evaluated; the
// result is as pure as the chosen branch.
func (s *Select) Simplify() (Node, bool) {
	cond, pure := s.cond.Simplify()
	if pure {
		c, err := cond.Eval(nil)
		if err == nil {
			if c.Bool() {
				return s.then.Simplify()
			}

			return s.els.Simplify()
		}
	}

	then, _ := s.then.Simplify()
	els, _ := s.els.Simplify()

	if cond == s.cond && then == s.then && els == s.els {
		return s, false
	}

	return &Select{cond: cond, then: then, els: els}, false
}
