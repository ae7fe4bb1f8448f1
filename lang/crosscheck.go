package lang

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// CrossCheckTolerance is the relative difference allowed between Float
// results of the two evaluators.
var CrossCheckTolerance = 1e-9

// Translation is an expression rewritten in expr-lang syntax. Constants,
// variables and calls are referenced through generated names bound in Env.
type Translation struct {
	Env    map[string]any
	Source string
	funcs  []expr.Option
}

// Translate rewrites the tree rooted at n for the expr-lang evaluator.
// Variable values are taken from env when the translation is built.
func Translate(n Node, env Env) (*Translation, error) {
	t := &Translation{Env: make(map[string]any)}

	for _, helper := range [...]struct {
		name string
		fn   func(...any) (any, error)
	}{
		{"idiv", intDivide(OpDiv)},
		{"imod", intDivide(OpMod)},
		{"fmod", func(a ...any) (any, error) {
			return math.Mod(toFloat(a[0]), toFloat(a[1])), nil
		}},
	} {
		t.funcs = append(t.funcs, expr.Function(helper.name, helper.fn))
	}

	var sb strings.Builder
	if err := t.write(&sb, n, env); err != nil {
		return nil, err
	}

	t.Source = sb.String()

	return t, nil
}

// bind stores v under a fresh name and returns the name.
func (t *Translation) bind(prefix string, v any) string {
	name := prefix + strconv.Itoa(len(t.Env))
	t.Env[name] = v

	return name
}

func (t *Translation) write(sb *strings.Builder, n Node, env Env) error {
	switch n := n.(type) {
	case *Constant:
		sb.WriteString(t.bind("k", native(n.value)))

	case *Variable:
		v, err := n.Eval(env)
		if err != nil {
			return err
		}

		sb.WriteString(t.bind("v", native(v)))

	case *Widen:
		sb.WriteString("float(")

		if err := t.write(sb, n.operand, env); err != nil {
			return err
		}

		sb.WriteByte(')')

	case *Negate:
		sb.WriteString("-(")

		if err := t.write(sb, n.operand, env); err != nil {
			return err
		}

		sb.WriteByte(')')

	case *Not:
		sb.WriteString("!(")

		if err := t.write(sb, n.operand, env); err != nil {
			return err
		}

		sb.WriteByte(')')

	case *Arith:
		return t.writeArith(sb, n, env)

	case *Concat:
		return t.writeChain(sb, "+", n.operands, env)

	case *Logical:
		switch n.op {
		case OpAnd:
			return t.writeChain(sb, "&&", n.operands, env)
		case OpOr:
			return t.writeChain(sb, "||", n.operands, env)
		default:
			return t.writeNested(sb, "!=", n.operands, env)
		}

	case *Compare:
		return t.writeCompare(sb, n, env)

	case *Select:
		return t.writeChainWith(sb, []string{"(", " ? ", " : ", ")"},
			[]Node{n.cond, n.then, n.els}, env)

	case *Call:
		return t.writeCall(sb, n, env)

	default:
		return ErrCrossCheck.With(
			slog.String("reason", "untranslatable node"),
			slog.String("node", kindOf(n)),
		)
	}

	return nil
}

func (t *Translation) writeArith(sb *strings.Builder, n *Arith, env Env) error {
	fn := ""

	switch {
	case n.typ == TypeInt && n.op == OpDiv:
		fn = "idiv"
	case n.typ == TypeInt && n.op == OpMod:
		fn = "imod"
	case n.op == OpMod:
		fn = "fmod"
	}

	if fn == "" {
		return t.writeChain(sb, n.op.String(), n.operands, env)
	}

	// Calls nest left to right: f(f(a, b), c).
	for range len(n.operands) - 1 {
		sb.WriteString(fn)
		sb.WriteByte('(')
	}

	for i, operand := range n.operands {
		if i > 1 {
			sb.WriteString("), ")
		} else if i == 1 {
			sb.WriteString(", ")
		}

		if err := t.write(sb, operand, env); err != nil {
			return err
		}
	}

	if len(n.operands) > 1 {
		sb.WriteByte(')')
	}

	return nil
}

func (t *Translation) writeCompare(sb *strings.Builder, n *Compare, env Env) error {
	if n.lhs.Type() != TypeBool || n.op == OpEq || n.op == OpNe {
		return t.writeChain(sb, n.op.String(), []Node{n.lhs, n.rhs}, env)
	}

	// Bools are ordered false < true.
	return t.writeChainWith(sb,
		[]string{"((", " ? 1 : 0) " + n.op.String() + " (", " ? 1 : 0))"},
		[]Node{n.lhs, n.rhs}, env)
}

func (t *Translation) writeCall(sb *strings.Builder, n *Call, env Env) error {
	name := "f" + strconv.Itoa(len(t.funcs))
	call := n

	t.funcs = append(t.funcs, expr.Function(name, func(params ...any) (any, error) {
		args := make([]Value, len(params))

		for i, p := range params {
			v, err := FromAny(p)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		v, err := call.fn(args)
		if err != nil {
			return nil, err
		}

		return native(v), nil
	}))

	sb.WriteString(name)

	return t.writeChainWith(sb, separators("(", ", ", ")", len(n.args)), n.args, env)
}

// writeChain writes operands joined by op inside one pair of parentheses.
func (t *Translation) writeChain(sb *strings.Builder, op string, operands []Node, env Env) error {
	return t.writeChainWith(sb, separators("(", " "+op+" ", ")", len(operands)), operands, env)
}

// writeNested writes operands joined by op, grouped from the left:
// ((a op b) op c).
func (t *Translation) writeNested(sb *strings.Builder, op string, operands []Node, env Env) error {
	sb.WriteString(strings.Repeat("(", len(operands)-1))

	for i, operand := range operands {
		if i > 0 {
			sb.WriteString(" " + op + " ")
		}

		if err := t.write(sb, operand, env); err != nil {
			return err
		}

		if i > 0 {
			sb.WriteByte(')')
		}
	}

	return nil
}

// writeChainWith interleaves len(operands)+1 separators with operands.
func (t *Translation) writeChainWith(sb *strings.Builder, seps []string, operands []Node, env Env) error {
	for i, operand := range operands {
		sb.WriteString(seps[i])

		if err := t.write(sb, operand, env); err != nil {
			return err
		}
	}

	sb.WriteString(seps[len(operands)])

	return nil
}

func separators(open, sep, closing string, n int) []string {
	seps := make([]string, n+1)
	seps[0] = open

	for i := 1; i < n; i++ {
		seps[i] = sep
	}

	seps[n] = closing
	if n == 0 {
		seps[0] = open + closing
		seps = seps[:1]
	}

	return seps
}

// Run evaluates the translation on the expr-lang virtual machine.
func (t *Translation) Run() (Value, error) {
	opts := append([]expr.Option{expr.Env(t.Env)}, t.funcs...)

	program, err := expr.Compile(t.Source, opts...)
	if err != nil {
		return Value{}, ErrCrossCheck.Wrap(err).
			With(slog.String("source", t.Source))
	}

	out, err := expr.Run(program, t.Env)
	if err != nil {
		return Value{}, err
	}

	return FromAny(out)
}

// CrossCheck evaluates e against env natively and with the expr-lang
// evaluator. It returns the native result if both agree, or both fail.
// Otherwise the error matches [ErrCrossCheck].
func CrossCheck(ctx context.Context, e *Expression, env Env, opts ...Option) (Value, error) {
	cfg := makeConfig(opts...)

	want, werr := e.Eval(env)

	t, err := Translate(e.root, env)
	if err != nil {
		if werr != nil {
			return Value{}, werr
		}

		return Value{}, err
	}

	got, gerr := t.Run()

	cfg.logger.TraceContext(ctx, "cross-check",
		slog.String("source", t.Source),
		slog.Any("native", want),
		slog.Any("expr", got),
		slog.Bool("native_failed", werr != nil),
		slog.Bool("expr_failed", gerr != nil),
	)

	switch {
	case werr != nil && gerr != nil:
		return Value{}, werr
	case werr != nil:
		return Value{}, ErrCrossCheck.Wrap(werr).With(
			slog.String("reason", "only native evaluation failed"),
			slog.Any("expr", got),
		)
	case gerr != nil:
		return Value{}, ErrCrossCheck.Wrap(gerr).With(
			slog.String("reason", "only expr evaluation failed"),
			slog.Any("native", want),
		)
	case !agree(want, got):
		return Value{}, ErrCrossCheck.With(
			slog.String("reason", "results differ"),
			slog.Any("native", want),
			slog.Any("expr", got),
		)
	}

	return want, nil
}

// agree reports whether two results match, allowing Floats to differ by
// [CrossCheckTolerance] and treating NaN as equal to NaN.
func agree(a, b Value) bool {
	if a.Type() != TypeFloat || b.Type() != TypeFloat {
		return a.Equal(b)
	}

	x, y := a.Float(), b.Float()

	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.IsNaN(x) && math.IsNaN(y)
	case math.IsInf(x, 0) || math.IsInf(y, 0):
		return x == y
	}

	return math.Abs(x-y) <= CrossCheckTolerance*max(1, math.Abs(x), math.Abs(y))
}

// native converts v to the Go type the expr-lang evaluator computes with.
func native(v Value) any {
	if v.Type() == TypeInt {
		return int(v.Int())
	}

	return v.Any()
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}

	return math.NaN()
}

// intDivide returns an expr-lang helper computing integer quotients or
// remainders the same way [Arith] does.
func intDivide(op Operator) func(...any) (any, error) {
	return func(a ...any) (any, error) {
		x, xok := a[0].(int)
		y, yok := a[1].(int)

		if !xok || !yok {
			return nil, fmt.Errorf("%s: want int operands, got %T and %T", op, a[0], a[1])
		}

		if y == 0 {
			return nil, ErrDivisionByZero.With(slog.String("operator", op.String()))
		}

		if op == OpDiv {
			return x / y, nil
		}

		return x % y, nil
	}
}
