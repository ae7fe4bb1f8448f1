package lang

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/infix/log"
)

// slot is one element of the parser's working list: an operator awaiting
// operands, or an operand node.
type slot struct {
	node Node
	pos  int
	op   Operator
}

func (s slot) isOperand() bool { return s.node != nil }

// parser holds the state of one parse. It is not reused across calls.
type parser struct {
	ctx      context.Context
	resolver Resolver
	logger   log.Logger
	lex      lexer
	depth    int
	maxDepth int
}

// parse compiles source into an unoptimized tree.
func parse(ctx context.Context, source string, cfg config) (Node, error) {
	p := &parser{
		ctx:      ctx,
		lex:      lexer{input: source},
		resolver: cfg.resolver,
		logger:   cfg.logger,
		maxDepth: cfg.maxDepth,
	}

	slots, end, err := p.read()
	if err != nil {
		return nil, err
	}

	switch end.kind {
	case tokenClose:
		return nil, ErrUnbalancedBrackets.
			WithPosition(end.pos).
			With(slog.String("bracket", ")"))
	case tokenComma:
		return nil, ErrUnexpectedComma.WithPosition(end.pos)
	}

	return p.reduce(slots, 0)
}

// read collects slots up to the next closing bracket, comma or end of input
// at this nesting level and returns them with the terminating token.
// Parenthesized groups and call arguments are reduced recursively.
func (p *parser) read() ([]slot, token, error) {
	var slots []slot

	for {
		tok, err := p.lex.next()
		if err != nil {
			return nil, tok, err
		}

		switch tok.kind {
		case tokenEOF, tokenClose, tokenComma:
			p.logger.TraceContext(p.ctx, "tokens read",
				slog.Int("slots", len(slots)),
				slog.String("end", tok.kind.String()),
				slog.Int("depth", p.depth),
			)

			return slots, tok, nil

		case tokenOperator:
			slots = append(slots, slot{op: tok.op, pos: tok.pos})

		case tokenString:
			slots, err = push(slots, NewConstant(String(tok.text)), tok.pos)

		case tokenOperand:
			var n Node

			n, err = literal(tok)
			if err == nil {
				slots, err = push(slots, n, tok.pos)
			}

		case tokenOpen:
			if k := len(slots) - 1; k >= 0 {
				if name, ok := slots[k].node.(*Name); ok {
					slots[k].node, err = p.call(name.name, slots[k].pos, tok.pos)

					break
				}
			}

			var n Node

			n, err = p.group(tok.pos)
			if err == nil {
				slots, err = push(slots, n, tok.pos)
			}
		}

		if err != nil {
			return nil, tok, err
		}
	}
}

// push appends an operand slot. Two adjacent operands are malformed.
func push(slots []slot, n Node, pos int) ([]slot, error) {
	if k := len(slots) - 1; k >= 0 && slots[k].isOperand() {
		return nil, ErrMalformed.
			WithPosition(pos).
			With(slog.String("reason", "expected operator"))
	}

	return append(slots, slot{node: n, pos: pos}), nil
}

// literal converts an operand token to a number, a Bool or a name awaiting
// resolution. Tokens starting with a digit must be numbers.
func literal(tok token) (Node, error) {
	text := tok.text

	if r, _ := utf8.DecodeRuneInString(text); unicode.IsDigit(r) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return NewConstant(Int(i)), nil
		}

		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return NewConstant(Float(f)), nil
		}

		return nil, ErrMalformed.
			WithPosition(tok.pos).
			With(slog.String("number", text))
	}

	switch {
	case strings.EqualFold(text, "true"):
		return NewConstant(Bool(true)), nil
	case strings.EqualFold(text, "false"):
		return NewConstant(Bool(false)), nil
	}

	return &Name{name: text}, nil
}

// enter increments the nesting depth for a bracket opened at pos.
func (p *parser) enter(pos int) error {
	if p.depth >= p.maxDepth {
		return ErrMaxDepthExceeded.
			WithPosition(pos).
			With(slog.Int("max_depth", p.maxDepth))
	}

	p.depth++

	return nil
}

// group reduces a parenthesized subexpression whose opening bracket is at
// open.
func (p *parser) group(open int) (Node, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	slots, end, err := p.read()
	if err != nil {
		return nil, err
	}

	switch end.kind {
	case tokenEOF:
		return nil, ErrUnbalancedBrackets.
			WithPosition(open).
			With(slog.String("bracket", "("))
	case tokenComma:
		return nil, ErrUnexpectedComma.WithPosition(end.pos)
	}

	return p.reduce(slots, open)
}

// call reduces the argument list opened at open and resolves the call.
func (p *parser) call(name string, pos, open int) (Node, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	var args []Node

	for {
		slots, end, err := p.read()
		if err != nil {
			return nil, err
		}

		if end.kind == tokenEOF {
			return nil, ErrUnbalancedBrackets.
				WithPosition(open).
				With(slog.String("bracket", "("), slog.String("function", name))
		}

		if len(slots) == 0 {
			switch {
			case end.kind == tokenClose && len(args) == 0:
				return p.resolveCall(name, args, pos)
			case end.kind == tokenClose:
				return nil, ErrTrailingComma.
					WithPosition(end.pos).
					With(slog.String("function", name))
			default:
				return nil, ErrUnexpectedComma.
					WithPosition(end.pos).
					With(slog.String("function", name))
			}
		}

		arg, err := p.reduce(slots, end.pos)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if end.kind == tokenClose {
			return p.resolveCall(name, args, pos)
		}
	}
}

func (p *parser) resolveCall(name string, args []Node, pos int) (Node, error) {
	n, err := p.resolver.ResolveFunction(name, args)
	if err != nil {
		return nil, WrapError(err).WithPosition(pos)
	}

	if n == nil {
		return nil, ErrUnknownFunction.
			WithPosition(pos).
			With(slog.String("name", name), slog.Int("args", len(args)))
	}

	p.logger.TraceContext(p.ctx, "call resolved",
		slog.String("name", name),
		slog.String("type", n.Type().String()),
		slog.Bool("pure", n.Pure()),
	)

	return n, nil
}

// pass is one stage of reduction over the slot list.
type pass struct {
	run  func(p *parser, slots []slot) ([]slot, error)
	name string
}

// passes run in order after names are resolved. Each binds tighter than
// the ones after it.
var passes = [...]pass{
	{name: "not", run: (*parser).notPass},
	{name: "sign", run: (*parser).signPass},
	{name: "multiplicative", run: tier(arithmetic, true, OpMul, OpDiv, OpMod)},
	{name: "additive", run: tier(arithmetic, true, OpAdd, OpSub)},
	{name: "relational", run: tier(comparison, false, OpGt, OpGe, OpLt, OpLe)},
	{name: "equality", run: tier(comparison, false, OpEq, OpNe)},
	{name: "and", run: tier(logical, true, OpAnd)},
	{name: "or", run: tier(logical, true, OpOr)},
	{name: "xor", run: tier(logical, true, OpXor)},
	{name: "conditional", run: (*parser).condPass},
}

// reduce collapses slots into one operand node. Pos locates the
// subexpression for diagnostics.
func (p *parser) reduce(slots []slot, pos int) (Node, error) {
	if len(slots) == 0 {
		return nil, ErrMalformed.
			WithPosition(pos).
			With(slog.String("reason", "empty expression"))
	}

	for i, s := range slots {
		name, ok := s.node.(*Name)
		if !ok {
			continue
		}

		n, ok := p.resolver.ResolveVariable(name.name)
		if !ok || n == nil {
			return nil, ErrUnknownSymbol.
				WithPosition(s.pos).
				With(slog.String("name", name.name))
		}

		slots[i].node = n
	}

	var err error

	for _, ps := range passes {
		slots, err = ps.run(p, slots)
		if err != nil {
			return nil, err
		}

		p.logger.TraceContext(p.ctx, "pass",
			slog.String("pass", ps.name),
			slog.Int("slots", len(slots)),
		)
	}

	if len(slots) == 1 && slots[0].isOperand() {
		return slots[0].node, nil
	}

	for _, s := range slots {
		if !s.isOperand() {
			return nil, ErrMalformed.
				WithPosition(s.pos).
				With(
					slog.String("reason", "unexpected operator"),
					slog.String("operator", s.op.String()),
				)
		}
	}

	return nil, ErrMalformed.
		WithPosition(slots[1].pos).
		With(slog.String("reason", "expected operator"))
}

// notPass applies every '!' to the operand on its right.
func (p *parser) notPass(slots []slot) ([]slot, error) {
	var err error

	for i := 0; i < len(slots); i++ {
		if slots[i].op == OpNot {
			slots, err = applyNot(slots, i)
			if err != nil {
				return nil, err
			}
		}
	}

	return slots, nil
}

// applyNot collapses the '!' at i with its operand, first collapsing a
// directly following '!'.
func applyNot(slots []slot, i int) ([]slot, error) {
	if i+1 >= len(slots) {
		return slots, nil
	}

	if slots[i+1].op == OpNot {
		var err error

		slots, err = applyNot(slots, i+1)
		if err != nil {
			return nil, err
		}
	}

	operand := slots[i+1].node
	if operand == nil {
		return slots, nil
	}

	if operand.Type() != TypeBool {
		return nil, ErrTypeMismatch.
			WithPosition(slots[i].pos).
			With(
				slog.String("operator", OpNot.String()),
				slog.String("types", typeList([]Type{operand.Type()})),
			)
	}

	return slices.Replace(slots, i, i+2, slot{node: NewNot(operand), pos: slots[i].pos}), nil
}

// isSign reports whether the slot at i is a unary plus or minus: one with no
// operand on its left.
func isSign(slots []slot, i int) bool {
	op := slots[i].op

	return (op == OpAdd || op == OpSub) && (i == 0 || !slots[i-1].isOperand())
}

// signPass applies every unary '+' and '-' to the operand on its right.
func (p *parser) signPass(slots []slot) ([]slot, error) {
	var err error

	for i := 0; i < len(slots); i++ {
		if isSign(slots, i) {
			slots, err = applySign(slots, i)
			if err != nil {
				return nil, err
			}
		}
	}

	return slots, nil
}

// applySign collapses the sign at i with its operand, first collapsing a
// directly following sign. Plus leaves the operand unchanged.
func applySign(slots []slot, i int) ([]slot, error) {
	if i+1 >= len(slots) {
		return slots, nil
	}

	if isSign(slots, i+1) {
		var err error

		slots, err = applySign(slots, i+1)
		if err != nil {
			return nil, err
		}
	}

	operand := slots[i+1].node
	if operand == nil {
		return slots, nil
	}

	op := slots[i].op

	if t := operand.Type(); t != TypeInt && t != TypeFloat {
		return nil, ErrTypeMismatch.
			WithPosition(slots[i].pos).
			With(
				slog.String("operator", op.String()),
				slog.String("types", typeList([]Type{t})),
			)
	}

	if op == OpSub {
		operand = NewNegate(operand)
	}

	return slices.Replace(slots, i, i+2, slot{node: operand, pos: slots[i].pos}), nil
}

// builder constructs the node for an operator applied to operands.
type builder func(op Operator, operands []Node) (Node, error)

// tier returns a pass collapsing the binary operators ops left to right.
// A variadic tier absorbs a maximal run of the same operator into one node.
// After each collapse the scan resumes at the slot following the new node,
// so the node can be the left operand of the next match.
func tier(build builder, variadic bool, ops ...Operator) func(*parser, []slot) ([]slot, error) {
	return func(_ *parser, slots []slot) ([]slot, error) {
		for i := 1; i+1 < len(slots); {
			s := slots[i]

			if !slices.Contains(ops, s.op) ||
				!slots[i-1].isOperand() || !slots[i+1].isOperand() {
				i++

				continue
			}

			end := i + 2
			if variadic {
				for end+1 < len(slots) && slots[end].op == s.op &&
					slots[end+1].isOperand() {
					end += 2
				}
			}

			operands := make([]Node, 0, (end-i+1)/2)
			for j := i - 1; j < end; j += 2 {
				operands = append(operands, slots[j].node)
			}

			n, err := build(s.op, operands)
			if err != nil {
				return nil, WrapError(err).WithPosition(s.pos)
			}

			slots = slices.Replace(slots, i-1, end, slot{node: n, pos: slots[i-1].pos})
		}

		return slots, nil
	}
}

func operandTypes(operands []Node) []Type {
	types := make([]Type, len(operands))
	for i, n := range operands {
		types[i] = n.Type()
	}

	return types
}

func mismatch(op Operator, operands []Node) error {
	return ErrTypeMismatch.With(
		slog.String("operator", op.String()),
		slog.String("types", typeList(operandTypes(operands))),
	)
}

// sameType returns the type shared by all operands, or TypeInvalid.
func sameType(operands []Node) Type {
	t := operands[0].Type()
	for _, n := range operands[1:] {
		if n.Type() != t {
			return TypeInvalid
		}
	}

	return t
}

// arithmetic builds an Int or Float arithmetic node, or a string
// concatenation for '+' over strings.
func arithmetic(op Operator, operands []Node) (Node, error) {
	switch t := sameType(operands); {
	case t == TypeInt, t == TypeFloat:
		return NewArith(op, t, operands...), nil
	case t == TypeString && op == OpAdd:
		return NewConcat(operands...), nil
	}

	return nil, mismatch(op, operands)
}

// comparison builds a relational or equality test of two same-typed
// operands.
func comparison(op Operator, operands []Node) (Node, error) {
	if sameType(operands) == TypeInvalid {
		return nil, mismatch(op, operands)
	}

	return NewCompare(op, operands[0], operands[1]), nil
}

// logical builds an And, Or or Xor node over Bool operands.
func logical(op Operator, operands []Node) (Node, error) {
	if sameType(operands) != TypeBool {
		return nil, mismatch(op, operands)
	}

	return NewLogical(op, operands...), nil
}

// condPass collapses conditionals from left to right, so that
// a ? b : c ? d : e groups as (a ? b : c) ? d : e. A conditional nested in
// the true branch must be parenthesized.
func (p *parser) condPass(slots []slot) ([]slot, error) {
	for i := 1; i < len(slots); {
		s := slots[i]
		if s.op != OpCond {
			i++

			continue
		}

		if i+3 >= len(slots) || !slots[i-1].isOperand() ||
			!slots[i+1].isOperand() || slots[i+2].op != OpBranch ||
			!slots[i+3].isOperand() {
			return nil, ErrMalformed.
				WithPosition(s.pos).
				With(slog.String("reason", "incomplete conditional"))
		}

		cond, then, els := slots[i-1].node, slots[i+1].node, slots[i+3].node

		if cond.Type() != TypeBool {
			return nil, ErrTypeMismatch.
				WithPosition(s.pos).
				With(
					slog.String("operator", OpCond.String()),
					slog.String("condition", cond.Type().String()),
				)
		}

		switch t := then.Type(); {
		case t != els.Type(), t != TypeInt && t != TypeFloat && t != TypeBool:
			return nil, ErrTernaryTypeMismatch.
				WithPosition(s.pos).
				With(slog.String("types", typeList([]Type{t, els.Type()})))
		}

		slots = slices.Replace(slots, i-1, i+4, slot{node: NewSelect(cond, then, els), pos: slots[i-1].pos})
	}

	return slots, nil
}
