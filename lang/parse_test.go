package lang

import (
	"errors"
	"math"
	"testing"
)

// testScope resolves a few typed variables, an impure function counting
// its calls, and the built-ins.
func testScope(ticks *int) Resolver {
	s := NewScope().
		Var("x", TypeInt).
		Var("y", TypeFloat).
		Var("b", TypeBool).
		Var("s", TypeString).
		Func("tick", Overload{
			Result: TypeInt,
			Impure: true,
			Fn: func([]Value) (Value, error) {
				*ticks++

				return Int(int64(*ticks)), nil
			},
		})

	return Chain{s, Builtins()}
}

func testVars() Vars {
	return Vars{
		"x": Int(3),
		"y": Float(1.5),
		"b": Bool(true),
		"s": String("str"),
	}
}

func TestCompile_Scenarios(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"5", Int(5)},
		{"-5", Int(-5)},
		{"2+3*4", Int(14)},
		{"(2+3)*4", Int(20)},
		{"5*-4", Int(-20)},
		{"5>4", Bool(true)},
		{"5>=4", Bool(true)},
		{"5==4", Bool(false)},
		{"5!=4", Bool(true)},
		{"5>4? 1:2", Int(1)},
		{"5<4? 1:2", Int(2)},
		{"5>4 & 4 < 5", Bool(true)},
		{`""`, String("")},
		{`"Hello"+"World"`, String("HelloWorld")},
		{"1 - 2 + 3", Int(2)},
		{"20 / 2 / 5", Int(2)},
		{"7 % 3", Int(1)},
		{"-7 % 3", Int(-1)},
		{"7 / 2", Int(3)},
		{"7.0 / 2.0", Float(3.5)},
		{"7.5 % 2.0", Float(1.5)},
		{"--5", Int(5)},
		{"+5", Int(5)},
		{"!true", Bool(false)},
		{"!!true", Bool(true)},
		{"TRUE & False", Bool(false)},
		{"true | false", Bool(true)},
		{"true ^ true ^ true", Bool(true)},
		{"true ^ true", Bool(false)},
		{`"a" < "b"`, Bool(true)},
		{"false < true", Bool(true)},
		{"true ? 1.5 : 2.5", Float(1.5)},
		{"false ? true : true ? 2 : 3", Int(2)},
		{"true ? false : true ? 2 : 3", Int(3)},
		{"true ? false : true ? true : true", Bool(true)},
		{"true ? (true ? 1 : 2) : 3", Int(1)},
		{"1 < 2 == 3 > 4", Bool(false)},
		{"x * 2 + 1", Int(7)},
		{"y + 0.5", Float(2.0)},
		{"b & x > 2", Bool(true)},
		{`s + "!"`, String("str!")},
		{"-x", Int(-3)},
		{"-y", Float(-1.5)},
		{"!b", Bool(false)},
	}

	for _, tt := range tests {
		for _, fold := range []bool{true, false} {
			name := tt.input
			if !fold {
				name += "/nofold"
			}

			t.Run(name, func(t *testing.T) {
				var ticks int

				e, err := Compile(t.Context(), tt.input,
					WithResolver(testScope(&ticks)), WithFolding(fold))
				if err != nil {
					t.Fatalf("compile: %v", err)
				}

				got, err := e.Eval(testVars())
				if err != nil {
					t.Fatalf("eval: %v", err)
				}

				if !got.Equal(tt.want) {
					t.Errorf("got %v (%v), want %v (%v)",
						got, got.Type(), tt.want, tt.want.Type())
				}
			})
		}
	}
}

func TestCompile_FloatScenarios(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"5.1 + 1.2", 6.3},
		{"5.1 / 1.2", 4.25},
		{"2.0 * pi", 2 * math.Pi},
		{"1.0 / 0.0", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Compile(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			got, err := Eval[float64](e, nil)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}

			if got != tt.want && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile_Render(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2+3*4", "(2 + (3 * 4))"},
		{"1 + 2 + 3", "(1 + 2 + 3)"},
		{"1 - 2 + 3", "((1 - 2) + 3)"},
		{"1 * 2 / 3 % 4", "(((1 * 2) / 3) % 4)"},
		{"-5", "-5"},
		{"5*-4", "(5 * -4)"},
		{"-(1+2)", "-(1 + 2)"},
		{"!!b", "!!b"},
		{"5>4? 1:2", "((5 > 4)?1:2)"},
		{"a ? b : a ? 2 : 3", "((a?b:a)?2:3)"},
		{"a ? 1 : (b ? 2 : 3)", "(a?1:(b?2:3))"},
		{"b & b | b ^ b", "(((b & b) | b) ^ b)"},
		{"b & b & b", "(b & b & b)"},
		{`"Hello"+"World"`, `("Hello" + "World")`},
		{`"q\"uote\n"`, `"q\"uote\n"`},
		{"5.0", "5.0"},
		{"1.50", "1.5"},
		{"0.1", "0.1"},
		{"007", "7"},
		{"sqrt(4)", "sqrt(4)"},
		{"max(1, 2.5)", "max(1, 2.5)"},
		{"atan2(y, x)", "atan2(y, x)"},
		{"str(5, \"%03d\")", `str(5, "%03d")`},
		{"+x", "x"},
		{"(((x)))", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			scope := NewScope().
				Var("a", TypeBool).
				Var("b", TypeBool).
				Var("x", TypeInt).
				Var("y", TypeFloat)

			e, err := Compile(t.Context(), tt.input,
				WithResolver(Chain{scope, Builtins()}), WithFolding(false))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			if got := e.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{`5 + "x"`, ErrTypeMismatch},
		{`1 + 1.0`, ErrTypeMismatch},
		{`"a" - "b"`, ErrTypeMismatch},
		{`1 < "a"`, ErrTypeMismatch},
		{`1 & 2`, ErrTypeMismatch},
		{`!1`, ErrTypeMismatch},
		{`-true`, ErrTypeMismatch},
		{`-"a"`, ErrTypeMismatch},
		{`1 ? 2 : 3`, ErrTypeMismatch},
		{`nope`, ErrUnknownSymbol},
		{`1 + nope * 2`, ErrUnknownSymbol},
		{`nope(1)`, ErrUnknownFunction},
		{`pi(1)`, ErrUnknownFunction},
		{`sin("x")`, ErrNoOverload},
		{`sin(1, 2)`, ErrNoOverload},
		{`sin()`, ErrNoOverload},
		{`true ? 1 : "x"`, ErrTernaryTypeMismatch},
		{`true ? 1 : 1.0`, ErrTernaryTypeMismatch},
		{`true ? "a" : "b"`, ErrTernaryTypeMismatch},
		{`true ? 1`, ErrMalformed},
		{`true : 1`, ErrMalformed},
		{`1 : 2`, ErrMalformed},
		{`true ? true ? 1 : 2 : 3`, ErrMalformed},
		{`true ? 1 : false ? 2 : 3`, ErrTernaryTypeMismatch},
		{`true ? 1 : 2 ? 3 : 4`, ErrTypeMismatch},
		{`1 +`, ErrMalformed},
		{`* 1`, ErrMalformed},
		{`1 2`, ErrMalformed},
		{``, ErrMalformed},
		{`()`, ErrMalformed},
		{`1..2`, ErrMalformed},
		{`5abc`, ErrMalformed},
		{`!-1`, ErrMalformed},
		{`(1)(2)`, ErrMalformed},
		{`1, 2`, ErrUnexpectedComma},
		{`(1, 2)`, ErrUnexpectedComma},
		{`max(,1)`, ErrUnexpectedComma},
		{`max(1,,2)`, ErrUnexpectedComma},
		{`max(1,)`, ErrTrailingComma},
		{`(1 + 2`, ErrUnbalancedBrackets},
		{`1 + 2)`, ErrUnbalancedBrackets},
		{`max(1, 2`, ErrUnbalancedBrackets},
		{`1 # 2`, ErrUnexpectedChar},
		{`"abc`, ErrUnterminatedString},
		{`"\x"`, ErrBadEscape},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Compile(t.Context(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got %v", e)
			}

			if e != nil {
				t.Errorf("expected nil expression on error, got %v", e)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompile_ErrorPosition(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"1 + nope", 4},
		{"(1 + 2", 0},
		{"1 + 2)", 5},
		{"max(1, 2) + nope(3)", 12},
		{"1 + \"x\"", 2},
		{"x ? 1 : 2.0", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Compile(t.Context(), tt.input,
				WithResolver(Chain{NewScope().Var("x", TypeBool), Builtins()}))

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("got %v, want *Error", err)
			}

			if pos, ok := e.Position(); !ok || pos != tt.pos {
				t.Errorf("position = %d (%t), want %d", pos, ok, tt.pos)
			}
		})
	}
}

func TestCompile_MaxDepth(t *testing.T) {
	ctx := t.Context()

	if _, err := Compile(ctx, "((1))", WithMaxDepth(2)); err != nil {
		t.Fatalf("depth 2: %v", err)
	}

	_, err := Compile(ctx, "(((1)))", WithMaxDepth(2))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want %v", err, ErrMaxDepthExceeded)
	}

	_, err = Compile(ctx, "max(1, max(2, 3))", WithMaxDepth(1))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("got %v, want %v", err, ErrMaxDepthExceeded)
	}
}

func TestCompile_NoResolver(t *testing.T) {
	ctx := t.Context()

	if _, err := Compile(ctx, "1 + 2", WithResolver(None)); err != nil {
		t.Fatalf("literals: %v", err)
	}

	if _, err := Compile(ctx, "pi", WithResolver(None)); !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("got %v, want %v", err, ErrUnknownSymbol)
	}

	if _, err := Compile(ctx, "true", WithResolver(None)); err != nil {
		t.Fatalf("bool literal: %v", err)
	}
}

func TestCompile_Widening(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{"max(1, 2)", Int(2)},
		{"max(1, 2.5)", Float(2.5)},
		{"max(1.5, 2)", Float(2)},
		{"sqrt(16)", Float(4)},
		{"abs(-3)", Int(3)},
		{"abs(-3.5)", Float(3.5)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Compile(t.Context(), tt.input, WithFolding(false))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}

			if e.Type() != tt.want.Type() {
				t.Errorf("type %v, want %v", e.Type(), tt.want.Type())
			}

			got, err := e.Eval(nil)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
