package lang

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Builtins returns a new scope holding the built-in constants and
// functions. Every built-in function is pure.
//
// Constants: pi, deg2rad, rad2deg, inf, nan, epsilon (the smallest positive
// float).
//
// Functions taking Float parameters also accept Int arguments, which are
// widened at the call.
//
// The format argument of str(x, format) is either a Go verb such as "%.2f"
// or "%05d", which must consume x exactly once, or a standard numeric
// specifier: a letter with an optional precision.
//
//	F, f  fixed point, 2 decimals by default ("F3" gives 1.500)
//	E, e  scientific, 6 decimals by default
//	G, g  shortest representation, or the given significant digits
//	D, d  integer zero-padded to the precision (Int only)
//	X, x  hexadecimal zero-padded to the precision (Int only)
//	P, p  percentage, 2 decimals by default ("P0" gives 50 %)
//
// Any other format fails with [ErrInvalidValue].
func Builtins() *Scope {
	s := NewScope().
		Const("pi", Float(math.Pi)).
		Const("deg2rad", Float(2*math.Pi/360)).
		Const("rad2deg", Float(360/(2*math.Pi))).
		Const("inf", Float(math.Inf(1))).
		Const("nan", Float(math.NaN())).
		Const("epsilon", Float(math.SmallestNonzeroFloat64))

	s.Func("str",
		unary(TypeInt, TypeString, func(v Value) Value {
			return String(strconv.FormatInt(v.Int(), 10))
		}),
		unary(TypeFloat, TypeString, func(v Value) Value {
			return String(strconv.FormatFloat(v.Float(), 'g', -1, 64))
		}),
		unary(TypeBool, TypeString, func(v Value) Value {
			return String(strconv.FormatBool(v.Bool()))
		}),
		Overload{
			Params: []Type{TypeInt, TypeString},
			Result: TypeString,
			Fn: func(a []Value) (Value, error) {
				return formatNumber(a[0], a[1].Text())
			},
		},
		Overload{
			Params: []Type{TypeFloat, TypeString},
			Result: TypeString,
			Fn: func(a []Value) (Value, error) {
				return formatNumber(a[0], a[1].Text())
			},
		},
	)

	s.Func("sin", float1(math.Sin))
	s.Func("cos", float1(math.Cos))
	s.Func("tan", float1(math.Tan))
	s.Func("asin", float1(math.Asin))
	s.Func("acos", float1(math.Acos))
	s.Func("atan", float1(math.Atan))
	s.Func("sqrt", float1(math.Sqrt))
	s.Func("atan2", float2(math.Atan2))
	s.Func("pow", float2(math.Pow))
	s.Func("log", float2(func(x, base float64) float64 {
		return math.Log(x) / math.Log(base)
	}))

	s.Func("abs",
		int1(func(x int64) int64 {
			if x < 0 {
				return -x
			}

			return x
		}),
		float1(math.Abs),
	)
	s.Func("max", int2(func(x, y int64) int64 { return max(x, y) }), float2(math.Max))
	s.Func("min", int2(func(x, y int64) int64 { return min(x, y) }), float2(math.Min))

	s.Func("saturate", float1(func(x float64) float64 { return clampFloat(x, 0, 1) }))
	s.Func("lerp", float3(func(a, b, t float64) float64 { return a + (b-a)*t }))
	s.Func("unlerp", float3(func(a, b, v float64) float64 {
		if math.Abs(a-b) > math.SmallestNonzeroFloat64 {
			return (v - a) / (b - a)
		}

		return 0
	}))
	s.Func("clamp",
		Overload{
			Params: []Type{TypeInt, TypeInt, TypeInt},
			Result: TypeInt,
			Fn: func(a []Value) (Value, error) {
				return Int(min(max(a[0].Int(), a[1].Int()), a[2].Int())), nil
			},
		},
		float3(clampFloat),
	)
	s.Func("repeat", float2(func(t, length float64) float64 {
		return clampFloat(t-math.Floor(t/length)*length, 0, length)
	}))

	s.Func("floor", floatToInt(math.Floor))
	s.Func("ceil", floatToInt(math.Ceil))
	s.Func("round", floatToInt(math.RoundToEven))
	s.Func("sign", floatToInt(func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}

		return x
	}))

	return s
}

// Signatures iterates over every overload of every function in s as
// rendered signatures, sorted by name.
func (s *Scope) Signatures() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name, overloads := range s.Functions() {
			for _, o := range overloads {
				if !yield(o.Signature(name)) {
					return
				}
			}
		}
	}
}

func clampFloat(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	}

	return x
}

func unary(param, result Type, fn func(Value) Value) Overload {
	return Overload{
		Params: []Type{param},
		Result: result,
		Fn:     func(a []Value) (Value, error) { return fn(a[0]), nil },
	}
}

func float1(fn func(float64) float64) Overload {
	return unary(TypeFloat, TypeFloat, func(v Value) Value {
		return Float(fn(v.Float()))
	})
}

func float2(fn func(x, y float64) float64) Overload {
	return Overload{
		Params: []Type{TypeFloat, TypeFloat},
		Result: TypeFloat,
		Fn: func(a []Value) (Value, error) {
			return Float(fn(a[0].Float(), a[1].Float())), nil
		},
	}
}

func float3(fn func(x, y, z float64) float64) Overload {
	return Overload{
		Params: []Type{TypeFloat, TypeFloat, TypeFloat},
		Result: TypeFloat,
		Fn: func(a []Value) (Value, error) {
			return Float(fn(a[0].Float(), a[1].Float(), a[2].Float())), nil
		},
	}
}

func int1(fn func(int64) int64) Overload {
	return unary(TypeInt, TypeInt, func(v Value) Value {
		return Int(fn(v.Int()))
	})
}

func int2(fn func(x, y int64) int64) Overload {
	return Overload{
		Params: []Type{TypeInt, TypeInt},
		Result: TypeInt,
		Fn: func(a []Value) (Value, error) {
			return Int(fn(a[0].Int(), a[1].Int())), nil
		},
	}
}

// floatToInt converts the result of fn to an Int, failing when it is NaN or
// outside the range of int64.
func floatToInt(fn func(float64) float64) Overload {
	return Overload{
		Params: []Type{TypeFloat},
		Result: TypeInt,
		Fn: func(a []Value) (Value, error) {
			x := fn(a[0].Float())
			if math.IsNaN(x) || x < math.MinInt64 || x >= math.MaxInt64 {
				return Value{}, ErrInvalidValue.With(
					slog.Float64("value", a[0].Float()),
					slog.String("reason", "not representable as int"),
				)
			}

			return Int(int64(x)), nil
		},
	}
}

// formatNumber renders v with a Go verb or a standard numeric specifier.
func formatNumber(v Value, format string) (Value, error) {
	invalid := func() (Value, error) {
		return Value{}, ErrInvalidValue.With(
			slog.String("format", format),
			slog.String("type", v.Type().String()),
		)
	}

	if strings.ContainsRune(format, '%') {
		s := fmt.Sprintf(format, v.Any())
		if strings.Contains(s, "%!") {
			return invalid()
		}

		return String(s), nil
	}

	if format == "" {
		return invalid()
	}

	spec, digits := format[0], format[1:]

	prec := -1

	if digits != "" {
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 || n > 99 {
			return invalid()
		}

		prec = n
	}

	or := func(def int) int {
		if prec < 0 {
			return def
		}

		return prec
	}

	f := v.Float()
	if v.Type() == TypeInt {
		f = float64(v.Int())
	}

	switch spec {
	case 'F', 'f':
		return String(strconv.FormatFloat(f, 'f', or(2), 64)), nil
	case 'E':
		return String(strconv.FormatFloat(f, 'E', or(6), 64)), nil
	case 'e':
		return String(strconv.FormatFloat(f, 'e', or(6), 64)), nil
	case 'G', 'g':
		if v.Type() == TypeInt && prec < 0 {
			return String(strconv.FormatInt(v.Int(), 10)), nil
		}

		return String(strconv.FormatFloat(f, 'g', or(-1), 64)), nil
	case 'P', 'p':
		return String(strconv.FormatFloat(f*100, 'f', or(2), 64) + " %"), nil
	case 'D', 'd':
		if v.Type() != TypeInt {
			return invalid()
		}

		return String(fmt.Sprintf("%0*d", or(0), v.Int())), nil
	case 'X', 'x':
		if v.Type() != TypeInt {
			return invalid()
		}

		verb := "%0*x"
		if spec == 'X' {
			verb = "%0*X"
		}

		return String(fmt.Sprintf(verb, or(0), v.Int())), nil
	}

	return invalid()
}
