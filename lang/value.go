package lang

import (
	"iter"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Type is the static result type of an expression.
type Type uint8

// Types of values.
const (
	TypeInvalid Type = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeString
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeInt:     "int",
	TypeFloat:   "float",
	TypeBool:    "bool",
	TypeString:  "string",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Types returns an iterator over the names of all valid types.
func Types() iter.Seq[string] {
	return func(yield func(string) bool) {
		for t := TypeInt; t <= TypeString; t++ {
			if !yield(t.String()) {
				return
			}
		}
	}
}

// ParseType parses the name of a type, ignoring case.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t := TypeInt; t <= TypeString; t++ {
		if s == typeNames[t] {
			return t, nil
		}
	}

	return TypeInvalid, ErrInvalidValue.With(slog.String("type", s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// Value is a tagged union of the four value types.
// The zero Value is invalid.
type Value struct {
	s   string
	i   int64
	f   float64
	typ Type
}

// Int returns an integer Value.
func Int(v int64) Value { return Value{typ: TypeInt, i: v} }

// Float returns a floating-point Value.
func Float(v float64) Value { return Value{typ: TypeFloat, f: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value {
	if v {
		return Value{typ: TypeBool, i: 1}
	}

	return Value{typ: TypeBool}
}

// String returns a string Value.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// FromAny converts a native Go value to a Value.
// Signed and unsigned integers become Int, floats become Float.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	default:
		return Value{}, ErrInvalidValue.With(slog.String("go_type", resultTypeName(v)))
	}
}

// Type returns the type of v.
func (v Value) Type() Type { return v.typ }

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool { return v.typ != TypeInvalid }

// Int returns the integer held by v, or 0 if v is not an Int.
func (v Value) Int() int64 {
	if v.typ != TypeInt {
		return 0
	}

	return v.i
}

// Float returns the float held by v, or 0 if v is not a Float.
func (v Value) Float() float64 {
	if v.typ != TypeFloat {
		return 0
	}

	return v.f
}

// Bool returns the boolean held by v, or false if v is not a Bool.
func (v Value) Bool() bool { return v.typ == TypeBool && v.i != 0 }

// Text returns the string held by v, or "" if v is not a String.
func (v Value) Text() string {
	if v.typ != TypeString {
		return ""
	}

	return v.s
}

// Any returns v as a native Go value: int64, float64, bool or string.
func (v Value) Any() any {
	switch v.typ {
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeBool:
		return v.i != 0
	case TypeString:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether v and o have the same type and value.
// Floats compare with ==, so NaN is not equal to itself.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}

	switch v.typ {
	case TypeFloat:
		return v.f == o.f
	case TypeString:
		return v.s == o.s
	default:
		return v.i == o.i
	}
}

// String renders v in the literal syntax accepted by [Compile].
//
// The magnitude of math.MinInt64 has no int literal, so that value renders
// as a subtraction that folds back to it.
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		if v.i == math.MinInt64 {
			return "(-9223372036854775807 - 1)"
		}

		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return formatFloat(v.f)
	case TypeBool:
		return strconv.FormatBool(v.i != 0)
	case TypeString:
		return quote(v.s)
	default:
		return "<invalid>"
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	switch v.typ {
	case TypeInt:
		return slog.Int64Value(v.i)
	case TypeFloat:
		return slog.Float64Value(v.f)
	case TypeBool:
		return slog.BoolValue(v.i != 0)
	case TypeString:
		return slog.StringValue(v.s)
	default:
		return slog.StringValue("<invalid>")
	}
}

// formatFloat renders f so that it never reparses as an integer.
// Exponent notation is avoided since operands cannot contain a sign.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
)

// quote renders s as a string literal using only the escapes the lexer
// decodes.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
