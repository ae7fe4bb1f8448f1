package lang

import (
	"math"
	"slices"
	"testing"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(-42), "-42"},
		{Float(5), "5.0"},
		{Float(-0.25), "-0.25"},
		{Float(1e21), "1000000000000000000000.0"},
		{Float(math.Inf(1)), "inf"},
		{Float(math.Inf(-1)), "-inf"},
		{Float(math.NaN()), "nan"},
		{Bool(true), "true"},
		{String("a\"b\\c\n\td"), `"a\"b\\c\n\td"`},
		{Value{}, "<invalid>"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}

func TestValue_Accessors(t *testing.T) {
	v := Int(7)

	if v.Int() != 7 || v.Float() != 0 || v.Bool() || v.Text() != "" {
		t.Errorf("accessors of %v leak across types", v)
	}

	if !Bool(true).Bool() || Bool(false).Bool() {
		t.Error("bool round trip")
	}

	if (Value{}).IsValid() {
		t.Error("zero value is valid")
	}

	if Int(1).Equal(Float(1)) {
		t.Error("values of different types are equal")
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{int(3), Int(3)},
		{int32(-3), Int(-3)},
		{uint8(9), Int(9)},
		{float32(0.5), Float(0.5)},
		{2.25, Float(2.25)},
		{true, Bool(true)},
		{"s", String("s")},
		{String("v"), String("v")},
	}

	for _, tt := range tests {
		got, err := FromAny(tt.in)
		if err != nil {
			t.Errorf("%T: %v", tt.in, err)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("%T: got %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := FromAny([]int{1}); err == nil {
		t.Error("slice converted without error")
	}
}

func TestParseType(t *testing.T) {
	for name := range Types() {
		typ, err := ParseType(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}

		if typ.String() != name {
			t.Errorf("%s parsed as %v", name, typ)
		}
	}

	var typ Type
	if err := typ.UnmarshalText([]byte(" Float ")); err != nil || typ != TypeFloat {
		t.Errorf("got %v, %v", typ, err)
	}

	if _, err := ParseType("complex"); err == nil {
		t.Error("unknown type parsed")
	}

	if got := slices.Collect(Types()); len(got) != 4 {
		t.Errorf("types = %v", got)
	}
}
