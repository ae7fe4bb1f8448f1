package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// Env supplies variable values during evaluation.
//
// An Env shared by concurrent evaluations must be safe for concurrent reads.
type Env interface {
	Lookup(name string) (Value, error)
}

// Vars is an [Env] backed by a map.
type Vars map[string]Value

// Lookup implements [Env].
func (v Vars) Lookup(name string) (Value, error) {
	val, ok := v[name]
	if !ok {
		return Value{}, ErrUndefinedVariable.With(slog.String("name", name))
	}

	return val, nil
}

// Names returns the variable names in sorted order.
func (v Vars) Names() []string {
	return slices.Sorted(maps.Keys(v))
}

// EnvFunc adapts a function to the [Env] interface.
type EnvFunc func(name string) (Value, error)

// Lookup implements [Env].
func (f EnvFunc) Lookup(name string) (Value, error) { return f(name) }
