package lang

import (
	"iter"
	"maps"
	"slices"
)

// Resolver maps identifiers and calls to nodes while parsing.
//
// ResolveVariable returns false for unknown names. ResolveFunction returns a
// nil node and nil error for unknown functions; an error means the function
// exists but no overload accepts the argument types. Implementations must be
// deterministic for a given name and argument types.
type Resolver interface {
	ResolveVariable(name string) (Node, bool)
	ResolveFunction(name string, args []Node) (Node, error)
}

// None resolves nothing.
var None Resolver = Chain{}

// Chain consults each resolver in order; the first to recognize a name wins.
type Chain []Resolver

// ResolveVariable implements [Resolver].
func (c Chain) ResolveVariable(name string) (Node, bool) {
	for _, r := range c {
		if n, ok := r.ResolveVariable(name); ok {
			return n, true
		}
	}

	return nil, false
}

// ResolveFunction implements [Resolver].
func (c Chain) ResolveFunction(name string, args []Node) (Node, error) {
	for _, r := range c {
		n, err := r.ResolveFunction(name, args)
		if n != nil || err != nil {
			return n, err
		}
	}

	return nil, nil
}

// Scope is a [Resolver] over a table of named values, variables and function
// overloads.
//
// A Scope is not safe for concurrent modification; populate it before
// sharing it between compilations.
type Scope struct {
	vars  map[string]Node
	funcs map[string][]Overload
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		vars:  make(map[string]Node),
		funcs: make(map[string][]Overload),
	}
}

// Clone returns a copy of s that can be extended independently.
func (s *Scope) Clone() *Scope {
	c := NewScope()
	maps.Copy(c.vars, s.vars)

	for name, o := range s.funcs {
		c.funcs[name] = slices.Clone(o)
	}

	return c
}

// Const defines name as a constant.
func (s *Scope) Const(name string, v Value) *Scope {
	s.vars[name] = NewConstant(v)

	return s
}

// Var declares name as a variable of type typ read from the [Env] at
// evaluation time.
func (s *Scope) Var(name string, typ Type) *Scope {
	s.vars[name] = NewVariable(name, typ)

	return s
}

// Func appends overloads to the function name. Earlier overloads take
// precedence.
func (s *Scope) Func(name string, overloads ...Overload) *Scope {
	s.funcs[name] = append(s.funcs[name], overloads...)

	return s
}

// ResolveVariable implements [Resolver]. Each reference gets its own node.
func (s *Scope) ResolveVariable(name string) (Node, bool) {
	switch n := s.vars[name].(type) {
	case *Constant:
		return NewConstant(n.value), true
	case *Variable:
		return NewVariable(n.name, n.typ), true
	default:
		return nil, false
	}
}

// ResolveFunction implements [Resolver].
func (s *Scope) ResolveFunction(name string, args []Node) (Node, error) {
	overloads, ok := s.funcs[name]
	if !ok {
		return nil, nil
	}

	return resolveOverload(name, overloads, args)
}

// Names returns all variable and function names in sorted order.
func (s *Scope) Names() []string {
	names := slices.Collect(maps.Keys(s.vars))
	names = slices.AppendSeq(names, maps.Keys(s.funcs))
	slices.Sort(names)

	return slices.Compact(names)
}

// Variables iterates over the names and nodes of variables and constants in
// sorted order.
func (s *Scope) Variables() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		for _, name := range slices.Sorted(maps.Keys(s.vars)) {
			if !yield(name, s.vars[name]) {
				return
			}
		}
	}
}

// Functions iterates over function names and their overloads in sorted
// order.
func (s *Scope) Functions() iter.Seq2[string, []Overload] {
	return func(yield func(string, []Overload) bool) {
		for _, name := range slices.Sorted(maps.Keys(s.funcs)) {
			if !yield(name, s.funcs[name]) {
				return
			}
		}
	}
}
