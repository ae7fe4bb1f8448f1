// Package lang compiles infix expressions into typed, immutable trees that
// can be rendered, folded and evaluated.
//
// # Values
//
// Every expression has one of four static types: int (int64), float
// (float64), bool and string. Types never change implicitly, except that an
// int argument is widened to float where a function parameter requires it.
//
// # Grammar
//
// Informal EBNF:
//
//	Expr     → Cond
//	Cond     → Xor ('?' Xor ':' Xor)*
//	Xor      → Or ('^' Or)*
//	Or       → And ('|' And)*
//	And      → Equality ('&' Equality)*
//	Equality → Relation (('==' | '!=') Relation)*
//	Relation → Additive (('<' | '<=' | '>' | '>=') Additive)*
//	Additive → Mult (('+' | '-') Mult)*
//	Mult     → Unary (('*' | '/' | '%') Unary)*
//	Unary    → ('-' | '+')* Prefix
//	Prefix   → '!'* Primary
//	Primary  → Number | String | Bool | Name | Call | '(' Expr ')'
//	Call     → Name '(' (Expr (',' Expr)*)? ')'
//
// Conditionals group from the left: a ? b : c ? d : e is read as
// (a ? b : c) ? d : e, and a conditional inside a true branch must be
// parenthesized.
//
// Numbers with a decimal point are floats; others are ints. Strings are
// double-quoted with the escapes \\ \" \n and \t. The literals true and
// false are matched without regard to case. Every other name is resolved
// by a [Resolver] while parsing, so that a compiled tree never refers to an
// unknown symbol.
//
// # Example
//
//	e, err := lang.Compile(ctx, `sqrt(x*x + y*y) > 2.0 ? 1 : 0`,
//		lang.WithResolver(lang.Chain{
//			lang.NewScope().Var("x", lang.TypeFloat).Var("y", lang.TypeFloat),
//			lang.Builtins(),
//		}))
//
// # Folding
//
// After parsing, every maximal subtree whose nodes are all pure is replaced
// with the constant it evaluates to. A conditional with a constant
// condition is replaced by the chosen branch, so the other branch never
// runs. Subtrees whose evaluation fails are kept, and fail again at
// evaluation time.
//
// # Rendering
//
// [Node.String] renders a tree as canonical source: binary operations are
// parenthesized and spaced, conditionals are written (c?a:b), and calls
// are written f(a, b). Compiling a rendering yields a tree that renders
// identically.
package lang
