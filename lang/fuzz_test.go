package lang

import (
	"context"
	"math"
	"testing"
	"unicode/utf8"
)

var fuzzSeeds = []string{
	"5",
	"-5",
	"2+3*4",
	"(2+3)*4",
	"5*-4",
	"5>4? 1:2",
	"5>4 & 4 < 5",
	`""`,
	`"Hello"+"World"`,
	"5.1 + 1.2",
	"1 / 0",
	"!!true ^ false",
	"max(1, 2.5) + sqrt(2)",
	`str(3, "%x") + "\t"`,
	"true ? false ? 1 : 2 : 3",
	"true ? false : true ? 1 : 2",
	"1 < 2 == 3 >= 4",
	"floor(nan)",
	"((((1))))",
	"max(1,)",
	`"unterminated`,
}

// FuzzLexer checks that the lexer never panics and that token positions
// advance.
func FuzzLexer(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		l := lexer{input: input}
		last := -1

		for {
			tok, err := l.next()
			if err != nil || tok.kind == tokenEOF {
				return
			}

			if tok.pos <= last {
				t.Fatalf("token at %d does not follow %d in %q", tok.pos, last, input)
			}

			last = tok.pos
		}
	})
}

// FuzzCompile checks that compilation never panics, that renderings are
// fixpoints, and that folding does not change results.
func FuzzCompile(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ctx := context.Background()

		raw, err := Compile(ctx, input, WithFolding(false))
		if err != nil {
			_ = Describe(input, err)

			return
		}

		// Renderings parenthesize every operation, so they may nest deeper
		// than the input did.
		again, err := Compile(ctx, raw.String(), WithFolding(false), WithMaxDepth(math.MaxInt))
		if err != nil {
			t.Fatalf("rendering %q of %q does not compile: %v", raw, input, err)
		}

		if raw.String() != again.String() {
			t.Fatalf("render of %q is not a fixpoint: %q then %q", input, raw, again)
		}

		folded := raw.Optimize()

		want, werr := raw.Eval(nil)
		got, gerr := folded.Eval(nil)

		if (werr == nil) != (gerr == nil) {
			t.Fatalf("%q: unfolded error %v, folded error %v", input, werr, gerr)
		}

		if werr == nil && !sameResult(want, got) {
			t.Fatalf("%q: unfolded %v, folded %v", input, want, got)
		}
	})
}
