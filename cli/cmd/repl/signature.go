package repl

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/infix/lang"
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call. Brackets and commas
// inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Find the innermost '(' still open at the cursor, counting commas at
	// its depth.
	var (
		opens  []int
		commas []int
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		ch := input[i]

		if quoted {
			switch ch {
			case '\\':
				i++
			case '"':
				quoted = false
			}

			continue
		}

		switch ch {
		case '"':
			quoted = true
		case '(':
			opens = append(opens, i)
			commas = append(commas, 0)
		case ')':
			if len(opens) > 0 {
				opens = opens[:len(opens)-1]
				commas = commas[:len(commas)-1]
			}
		case ',':
			if len(commas) > 0 {
				commas[len(commas)-1]++
			}
		}
	}

	if quoted || len(opens) == 0 {
		return functionCall{}
	}

	open := opens[len(opens)-1]

	// Extract the name before the '(', skipping spaces.
	nameEnd := len(strings.TrimRightFunc(input[:open], unicode.IsSpace))
	nameStart := nameEnd

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		nameStart -= size
	}

	name := input[nameStart:nameEnd]
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return functionCall{}
	}

	return functionCall{
		name:     name,
		argIndex: commas[len(commas)-1],
		inCall:   true,
	}
}

// signature describes the overload shown while typing a call.
type signature struct {
	name      string
	params    []string
	result    string
	overloads int
}

// lookupSignature returns the overload of the named function best suited to
// the argument at argIndex: the one with the fewest parameters that still
// has a parameter at that position, or else the one with the most.
// The first scope that defines the function wins.
func lookupSignature(scopes []*lang.Scope, name string, argIndex int) (signature, bool) {
	for _, s := range scopes {
		for fn, overloads := range s.Functions() {
			if fn != name || len(overloads) == 0 {
				continue
			}

			best := overloads[0]

			for _, o := range overloads[1:] {
				fits, bestFits := len(o.Params) > argIndex, len(best.Params) > argIndex

				switch {
				case fits && !bestFits,
					fits && bestFits && len(o.Params) < len(best.Params),
					!fits && !bestFits && len(o.Params) > len(best.Params):
					best = o
				}
			}

			sig := signature{
				name:      name,
				result:    best.Result.String(),
				overloads: len(overloads),
			}

			for _, p := range best.Params {
				sig.params = append(sig.params, p.String())
			}

			return sig, true
		}
	}

	return signature{}, false
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(sig signature, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(") " + sig.result))

	if sig.overloads > 1 {
		b.WriteString(hintStyle.Render("  +" + strconv.Itoa(sig.overloads-1) + " more"))
	}

	return b.String()
}
