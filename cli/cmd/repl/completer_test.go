package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

func testSession() *session {
	bound := lang.NewScope().
		Var("width", lang.TypeInt).
		Const("scale", lang.Float(1.5))

	return newSession([]*lang.Scope{bound, lang.Builtins()}, lang.Vars{"width": lang.Int(80)}, log.Default())
}

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), testSession(), NewHistory(), log.Default())
}

// withInput returns m with its input set to s and the cursor at cursor.
func withInput(m model, s string, cursor int) model {
	m.input.SetValue(s)
	m.input.SetCursor(cursor)

	return m
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "sqrt(fo", 7, "fo", 5, 7},
		{"after_comma", "max(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_else", "x?a:fo", 6, "fo", 4, 6},
		{"after_comparison", "a >= fo", 7, "fo", 5, 7},
		{"after_not", "!fo", 3, "fo", 1, 3},
		{"after_logic", "a&b|fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"float_literal", "1 + 2.5", 7, "2.5", 4, 7},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{`abc`, 2, false},
		{`"abc`, 2, true},
		{`"abc" + x`, 8, false},
		{`"a\"b`, 4, true},
		{`"a\\" + b`, 8, false},
	}

	for _, tt := range tests {
		if got := inString(tt.input, tt.offset); got != tt.want {
			t.Errorf("inString(%q, %d) = %t, want %t", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestSession_Candidates(t *testing.T) {
	names := testSession().candidates()

	for _, want := range []string{"width", "scale", "sqrt", "pi", "clamp"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing candidate %q", want)
		}
	}

	if !slices.IsSorted(names) {
		t.Error("candidates are not sorted")
	}

	if len(slices.Compact(slices.Clone(names))) != len(names) {
		t.Error("candidates contain duplicates")
	}
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name   string
		mode   inputMode
		input  string
		cursor int
		want   string // best match, empty for none
	}{
		{"function", modeEval, "sqr", 3, "sqrt"},
		{"bound_var", modeEval, "1 + wid", 7, "width"},
		{"in_call", modeEval, "max(sca", 7, "scale"},
		{"in_string", modeEval, `"sqr`, 4, ""},
		{"number", modeEval, "12", 2, ""},
		{"at_boundary", modeEval, "1 + ", 4, ""},
		{"command", modeCtrl, "tr", 2, "tree"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := withInput(testModel(t), tt.input, tt.cursor)
			m.mode = tt.mode

			matches, _, _, _ := m.computeMatches()

			if tt.want == "" {
				if len(matches) != 0 {
					t.Errorf("got %d matches, want none", len(matches))
				}

				return
			}

			if len(matches) == 0 {
				t.Fatalf("got no matches, want %q", tt.want)
			}

			if matches[0].Str != tt.want {
				t.Errorf("best match %q, want %q", matches[0].Str, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("s", []string{"sqrt", "scale", "sign"})
	isFunc := func(s string) bool { return s != "scale" }

	bar := renderCandidateBar(matches, -1, false, 80, isFunc)

	for _, want := range []string{"sqrt()", "sign()", "scale"} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar %q missing %q", bar, want)
		}
	}

	if strings.Contains(bar, "scale()") {
		t.Errorf("bar %q marks a constant as a function", bar)
	}

	narrow := renderCandidateBar(matches, -1, false, 12, isFunc)
	if !strings.HasSuffix(narrow, "...") {
		t.Errorf("narrow bar %q is not ellipsized", narrow)
	}

	if got := renderCandidateBar(nil, -1, false, 80, isFunc); got != "" {
		t.Errorf("empty matches rendered %q", got)
	}
}

func TestReplaceCurrentWord(t *testing.T) {
	m := withInput(testModel(t), "1 + sq * 2", 6)
	refreshMatches(&m, false)

	replaceCurrentWord(&m, "sqrt")

	if got := m.input.Value(); got != "1 + sqrt * 2" {
		t.Errorf("got %q", got)
	}

	if got := m.input.Position(); got != 8 {
		t.Errorf("cursor at %d, want 8", got)
	}
}
