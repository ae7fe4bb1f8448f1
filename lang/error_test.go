package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	base := ErrTypeMismatch.With(slog.String("operator", "+"))
	wrapped := fmt.Errorf("context: %w", base.WithPosition(3))

	if !errors.Is(wrapped, ErrTypeMismatch) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(wrapped, ErrMalformed) {
		t.Error("derived error matches an unrelated sentinel")
	}

	cause := errors.New("disk on fire")
	if err := ErrReadInput.Wrap(cause); !errors.Is(err, cause) || !errors.Is(err, ErrReadInput) {
		t.Error("wrapped error lost its cause or its kind")
	}
}

func TestError_Message(t *testing.T) {
	err := ErrUnknownSymbol.
		WithPosition(4).
		With(slog.String("name", "foo"))

	if got, want := err.Error(), "unknown symbol (offset=4 name=foo)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got, want := ErrReadInput.Wrap(errors.New("eof")).Error(), "failed to read input: eof"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestError_WithPositionKeepsFirst(t *testing.T) {
	err := ErrMalformed.WithPosition(2).WithPosition(9)

	if pos, ok := err.Position(); !ok || pos != 2 {
		t.Errorf("position = %d (%t), want 2", pos, ok)
	}

	if _, ok := ErrMalformed.Position(); ok {
		t.Error("sentinel reports a position")
	}
}

func TestError_Immutable(t *testing.T) {
	_ = ErrMalformed.With(slog.String("k", "v")).WithPosition(1)

	if ErrMalformed.Error() != "malformed expression" {
		t.Errorf("sentinel modified: %q", ErrMalformed.Error())
	}
}

func TestDescribe(t *testing.T) {
	src := "1 + foo"

	_, err := Compile(t.Context(), src)
	if err == nil {
		t.Fatal("expected error")
	}

	want := err.Error() + "\n" +
		"  1 | 1 + foo\n" +
		"          ^"

	if got := Describe(src, err); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDescribe_Multiline(t *testing.T) {
	src := "1 +\n  2 +\n  \"abc"

	_, err := Compile(t.Context(), src)
	if err == nil {
		t.Fatal("expected error")
	}

	got := Describe(src, err)

	if !strings.Contains(got, "  3 |   \"abc\n") {
		t.Errorf("wrong line quoted:\n%s", got)
	}

	if !strings.HasSuffix(got, "\n        ^") {
		t.Errorf("caret misplaced:\n%s", got)
	}
}

func TestDescribe_NoPosition(t *testing.T) {
	err := errors.New("plain")

	if got := Describe("x", err); got != "plain" {
		t.Errorf("got %q", got)
	}
}
