package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexical errors.
var (
	ErrUnexpectedChar     = NewError("unexpected character")
	ErrUnterminatedString = NewError("unterminated string literal")
	ErrBadEscape          = NewError("unrecognized escape sequence")
)

// Parse errors.
var (
	ErrUnknownSymbol       = NewError("unknown symbol")
	ErrUnknownFunction     = NewError("unknown function")
	ErrNoOverload          = NewError("no matching overload")
	ErrTypeMismatch        = NewError("operand type mismatch")
	ErrTernaryTypeMismatch = NewError("conditional branch type mismatch")
	ErrMalformed           = NewError("malformed expression")
	ErrUnexpectedComma     = NewError("unexpected comma")
	ErrTrailingComma       = NewError("trailing comma")
	ErrWrongReturnType     = NewError("wrong return type")
	ErrUnbalancedBrackets  = NewError("unbalanced brackets")
	ErrMaxDepthExceeded    = NewError("maximum nesting depth exceeded")
)

// Evaluation and I/O errors.
var (
	ErrUnresolvedName    = NewError("unresolved name")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrDivisionByZero    = NewError("integer division by zero")
	ErrInvalidValue      = NewError("invalid value")
	ErrReadInput         = NewError("failed to read input")
	ErrCrossCheck        = NewError("cross-check failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel with [Error.With], [Error.WithPosition] or
// [Error.Wrap] still match that sentinel with [errors.Is].
type Error struct {
	kind  *Error
	msg   string
	err   error
	attrs []slog.Attr
	pos   int
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg, pos: -1}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err, pos: -1}
}

// Error implements the error interface.
//
// The message has the form "<msg> (<key>=<value> ...): <cause>", omitting
// whichever parts are empty.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.kind == nil {
		return false
	}

	return t == e.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return &c
}

// WithPosition records the byte offset in the source text at which the error
// was detected. The first recorded position is kept.
func (e *Error) WithPosition(offset int) *Error {
	if e.pos >= 0 || offset < 0 {
		return e
	}

	c := e.With(slog.Int("offset", offset))
	c.pos = offset

	return c
}

// Position returns the byte offset recorded with [Error.WithPosition].
func (e *Error) Position() (offset int, ok bool) {
	return e.pos, e.pos >= 0
}

// Describe formats err for humans. If err carries a source position, the
// offending line of source is printed beneath the message with a caret
// under the column.
func Describe(source string, err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	offset, ok := e.Position()
	if !ok || offset > len(source) {
		return err.Error()
	}

	line, col := 1, 1
	start := 0

	for i, r := range source[:offset] {
		if r == '\n' {
			line++
			col = 1
			start = i + 1

			continue
		}

		col++
	}

	end := strings.IndexByte(source[start:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += start
	}

	var sb strings.Builder

	num := strconv.Itoa(line)

	sb.WriteString(err.Error())
	sb.WriteString("\n  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(source[start:end])
	sb.WriteString("\n  ")
	sb.WriteString(strings.Repeat(" ", len(num)+3+col-1))
	sb.WriteByte('^')

	return sb.String()
}

// runeAt returns the rune starting at byte offset i of s.
func runeAt(s string, i int) string {
	r, _ := utf8.DecodeRuneInString(s[i:])

	return string(r)
}
