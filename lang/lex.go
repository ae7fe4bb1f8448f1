package lang

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operator identifies an operator token and the node operation built from it.
type Operator uint8

// Operators. Add and Sub double as unary plus and minus.
const (
	OpInvalid Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpXor
	OpEq
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpCond
	OpBranch
	OpNot
)

var operatorSpelling = [...]string{
	OpInvalid: "",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpMod:     "%",
	OpAnd:     "&",
	OpOr:      "|",
	OpXor:     "^",
	OpEq:      "==",
	OpNe:      "!=",
	OpGt:      ">",
	OpGe:      ">=",
	OpLt:      "<",
	OpLe:      "<=",
	OpCond:    "?",
	OpBranch:  ":",
	OpNot:     "!",
}

// String returns the source spelling of o.
func (o Operator) String() string {
	if int(o) < len(operatorSpelling) {
		return operatorSpelling[o]
	}

	return ""
}

// lexOrder lists operators in match priority: two-character operators come
// before their one-character prefixes.
var lexOrder = [...]Operator{
	OpEq, OpNe, OpGe, OpLe,
	OpAdd, OpSub, OpMul, OpDiv, OpMod,
	OpAnd, OpOr, OpXor,
	OpGt, OpLt,
	OpCond, OpBranch, OpNot,
}

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenOperator
	tokenOperand
	tokenString
	tokenOpen
	tokenClose
	tokenComma
)

var tokenKindNames = [...]string{
	tokenEOF:      "end of input",
	tokenOperator: "operator",
	tokenOperand:  "operand",
	tokenString:   "string",
	tokenOpen:     "(",
	tokenClose:    ")",
	tokenComma:    ",",
}

func (k tokenKind) String() string { return tokenKindNames[k] }

// token is one lexical unit. For operands text is the raw run; for strings
// it is the decoded content.
type token struct {
	text string
	pos  int
	kind tokenKind
	op   Operator
}

// lexer scans tokens from input on demand.
type lexer struct {
	input string
	pos   int
}

// isOperandRune reports whether r may appear in an identifier or number.
func isOperandRune(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// next returns the next token, or a token of kind tokenEOF at the end of
// input.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}

		l.pos += size
	}

	start := l.pos
	if start >= len(l.input) {
		return token{kind: tokenEOF, pos: start}, nil
	}

	rest := l.input[start:]

	r, size := utf8.DecodeRuneInString(rest)
	if r != utf8.RuneError && isOperandRune(r) {
		l.pos += size

		for l.pos < len(l.input) {
			r, size = utf8.DecodeRuneInString(l.input[l.pos:])
			if r == utf8.RuneError || !isOperandRune(r) {
				break
			}

			l.pos += size
		}

		return token{kind: tokenOperand, text: l.input[start:l.pos], pos: start}, nil
	}

	for _, op := range lexOrder {
		if strings.HasPrefix(rest, operatorSpelling[op]) {
			l.pos += len(operatorSpelling[op])

			return token{kind: tokenOperator, op: op, pos: start}, nil
		}
	}

	switch r {
	case '"':
		return l.quoted()
	case '(':
		l.pos++

		return token{kind: tokenOpen, pos: start}, nil
	case ')':
		l.pos++

		return token{kind: tokenClose, pos: start}, nil
	case ',':
		l.pos++

		return token{kind: tokenComma, pos: start}, nil
	}

	return token{}, ErrUnexpectedChar.
		WithPosition(start).
		With(slog.String("char", runeAt(l.input, start)))
}

// quoted scans a string literal starting at the opening quote.
func (l *lexer) quoted() (token, error) {
	start := l.pos
	l.pos++

	var sb strings.Builder

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch c {
		case '"':
			l.pos++

			return token{kind: tokenString, text: sb.String(), pos: start}, nil

		case '\\':
			if l.pos+1 >= len(l.input) {
				return token{}, ErrUnterminatedString.WithPosition(start)
			}

			switch l.input[l.pos+1] {
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			default:
				return token{}, ErrBadEscape.
					WithPosition(l.pos).
					With(slog.String("escape", `\`+runeAt(l.input, l.pos+1)))
			}

			l.pos += 2

		default:
			sb.WriteByte(c)
			l.pos++
		}
	}

	return token{}, ErrUnterminatedString.WithPosition(start)
}
