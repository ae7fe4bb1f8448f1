package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/infix/lang"
	"github.com/ardnew/infix/log"
)

// input selects where an expression is read from.
type input struct {
	Expr string `arg:"" help:"Expression to compile. Read from --file if omitted." optional:""`
	File string `       help:"Read the expression from a file, or '-' for stdin."  placeholder:"FILE" short:"f" type:"path"`
}

// read returns the expression source, trimmed of surrounding whitespace.
func (in input) read(stdin io.Reader) (string, error) {
	switch {
	case in.Expr != "" && in.File != "":
		return "", ErrNoInput.With(slog.String("reason", "both an argument and --file given"))

	case in.Expr != "":
		return in.Expr, nil

	case in.File == "":
		return "", ErrNoInput
	}

	r := stdin

	if in.File != stdinSource {
		f, err := os.Open(in.File)
		if err != nil {
			return "", ErrReadInput.Wrap(err).With(slog.String("file", in.File))
		}
		defer f.Close()

		r = f
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return "", ErrReadInput.Wrap(err).With(slog.String("file", in.File))
	}

	return strings.TrimSpace(string(buf)), nil
}

// bindings are the names a command adds to the host functions and
// built-ins.
type bindings struct {
	Var  []string `help:"Bind NAME to the value of a constant expression."            placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Decl []string `help:"Declare NAME as a variable of TYPE read from the environment." placeholder:"NAME=TYPE" sep:"none" short:"t"`
}

// environ is a [lang.Env] over the process environment. Each variable is
// parsed as its declared type when it is read.
type environ map[string]lang.Type

// Lookup implements [lang.Env].
func (e environ) Lookup(name string) (lang.Value, error) {
	typ, declared := e[name]

	text, ok := os.LookupEnv(name)
	if !declared || !ok {
		return lang.Value{}, lang.ErrUndefinedVariable.With(slog.String("name", name))
	}

	v, err := parseValue(text, typ)
	if err != nil {
		return lang.Value{}, lang.ErrInvalidValue.Wrap(err).With(
			slog.String("name", name),
			slog.String("type", typ.String()),
		)
	}

	return v, nil
}

func parseValue(text string, typ lang.Type) (lang.Value, error) {
	switch typ {
	case lang.TypeInt:
		i, err := strconv.ParseInt(strings.TrimSpace(text), 0, 64)

		return lang.Int(i), err

	case lang.TypeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)

		return lang.Float(f), err

	case lang.TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))

		return lang.Bool(b), err

	default:
		return lang.String(text), nil
	}
}

// resolve builds the scope of declared variables and bound constants and
// returns a resolver that consults it before the host functions and
// built-ins. Each constant expression may refer to the names bound before
// it.
func (b bindings) resolve(
	ctx context.Context,
	opts ...lang.Option,
) (lang.Resolver, lang.Env, error) {
	return b.resolveInto(ctx, lang.NewScope(), opts...)
}

// resolveInto is like resolve but adds the bound names to scope.
func (b bindings) resolveInto(
	ctx context.Context,
	scope *lang.Scope,
	opts ...lang.Option,
) (lang.Resolver, lang.Env, error) {
	env := make(environ)
	r := lang.Chain{scope, hostScope(), lang.Builtins()}

	for _, decl := range b.Decl {
		name, text, err := splitBinding(decl)
		if err != nil {
			return nil, nil, err
		}

		typ, err := lang.ParseType(text)
		if err != nil {
			return nil, nil, ErrBinding.Wrap(err).With(slog.String("binding", decl))
		}

		scope.Var(name, typ)
		env[name] = typ
	}

	for _, bind := range b.Var {
		name, src, err := splitBinding(bind)
		if err != nil {
			return nil, nil, err
		}

		e, err := lang.Compile(ctx, src, append(opts, lang.WithResolver(r))...)
		if err != nil {
			return nil, nil, ErrBinding.Wrap(err).With(slog.String("binding", bind))
		}

		v, err := e.Eval(env)
		if err != nil {
			return nil, nil, ErrBinding.Wrap(err).With(slog.String("binding", bind))
		}

		log.TraceContext(ctx, "bind",
			slog.String("name", name),
			slog.Any("value", v),
		)

		scope.Const(name, v)
		delete(env, name)
	}

	return r, env, nil
}

// splitBinding splits NAME=TEXT and validates NAME.
func splitBinding(s string) (name, text string, err error) {
	name, text, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || !isName(name) {
		return "", "", ErrBinding.With(slog.String("binding", s))
	}

	return name, text, nil
}

// isName reports whether s is an identifier that is not a boolean literal.
func isName(s string) bool {
	if s == "" || strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
