package cmd

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/infix/lang"
)

var (
	str1 = []lang.Type{lang.TypeString}
	str2 = []lang.Type{lang.TypeString, lang.TypeString}
)

// hostScope returns the functions that read from the host: the process
// environment and PATH-style list editing. Reading the environment or the
// filesystem makes a call impure, so such calls are never folded.
func hostScope() *lang.Scope {
	return lang.NewScope().
		Func("env",
			lang.Overload{Params: str1, Result: lang.TypeString, Impure: true, Fn: getenv},
			lang.Overload{Params: str2, Result: lang.TypeString, Impure: true, Fn: getenv},
		).
		Func("pathprefix",
			lang.Overload{Params: str2, Result: lang.TypeString, Fn: pathPrefix},
			lang.Overload{
				Params: []lang.Type{lang.TypeString, lang.TypeString, lang.TypeBool},
				Result: lang.TypeString,
				Impure: true,
				Fn:     pathPrefix,
			},
		).
		Func("pathjoin",
			lang.Overload{Params: str2, Result: lang.TypeString, Fn: pathJoin},
		)
}

// getenv returns the named environment variable, or the optional second
// argument if it is unset.
func getenv(args []lang.Value) (lang.Value, error) {
	if v, ok := os.LookupEnv(args[0].Text()); ok {
		return lang.String(v), nil
	}

	if len(args) > 1 {
		return args[1], nil
	}

	return lang.String(""), nil
}

// pathPrefix moves item to the front of the list, removing duplicates. With a
// third argument of true, elements that are not existing directories are
// dropped.
func pathPrefix(args []lang.Value) (lang.Value, error) {
	list, item := args[0].Text(), args[1].Text()
	sep := string(os.PathListSeparator)

	if len(args) > 2 && args[2].Bool() {
		return lang.String(mung.Make(
			mung.WithSubjectItems(list),
			mung.WithDelim(sep),
			mung.WithPrefixItems(item),
			mung.WithFilter(isDir),
		).String()), nil
	}

	return lang.String(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(sep),
		mung.WithPrefixItems(item),
	).String()), nil
}

func pathJoin(args []lang.Value) (lang.Value, error) {
	return lang.String(filepath.Join(args[0].Text(), args[1].Text())), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
