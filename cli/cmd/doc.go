// Package cmd implements the infix subcommands.
//
// Expressions may refer to the built-in functions and constants, the host
// functions env, pathprefix and pathjoin, and names added on the command line
// with --var (a constant computed from an expression) or --decl (a typed
// variable read from the process environment when the expression runs).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file. It is also the top-level key of that file.
	ConfigIdentifier = "config"
)
