// Package cli contains the command line interface for infix.
//
// # Usage
//
//	infix [flags] <command> [args]
//
// Commands:
//
//	eval   Evaluate an expression (the default command).
//	fmt    Print the canonical rendering or a typed tree.
//	check  Verify a file of expressions, one per line.
//	funcs  List bound names, host functions and built-ins.
//	repl   Start an interactive session.
//	init   Write the current flag values to the configuration file.
//
// For example:
//
//	infix '2 + 3 * 4'
//	infix --decl HOME=string 'pathjoin(HOME, ".config")'
//	infix fmt tree --no-fold 'x > 1 ? 2.0 : sqrt(x)' --decl x=float
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json, if present) in
// the configuration directory. The YAML file holds one top-level "config"
// mapping whose nested keys are joined with '-' to name flags, with
// underscores read as hyphens:
//
//	config:
//	  log:
//	    level: debug
//	    time_layout: kitchen
//	  var: [ "w=640", "h=480" ]
//
// Flags given on the command line override the file. A file that cannot be
// decoded is an error wrapping [pkg.ErrConfig].
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, kitchen, ms, none, ...)
//   - --[no-]log-caller: include the caller's source location
//   - --[no-]log-pretty: colorize records
//
// Logging flags take effect before the rest of the command line is parsed,
// so parse errors are reported in the requested format.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: one of allocs, block, clock, cpu, goroutine, heap, mem,
//     mutex, thread or trace
//   - --pprof-dir: profile output directory (default: the pprof directory
//     under the cache directory)
package cli
