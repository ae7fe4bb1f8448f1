//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the infix module embedded at build time.
// It is printed by the CLI --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text and default config paths.
	Name = "infix"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Typed infix expression compiler"
)
