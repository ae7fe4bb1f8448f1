package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name of the executable with its extension and any
// leading dots removed. It names the configuration and cache directories and
// prefixes the environment variables that override them.
//
// A binary built by the dlv debugger (__debug_bin1234) is named [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		base := filepath.Base(exe)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		base = strings.TrimLeft(base, ".")

		if debugBin.MatchString(base) || base == "" {
			return Name
		}

		return base
	},
)

var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// ConfigDir returns the configuration directory: $INFIX_CONFIG_DIR if set,
// otherwise [Prefix] under the user configuration directory.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir("CONFIG_DIR", os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory holding profiles and the interactive
// history: $INFIX_CACHE_DIR if set, otherwise [Prefix] under the user cache
// directory.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return userDir("CACHE_DIR", os.UserCacheDir, ".cache")
	},
)

// EnvName returns the environment variable name for key, e.g. INFIX_CACHE_DIR.
func EnvName(key string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(Prefix() + "_" + key))
}

// userDir resolves a per-user directory, falling back from base to
// $HOME/hidden and finally to the working directory.
func userDir(key string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(EnvName(key)); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
