package log

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

type levelName struct {
	name  string
	level Level
}

var levelNames = []levelName{
	{"trace", LevelTrace},
	{"debug", LevelDebug},
	{"info", LevelInfo},
	{"warn", LevelWarn},
	{"error", LevelError},
}

// String returns the lowercase level name. Levels between the named ones are
// written as an offset from the nearest lower name, e.g. "info+2".
func (l Level) String() string {
	base := levelNames[0]

	for _, n := range levelNames[1:] {
		if l < n.level {
			break
		}

		base = n
	}

	if l == base.level {
		return base.name
	}

	return fmt.Sprintf("%s%+d", base.name, l-base.level)
}

// UnmarshalText implements [encoding.TextUnmarshaler] so that a Level can be
// read from flags and configuration files.
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// Levels returns the names of the defined log levels, lowest first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, matched without regard to case and
// optionally followed by a signed offset such as "info+2". Anything else
// yields [DefaultLevel].
func ParseLevel(s string) Level {
	name, offset := s, ""

	if i := strings.IndexAny(s, "+-"); i > 0 {
		name, offset = s[:i], s[i:]
	}

	i := slices.IndexFunc(levelNames, func(n levelName) bool {
		return strings.EqualFold(n.name, name)
	})
	if i < 0 {
		return DefaultLevel
	}

	l := levelNames[i].level

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return DefaultLevel
		}

		l += Level(n)
	}

	return l
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatJSON

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// Formats returns the names of the defined log formats, default first.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses "json" or "text", yielding [DefaultFormat] for anything
// else.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}
