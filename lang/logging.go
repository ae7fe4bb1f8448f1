package lang

import (
	"log/slog"
	"reflect"
)

// rendered defers rendering a node until a log record is actually emitted.
type rendered struct{ n Node }

func (r rendered) LogValue() slog.Value { return slog.StringValue(r.n.String()) }

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
