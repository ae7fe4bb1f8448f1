package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/infix/log"
	"github.com/ardnew/infix/pkg"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the mapping under key name of a YAML document:
//
//	config:
//	  log-level: debug
//	  log:
//	    pretty: false
//	  var: [ "w=80", "h=24" ]
//
// Nested mappings are joined with hyphens, so the two forms above are
// equivalent. Keys may use underscores in place of hyphens. Command-line
// flags override configuration values.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, pkg.ErrConfig.Wrap(err)
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			return nil, pkg.ErrConfig.Wrap(err)
		}

		cfg := make(config)

		switch section := doc[name].(type) {
		case nil:
		case map[string]any:
			cfg.flatten("", section)
		default:
			return nil, pkg.ErrConfig.Wrap(
				fmt.Errorf("%q is a %T, not a mapping", name, section),
			)
		}

		log.TraceContext(ctx, "configuration loaded",
			slog.String("section", name),
			slog.Int("values", len(cfg)),
		)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML mapping.
type config map[string]any

// flatten adds the values of m to c, prefixing nested keys with their
// parents' names.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		key = prefix + strings.ReplaceAll(key, "_", "-")

		if sub, ok := value.(map[string]any); ok {
			c.flatten(key+"-", sub)

			continue
		}

		c[key] = scalar(value)
	}
}

// scalar converts YAML numbers to the strings kong parses flag values from.
func scalar(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
