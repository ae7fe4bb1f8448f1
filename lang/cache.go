package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Cache memoizes compiled expressions by source text. All compilations
// through one Cache share the options it was created with.
//
// A Cache is safe for concurrent use. Concurrent requests for the same
// source compile it once; later requests share the result, including a
// compile error.
type Cache struct {
	entries sync.Map // uint64 -> *entry
	opts    []Option
	cfg     config
}

type entry struct {
	once   sync.Once
	source string
	expr   *Expression
	err    error
}

// NewCache returns an empty cache that compiles with opts.
func NewCache(opts ...Option) *Cache {
	return &Cache{opts: opts, cfg: makeConfig(opts...)}
}

// Compile returns the cached expression for source, compiling it on first
// use.
func (c *Cache) Compile(ctx context.Context, source string) (*Expression, error) {
	key := xxh3.HashString(source)

	value, hit := c.entries.LoadOrStore(key, &entry{source: source})

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrInvalidValue.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	c.cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit),
	)

	if e.source != source {
		c.cfg.logger.TraceContext(ctx, "cache bypass",
			slog.String("source_hash", strconv.FormatUint(key, 16)),
			slog.String("reason", "hash collision"),
		)

		return Compile(ctx, source, c.opts...)
	}

	e.once.Do(func() {
		e.expr, e.err = Compile(ctx, source, c.opts...)
	})

	return e.expr, e.err
}

// Len returns the number of sources held.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear drops every cached expression.
func (c *Cache) Clear() { c.entries.Clear() }
