package lang

import (
	"errors"
	"sync"
	"testing"
)

func TestCache_Compile(t *testing.T) {
	ctx := t.Context()
	c := NewCache()

	a, err := c.Compile(ctx, "1 + 2")
	if err != nil {
		t.Fatal(err)
	}

	b, err := c.Compile(ctx, "1 + 2")
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("second compile of the same source was not served from the cache")
	}

	if _, err := c.Compile(ctx, "3 * 4"); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len after clear = %d, want 0", c.Len())
	}

	d, err := c.Compile(ctx, "1 + 2")
	if err != nil {
		t.Fatal(err)
	}

	if d == a {
		t.Error("cleared entry was reused")
	}
}

func TestCache_Errors(t *testing.T) {
	ctx := t.Context()
	c := NewCache()

	for range 2 {
		e, err := c.Compile(ctx, "1 + nope")
		if !errors.Is(err, ErrUnknownSymbol) {
			t.Fatalf("got %v, want %v", err, ErrUnknownSymbol)
		}

		if e != nil {
			t.Fatalf("got expression %v with error", e)
		}
	}

	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCache_Options(t *testing.T) {
	ctx := t.Context()

	scope := NewScope().Var("n", TypeInt)
	c := NewCache(WithResolver(scope), WithFolding(false))

	e, err := c.Compile(ctx, "n + 1 * 2")
	if err != nil {
		t.Fatal(err)
	}

	if got := e.String(); got != "(n + (1 * 2))" {
		t.Errorf("got %q, want unfolded tree", got)
	}

	if _, err := c.Compile(ctx, "pi"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("got %v, want %v", err, ErrUnknownSymbol)
	}
}

func TestCache_Concurrent(t *testing.T) {
	ctx := t.Context()
	c := NewCache()

	sources := []string{"1 + 2", "sqrt(2)", `"a" + "b"`, "true ? 1 : 2"}
	results := make([][]*Expression, len(sources))

	for i := range results {
		results[i] = make([]*Expression, 16)
	}

	var wg sync.WaitGroup

	for i, src := range sources {
		for j := range 16 {
			wg.Go(func() {
				e, err := c.Compile(ctx, src)
				if err != nil {
					t.Error(err)

					return
				}

				results[i][j] = e
			})
		}
	}

	wg.Wait()

	for i, rs := range results {
		for j, e := range rs {
			if e != rs[0] {
				t.Errorf("%s: result %d differs from result 0", sources[i], j)
			}
		}
	}

	if c.Len() != len(sources) {
		t.Errorf("len = %d, want %d", c.Len(), len(sources))
	}
}
