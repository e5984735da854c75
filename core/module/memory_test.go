package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoaderRequire(t *testing.T) {
	l := NewMemoryLoader()
	l.SetExports("app/routes/products.go", map[string]any{"Page": "products"})

	res, err := l.Require("app/routes/products.go", nil).Wait(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.ErrorMessage)

	page, ok := res.Export("Page")
	require.True(t, ok)
	assert.Equal(t, "products", page)
	assert.Equal(t, 1, l.Loads("app/routes/products.go"))
}

func TestMemoryLoaderMissingModule(t *testing.T) {
	l := NewMemoryLoader()

	res, err := l.Require("app/routes/nope.go", nil).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "module not found: app/routes/nope.go", res.ErrorMessage)

	_, ok := res.Export("Page")
	assert.False(t, ok)
}

func TestMemoryLoaderNotifiesUntilDisposed(t *testing.T) {
	l := NewMemoryLoader()
	l.SetExports("a.go", map[string]any{"Page": 1})

	var seen []any
	req := l.Require("a.go", func(r Results) {
		v, _ := r.Export("Page")
		seen = append(seen, v)
	})
	assert.Equal(t, 1, l.Subscribers("a.go"))

	l.SetExports("a.go", map[string]any{"Page": 2})
	req.Dispose()
	req.Dispose()
	l.SetExports("a.go", map[string]any{"Page": 3})

	assert.Equal(t, []any{2}, seen)
	assert.Equal(t, 0, l.Subscribers("a.go"))
}

func TestRequiredWaitHonorsContext(t *testing.T) {
	req, resolve := NewRequired(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := req.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	resolve(Results{ErrorMessage: "boom"}, nil)
	resolve(Results{ErrorMessage: "ignored"}, nil)
	res, err := req.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "boom", res.ErrorMessage)
}
