package layers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCacheDetectsRealChanges(t *testing.T) {
	cc := NewContentCache()
	path := filepath.Join(t.TempDir(), "products.go")
	require.NoError(t, os.WriteFile(path, []byte("package routes\n"), 0o644))

	entry, changed, err := cc.UpdateContent(path)
	require.NoError(t, err)
	assert.True(t, changed, "first sighting counts as a change")
	assert.True(t, entry.Exists)

	_, changed, err = cc.UpdateContent(path)
	require.NoError(t, err)
	assert.False(t, changed)

	// same bytes, new mtime
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	_, changed, err = cc.UpdateContent(path)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("package routes\n\nvar X = 1\n"), 0o644))
	_, changed, err = cc.UpdateContent(path)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.Remove(path))
	entry, changed, err = cc.UpdateContent(path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, entry.Exists)

	stats := cc.GetStats()
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, int64(1), stats.Invalidations)
}

func TestContentCacheUnknownMissingFile(t *testing.T) {
	cc := NewContentCache()
	_, changed, err := cc.UpdateContent(filepath.Join(t.TempDir(), "nope.go"))
	require.NoError(t, err)
	assert.False(t, changed)
}
