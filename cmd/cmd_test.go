package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestInitNewAndRoutes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shop")
	require.NoError(t, run(t, "init", dir))

	for _, name := range []string{"appdef.yaml", "go.mod", "app/root.go", "app/routes/_index.go", "app/routes/errors.go"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.Error(t, run(t, "init", dir), "existing directories need --force")

	cfgPath := filepath.Join(dir, "appdef.yaml")
	require.NoError(t, run(t, "new", "/product/:slug", "--config", cfgPath))
	_, err := os.Stat(filepath.Join(dir, "app", "routes", "product.$slug.go"))
	require.NoError(t, err)

	assert.Error(t, run(t, "new", "/product/:id", "--config", cfgPath))
	assert.Error(t, run(t, "new", "/", "--config", cfgPath))

	out := filepath.Join(dir, "build", "manifest.json")
	require.NoError(t, run(t, "routes", "--check", "--out", out, "--config", cfgPath))
	_, err = os.Stat(out)
	assert.NoError(t, err)
}
