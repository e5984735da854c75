package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tristendillon/appdef/core/ast"
)

func TestAvailable(t *testing.T) {
	assert.True(t, Available("fmt"))
	assert.True(t, Available("encoding/json"))
	assert.True(t, Available("math/rand"))
	assert.True(t, Available("math/rand/v2"))
	assert.False(t, Available("github.com/go-chi/chi/v5"))
}

func TestUnsupportedImports(t *testing.T) {
	info := &ast.ModuleInfo{Imports: []string{
		"io", "github.com/acme/shop", "fmt", "example.com/cart", "github.com/acme/shop",
	}}
	assert.Equal(t, []string{"example.com/cart", "github.com/acme/shop"}, UnsupportedImports(info))
	assert.Empty(t, UnsupportedImports(&ast.ModuleInfo{Imports: []string{"html", "strings", "math/rand/v2"}}))
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "rand", packageName("math/rand/v2"))
	assert.Equal(t, "rand", packageName("math/rand"))
	assert.Equal(t, "chi", packageName("github.com/go-chi/chi/v5"))
	assert.Equal(t, "v2", packageName("v2"))
	assert.Equal(t, "fmt", packageName("fmt"))
}
