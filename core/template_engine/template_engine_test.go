package template_engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRefsExist(t *testing.T) {
	te := NewTemplateEngine()
	for _, ref := range []TemplateRef{TEMPLATES.PAGE.STATIC, TEMPLATES.PAGE.LOADER, TEMPLATES.INIT.Ref} {
		assert.NoError(t, te.ValidateTemplate(ref), ref.Path)
	}
	assert.Error(t, te.ValidateTemplate(TemplateRef{Path: "page/static.go.tmpl", IsDir: true}))
	assert.Error(t, te.ValidateTemplate(TemplateRef{Path: "nope"}))
}

func TestListInitTemplates(t *testing.T) {
	files, err := NewTemplateEngine().ListTemplates(TEMPLATES.INIT.Ref)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"init/appdef.yaml.tmpl",
		"init/go.mod.tmpl",
		"init/app/root.go.tmpl",
		"init/app/routes/_index.go.tmpl",
		"init/app/routes/errors.go.tmpl",
	}, files)
}

func TestRenderStringMissingKey(t *testing.T) {
	_, err := NewTemplateEngine().RenderString(TEMPLATES.PAGE.STATIC, map[string]string{"Package": "routes"})
	assert.Error(t, err)

	_, err = NewTemplateEngine().RenderString(TEMPLATES.INIT.Ref, nil)
	assert.Error(t, err)
}

func TestGenerateFolder(t *testing.T) {
	out := t.TempDir()
	data := map[string]string{
		"AppName":          "shop",
		"ModuleName":       "example.com/shop",
		"MetricsNamespace": "shop",
	}
	require.NoError(t, NewTemplateEngine().GenerateFolder(TEMPLATES.INIT.Ref, out, data))

	gomod, err := os.ReadFile(filepath.Join(out, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "module example.com/shop")

	root, err := os.ReadFile(filepath.Join(out, "app", "root.go"))
	require.NoError(t, err)
	assert.Contains(t, string(root), "<title>shop</title>")

	_, err = os.Stat(filepath.Join(out, "app", "routes", "_index.go"))
	assert.NoError(t, err)
}
