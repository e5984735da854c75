package scaffold

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/appdef/core/ast"
	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/module"
	"github.com/tristendillon/appdef/core/shared"
	"github.com/tristendillon/appdef/core/walker"
)

const routeDir = "/app/routes"

func manifest() *models.Manifest {
	return &models.Manifest{
		Routes: []models.RouteInfo{
			{
				Path:     []models.Segment{models.Static("products")},
				PageInfo: models.PageInfo{PageModule: "/app/routes/products.go"},
			},
			{
				Path:     []models.Segment{models.Static("product"), models.Dynamic("slug")},
				PageInfo: models.PageInfo{PageModule: "/app/routes/product.$slug.go"},
			},
		},
		HomeRoute: &models.RouteInfo{PageInfo: models.PageInfo{PageModule: "/app/routes/_index.go"}},
	}
}

func TestProposeHomeConflict(t *testing.T) {
	p := Propose(manifest(), routeDir, nil)
	assert.False(t, p.IsValid)
	assert.Equal(t, "Home route already exists at /app/routes/_index.go", p.ErrorMessage)
	assert.Equal(t, "/app/routes/_index.go", p.PageModule)
	assert.Empty(t, p.NewPageSourceCode)
}

func TestProposeRouteConflict(t *testing.T) {
	m := manifest()
	before := len(m.Routes)

	p := Propose(m, routeDir, []models.Segment{models.Static("product"), models.Dynamic("id")})
	assert.False(t, p.IsValid)
	assert.Equal(t, "Route already exists at file path: /app/routes/product.$slug.go", p.ErrorMessage)
	assert.Equal(t, "/app/routes/product.$slug.go", p.PageModule)
	assert.Len(t, m.Routes, before)
}

func TestProposeReservedErrorName(t *testing.T) {
	p := Propose(manifest(), routeDir, []models.Segment{models.Static("errors")})
	assert.False(t, p.IsValid)
	assert.Equal(t, "errors.go is reserved for the error route", p.ErrorMessage)
}

func TestProposeRejectsRepeatedParams(t *testing.T) {
	p := Propose(manifest(), routeDir, []models.Segment{models.Dynamic("id"), models.Static("x"), models.Dynamic("id")})
	assert.False(t, p.IsValid)
}

func TestProposeStaticPage(t *testing.T) {
	p := Propose(manifest(), routeDir, []models.Segment{models.Static("about"), models.Static("team")})
	require.True(t, p.IsValid, p.ErrorMessage)
	assert.Equal(t, filepath.Join(routeDir, "about.team.go"), p.PageModule)

	info, err := ast.ParseSource(p.PageModule, []byte(p.NewPageSourceCode))
	require.NoError(t, err)
	assert.Equal(t, "routes", info.PackageName)
	assert.True(t, info.HasExport("Page"))
	assert.False(t, info.HasExport("Loader"))
	assert.Contains(t, p.NewPageSourceCode, "func aboutTeam(")
	assert.Contains(t, p.NewPageSourceCode, "<div>about.team</div>")
}

func TestProposeDynamicPage(t *testing.T) {
	wanted := []models.Segment{models.Static("shop"), models.Dynamic("category"), models.Dynamic("item")}
	p := Propose(manifest(), routeDir, wanted)
	require.True(t, p.IsValid, p.ErrorMessage)
	assert.Equal(t, filepath.Join(routeDir, "shop.$category.$item.go"), p.PageModule)

	info, err := ast.ParseSource(p.PageModule, []byte(p.NewPageSourceCode))
	require.NoError(t, err)
	assert.True(t, info.HasExport("Loader"))
	assert.True(t, info.HasExport("Page"))
	assert.Contains(t, p.NewPageSourceCode, `"category": params["category"]`)
	assert.Contains(t, p.NewPageSourceCode, `"item":     params["item"]`)
}

func TestProposedSourceEvaluates(t *testing.T) {
	p := Propose(manifest(), routeDir, []models.Segment{models.Static("blog"), models.Dynamic("post")})
	require.True(t, p.IsValid, p.ErrorMessage)

	res := module.EvaluateSource(p.PageModule, []byte(p.NewPageSourceCode))
	require.Empty(t, res.ErrorMessage)

	loader, ok := res.Exports["Loader"].(func(map[string]string) (any, error))
	require.True(t, ok)
	data, err := loader(map[string]string{"post": "hello", "other": "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"post": "hello"}, data)
}

func TestProposeHomeWhenMissing(t *testing.T) {
	m := manifest()
	m.HomeRoute = nil
	p := Propose(m, routeDir, nil)
	require.True(t, p.IsValid, p.ErrorMessage)
	assert.Equal(t, filepath.Join(routeDir, "_index.go"), p.PageModule)
	assert.Contains(t, p.NewPageSourceCode, "func index(")
}

func TestPageIdentifier(t *testing.T) {
	assert.Equal(t, "productSlug", pageIdentifier("product.$slug"))
	assert.Equal(t, "funcPage", pageIdentifier("func"))
	assert.Equal(t, "htmlPage", pageIdentifier("html"))
}

func TestProposeRejectsReservedCharacters(t *testing.T) {
	for _, wanted := range [][]models.Segment{
		{models.Static("product"), models.Dynamic("slug.json")},
		{models.Static("a.b")},
		{models.Dynamic("a/b")},
		{models.Static("x"), models.Dynamic("$id")},
	} {
		p := Propose(manifest(), routeDir, wanted)
		assert.False(t, p.IsValid, "%v", wanted)
		assert.NotEmpty(t, p.ErrorMessage)
	}
}

func TestProposedModuleWalksBackToPath(t *testing.T) {
	m := manifest()
	m.Routes = nil
	for _, in := range []string{"/shop/über", "/product/:slug", "/blog/{post}/comments", "/"} {
		wanted, err := shared.ParseRoutePath(in)
		require.NoError(t, err, in)

		if len(wanted) == 0 {
			m.HomeRoute = nil
		}
		p := Propose(m, routeDir, wanted)
		require.True(t, p.IsValid, "%s: %s", in, p.ErrorMessage)

		w := &walker.RouteWalkerImpl{
			FS:      fstest.MapFS{filepath.Base(p.PageModule): {Data: []byte(p.NewPageSourceCode)}},
			Dir:     routeDir,
			Options: config.DefaultRoutes(),
		}
		scan, err := w.Walk()
		require.NoError(t, err)

		if len(wanted) == 0 {
			require.NotNil(t, scan.HomeRoute, in)
			continue
		}
		require.Len(t, scan.Routes, 1, in)
		assert.Equal(t, shared.FormatRoutePath(wanted), shared.FormatRoutePath(scan.Routes[0].Path), in)
	}
}

func TestProposeNonASCIISegment(t *testing.T) {
	p := Propose(manifest(), routeDir, []models.Segment{models.Static("shop"), models.Static("über")})
	require.True(t, p.IsValid, p.ErrorMessage)
	assert.Contains(t, p.NewPageSourceCode, "func shopÜber(")

	res := module.EvaluateSource(p.PageModule, []byte(p.NewPageSourceCode))
	assert.Empty(t, res.ErrorMessage)
}
