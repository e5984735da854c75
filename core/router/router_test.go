package router

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/appdef/core/cache"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/module"
)

func rootLayout(w io.Writer, data any, children func(io.Writer) error) error {
	fmt.Fprintf(w, "<body data-user=%q>", data)
	if err := children(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body>")
	return err
}

func textPage(text string) func(io.Writer, any) error {
	return func(w io.Writer, data any) error {
		_, err := fmt.Fprintf(w, "<h1>%s %v</h1>", text, data)
		return err
	}
}

func storefront() (*module.MemoryLoader, *models.Manifest) {
	l := module.NewMemoryLoader()
	l.SetExports("root.go", map[string]any{
		"Layout": rootLayout,
		"Loader": func(map[string]string) (any, error) { return "guest", nil },
	})
	l.SetExports("_index.go", map[string]any{"Page": textPage("home")})
	l.SetExports("errors.go", map[string]any{"Page": textPage("not found")})
	l.SetExports("products.go", map[string]any{"Page": textPage("products")})
	l.SetExports("product.$slug.go", map[string]any{
		"Page": textPage("product"),
		"Loader": func(params map[string]string) (any, error) {
			if params["slug"] == "missing" {
				return nil, errors.New("no such product")
			}
			return params["slug"], nil
		},
	})

	layouts := []models.LayoutInfo{{LayoutModule: "root.go", LayoutExportName: "Layout"}}
	page := func(file string) models.PageInfo {
		return models.PageInfo{PageModule: file, PageExportName: "Page", ParentLayouts: layouts}
	}
	return l, &models.Manifest{
		Version: "v1",
		Routes: []models.RouteInfo{
			{Path: []models.Segment{models.Static("products")}, PageInfo: page("products.go")},
			{Path: []models.Segment{models.Static("product"), models.Dynamic("slug")}, PageInfo: page("product.$slug.go")},
		},
		HomeRoute:  &models.RouteInfo{Path: []models.Segment{}, PageInfo: page("_index.go")},
		ErrorRoute: &models.RouteInfo{Path: []models.Segment{}, PageInfo: page("errors.go")},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouterServesNestedRoutes(t *testing.T) {
	l, m := storefront()
	mc := cache.NewModuleCache(l, nil)

	var mu sync.Mutex
	var navigated []string
	h := NewRouter(ManifestToRoutes(m, mc), Options{OnNavigate: func(uri string) {
		mu.Lock()
		navigated = append(navigated, uri)
		mu.Unlock()
	}})

	rec := get(t, h, "/product/red-shirt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<body data-user="guest"><h1>product red-shirt</h1></body>`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	rec = get(t, h, "/")
	assert.Equal(t, `<body data-user="guest"><h1>home map[]</h1></body>`, rec.Body.String())

	rec = get(t, h, "/errors/404")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `<body data-user="guest"><h1>not found map[]</h1></body>`, rec.Body.String())

	assert.Equal(t, []string{"product/red-shirt", "", "errors/404", "nowhere"}, navigated)
}

func TestRouterLoaderErrorsReachErrorHandler(t *testing.T) {
	l, m := storefront()
	mc := cache.NewModuleCache(l, nil)

	rec := get(t, NewRouter(ManifestToRoutes(m, mc), Options{}), "/product/missing")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such product")

	var handled error
	h := NewRouter(ManifestToRoutes(m, mc), Options{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusTeapot)
		},
	})
	rec = get(t, h, "/product/missing")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Error(t, handled)
	assert.Contains(t, handled.Error(), "no such product")
}

func TestRouterWithoutErrorRoute(t *testing.T) {
	l, m := storefront()
	m.ErrorRoute = nil
	h := NewRouter(ManifestToRoutes(m, cache.NewModuleCache(l, nil)), Options{})

	rec := get(t, h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterPicksUpModuleReloads(t *testing.T) {
	l, m := storefront()
	h := NewRouter(ManifestToRoutes(m, cache.NewModuleCache(l, nil)), Options{})

	assert.Contains(t, get(t, h, "/products").Body.String(), "<h1>products map[]</h1>")
	l.SetExports("products.go", map[string]any{"Page": textPage("catalog")})
	assert.Contains(t, get(t, h, "/products").Body.String(), "<h1>catalog map[]</h1>")
}

func TestAssemblerMemoizes(t *testing.T) {
	l, m := storefront()
	mc := cache.NewModuleCache(l, nil)
	a := NewAssembler(Options{})

	first := a.Assemble(m, mc)
	assert.Same(t, first, a.Assemble(m, mc))
	assert.Equal(t, 1, a.Builds())

	next := *m
	a.Assemble(&next, mc)
	assert.Equal(t, 2, a.Builds())

	a.Assemble(&next, cache.NewModuleCache(l, nil))
	assert.Equal(t, 3, a.Builds())
}

func TestRouterSkipsConflictingPatterns(t *testing.T) {
	l, m := storefront()
	m.Routes = append(m.Routes, models.RouteInfo{
		Path:     []models.Segment{models.Static("product"), models.Dynamic("id")},
		PageInfo: models.PageInfo{PageModule: "product.$id.go", PageExportName: "Page"},
	})

	var h http.Handler
	require.NotPanics(t, func() {
		h = NewRouter(ManifestToRoutes(m, cache.NewModuleCache(l, nil)), Options{})
	})
	assert.Equal(t, http.StatusOK, get(t, h, "/product/red-shirt").Code)
}
