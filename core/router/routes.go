// Package router folds manifest routes and their layout chains into route
// objects and serves them with chi.
package router

import (
	"github.com/tristendillon/appdef/core/cache"
	"github.com/tristendillon/appdef/core/component"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/shared"
)

// ErrorPath is where the error route is mounted unless Options say otherwise.
const ErrorPath = "errors/404"

// DefaultExport is used when a page or layout names no export.
const DefaultExport = "Page"

// RouteObject is one level of a route. Layout levels hold the level below as
// their only child; every level of a chain shares the leaf's path.
type RouteObject struct {
	Path      string
	Component component.Component
	Loader    component.Loader
	Children  []RouteObject
}

// RoutePath renders segments as a router path: [product, $slug] becomes
// "/product/:slug".
func RoutePath(path []models.Segment) string {
	return shared.FormatRoutePath(path)
}

func exportName(name string) string {
	if name == "" {
		return DefaultExport
	}
	return name
}

// PageToRoute builds the route object for page at path, wrapped in its parent
// layouts. The last layout in ParentLayouts ends up closest to the page. page
// is not modified.
func PageToRoute(page models.PageInfo, mc *cache.ModuleCache, path string) RouteObject {
	entry := mc.Get(page.PageModule, exportName(page.PageExportName), false)
	route := RouteObject{
		Path:      path,
		Component: entry.Component,
		Loader:    entry.Loader,
	}

	for i := len(page.ParentLayouts) - 1; i >= 0; i-- {
		layout := page.ParentLayouts[i]
		name := exportName(layout.LayoutExportName)
		entry := mc.Get(layout.LayoutModule, name, name == component.LayoutExport)
		route = RouteObject{
			Path:      path,
			Component: entry.Component,
			Loader:    entry.Loader,
			Children:  []RouteObject{route},
		}
	}
	return route
}

// ManifestToRoutes returns the routes of m in order, then the home route at
// "/", then the error route at ErrorPath.
func ManifestToRoutes(m *models.Manifest, mc *cache.ModuleCache) []RouteObject {
	return manifestToRoutes(m, mc, ErrorPath)
}

func manifestToRoutes(m *models.Manifest, mc *cache.ModuleCache, errorPath string) []RouteObject {
	routes := make([]RouteObject, 0, len(m.Routes)+2)
	for _, route := range m.Routes {
		routes = append(routes, PageToRoute(route.PageInfo, mc, RoutePath(route.Path)))
	}
	if m.HomeRoute != nil {
		routes = append(routes, PageToRoute(m.HomeRoute.PageInfo, mc, "/"))
	}
	if m.ErrorRoute != nil {
		routes = append(routes, PageToRoute(m.ErrorRoute.PageInfo, mc, errorPath))
	}
	return routes
}
