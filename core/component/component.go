// Package component turns module exports into renderable components and route
// loaders. Modules are required lazily on first use and swapped in place when
// the module loader reports a reload.
package component

import (
	"context"
	"io"
	"net/http"
)

// Outlet renders the child route inside a layout.
type Outlet = func(io.Writer) error

// PageFunc is the shape of a page export.
type PageFunc = func(w io.Writer, data any) error

// LayoutFunc is the shape of a layout export. children renders the nested route.
type LayoutFunc = func(w io.Writer, data any, children func(io.Writer) error) error

// Component renders one level of a route. outlet may be nil for leaf routes.
type Component interface {
	Render(ctx context.Context, w io.Writer, data any, outlet Outlet) error
}

type LoaderArgs struct {
	Request *http.Request
	Params  map[string]string
}

// Loader produces the data handed to a route's component.
type Loader func(ctx context.Context, args LoaderArgs) (any, error)

// LoaderFunc and ContextLoaderFunc are the accepted shapes of a module's
// Loader export.
type (
	LoaderFunc        = func(params map[string]string) (any, error)
	ContextLoaderFunc = func(ctx context.Context, params map[string]string) (any, error)
)

// LoaderExport is the export name route loaders are read from.
const LoaderExport = "Loader"

// LayoutExport marks a layout export that receives the child route as an outlet.
const LayoutExport = "Layout"

func noOutlet(io.Writer) error { return nil }
