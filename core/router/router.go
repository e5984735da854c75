package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tristendillon/appdef/core/component"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/metrics"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// ErrorPath is the path the error route was mounted at. Defaults to ErrorPath.
	ErrorPath string
	// ErrorHandler receives loader and render failures. Defaults to a plain 500.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
	// OnNavigate is told the path of every request, without its leading slash.
	OnNavigate func(uri string)
	Metrics    *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.ErrorPath == "" {
		o.ErrorPath = ErrorPath
	}
	if o.ErrorHandler == nil {
		o.ErrorHandler = defaultErrorHandler
	}
	return o
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// NewRouter mounts every route chain at its leaf path. The chain mounted at
// the error path also answers unmatched requests with a 404.
func NewRouter(routes []RouteObject, opts Options) *chi.Mux {
	opts = opts.withDefaults()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	for _, route := range routes {
		for _, chain := range chains(route, nil) {
			leaf := chain[len(chain)-1]
			pattern := chiPattern(leaf.Path)
			h := &chainHandler{chain: chain, route: leaf.Path, status: http.StatusOK, opts: opts}

			if err := mount(r, pattern, h); err != nil {
				logger.Warn("Skipping route %s: %v", leaf.Path, err)
				continue
			}
			logger.Debug("Mounted route %s (%d levels)", pattern, len(chain))

			if leaf.Path == opts.ErrorPath {
				notFound := *h
				notFound.status = http.StatusNotFound
				r.NotFound(notFound.ServeHTTP)
			}
		}
	}
	return r
}

// mount turns chi's pattern conflict panics into errors.
func mount(r chi.Router, pattern string, h http.Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	r.Handle(pattern, h)
	return nil
}

// chains flattens a route object into its root-to-leaf level lists.
func chains(route RouteObject, parents []RouteObject) [][]RouteObject {
	chain := append(append([]RouteObject{}, parents...), route)
	if len(route.Children) == 0 {
		return [][]RouteObject{chain}
	}
	var out [][]RouteObject
	for _, child := range route.Children {
		out = append(out, chains(child, chain)...)
	}
	return out
}

// chiPattern converts "/product/:slug" to "/product/{slug}".
func chiPattern(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + part[1:] + "}"
		}
	}
	return "/" + strings.Join(parts, "/")
}

type chainHandler struct {
	chain  []RouteObject
	route  string
	status int
	opts   Options
}

func (h *chainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.opts.OnNavigate != nil {
		h.opts.OnNavigate(strings.TrimPrefix(r.URL.Path, "/"))
	}

	params := map[string]string{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			params[key] = rctx.URLParams.Values[i]
		}
	}

	data, err := h.load(r, params)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to load %s: %w", h.route, err))
		return
	}

	var buf bytes.Buffer
	if err := h.render(r.Context(), &buf, data, 0); err != nil {
		h.fail(w, r, fmt.Errorf("failed to render %s: %w", h.route, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(h.status)
	buf.WriteTo(w)
	h.opts.Metrics.RouteServed(h.route, h.status)
}

// load runs the loader of every level concurrently.
func (h *chainHandler) load(r *http.Request, params map[string]string) ([]any, error) {
	data := make([]any, len(h.chain))
	g, ctx := errgroup.WithContext(r.Context())
	for i, level := range h.chain {
		if level.Loader == nil {
			continue
		}
		g.Go(func() error {
			d, err := level.Loader(ctx, component.LoaderArgs{Request: r, Params: params})
			if err != nil {
				return err
			}
			data[i] = d
			return nil
		})
	}
	return data, g.Wait()
}

// render draws level with an outlet rendering the level below into whatever
// writer the layout hands it.
func (h *chainHandler) render(ctx context.Context, w io.Writer, data []any, level int) error {
	var outlet component.Outlet
	if level+1 < len(h.chain) {
		outlet = func(cw io.Writer) error {
			return h.render(ctx, cw, data, level+1)
		}
	}
	return h.chain[level].Component.Render(ctx, w, data[level], outlet)
}

func (h *chainHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("%v", err)
	h.opts.ErrorHandler(w, r, err)
	h.opts.Metrics.RouteServed(h.route, http.StatusInternalServerError)
}
