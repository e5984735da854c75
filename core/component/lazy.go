package component

import (
	"context"
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/module"
)

// LazyComponent renders one export of a module. The module is required on the
// first Render; reloads pushed by the loader replace what later renders use.
type LazyComponent struct {
	loader     module.Loader
	filePath   string
	exportName string
	withOutlet bool

	once    sync.Once
	req     *module.Required
	mu      sync.Mutex
	loaded  bool
	closed  bool
	current *Dispatcher[module.Results]

	// setMu orders the first load against refreshes so an older version
	// never replaces a newer one.
	setMu sync.Mutex
}

// NewLazy returns a component for exportName of filePath. With withOutlet set
// the export is rendered as a layout around the child route.
func NewLazy(loader module.Loader, filePath, exportName string, withOutlet bool) *LazyComponent {
	return &LazyComponent{
		loader:     loader,
		filePath:   filePath,
		exportName: exportName,
		withOutlet: withOutlet,
		current:    NewDispatcher(module.Results{}),
	}
}

// Subscribe calls fn with every module version this component renders from,
// the first load included.
func (c *LazyComponent) Subscribe(fn func(module.Results)) func() {
	return c.current.Subscribe(fn)
}

// Close releases the module change subscription. Renders after Close keep
// using the last loaded module.
func (c *LazyComponent) Close() {
	c.mu.Lock()
	c.closed = true
	req := c.req
	c.mu.Unlock()

	if req != nil {
		req.Dispose()
	}
}

func (c *LazyComponent) refresh(results module.Results) {
	c.setMu.Lock()
	defer c.setMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.loaded = true
	c.mu.Unlock()

	logger.Debug("Refreshing %s export %s", c.filePath, c.exportName)
	c.current.Set(results)
}

// results waits for the first load of the module.
func (c *LazyComponent) results(ctx context.Context) (module.Results, error) {
	c.once.Do(func() {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()

		var onChange func(module.Results)
		if !closed {
			onChange = c.refresh
		}
		req := c.loader.Require(c.filePath, onChange)

		c.mu.Lock()
		c.req = req
		c.mu.Unlock()
		if closed {
			req.Dispose()
		}
	})

	c.mu.Lock()
	req, loaded := c.req, c.loaded
	c.mu.Unlock()
	if loaded {
		return c.current.Get(), nil
	}

	first, err := req.Wait(ctx)
	if err != nil {
		return module.Results{}, err
	}

	c.setMu.Lock()
	defer c.setMu.Unlock()

	c.mu.Lock()
	if c.loaded {
		c.mu.Unlock()
		return c.current.Get(), nil
	}
	c.loaded = true
	c.mu.Unlock()

	c.current.Set(first)
	return first, nil
}

func (c *LazyComponent) Render(ctx context.Context, w io.Writer, data any, outlet Outlet) error {
	results, err := c.results(ctx)
	if err != nil {
		return err
	}

	if results.ErrorMessage != "" {
		_, err := fmt.Fprintf(w, "<div>%s</div>", html.EscapeString(results.ErrorMessage))
		return err
	}

	export, ok := results.Export(c.exportName)
	if !ok || export == nil {
		_, err := fmt.Fprintf(w, "<div>%s export not found at %s </div>",
			html.EscapeString(c.exportName), html.EscapeString(c.filePath))
		return err
	}

	if outlet == nil || !c.withOutlet {
		outlet = noOutlet
	}

	switch fn := export.(type) {
	case PageFunc:
		return fn(w, data)
	case LayoutFunc:
		return fn(w, data, outlet)
	default:
		_, err := fmt.Fprintf(w, "<div>%s export at %s has unsupported type %s</div>",
			html.EscapeString(c.exportName), html.EscapeString(c.filePath),
			html.EscapeString(fmt.Sprintf("%T", export)))
		return err
	}
}
