// Package manifest computes route manifests from the routes directory and
// keeps them current while the directory changes.
package manifest

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/metrics"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/walker"
	"github.com/tristendillon/appdef/core/watcher"
)

type Compiler struct {
	Walker walker.RouteWalker
	// Dir is the directory watched by Prepare.
	Dir      string
	Debounce time.Duration
	Metrics  *metrics.Metrics

	now func() time.Time
}

func NewCompiler(cfg *config.Config, m *metrics.Metrics) *Compiler {
	return &Compiler{
		Walker:   walker.NewRouteWalker(cfg),
		Dir:      cfg.RoutesDir(),
		Debounce: cfg.Watch.Debounce,
		Metrics:  m,
		now:      time.Now,
	}
}

// Compute scans the routes directory into a fresh manifest.
func (c *Compiler) Compute() (*models.Manifest, error) {
	scan, err := c.Walker.Walk()
	if err != nil {
		return nil, fmt.Errorf("failed to compute manifest: %w", err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	m := &models.Manifest{
		Version:    uuid.NewString(),
		ComputedAt: now(),
		Routes:     scan.Routes,
		HomeRoute:  scan.HomeRoute,
		ErrorRoute: scan.ErrorRoute,
	}
	if m.Routes == nil {
		m.Routes = []models.RouteInfo{}
	}

	total := len(m.Routes)
	if m.HomeRoute != nil {
		total++
	}
	if m.ErrorRoute != nil {
		total++
	}
	c.Metrics.ManifestComputed(total)
	logger.Debug("Computed manifest %s with %d routes", m.Version, total)
	return m, nil
}

// Prepared is a computed manifest plus the watch keeping it current.
type Prepared struct {
	Manifest *models.Manifest

	once    sync.Once
	watcher watcher.FileWatcher
}

// Dispose stops the directory watch. No update is delivered after it returns.
func (p *Prepared) Dispose() error {
	var err error
	p.once.Do(func() {
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}

// Prepare computes the first manifest and watches the routes directory. Every
// change notification recomputes the manifest and hands the full replacement
// to onUpdate. A failed recompute is logged and skipped.
func (c *Compiler) Prepare(onUpdate func(*models.Manifest)) (*Prepared, error) {
	first, err := c.Compute()
	if err != nil {
		return nil, err
	}

	fw, err := watcher.NewFileWatcher([]string{c.Dir}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to watch routes directory: %w", err)
	}
	fw.FileWatcher.Debounce = c.Debounce
	fw.FileWatcher.AddOnChangeFunc(c.changeHandler(onUpdate))

	if err := fw.Start(); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to start routes watcher: %w", err)
	}

	logger.Info("Watching %s for route changes", c.Dir)
	return &Prepared{Manifest: first, watcher: fw}, nil
}

func (c *Compiler) changeHandler(onUpdate func(*models.Manifest)) func(fsnotify.Event) error {
	return func(event fsnotify.Event) error {
		m, err := c.Compute()
		if err != nil {
			return err
		}
		logger.Info("Routes changed (%s %s), manifest %s", event.Op, event.Name, m.Version)
		onUpdate(m)
		return nil
	}
}
