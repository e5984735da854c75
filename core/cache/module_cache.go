// Package cache keeps one component and loader pair per module export, so
// rebuilding the router never re-requires a module that is already loaded.
package cache

import (
	"sync"
	"time"

	"github.com/tristendillon/appdef/core/cache/models"
	"github.com/tristendillon/appdef/core/component"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/metrics"
	"github.com/tristendillon/appdef/core/module"
)

// Entry is the component and loader built for one module export.
type Entry struct {
	Component *component.LazyComponent
	Loader    component.Loader
}

// Refresh is published when a cached component picks up a reloaded module.
type Refresh struct {
	FilePath   string
	ExportName string
	Results    module.Results
}

// ModuleCache maps "filePath:exportName" to an Entry. It is bound to one
// module loader for its whole life.
type ModuleCache struct {
	loader  module.Loader
	metrics *metrics.Metrics

	mutex     sync.Mutex
	entries   map[string]*Entry
	stats     models.CacheStats
	refreshes *component.Dispatcher[Refresh]
}

func NewModuleCache(loader module.Loader, m *metrics.Metrics) *ModuleCache {
	return &ModuleCache{
		loader:    loader,
		metrics:   m,
		entries:   make(map[string]*Entry),
		refreshes: component.NewDispatcher(Refresh{}),
	}
}

// Loader returns the module loader the cache is bound to.
func (mc *ModuleCache) Loader() module.Loader {
	return mc.loader
}

// Get returns the entry for filePath and exportName, building it on first use.
// The key ignores wrapWithOutlet: the first caller decides how the export is
// rendered.
func (mc *ModuleCache) Get(filePath, exportName string, wrapWithOutlet bool) *Entry {
	key := filePath + ":" + exportName

	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if entry, ok := mc.entries[key]; ok {
		mc.stats.Hits++
		mc.metrics.CacheHit()
		return entry
	}

	mc.stats.Misses++
	mc.metrics.CacheMiss()
	logger.Debug("ModuleCache: Creating entry for %s", key)

	lazy := component.NewLazy(mc.loader, filePath, exportName, wrapWithOutlet)
	lazy.Subscribe(func(results module.Results) {
		mc.refreshes.Set(Refresh{FilePath: filePath, ExportName: exportName, Results: results})
	})

	entry := &Entry{
		Component: lazy,
		Loader:    component.NewLoader(mc.loader, filePath),
	}
	mc.entries[key] = entry
	return entry
}

// Subscribe calls fn whenever any cached component renders from a new module
// version.
func (mc *ModuleCache) Subscribe(fn func(Refresh)) func() {
	return mc.refreshes.Subscribe(fn)
}

func (mc *ModuleCache) GetStats() *models.CacheStats {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	stats := mc.stats
	stats.TotalEntries = len(mc.entries)
	stats.LastUpdate = time.Now()
	stats.CalculateHitRate()
	return &stats
}

// Close releases every module subscription and empties the cache.
func (mc *ModuleCache) Close() {
	mc.mutex.Lock()
	entries := mc.entries
	mc.entries = make(map[string]*Entry)
	mc.stats.Invalidations += int64(len(entries))
	mc.mutex.Unlock()

	for _, entry := range entries {
		entry.Component.Close()
	}
}
