package router

import (
	"net/http"
	"sync"

	"github.com/tristendillon/appdef/core/cache"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/models"
)

// Assembler builds routers from manifests and keeps the last one. Asking again
// with the same manifest and cache returns the same router.
type Assembler struct {
	Options Options

	mu       sync.Mutex
	manifest *models.Manifest
	cache    *cache.ModuleCache
	router   http.Handler
	builds   int
}

func NewAssembler(opts Options) *Assembler {
	return &Assembler{Options: opts}
}

func (a *Assembler) Assemble(m *models.Manifest, mc *cache.ModuleCache) http.Handler {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.router != nil && a.manifest == m && a.cache == mc {
		return a.router
	}

	opts := a.Options.withDefaults()
	routes := manifestToRoutes(m, mc, opts.ErrorPath)
	a.router = NewRouter(routes, opts)
	a.manifest = m
	a.cache = mc
	a.builds++

	logger.Debug("Assembled router for manifest %s with %d routes", m.Version, len(routes))
	return a.router
}

// Builds reports how many routers were built.
func (a *Assembler) Builds() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.builds
}
