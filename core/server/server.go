// Package server runs the development server: the assembled app router plus
// the endpoints editors use to follow manifest and module changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tristendillon/appdef/core/cache"
	cachemodels "github.com/tristendillon/appdef/core/cache/models"
	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/manifest"
	"github.com/tristendillon/appdef/core/metrics"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/module"
	"github.com/tristendillon/appdef/core/router"
	"github.com/tristendillon/appdef/core/scaffold"
	"github.com/tristendillon/appdef/core/shared"
)

const apiPrefix = "/__appdef"

type Server struct {
	Config    *config.Config
	Cache     *cache.ModuleCache
	Compiler  *manifest.Compiler
	Assembler *router.Assembler
	Hub       *Hub
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics

	scaffolder *scaffold.Scaffolder
	manifest   atomic.Pointer[models.Manifest]
	app        atomic.Value
	uri        atomic.Value
	prepared   *manifest.Prepared
	unsub      func()
	closeOnce  sync.Once
}

// NewMetrics returns the registry the server exposes on /metrics and, when
// metrics are enabled, the collectors registered on it.
func NewMetrics(cfg *config.Config) (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	if !cfg.Metrics.Enabled {
		return reg, nil
	}
	return reg, metrics.New(reg, cfg.Metrics.Namespace)
}

func NewServer(cfg *config.Config, loader module.Loader, reg *prometheus.Registry, m *metrics.Metrics) *Server {
	s := &Server{
		Config:     cfg,
		Cache:      cache.NewModuleCache(loader, m),
		Compiler:   manifest.NewCompiler(cfg, m),
		Hub:        NewHub(),
		Registry:   reg,
		Metrics:    m,
		scaffolder: scaffold.NewScaffolder(cfg.Routes),
	}
	s.Assembler = router.NewAssembler(router.Options{
		ErrorPath:  cfg.Routes.ErrorPath,
		OnNavigate: s.setURI,
		Metrics:    m,
	})
	s.uri.Store("")
	return s
}

// Prepare computes the first manifest, assembles its router and starts
// watching the routes directory.
func (s *Server) Prepare() error {
	prepared, err := s.Compiler.Prepare(s.update)
	if err != nil {
		return fmt.Errorf("failed to prepare app: %w", err)
	}
	s.prepared = prepared
	s.unsub = s.Cache.Subscribe(func(r cache.Refresh) {
		s.Hub.Broadcast(Message{Type: MessageModule, File: r.FilePath, Error: r.Results.ErrorMessage})
	})
	s.install(prepared.Manifest)
	return nil
}

func (s *Server) install(m *models.Manifest) {
	s.manifest.Store(m)
	s.app.Store(s.Assembler.Assemble(m, s.Cache))
	models.NewRouteTree(m).PrintTree(logger.DEBUG)
}

// update swaps in a recomputed manifest and tells editors about it.
func (s *Server) update(m *models.Manifest) {
	s.install(m)
	logger.Info("Manifest updated: %d routes", len(m.Routes))
	s.Hub.Broadcast(Message{Type: MessageManifest, Version: m.Version})
}

func (s *Server) setURI(uri string) {
	s.uri.Store(uri)
	s.Hub.Broadcast(Message{Type: MessageNavigate, URI: &uri})
}

// Manifest returns the current manifest snapshot.
func (s *Server) Manifest() *models.Manifest {
	return s.manifest.Load()
}

// URI returns the path of the last page served, without its leading slash.
func (s *Server) URI() string {
	return s.uri.Load().(string)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/manifest", s.handleManifest)
		r.Get("/stats", s.handleStats)
		r.Post("/pages", s.handleNewPage)
		r.Get("/ws", s.Hub.HandleWebSocket)
	})
	if s.Config.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))
	}
	r.Handle("/*", http.HandlerFunc(s.serveApp))
	return r
}

func (s *Server) serveApp(w http.ResponseWriter, r *http.Request) {
	app, ok := s.app.Load().(http.Handler)
	if !ok {
		http.Error(w, "app is not prepared", http.StatusServiceUnavailable)
		return
	}
	app.ServeHTTP(w, r)
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	m := s.Manifest()
	if m == nil {
		http.Error(w, "app is not prepared", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// contentStatser is implemented by loaders that gate reloads on file content.
type contentStatser interface {
	ContentStats() *cachemodels.CacheStats
}

type statsResponse struct {
	Components *cachemodels.CacheStats `json:"components"`
	Modules    *cachemodels.CacheStats `json:"modules,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Components: s.Cache.GetStats()}
	if cs, ok := s.Cache.Loader().(contentStatser); ok {
		resp.Modules = cs.ContentStats()
	}
	writeJSON(w, http.StatusOK, resp)
}

type newPageRequest struct {
	// Path is a route path such as "/product/:slug" or "product.$slug".
	Path string `json:"path"`
	// Write creates the file when the proposal is valid.
	Write bool `json:"write"`
}

func (s *Server) handleNewPage(w http.ResponseWriter, r *http.Request) {
	m := s.Manifest()
	if m == nil {
		http.Error(w, "app is not prepared", http.StatusServiceUnavailable)
		return
	}

	var req newPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	wanted, err := shared.ParseRoutePath(req.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	proposal := s.scaffolder.Propose(m, s.Config.RoutesDir(), wanted)
	if !proposal.IsValid {
		writeJSON(w, http.StatusConflict, proposal)
		return
	}

	if req.Write {
		if err := WritePage(proposal); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		logger.Info("Created page %s", proposal.PageModule)
	}
	writeJSON(w, http.StatusOK, proposal)
}

// WritePage creates the file of a valid proposal. It refuses to overwrite.
func WritePage(p scaffold.Proposal) error {
	if !p.IsValid {
		return fmt.Errorf("cannot write invalid proposal: %s", p.ErrorMessage)
	}
	f, err := os.OpenFile(p.PageModule, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create page %s: %w", p.PageModule, err)
	}
	if _, err := f.WriteString(p.NewPageSourceCode); err != nil {
		f.Close()
		return fmt.Errorf("failed to write page %s: %w", p.PageModule, err)
	}
	return f.Close()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response: %v", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

// Start prepares the app and serves it until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Prepare(); err != nil {
		return err
	}
	defer s.Close()

	srv := &http.Server{
		Addr:              s.Config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("Starting server on http://%s", s.Config.Address())

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	}
}

// Close stops the routes watch and releases every module subscription.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.unsub != nil {
			s.unsub()
		}
		if s.prepared != nil {
			err = s.prepared.Dispose()
		}
		s.Cache.Close()
		s.Hub.Close()
	})
	return err
}
