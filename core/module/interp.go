package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/tristendillon/appdef/core/ast"
	"github.com/tristendillon/appdef/core/cache/layers"
	"github.com/tristendillon/appdef/core/cache/models"
	"github.com/tristendillon/appdef/core/dependency"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/metrics"
	"github.com/tristendillon/appdef/core/watcher"
	"golang.org/x/sync/singleflight"
)

// InterpLoader evaluates module files with the yaegi interpreter. Each file
// gets its own interpreter with the standard library available. Required
// files are watched and re-evaluated when their content changes.
type InterpLoader struct {
	mu      sync.Mutex
	loaded  map[string]Results
	subs    *subscribers
	group   singleflight.Group
	content *layers.ContentCache
	watcher *watcher.FileWatcherImpl
	metrics *metrics.Metrics
}

func NewInterpLoader(m *metrics.Metrics) (*InterpLoader, error) {
	fw, err := watcher.NewFileWatcher(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create module watcher: %w", err)
	}

	l := &InterpLoader{
		loaded:  make(map[string]Results),
		subs:    newSubscribers(),
		content: layers.NewContentCache(),
		watcher: fw,
		metrics: m,
	}
	fw.FileWatcher.AddOnChangeFunc(l.handleEvent)

	if err := fw.Start(); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to start module watcher: %w", err)
	}
	return l, nil
}

func (l *InterpLoader) Require(filePath string, onChange func(Results)) *Required {
	filePath = filepath.Clean(filePath)

	if err := l.watcher.Add(filepath.Dir(filePath)); err != nil {
		logger.Warn("Module %s will not hot reload: %v", filePath, err)
	}

	req, resolve := NewRequired(l.subs.add(filePath, onChange))

	l.mu.Lock()
	results, ok := l.loaded[filePath]
	l.mu.Unlock()
	if ok {
		resolve(results, nil)
		return req
	}

	go func() {
		resolve(l.load(filePath), nil)
	}()
	return req
}

// load returns the cached results for filePath or evaluates it. Concurrent
// loads of one file share a single evaluation.
func (l *InterpLoader) load(filePath string) Results {
	v, _, _ := l.group.Do(filePath, func() (any, error) {
		l.mu.Lock()
		if results, ok := l.loaded[filePath]; ok {
			l.mu.Unlock()
			return results, nil
		}
		l.mu.Unlock()

		if _, _, err := l.content.UpdateContent(filePath); err != nil {
			logger.Debug("Failed to record content of %s: %v", filePath, err)
		}
		results := Evaluate(filePath)
		l.metrics.ModuleLoaded(results.ErrorMessage == "")

		l.mu.Lock()
		l.loaded[filePath] = results
		l.mu.Unlock()
		return results, nil
	})
	return v.(Results)
}

func (l *InterpLoader) handleEvent(event fsnotify.Event) error {
	filePath := filepath.Clean(event.Name)

	l.mu.Lock()
	_, known := l.loaded[filePath]
	l.mu.Unlock()
	if !known && l.subs.count(filePath) == 0 {
		return nil
	}

	_, changed, err := l.content.UpdateContent(filePath)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", filePath, err)
	}
	if !changed {
		logger.Debug("Ignoring %s on %s: content unchanged", event.Op, filePath)
		return nil
	}

	l.mu.Lock()
	delete(l.loaded, filePath)
	l.mu.Unlock()
	l.group.Forget(filePath)

	results := l.load(filePath)
	l.metrics.ModuleReloaded()
	logger.Info("Reloaded module %s", filePath)
	l.subs.notify(filePath, results)
	return nil
}

// ContentStats reports how often file events were checked against the
// recorded module contents.
func (l *InterpLoader) ContentStats() *models.CacheStats {
	return l.content.GetStats()
}

// Close stops watching module files.
func (l *InterpLoader) Close() error {
	return l.watcher.Close()
}

// Evaluate interprets one module file and collects its exported functions and
// variables. Every failure is reported through ErrorMessage.
func Evaluate(filePath string) (results Results) {
	defer func() {
		if r := recover(); r != nil {
			results = Results{ErrorMessage: fmt.Sprintf("failed to evaluate %s: %v", filePath, r)}
		}
	}()

	src, err := os.ReadFile(filePath)
	if err != nil {
		return Results{ErrorMessage: fmt.Sprintf("failed to read module %s: %v", filePath, err)}
	}
	return EvaluateSource(filePath, src)
}

// EvaluateSource is Evaluate for source already in memory.
func EvaluateSource(filePath string, src []byte) Results {
	info, err := ast.ParseSource(filePath, src)
	if err != nil {
		return Results{ErrorMessage: err.Error()}
	}
	if missing := dependency.UnsupportedImports(info); len(missing) > 0 {
		return Results{ErrorMessage: fmt.Sprintf("%s imports packages unavailable to pages: %s",
			filePath, strings.Join(missing, ", "))}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return Results{ErrorMessage: fmt.Sprintf("failed to load stdlib symbols: %v", err)}
	}
	if _, err := i.Eval(string(src)); err != nil {
		return Results{ErrorMessage: fmt.Sprintf("failed to evaluate %s: %v", filePath, err)}
	}

	exports := make(map[string]any, len(info.Exports))
	for _, name := range info.Exports {
		v, err := i.Eval(info.PackageName + "." + name)
		if err != nil {
			logger.Debug("Skipping export %s of %s: %v", name, filePath, err)
			continue
		}
		if !v.IsValid() || !v.CanInterface() {
			continue
		}
		exports[name] = v.Interface()
	}

	logger.Debug("Evaluated %s with exports %v", filePath, info.Exports)
	return Results{Exports: exports}
}
