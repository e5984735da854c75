package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/shared"
)

type RouteWalker interface {
	Walk() (*Scan, error)
}

// Scan is everything one pass over the routes directory found.
type Scan struct {
	Routes     []models.RouteInfo
	HomeRoute  *models.RouteInfo
	ErrorRoute *models.RouteInfo
}

// RouteWalkerImpl lists the page files at the top of the routes directory.
// Subdirectories are not descended into.
type RouteWalkerImpl struct {
	// FS is rooted at the routes directory.
	FS fs.FS
	// Dir prefixes the file names recorded as page modules.
	Dir        string
	RootLayout string
	Options    config.Routes
}

func NewRouteWalker(cfg *config.Config) *RouteWalkerImpl {
	dir := cfg.RoutesDir()
	return &RouteWalkerImpl{
		FS:         os.DirFS(dir),
		Dir:        dir,
		RootLayout: cfg.RootLayoutPath(),
		Options:    cfg.Routes,
	}
}

func (w *RouteWalkerImpl) Walk() (*Scan, error) {
	entries, err := fs.ReadDir(w.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read routes directory %s: %w", w.Dir, err)
	}

	scan := &Scan{}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, w.Options.Extension) || !w.isFile(entry) {
			continue
		}
		if strings.HasSuffix(name, "_test.go") {
			continue
		}

		fullPath := filepath.Join(w.Dir, name)
		base := strings.TrimSuffix(name, w.Options.Extension)

		switch base {
		case w.Options.IndexName:
			home := w.route(nil, fullPath, []string{})
			scan.HomeRoute = &home
			logger.Debug("Registered home route: %s", fullPath)
			continue
		case w.Options.ErrorName:
			errRoute := w.route(nil, fullPath, []string{})
			scan.ErrorRoute = &errRoute
			logger.Debug("Registered error route: %s", fullPath)
			continue
		}

		path := w.segments(base)
		scan.Routes = append(scan.Routes, w.route(path, fullPath, []string{w.RootLayout, fullPath}))
		logger.Debug("Registered route: %s -> %s", fullPath, shared.FormatRoutePath(path))
	}

	// ReadDir already sorts by name, the stable sort keeps that order per depth
	models.SortRoutes(scan.Routes)
	return scan, nil
}

// isFile follows symlinks, so a linked page file counts as a page.
func (w *RouteWalkerImpl) isFile(entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := fs.Stat(w.FS, entry.Name())
	if err != nil {
		logger.Debug("Skipping %s: %v", entry.Name(), err)
		return false
	}
	return info.Mode().IsRegular()
}

// segments splits a page file name into its path. "$x" parts are dynamic and
// index parts are dropped.
func (w *RouteWalkerImpl) segments(base string) []models.Segment {
	path := []models.Segment{}
	for _, part := range strings.Split(base, ".") {
		switch {
		case strings.HasPrefix(part, shared.DynamicMarker):
			path = append(path, models.Dynamic(strings.TrimPrefix(part, shared.DynamicMarker)))
		case part == w.Options.IndexName:
		default:
			path = append(path, models.Static(part))
		}
	}
	return path
}

func (w *RouteWalkerImpl) route(path []models.Segment, pageModule string, rendered []string) models.RouteInfo {
	if path == nil {
		path = []models.Segment{}
	}
	return models.RouteInfo{
		Path: path,
		PageInfo: models.PageInfo{
			PageModule:     pageModule,
			PageExportName: w.Options.PageExport,
			ParentLayouts: []models.LayoutInfo{{
				LayoutModule:     w.RootLayout,
				LayoutExportName: w.Options.LayoutExport,
			}},
			ExtraData: models.ExtraData{RenderedRoutes: rendered},
		},
	}
}
