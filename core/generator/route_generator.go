package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/appdef/core/ast"
	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/dependency"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/manifest"
	"github.com/tristendillon/appdef/core/models"
)

// Problem is something wrong with one module of the app.
type Problem struct {
	Module  string `json:"module"`
	Message string `json:"message"`
}

type RouteGenerator struct {
	Config   *config.Config
	Compiler *manifest.Compiler
}

func NewRouteGenerator(cfg *config.Config) *RouteGenerator {
	return &RouteGenerator{Config: cfg, Compiler: manifest.NewCompiler(cfg, nil)}
}

// GenerateRouteTree computes the manifest and prints its route tree.
func (rg *RouteGenerator) GenerateRouteTree(logLevel logger.LogLevel) (*models.Manifest, error) {
	m, err := rg.Compiler.Compute()
	if err != nil {
		return nil, err
	}
	models.NewRouteTree(m).PrintTree(logLevel)
	return m, nil
}

// Check parses every module m refers to, without evaluating any, and reports
// missing exports and imports pages cannot use.
func (rg *RouteGenerator) Check(m *models.Manifest) []Problem {
	var problems []Problem
	checked := map[string]bool{}

	check := func(module, export string) {
		key := module + ":" + export
		if checked[key] {
			return
		}
		checked[key] = true

		info, err := ast.ParseModule(module)
		if err != nil {
			problems = append(problems, Problem{Module: module, Message: err.Error()})
			return
		}
		if !info.HasExport(export) {
			problems = append(problems, Problem{Module: module, Message: fmt.Sprintf("%s export not found", export)})
		}
		for _, imp := range dependency.UnsupportedImports(info) {
			problems = append(problems, Problem{Module: module, Message: fmt.Sprintf("import %s is unavailable to pages", imp)})
		}
	}

	pages := append([]models.RouteInfo{}, m.Routes...)
	for _, r := range []*models.RouteInfo{m.HomeRoute, m.ErrorRoute} {
		if r != nil {
			pages = append(pages, *r)
		}
	}
	for _, page := range pages {
		for _, layout := range page.ParentLayouts {
			check(layout.LayoutModule, layout.LayoutExportName)
		}
		check(page.PageModule, page.PageExportName)
	}
	return problems
}

// WriteManifest writes m as JSON to outputPath. The file is left alone when
// its content would not change, so watchers of it stay quiet.
func (rg *RouteGenerator) WriteManifest(m *models.Manifest, outputPath string) (bool, error) {
	// Version and ComputedAt change on every compute and are left out.
	data, err := json.MarshalIndent(struct {
		Routes     []models.RouteInfo `json:"routes"`
		HomeRoute  *models.RouteInfo  `json:"homeRoute,omitempty"`
		ErrorRoute *models.RouteInfo  `json:"errorRoute,omitempty"`
	}{m.Routes, m.HomeRoute, m.ErrorRoute}, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode manifest: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(outputPath); err == nil && bytes.Equal(existing, data) {
		logger.Debug("Manifest at %s is up to date", outputPath)
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write manifest %s: %w", outputPath, err)
	}
	logger.Info("Wrote manifest with %d routes to %s", len(m.Routes), outputPath)
	return true, nil
}
