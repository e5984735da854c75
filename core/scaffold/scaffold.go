// Package scaffold proposes the file and source for a new page. It never
// writes anything; callers decide what to do with a valid proposal.
package scaffold

import (
	"fmt"
	"go/format"
	"go/token"
	"path/filepath"

	"github.com/tristendillon/appdef/core/config"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/models"
	"github.com/tristendillon/appdef/core/shared"
	"github.com/tristendillon/appdef/core/template_engine"
)

type Proposal struct {
	IsValid           bool   `json:"isValid"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
	PageModule        string `json:"pageModule"`
	NewPageSourceCode string `json:"newPageSourceCode"`
}

type Scaffolder struct {
	Routes config.Routes
	Engine *template_engine.TemplateEngine
}

func NewScaffolder(routes config.Routes) *Scaffolder {
	return &Scaffolder{Routes: routes, Engine: template_engine.NewTemplateEngine()}
}

// Propose scaffolds wanted with the default route options.
func Propose(manifest *models.Manifest, routeDir string, wanted []models.Segment) Proposal {
	return NewScaffolder(config.DefaultRoutes()).Propose(manifest, routeDir, wanted)
}

// Propose returns where a page for wanted would live and its starting source.
// The proposal is invalid when the home route, the path, or the file name is
// already taken.
func (s *Scaffolder) Propose(manifest *models.Manifest, routeDir string, wanted []models.Segment) Proposal {
	if len(wanted) == 0 && manifest.HomeRoute != nil {
		return invalid("Home route already exists at "+manifest.HomeRoute.PageModule, manifest.HomeRoute.PageModule)
	}

	wantedID := shared.RoutePathID(wanted)
	for _, route := range manifest.Routes {
		if shared.RoutePathID(route.Path) == wantedID {
			return invalid("Route already exists at file path: "+route.PageModule, route.PageModule)
		}
	}

	params := make([]string, 0, len(wanted))
	seen := map[string]bool{}
	for _, seg := range wanted {
		if err := shared.ValidateSegment(seg); err != nil {
			return invalid(err.Error(), "")
		}
		if !seg.IsDynamic() {
			continue
		}
		if seen[seg.Name] {
			return invalid(fmt.Sprintf("Parameter %s appears more than once", seg.Name), "")
		}
		seen[seg.Name] = true
		params = append(params, seg.Name)
	}

	fileName := shared.PageFileName(wanted)
	pageModule := filepath.Join(routeDir, fileName+s.Routes.Extension)

	if fileName == s.Routes.ErrorName {
		return invalid(fmt.Sprintf("%s is reserved for the error route", fileName+s.Routes.Extension), pageModule)
	}

	source, err := s.render(fileName, params)
	if err != nil {
		logger.Error("Failed to scaffold %s: %v", pageModule, err)
		return invalid(err.Error(), pageModule)
	}

	return Proposal{
		IsValid:           true,
		PageModule:        pageModule,
		NewPageSourceCode: source,
	}
}

func invalid(message, pageModule string) Proposal {
	return Proposal{ErrorMessage: message, PageModule: pageModule}
}

type pageData struct {
	Package    string
	PageName   string
	PageExport string
	FileName   string
	Params     []string
}

// reserved are names the page templates declare or import.
var reserved = map[string]bool{
	"fmt": true, "html": true, "io": true, "any": true, "error": true, "string": true,
}

func pageIdentifier(fileName string) string {
	name := shared.ToCamelCase(fileName)
	if token.IsKeyword(name) || reserved[name] {
		return name + "Page"
	}
	return name
}

func (s *Scaffolder) render(fileName string, params []string) (string, error) {
	data := pageData{
		Package:    "routes",
		PageName:   pageIdentifier(fileName),
		PageExport: s.Routes.PageExport,
		FileName:   fileName,
		Params:     params,
	}

	ref := template_engine.TEMPLATES.PAGE.STATIC
	if len(params) > 0 {
		ref = template_engine.TEMPLATES.PAGE.LOADER
	}

	source, err := s.Engine.RenderString(ref, data)
	if err != nil {
		return "", fmt.Errorf("failed to render page template: %w", err)
	}

	formatted, err := format.Source([]byte(source))
	if err != nil {
		return "", fmt.Errorf("failed to format page source: %w", err)
	}
	return string(formatted), nil
}
