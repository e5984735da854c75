package template_engine

import "embed"

//go:embed all:templates
var TemplateFS embed.FS
