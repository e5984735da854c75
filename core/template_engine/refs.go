package template_engine

type pageTemplates struct {
	STATIC TemplateRef
	LOADER TemplateRef
}

type initTemplates struct {
	Ref TemplateRef
}

type templateRefs struct {
	PAGE pageTemplates
	INIT initTemplates
}

// TEMPLATES lists the templates embedded in TemplateFS.
var TEMPLATES = templateRefs{
	PAGE: pageTemplates{
		STATIC: TemplateRef{Path: "page/static.go.tmpl"},
		LOADER: TemplateRef{Path: "page/loader.go.tmpl"},
	},
	INIT: initTemplates{
		Ref: TemplateRef{Path: "init", IsDir: true},
	},
}
