// Package template_engine renders the templates embedded under templates/:
// page scaffolds and the starter app written by init.
package template_engine

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/shared"
)

type TemplateRef struct {
	Path  string
	IsDir bool
}

func (tr TemplateRef) IsFile() bool {
	return !tr.IsDir
}

func (tr TemplateRef) IsDirectory() bool {
	return tr.IsDir
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     shared.ToTitle,
		"camel":     shared.ToCamelCase,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,
		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
	}
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: getDefaultFuncMap()}
}

// templatePath joins embedded paths with forward slashes on every platform.
func templatePath(rel string) string {
	return path.Join("templates", rel)
}

func (te *TemplateEngine) parse(name string, content []byte) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(te.funcMap).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return tmpl, nil
}

// RenderString executes a file template and returns the output.
func (te *TemplateEngine) RenderString(templateRef TemplateRef, data interface{}) (string, error) {
	if templateRef.IsDirectory() {
		return "", fmt.Errorf("cannot render directory reference: %s", templateRef.Path)
	}

	content, err := TemplateFS.ReadFile(templatePath(templateRef.Path))
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", templateRef.Path, err)
	}

	tmpl, err := te.parse(path.Base(templateRef.Path), content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateRef.Path, err)
	}
	return buf.String(), nil
}

// GenerateFolder writes every file under a directory template into outputDir.
// Files ending in .tmpl are executed and lose the suffix; others are copied.
func (te *TemplateEngine) GenerateFolder(templateRef TemplateRef, outputDir string, data interface{}) error {
	if templateRef.IsFile() {
		return fmt.Errorf("cannot generate folder from file reference: %s", templateRef.Path)
	}

	templateDir := templatePath(templateRef.Path)
	logger.Debug("Generating folder from template reference: %s", templateDir)

	return fs.WalkDir(TemplateFS, templateDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == templateDir {
			return nil
		}

		relPath := strings.TrimPrefix(p, templateDir+"/")
		outputPath := filepath.Join(outputDir, filepath.FromSlash(relPath))

		if d.IsDir() {
			return os.MkdirAll(outputPath, os.ModePerm)
		}

		logger.Debug("Generating file from path: %s", p)
		return te.generateFileFromPath(p, outputPath, data)
	})
}

func (te *TemplateEngine) generateFileFromPath(templatePath, outputPath string, data interface{}) error {
	content, err := TemplateFS.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", templatePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if !strings.HasSuffix(templatePath, ".tmpl") {
		return os.WriteFile(outputPath, content, 0644)
	}

	outputPath = strings.TrimSuffix(outputPath, ".tmpl")

	tmpl, err := te.parse(path.Base(templatePath), content)
	if err != nil {
		return err
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer outputFile.Close()

	if err := tmpl.Execute(outputFile, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	return nil
}

// ListTemplates returns the embedded files under a reference, relative to the
// templates root.
func (te *TemplateEngine) ListTemplates(templateRef TemplateRef) ([]string, error) {
	if templateRef.IsFile() {
		return []string{templateRef.Path}, nil
	}

	var templates []string
	err := fs.WalkDir(TemplateFS, templatePath(templateRef.Path), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			templates = append(templates, strings.TrimPrefix(p, "templates/"))
		}
		return nil
	})

	return templates, err
}

func (te *TemplateEngine) ValidateTemplate(templateRef TemplateRef) error {
	info, err := fs.Stat(TemplateFS, templatePath(templateRef.Path))
	if err != nil {
		return fmt.Errorf("template not found: %s", templateRef.Path)
	}

	if info.IsDir() != templateRef.IsDirectory() {
		return fmt.Errorf("template reference type mismatch for %s: expected dir=%t, got dir=%t",
			templateRef.Path, templateRef.IsDirectory(), info.IsDir())
	}

	return nil
}
