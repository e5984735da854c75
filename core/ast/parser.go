package ast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strconv"

	"github.com/tristendillon/appdef/core/logger"
)

// ModuleInfo lists what a page or layout module exports.
type ModuleInfo struct {
	Path        string
	PackageName string
	Exports     []string
	Imports     []string
}

// HasExport reports whether name is among the module's exports.
func (m *ModuleInfo) HasExport(name string) bool {
	for _, e := range m.Exports {
		if e == name {
			return true
		}
	}
	return false
}

func ExtractModuleInfo(file *ast.File) *ModuleInfo {
	info := &ModuleInfo{
		PackageName: file.Name.Name,
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil || !d.Name.IsExported() {
				continue
			}
			info.Exports = append(info.Exports, d.Name.Name)
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.IsExported() {
						info.Exports = append(info.Exports, ident.Name)
					}
				}
			}
		}
	}

	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			path = imp.Path.Value
		}
		info.Imports = append(info.Imports, path)
	}

	return info
}

// ParseSource scans module source without evaluating it.
func ParseSource(path string, src []byte) (*ModuleInfo, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.AllErrors)
	if err != nil {
		return nil, err
	}

	info := ExtractModuleInfo(f)
	info.Path = path
	logger.Debug("Parsed %s: package %s exports %v", path, info.PackageName, info.Exports)
	return info, nil
}

func ParseModule(path string) (*ModuleInfo, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", path, err)
	}
	return ParseSource(path, src)
}
