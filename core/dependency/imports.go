// Package dependency checks what page modules import. Modules run in the
// interpreter with only the standard library available, so anything else
// has to be reported before evaluation.
package dependency

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/stdlib"
	"github.com/tristendillon/appdef/core/ast"
)

// Available reports whether importPath can be resolved by the interpreter.
func Available(importPath string) bool {
	_, ok := stdlib.Symbols[importPath+"/"+packageName(importPath)]
	return ok
}

// packageName is the default name of the package at importPath. A trailing
// major version element such as "/v2" is not the name.
func packageName(importPath string) string {
	base := path.Base(importPath)
	if dir := path.Dir(importPath); dir != "." && isMajorVersion(base) {
		return path.Base(dir)
	}
	return base
}

func isMajorVersion(elem string) bool {
	if !strings.HasPrefix(elem, "v") {
		return false
	}
	n, err := strconv.Atoi(elem[1:])
	return err == nil && n >= 2
}

// UnsupportedImports lists the imports of info the interpreter cannot load,
// sorted and without duplicates.
func UnsupportedImports(info *ast.ModuleInfo) []string {
	seen := map[string]bool{}
	var missing []string
	for _, imp := range info.Imports {
		if seen[imp] || Available(imp) {
			continue
		}
		seen[imp] = true
		missing = append(missing, imp)
	}
	sort.Strings(missing)
	return missing
}
