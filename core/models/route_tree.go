package models

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tristendillon/appdef/core/logger"
)

// RouteNode is a printable view of a manifest, one node per path segment.
type RouteNode struct {
	Segment  Segment
	Children map[string]*RouteNode
	Parent   *RouteNode
	FullPath string
	Depth    int
	Route    *RouteInfo
}

type RouteTree struct {
	Root *RouteNode
}

func newRootNode() *RouteNode {
	return &RouteNode{
		Children: make(map[string]*RouteNode),
		FullPath: "/",
	}
}

// NewRouteTree folds the manifest routes into a segment tree. The home route
// lands on the root node; the error route is kept out of the tree.
func NewRouteTree(m *Manifest) *RouteTree {
	rt := &RouteTree{Root: newRootNode()}
	if m == nil {
		return rt
	}
	for i := range m.Routes {
		rt.add(&m.Routes[i])
	}
	if m.HomeRoute != nil {
		rt.Root.Route = m.HomeRoute
	}
	return rt
}

func segmentKey(s Segment) string {
	if s.IsDynamic() {
		return ":" + s.Name
	}
	return s.Text
}

func (rt *RouteTree) add(route *RouteInfo) {
	current := rt.Root
	parts := make([]string, 0, len(route.Path))
	for i, seg := range route.Path {
		key := segmentKey(seg)
		parts = append(parts, key)
		child, ok := current.Children[key]
		if !ok {
			child = &RouteNode{
				Segment:  seg,
				Children: make(map[string]*RouteNode),
				Parent:   current,
				FullPath: "/" + strings.Join(parts, "/"),
				Depth:    i + 1,
			}
			current.Children[key] = child
		}
		current = child
	}
	current.Route = route
}

func (rt *RouteTree) PrintTree(level logger.LogLevel) {
	rt.printNode(rt.Root, "", level)
}

// Lines renders the tree the way PrintTree logs it.
func (rt *RouteTree) Lines() []string {
	var lines []string
	rt.walk(rt.Root, "", func(line string) { lines = append(lines, line) })
	return lines
}

func (rt *RouteTree) printNode(node *RouteNode, prefix string, level logger.LogLevel) {
	rt.walk(node, prefix, func(line string) {
		logger.GetLogFromLevel(level)("%s", line)
	})
}

func (rt *RouteTree) walk(node *RouteNode, prefix string, emit func(string)) {
	name := segmentKey(node.Segment)
	if node == rt.Root {
		name = "/"
	}
	moduleInfo := ""
	if node.Route != nil {
		moduleInfo = fmt.Sprintf(" [%s]", filepath.Base(node.Route.PageModule))
	}
	paramInfo := ""
	if node.Segment.IsDynamic() {
		paramInfo = fmt.Sprintf(" (param: %s)", node.Segment.Name)
	}
	emit(fmt.Sprintf("%s%s -> %s%s%s", prefix, name, node.FullPath, paramInfo, moduleInfo))

	keys := make([]string, 0, len(node.Children))
	for k := range node.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rt.walk(node.Children[key], prefix+"  ", emit)
	}
}
