package models

import (
	"sort"
	"time"
)

type SegmentKind string

const (
	StaticSegment  SegmentKind = "static"
	DynamicSegment SegmentKind = "dynamic"
)

// Segment is one unit of a route path. Static segments carry Text, dynamic
// segments carry Name.
type Segment struct {
	Kind SegmentKind `json:"kind"`
	Text string      `json:"text,omitempty"`
	Name string      `json:"name,omitempty"`
}

func Static(text string) Segment {
	return Segment{Kind: StaticSegment, Text: text}
}

func Dynamic(name string) Segment {
	return Segment{Kind: DynamicSegment, Name: name}
}

func (s Segment) IsDynamic() bool {
	return s.Kind == DynamicSegment
}

type LayoutInfo struct {
	LayoutModule     string `json:"layoutModule"`
	LayoutExportName string `json:"layoutExportName,omitempty"`
}

type ExtraData struct {
	RenderedRoutes []string `json:"renderedRoutes"`
}

type PageInfo struct {
	PageModule     string       `json:"pageModule"`
	PageExportName string       `json:"pageExportName,omitempty"`
	ParentLayouts  []LayoutInfo `json:"parentLayouts,omitempty"`
	ExtraData      ExtraData    `json:"extraData"`
}

type RouteInfo struct {
	PageInfo
	Path []Segment `json:"path"`
}

// Manifest is one immutable snapshot of the routes directory.
type Manifest struct {
	Version    string      `json:"version"`
	ComputedAt time.Time   `json:"computedAt"`
	Routes     []RouteInfo `json:"routes"`
	HomeRoute  *RouteInfo  `json:"homeRoute,omitempty"`
	ErrorRoute *RouteInfo  `json:"errorRoute,omitempty"`
}

// SortRoutes orders routes shallowest first. Ties keep their input order.
func SortRoutes(routes []RouteInfo) {
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].Path) < len(routes[j].Path)
	})
}
