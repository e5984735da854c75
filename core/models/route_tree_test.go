package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTreeLines(t *testing.T) {
	m := &Manifest{
		Routes: []RouteInfo{
			{Path: []Segment{Static("products")}, PageInfo: PageInfo{PageModule: "/r/products.go"}},
			{Path: []Segment{Static("product"), Dynamic("slug")}, PageInfo: PageInfo{PageModule: "/r/product.$slug.go"}},
		},
		HomeRoute: &RouteInfo{PageInfo: PageInfo{PageModule: "/r/_index.go"}},
	}

	lines := NewRouteTree(m).Lines()

	assert.Equal(t, []string{
		"/ -> / [_index.go]",
		"  product -> /product",
		"    :slug -> /product/:slug (param: slug) [product.$slug.go]",
		"  products -> /products [products.go]",
	}, lines)
}

func TestSortRoutesIsStableByDepth(t *testing.T) {
	routes := []RouteInfo{
		{Path: []Segment{Static("a"), Dynamic("b")}, PageInfo: PageInfo{PageModule: "deep"}},
		{Path: []Segment{Static("x")}, PageInfo: PageInfo{PageModule: "x"}},
		{Path: nil, PageInfo: PageInfo{PageModule: "root"}},
		{Path: []Segment{Static("a")}, PageInfo: PageInfo{PageModule: "a"}},
	}

	SortRoutes(routes)

	var got []string
	for _, r := range routes {
		got = append(got, r.PageModule)
	}
	assert.Equal(t, []string{"root", "x", "a", "deep"}, got)
}
