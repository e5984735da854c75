package routes

import (
	"fmt"
	"html"
	"io"
)

type product struct {
	Slug  string
	Name  string
	Price string
}

func Loader(params map[string]string) (any, error) {
	return []product{
		{Slug: "i-m-a-product-1", Name: "Linen Shirt", Price: "$45.00"},
		{Slug: "i-m-a-product-2", Name: "Canvas Tote", Price: "$25.00"},
		{Slug: "i-m-a-product-3", Name: "Wool Beanie", Price: "$19.00"},
	}, nil
}

func products(w io.Writer, data any) error {
	items, _ := data.([]product)
	fmt.Fprint(w, "<h1>All Products</h1><ul>")
	for _, item := range items {
		fmt.Fprintf(w, `<li><a href="/product/%s">%s</a> %s</li>`,
			html.EscapeString(item.Slug), html.EscapeString(item.Name), html.EscapeString(item.Price))
	}
	_, err := fmt.Fprint(w, "</ul>")
	return err
}

var Page = products
