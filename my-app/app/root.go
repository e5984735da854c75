package app

import (
	"fmt"
	"io"
)

func Loader(params map[string]string) (any, error) {
	return map[string]any{"cartItems": 0}, nil
}

func Layout(w io.Writer, data any, children func(io.Writer) error) error {
	site, _ := data.(map[string]any)
	fmt.Fprint(w, "<!doctype html><html><head><title>my-app</title></head><body>")
	fmt.Fprintf(w, `<header><a href="/">Home</a> <a href="/products">Shop</a> <span>Cart (%v)</span></header>`, site["cartItems"])
	fmt.Fprint(w, "<main>")
	if err := children(w); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "</main><footer>my-app</footer></body></html>")
	return err
}
