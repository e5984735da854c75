package routes

import (
	"fmt"
	"io"
)

func index(w io.Writer, data any) error {
	fmt.Fprint(w, "<h1>Welcome to my-app</h1>")
	_, err := fmt.Fprint(w, `<p><a href="/products">Shop now</a></p>`)
	return err
}

var Page = index
