package routes

import (
	"fmt"
	"io"
)

func notFound(w io.Writer, data any) error {
	_, err := fmt.Fprint(w, `<h1>Page not found</h1><p><a href="/">Back home</a></p>`)
	return err
}

var Page = notFound
