package pages

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/dentalsupply/inventory/internal/templates/layouts"
)

// ErrorPage renders a full-page error for browser requests.
func ErrorPage(code int, message string) templ.Component {
	title := http.StatusText(code)
	if title == "" {
		title = "Error"
	}
	return Layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="card narrow error-page"><p class="code">`, strconv.Itoa(code), `</p><h1>`)
		h.text(title)
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p>`)
		if id := layouts.GetRequestID(ctx); id != "" {
			h.raw(`<p class="muted">Request ID: <code>`)
			h.text(id)
			h.raw(`</code></p>`)
		}
		h.raw(`<p><a href="/">Back to home</a></p></section>`)
		return h.err
	}))
}
