// Package pages holds the server-rendered pages. They are plain templ
// components; the browser side talks to the JSON API through
// /static/app.js.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dentalsupply/inventory/internal/templates/layouts"
)

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes s escaped for element content and attribute values.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout wraps body in the document shell with the navigation bar.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(` · Dental Supply Inventory</title>`,
			`<link rel="stylesheet" href="/static/app.css">`,
			`<script src="/static/app.js" defer></script></head><body>`)

		h.raw(`<header class="topbar"><a class="brand" href="/">Dental Supply Inventory</a><nav>`)
		for _, item := range layouts.NavItems(ctx) {
			h.raw(`<a href="`)
			h.text(item.Href)
			h.raw(`"`)
			if layouts.IsActive(ctx, item.Href) {
				h.raw(` class="active" aria-current="page"`)
			}
			h.raw(`>`)
			h.text(item.Label)
			h.raw(`</a>`)
		}
		if email := layouts.GetUserEmail(ctx); email != "" {
			h.raw(`<span class="who">`)
			h.text(email)
			h.raw(`</span><button type="button" id="logout" class="link">Log out</button>`)
		}
		h.raw(`</nav></header><main>`)

		h.component(ctx, body)

		h.raw(`</main></body></html>`)
		return h.err
	})
}
