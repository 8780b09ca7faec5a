package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/dentalsupply/inventory/internal/templates/layouts"
)

// Landing renders the public home page.
func Landing() templ.Component {
	return Layout("Home", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="hero"><h1>Keep the clinic stocked</h1>`,
			`<p>Track gloves, anaesthetics, impression material and everything else `,
			`the practice runs on. See at a glance what is running low.</p><p class="actions">`)
		if layouts.IsAuthenticated(ctx) {
			h.raw(`<a class="button" href="/supplies">Open inventory</a>`)
		} else {
			h.raw(`<a class="button" href="/login">Log in</a>`,
				`<a class="button secondary" href="/register">Create an account</a>`)
		}
		h.raw(`</p></section>`)
		return h.err
	}))
}
