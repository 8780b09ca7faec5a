package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the login form. next is a local path to continue to
// after signing in; callers must have validated it.
func LoginPage(next string) templ.Component {
	return Layout("Log in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="card narrow"><h1>Log in</h1>`,
			`<form id="login-form" data-endpoint="/api/auth/login" data-next="`)
		h.text(next)
		h.raw(`" novalidate>`)
		credentialFields(h, "current-password")
		h.raw(`<p class="error" role="alert" hidden></p>`,
			`<button type="submit">Log in</button></form>`,
			`<p class="muted">No account yet? <a href="/register">Register</a></p></section>`)
		return h.err
	}))
}

// RegisterPage renders the registration form. A successful registration
// sends the visitor to the login page; it does not sign them in.
func RegisterPage() templ.Component {
	return Layout("Register", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<section class="card narrow"><h1>Create an account</h1>`,
			`<form id="register-form" data-endpoint="/api/auth/register" data-next="/login" novalidate>`)
		credentialFields(h, "new-password")
		h.raw(`<p class="error" role="alert" hidden></p>`,
			`<p class="notice" role="status" hidden></p>`,
			`<button type="submit">Register</button></form>`,
			`<p class="muted">Already registered? <a href="/login">Log in</a></p></section>`)
		return h.err
	}))
}

func credentialFields(h *html, passwordAutocomplete string) {
	h.raw(`<label>Email<input type="email" name="email" autocomplete="email" required></label>`,
		`<label>Password<input type="password" name="password" maxlength="72" autocomplete="`)
	h.text(passwordAutocomplete)
	h.raw(`" required></label>`)
}
