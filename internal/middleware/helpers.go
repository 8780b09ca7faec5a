package middleware

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// LayoutInjector copies layout-relevant data from the Echo context into the
// Go context so templ components can read it. Registered once at startup in
// internal/app.
//
// The callback keeps this package free of plugin imports.
var LayoutInjector func(echo.Context, context.Context) context.Context

// IsAPIRequest reports whether the request targets the JSON API under /api.
func IsAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

// WantsHTML reports whether the client asked for an HTML document, as a
// browser navigation does.
func WantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}

// Render writes a templ component to the response with the given status code.
// The LayoutInjector, if registered, runs first.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	ctx := c.Request().Context()
	if LayoutInjector != nil {
		ctx = LayoutInjector(c, ctx)
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(statusCode)
	return component.Render(ctx, c.Response().Writer)
}
