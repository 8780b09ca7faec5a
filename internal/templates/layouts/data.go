// data.go provides typed context helpers for passing layout data from
// handlers/middleware to templ components. Only simple types are stored so
// this package never imports plugin types.
//
// Data flow: Middleware → Echo Context → LayoutInjector → Go Context → templ
package layouts

import (
	"context"
	"strings"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey string

const (
	keyUserEmail  ctxKey = "layout_user_email"
	keyActivePath ctxKey = "layout_active_path"
	keyRequestID  ctxKey = "layout_request_id"
)

// NavItem is one link in the top navigation bar.
type NavItem struct {
	Label string
	Href  string
}

// --- Setters (called by the layout injector in internal/app) ---

// SetUserEmail stores the signed-in account's email. Leave unset for
// anonymous visitors.
func SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, keyUserEmail, email)
}

// SetActivePath stores the current request path for nav highlighting.
func SetActivePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, keyActivePath, path)
}

// SetRequestID stores the request ID shown on error pages.
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// --- Getters (called by templ components) ---

// IsAuthenticated reports whether the visitor has a verified session.
func IsAuthenticated(ctx context.Context) bool {
	return GetUserEmail(ctx) != ""
}

// GetUserEmail returns the signed-in account's email, or "".
func GetUserEmail(ctx context.Context) string {
	email, _ := ctx.Value(keyUserEmail).(string)
	return email
}

// GetActivePath returns the current request path, or "".
func GetActivePath(ctx context.Context) string {
	path, _ := ctx.Value(keyActivePath).(string)
	return path
}

// GetRequestID returns the current request ID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

// IsActive reports whether href is the current page or one of its parents.
// "/" is only active on the landing page itself.
func IsActive(ctx context.Context, href string) bool {
	path := GetActivePath(ctx)
	if href == "/" {
		return path == "/"
	}
	return path == href || strings.HasPrefix(path, href+"/")
}

// NavItems returns the navigation links for the current visitor.
func NavItems(ctx context.Context) []NavItem {
	if IsAuthenticated(ctx) {
		return []NavItem{
			{Label: "Home", Href: "/"},
			{Label: "Supplies", Href: "/supplies"},
		}
	}
	return []NavItem{
		{Label: "Home", Href: "/"},
		{Label: "Log in", Href: "/login"},
		{Label: "Register", Href: "/register"},
	}
}
