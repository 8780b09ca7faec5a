package middleware

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gobwas/glob"
	"github.com/labstack/echo/v4"
)

// GuardConfig configures the RouteGuard.
type GuardConfig struct {
	// Protect lists path patterns that need a session cookie. "*" matches
	// within one path segment, "**" across segments.
	Protect []string

	// Allow lists path patterns that are always let through. Allow wins
	// over Protect.
	Allow []string

	// CookieName is the session cookie whose presence is checked.
	CookieName string

	// LoginPath is where unauthenticated visitors are sent.
	LoginPath string
}

// RouteGuard returns middleware that keeps anonymous visitors off protected
// pages. It only checks that the session cookie is present and non-empty;
// it never verifies the token. That is the API's job, so a forged cookie
// gets past the guard but every data call behind the page still fails.
//
// Visitors without the cookie are redirected with 303 to
// LoginPath?next=<original path and query>.
func RouteGuard(cfg GuardConfig) (echo.MiddlewareFunc, error) {
	protect, err := compilePatterns(cfg.Protect)
	if err != nil {
		return nil, fmt.Errorf("guard protect patterns: %w", err)
	}
	allow, err := compilePatterns(cfg.Allow)
	if err != nil {
		return nil, fmt.Errorf("guard allow patterns: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if matchAny(allow, path) || !matchAny(protect, path) {
				return next(c)
			}

			if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				return next(c)
			}

			target := cfg.LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusSeeOther, target)
		}
	}, nil
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
