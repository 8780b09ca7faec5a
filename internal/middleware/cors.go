package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the origins permitted to call the API, e.g. the
	// separately deployed frontend at http://localhost:3000. "*" allows any
	// origin but disables credentials.
	AllowedOrigins []string

	// AllowCredentials lets the browser send the session cookie on
	// cross-origin requests.
	AllowCredentials bool
}

var (
	corsAllowMethods = strings.Join([]string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
	}, ", ")

	corsAllowHeaders = strings.Join([]string{
		echo.HeaderContentType,
		echo.HeaderAuthorization,
		echo.HeaderXRequestedWith,
	}, ", ")
)

// CORS returns middleware that answers preflight requests and adds
// Access-Control headers for allowed origins. Requests from other origins
// pass through untouched and are blocked by the browser.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	allowAll := slices.Contains(cfg.AllowedOrigins, "*")

	// A wildcard origin with credentials would let any site act as the user.
	if allowAll && cfg.AllowCredentials {
		slog.Warn("CORS: wildcard origin configured with credentials; credentials disabled")
		cfg.AllowCredentials = false
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			origin := req.Header.Get(echo.HeaderOrigin)
			if origin == "" {
				return next(c)
			}
			if !allowAll && !slices.Contains(cfg.AllowedOrigins, origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Set(echo.HeaderAccessControlAllowOrigin, origin)
			h.Add(echo.HeaderVary, echo.HeaderOrigin)
			if cfg.AllowCredentials {
				h.Set(echo.HeaderAccessControlAllowCredentials, "true")
			}

			if req.Method == http.MethodOptions && req.Header.Get(echo.HeaderAccessControlRequestMethod) != "" {
				h.Set(echo.HeaderAccessControlAllowMethods, corsAllowMethods)
				h.Set(echo.HeaderAccessControlAllowHeaders, corsAllowHeaders)
				h.Set(echo.HeaderAccessControlMaxAge, "3600")
				return c.NoContent(http.StatusNoContent)
			}

			h.Set(echo.HeaderAccessControlExposeHeaders, echo.HeaderXRequestID)
			return next(c)
		}
	}
}
