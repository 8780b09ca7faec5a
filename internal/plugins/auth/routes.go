package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all auth-related routes on the given Echo instance.
// Auth routes are public (no session required); /me performs its own
// authoritative check. RequireAuth is exported separately for other plugins
// to use on their route groups.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	api := e.Group("/api/auth")
	api.GET("/health", h.Health)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.GET("/me", h.Me)

	// Pages.
	e.GET("/login", h.LoginForm)
	e.GET("/register", h.RegisterForm)
}
