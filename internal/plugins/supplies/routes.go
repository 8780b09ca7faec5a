package supplies

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the supplies API behind requireAuth, the
// authoritative session check. The page itself is only covered by the
// global route guard; its data calls go through the API.
func RegisterRoutes(e *echo.Echo, h *Handler, requireAuth echo.MiddlewareFunc) {
	api := e.Group("/api/supplies", requireAuth)
	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.POST("", h.Create)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	e.GET("/supplies", h.Page)
}
