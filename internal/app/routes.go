package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/middleware"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
	"github.com/dentalsupply/inventory/internal/plugins/supplies"
	"github.com/dentalsupply/inventory/internal/templates/layouts"
	"github.com/dentalsupply/inventory/internal/templates/pages"
)

// healthTimeout bounds the database ping behind /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. It registers public routes
// directly and delegates to each plugin's route registration function.
//
// This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Public Routes (no auth required) ---

	e.GET("/", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, pages.Landing())
	})

	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	e.GET("/healthz", a.healthz)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// --- Plugin Routes ---

	// auth plugin (public: register, login, logout, me, pages)
	auth.RegisterRoutes(e, auth.NewHandler(a.authService, a.carrier, auth.NewMetrics(a.Registry)))

	requireAuth := auth.RequireAuth(a.authService, a.carrier)

	// supplies plugin (every API route behind requireAuth)
	supplyService := supplies.NewSupplyService(a.stores.Supplies)
	supplies.RegisterRoutes(e, supplies.NewHandler(supplyService), requireAuth)
}

// healthz reports database reachability (GET /healthz).
func (a *App) healthz(c echo.Context) error {
	if a.stores.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		if err := a.stores.DB.Ping(ctx); err != nil {
			return apperror.NewServiceUnavailable("database unreachable").WithInternal(err)
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// injectLayout copies the data the page chrome needs into ctx. The session
// is verified here, not just detected, so the nav never shows a signed-in
// state for a forged or expired cookie.
func (a *App) injectLayout(c echo.Context, ctx context.Context) context.Context {
	ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
	ctx = layouts.SetRequestID(ctx, middleware.RequestID(c))

	identity := auth.GetIdentity(c)
	if identity == nil {
		var err error
		identity, err = a.authService.WhoAmI(c.Request().Context(), c.Request())
		if err != nil {
			slog.Debug("rendering anonymous layout", slog.Any("error", err))
			return ctx
		}
	}
	return layouts.SetUserEmail(ctx, identity.Email)
}
