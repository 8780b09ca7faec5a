// Package app is the application bootstrap and dependency injection root.
// It creates the Echo instance, registers global middleware, and wires the
// auth and supplies plugins onto their stores.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dentalsupply/inventory/internal/config"
	"github.com/dentalsupply/inventory/internal/middleware"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
	"github.com/dentalsupply/inventory/internal/plugins/supplies"
	"github.com/dentalsupply/inventory/internal/token"
	"github.com/dentalsupply/inventory/static"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores are the persistence dependencies the plugins run on. Production
// passes MongoDB repositories; tests pass the in-memory ones.
type Stores struct {
	Users    auth.UserRepository
	Supplies supplies.SupplyRepository

	// DB backs /healthz. Nil means the check always passes.
	DB Pinger
}

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// Registry collects this instance's metrics, served on /metrics.
	Registry *prometheus.Registry

	stores      Stores
	authService auth.AuthService
	carrier     *auth.CookieCarrier
	httpMetrics *middleware.HTTPMetrics
}

// New creates an App, configures global middleware and error handling, and
// registers every route.
func New(cfg *config.Config, stores Stores) (*App, error) {
	codec, err := token.New([]byte(cfg.Auth.Secret))
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the actual
	// client IP instead of the proxy's IP.
	middleware.TrustedProxies(e, middleware.DefaultTrustedProxies)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	carrier := auth.NewCookieCarrier(codec.Lifetime(), cfg.Auth.CookieSecure)
	authService := auth.NewAuthService(
		stores.Users,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		codec,
		[]auth.Carrier{carrier, auth.BearerCarrier{}},
		cfg.Auth.HashTimeout,
	)

	a := &App{
		Config:      cfg,
		Echo:        e,
		Registry:    reg,
		stores:      stores,
		authService: authService,
		carrier:     carrier,
		httpMetrics: middleware.NewHTTPMetrics(reg),
	}

	if err := a.setupMiddleware(); err != nil {
		return nil, err
	}

	// Maps AppErrors to JSON for the API and error pages for browsers.
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Layout data for every rendered page.
	middleware.LayoutInjector = a.injectLayout

	// Stylesheet and client script, embedded in the binary.
	e.StaticFS("/static", static.FS)

	a.RegisterRoutes()
	return a, nil
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: the request ID is assigned first so every later layer can
// log it, and the logger wraps recovery so recovered panics are logged
// with their final status.
func (a *App) setupMiddleware() error {
	a.Echo.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	a.Echo.Use(middleware.RequestLogger())

	// Panic recovery -- converts panics into 500s for the error handler.
	a.Echo.Use(middleware.Recovery())

	a.Echo.Use(a.httpMetrics.Middleware())

	// Security headers -- CSP, X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders(a.Config.Auth.CookieSecure))

	// CORS -- the configured frontend origin may call the API with
	// credentials.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.FrontendOrigin},
		AllowCredentials: true,
	}))

	// UI route guard -- cookie presence only; the API verifies.
	guard, err := middleware.RouteGuard(middleware.GuardConfig{
		Protect:    a.Config.Guard.Protect,
		Allow:      a.Config.Guard.Allow,
		CookieName: auth.SessionCookieName,
		LoginPath:  "/login",
	})
	if err != nil {
		return fmt.Errorf("configuring route guard: %w", err)
	}
	a.Echo.Use(guard)

	return nil
}

// Start begins listening for HTTP requests on the configured port. It
// returns http.ErrServerClosed after Shutdown.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting inventory server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}
