package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/middleware"
	"github.com/dentalsupply/inventory/internal/templates/pages"
)

// registeredMessage tells the client registration did not start a session.
const registeredMessage = "Account created. Please log in."

// afterLoginPath is where authenticated visitors of /login and /register go
// when no usable next path was given.
const afterLoginPath = "/supplies"

// Handler handles HTTP requests for authentication (register, login, logout,
// me). Handlers are thin: they bind the request, call the service, and
// render the response. No business logic lives here.
type Handler struct {
	service AuthService
	carrier Carrier
	metrics *Metrics
}

// NewHandler creates a new auth handler. carrier receives the token on login
// and is cleared on logout.
func NewHandler(service AuthService, carrier Carrier, metrics *Metrics) *Handler {
	return &Handler{service: service, carrier: carrier, metrics: metrics}
}

// Register creates an account (POST /api/auth/register).
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	identity, err := h.service.Register(c.Request().Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.observeRegistration(err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		ID:      identity.ID,
		Email:   identity.Email,
		Message: registeredMessage,
	})
}

// Login verifies credentials and sets the session cookie (POST /api/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, identity, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	h.metrics.observeLogin(err)
	if err != nil {
		return err
	}

	h.carrier.Attach(c.Response(), token)
	return c.JSON(http.StatusOK, identity)
}

// Logout clears the session cookie (POST /api/auth/logout). It needs no
// session and always succeeds.
func (h *Handler) Logout(c echo.Context) error {
	h.carrier.Clear(c.Response())
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the caller's identity (GET /api/auth/me).
func (h *Handler) Me(c echo.Context) error {
	identity, err := h.service.WhoAmI(c.Request().Context(), c.Request())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// Health reports that the auth routes are mounted (GET /api/auth/health).
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	next := localPath(c.QueryParam("next"))
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, orDefault(next, afterLoginPath))
	}
	return middleware.Render(c, http.StatusOK, pages.LoginPage(next))
}

// RegisterForm renders the registration page (GET /register).
func (h *Handler) RegisterForm(c echo.Context) error {
	if h.authenticated(c) {
		return c.Redirect(http.StatusSeeOther, afterLoginPath)
	}
	return middleware.Render(c, http.StatusOK, pages.RegisterPage())
}

// authenticated reports whether the request carries a session that
// currently verifies.
func (h *Handler) authenticated(c echo.Context) bool {
	_, err := h.service.WhoAmI(c.Request().Context(), c.Request())
	return err == nil
}

// localPath returns next if it is a same-origin path, otherwise "".
// Absolute and scheme-relative URLs are dropped to avoid open redirects.
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
