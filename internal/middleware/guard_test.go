package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedEcho(t *testing.T, cfg GuardConfig) *echo.Echo {
	t.Helper()
	guard, err := RouteGuard(cfg)
	require.NoError(t, err)

	e := echo.New()
	e.Use(guard)
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/", ok)
	e.GET("/supplies", ok)
	e.GET("/supplies/:id", ok)
	e.GET("/login", ok)
	e.GET("/static/*", ok)
	e.GET("/api/supplies", ok)
	return e
}

var testGuardConfig = GuardConfig{
	Protect:    []string{"/**"},
	Allow:      []string{"/", "/login", "/static/**", "/api/**"},
	CookieName: "token",
	LoginPath:  "/login",
}

func TestRouteGuard(t *testing.T) {
	e := newGuardedEcho(t, testGuardConfig)

	tests := []struct {
		name     string
		target   string
		cookie   string
		status   int
		location string
	}{
		{"protected without cookie", "/supplies", "", http.StatusSeeOther, "/login?next=%2Fsupplies"},
		{"nested with query", "/supplies/42?tab=notes", "", http.StatusSeeOther, "/login?next=%2Fsupplies%2F42%3Ftab%3Dnotes"},
		{"protected with cookie", "/supplies", "anything", http.StatusOK, ""},
		{"landing allowed", "/", "", http.StatusOK, ""},
		{"login allowed", "/login", "", http.StatusOK, ""},
		{"static allowed", "/static/app.css", "", http.StatusOK, ""},
		{"api left to the api", "/api/supplies", "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func TestRouteGuard_UnprotectedPathsPass(t *testing.T) {
	cfg := testGuardConfig
	cfg.Protect = []string{"/supplies/**"}
	e := newGuardedEcho(t, cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/supplies", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "/supplies/** needs at least one more segment")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/supplies/1", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestRouteGuard_InvalidPattern(t *testing.T) {
	_, err := RouteGuard(GuardConfig{Protect: []string{"/[unclosed"}})
	assert.Error(t, err)
}
