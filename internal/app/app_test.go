package app

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentalsupply/inventory/internal/config"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
	"github.com/dentalsupply/inventory/internal/plugins/auth/authtest"
	"github.com/dentalsupply/inventory/internal/plugins/supplies/suppliestest"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		Env:            "development",
		Port:           0,
		LogLevel:       "debug",
		FrontendOrigin: "http://localhost:3000",
		Database: config.DatabaseConfig{
			Name:         "inventory_test",
			QueryTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			Secret:      "app-test-secret-at-least-32-bytes!!",
			BcryptCost:  bcrypt.MinCost,
			HashTimeout: time.Second,
		},
		Guard: config.GuardConfig{
			Protect: config.DefaultGuardProtect,
			Allow:   config.DefaultGuardAllow,
		},
	}
}

func newTestApp(t *testing.T, db Pinger) *App {
	t.Helper()
	a, err := New(testConfig(), Stores{
		Users:    authtest.NewUserRepository(),
		Supplies: suppliestest.NewSupplyRepository(),
		DB:       db,
	})
	require.NoError(t, err)
	return a
}

// signIn registers and logs in an account, returning the session token.
func signIn(t *testing.T, a *App, email, password string) string {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`

	apitest.New().
		Handler(a.Echo).
		Post("/api/auth/register").
		JSON(body).
		Expect(t).
		Status(http.StatusCreated).
		CookieNotPresent(auth.SessionCookieName).
		End()

	res := apitest.New().
		Handler(a.Echo).
		Post("/api/auth/login").
		JSON(body).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", email)).
		CookiePresent(auth.SessionCookieName).
		End()

	for _, c := range res.Response.Cookies() {
		if c.Name == auth.SessionCookieName {
			assert.True(t, c.HttpOnly)
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func TestApp_SessionAndSuppliesFlow(t *testing.T) {
	a := newTestApp(t, nil)
	tok := signIn(t, a, "nurse@clinic.test", "floss-every-day")

	// The session cookie identifies the caller.
	apitest.New().
		Handler(a.Echo).
		Get("/api/auth/me").
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.email", "nurse@clinic.test")).
		End()

	// Supplies are closed to anonymous callers.
	apitest.New().
		Handler(a.Echo).
		Get("/api/supplies").
		Expect(t).
		Status(http.StatusUnauthorized).
		Body(`{"error":"Unauthorized","message":"not authenticated"}`).
		End()

	// Create through the cookie, read back through the bearer header.
	res := apitest.New().
		Handler(a.Echo).
		Post("/api/supplies").
		Cookie(auth.SessionCookieName, tok).
		JSON(`{"name":"Prophy paste","quantity":3,"threshold":5,"supplier":"Patterson"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.lowStock", true)).
		End()

	var created struct {
		ID string `json:"_id"`
	}
	res.JSON(&created)
	require.NotEmpty(t, created.ID)

	apitest.New().
		Handler(a.Echo).
		Get("/api/supplies/"+created.ID).
		Header("Authorization", "Bearer "+tok).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "Prophy paste")).
		End()

	apitest.New().
		Handler(a.Echo).
		Put("/api/supplies/"+created.ID).
		Cookie(auth.SessionCookieName, tok).
		JSON(`{"quantity":30}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.lowStock", false)).
		End()

	apitest.New().
		Handler(a.Echo).
		Get("/api/supplies").
		Query("lowStock", "true").
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusOK).
		Body(`[]`).
		End()

	apitest.New().
		Handler(a.Echo).
		Delete("/api/supplies/"+created.ID).
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Deleted")).
		End()

	// Logout expires the cookie.
	res = apitest.New().
		Handler(a.Echo).
		Post("/api/auth/logout").
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusOK).
		End()
	for _, c := range res.Response.Cookies() {
		if c.Name == auth.SessionCookieName {
			assert.Empty(t, c.Value)
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestApp_ForgedTokenRejectedByAPI(t *testing.T) {
	a := newTestApp(t, nil)

	apitest.New().
		Handler(a.Echo).
		Get("/api/supplies").
		Cookie(auth.SessionCookieName, "forged.token.value").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestApp_RouteGuard(t *testing.T) {
	a := newTestApp(t, nil)

	apitest.New().
		Handler(a.Echo).
		Get("/supplies").
		Expect(t).
		Status(http.StatusSeeOther).
		Header("Location", "/login?next=%2Fsupplies").
		End()

	// The guard only checks presence; the page loads and its API calls fail.
	apitest.New().
		Handler(a.Echo).
		Get("/supplies").
		Cookie(auth.SessionCookieName, "forged").
		Expect(t).
		Status(http.StatusOK).
		End()

	for _, path := range []string{"/", "/login", "/register", "/static/app.css", "/ping"} {
		apitest.New().
			Handler(a.Echo).
			Get(path).
			Expect(t).
			Status(http.StatusOK).
			End()
	}
}

func TestApp_PagesReflectSession(t *testing.T) {
	a := newTestApp(t, nil)
	tok := signIn(t, a, "dentist@clinic.test", "molar-molar-molar")

	res := apitest.New().
		Handler(a.Echo).
		Get("/supplies").
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusOK).
		End()
	assert.Contains(t, readBody(t, res.Response), "dentist@clinic.test")

	// Signed-in visitors skip the login form.
	apitest.New().
		Handler(a.Echo).
		Get("/login").
		Query("next", "/supplies?lowStock=true").
		Cookie(auth.SessionCookieName, tok).
		Expect(t).
		Status(http.StatusSeeOther).
		Header("Location", "/supplies?lowStock=true").
		End()
}

func TestApp_OperationalEndpoints(t *testing.T) {
	a := newTestApp(t, stubPinger{})

	apitest.New().
		Handler(a.Echo).
		Get("/ping").
		Expect(t).
		Status(http.StatusOK).
		Body("pong").
		End()

	apitest.New().
		Handler(a.Echo).
		Get("/healthz").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "ok")).
		End()

	apitest.New().
		Handler(a.Echo).
		Get("/api/auth/health").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.ok", true)).
		End()

	apitest.New().
		Handler(a.Echo).
		Get("/api/nope").
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"error":"Not Found","message":"Route not found"}`).
		End()

	res := apitest.New().
		Handler(a.Echo).
		Get("/metrics").
		Expect(t).
		Status(http.StatusOK).
		End()
	assert.Contains(t, readBody(t, res.Response), "inventory_http_requests_total")
}

func TestApp_HealthzReportsDatabaseOutage(t *testing.T) {
	a := newTestApp(t, stubPinger{err: errors.New("server selection timeout")})

	apitest.New().
		Handler(a.Echo).
		Get("/healthz").
		Expect(t).
		Status(http.StatusServiceUnavailable).
		Assert(jsonpath.Equal("$.message", "database unreachable")).
		End()
}

func TestApp_RequestIDAssigned(t *testing.T) {
	a := newTestApp(t, nil)

	res := apitest.New().
		Handler(a.Echo).
		Get("/ping").
		Expect(t).
		Status(http.StatusOK).
		End()
	assert.NotEmpty(t, res.Response.Header.Get("X-Request-Id"))
}
