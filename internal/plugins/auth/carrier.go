package auth

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// Carrier moves a session token between client and server.
type Carrier interface {
	// Attach hands token to the client.
	Attach(w http.ResponseWriter, token string)

	// Extract returns the token presented by the request, if any.
	Extract(r *http.Request) (string, bool)

	// Clear tells the client to forget its token.
	Clear(w http.ResponseWriter)
}

// CookieCarrier stores the token in an HTTP-only, SameSite=Lax cookie.
type CookieCarrier struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// NewCookieCarrier returns a carrier for the "token" cookie. maxAge should
// match the token lifetime.
func NewCookieCarrier(maxAge time.Duration, secure bool) *CookieCarrier {
	return &CookieCarrier{
		Name:   SessionCookieName,
		MaxAge: maxAge,
		Secure: secure,
	}
}

// Attach sets the session cookie on the response.
func (c *CookieCarrier) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(token, int(c.MaxAge/time.Second)))
}

// Extract reads the session cookie.
func (c *CookieCarrier) Extract(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.Name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// Clear expires the session cookie. Attributes match Attach so browsers
// treat it as the same cookie.
func (c *CookieCarrier) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

func (c *CookieCarrier) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// BearerCarrier reads "Authorization: Bearer <token>". The client manages
// storage itself, so Attach and Clear do nothing.
type BearerCarrier struct{}

// Attach is a no-op.
func (BearerCarrier) Attach(http.ResponseWriter, string) {}

// Extract parses the Authorization header.
func (BearerCarrier) Extract(r *http.Request) (string, bool) {
	return bearerToken(r.Header.Get("Authorization"))
}

// Clear is a no-op; discarding a bearer token is up to the client.
func (BearerCarrier) Clear(http.ResponseWriter) {}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// extractToken tries each carrier in order; the first one holding a token wins.
func extractToken(r *http.Request, carriers []Carrier) (string, bool) {
	for _, c := range carriers {
		if tok, ok := c.Extract(r); ok {
			return tok, true
		}
	}
	return "", false
}
