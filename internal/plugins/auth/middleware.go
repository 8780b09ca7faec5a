package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalsupply/inventory/internal/apperror"
)

// Context keys for storing the caller's identity in Echo context. Other
// plugins use these keys (via the exported getter functions below) to access
// the authenticated account.
const (
	contextKeyIdentity = "auth_identity"
	contextKeyUserID   = "auth_user_id"
)

// RequireAuth returns middleware that resolves the caller through
// service.WhoAmI and injects the identity into the request context. This is
// the authoritative check: the token's signature and expiry are verified and
// the account must still exist. Failures are returned as errors for the
// app's error handler to render. When the rejection is an authentication
// failure, stale is cleared so the browser drops a dead cookie; stale may be
// nil.
func RequireAuth(service AuthService, stale Carrier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := service.WhoAmI(c.Request().Context(), c.Request())
			if err != nil {
				if stale != nil && apperror.IsCode(err, http.StatusUnauthorized) {
					if _, ok := stale.Extract(c.Request()); ok {
						stale.Clear(c.Response())
					}
				}
				return err
			}

			c.Set(contextKeyIdentity, identity)
			c.Set(contextKeyUserID, identity.ID)

			return next(c)
		}
	}
}

// --- Exported getters for other plugins ---

// GetIdentity retrieves the authenticated identity from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetIdentity(c echo.Context) *Identity {
	identity, ok := c.Get(contextKeyIdentity).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

// GetUserID retrieves the authenticated account's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
