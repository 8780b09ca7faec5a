package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/templates/pages"
)

// routeNotFoundMessage is the message for paths no route matches.
const routeNotFoundMessage = "Route not found"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler is the Echo HTTPErrorHandler. It maps AppErrors and Echo's
// router errors to a status and a client-safe message, then answers with
// JSON for API and non-browser clients or an HTML page for browsers.
// Browser requests that fail authentication are sent to the login page.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := resolveError(err)
	logError(c, err, code)

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	if IsAPIRequest(c) || !WantsHTML(c) {
		_ = c.JSON(code, ErrorBody{Error: http.StatusText(code), Message: message})
		return
	}

	if code == http.StatusUnauthorized {
		_ = c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	_ = Render(c, code, pages.ErrorPage(code, message))
}

// resolveError extracts the status code and client-safe message from err.
func resolveError(err error) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Code, appErr.Message
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return http.StatusNotFound, routeNotFoundMessage
		}
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return echoErr.Code, msg
		}
		return echoErr.Code, http.StatusText(echoErr.Code)
	}

	return http.StatusInternalServerError, apperror.SafeMessage(err)
}

// logError records the internal cause. Server faults are errors; client
// faults only matter when debugging.
func logError(c echo.Context, err error, code int) {
	attrs := []any{
		slog.Int("status", code),
		slog.String("path", c.Request().URL.Path),
		slog.String("request_id", RequestID(c)),
	}

	if code >= http.StatusInternalServerError {
		var cause error = err
		if appErr, ok := apperror.As(err); ok && appErr.Internal != nil {
			cause = appErr.Internal
		}
		slog.Error("request failed", append(attrs, slog.Any("error", cause))...)
		return
	}

	if appErr, ok := apperror.As(err); ok && appErr.Internal != nil {
		slog.Debug("request rejected", append(attrs, slog.Any("cause", appErr.Internal))...)
	}
}
