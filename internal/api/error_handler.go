package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// errorResponse is the JSON error envelope for clients that ask for JSON.
type errorResponse struct {
	Error string `json:"error"`
}

type errorPage struct {
	Title   string
	Message string
	Code    int
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the message page for browsers and {"error": "<message>"} for
//     JSON clients.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		if wantsJSON(c) || c.Echo().Renderer == nil {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		page := errorPage{Title: http.StatusText(code), Message: msg, Code: code}
		if rerr := c.Render(code, "message", page); rerr != nil {
			log.Error().Err(rerr).Msg("failed to render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Your session has ended. Please sign in again."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "The requested item does not exist."
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Unknown role."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) || strings.HasPrefix(c.Path(), "/health")
}
