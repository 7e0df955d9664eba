package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailcatalog/admin-console/internal/api/middleware"
	"github.com/retailcatalog/admin-console/internal/core/session"
)

// ctxSession returns the store attached by the session middleware. Its
// absence means the route was mounted without that middleware.
func ctxSession(c echo.Context) (*session.Store, error) {
	store, ok := middleware.StoreFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return store, nil
}
