package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/policy"
)

// RBAC allows the request only when the caller's role may perform action on
// the resource named by the :tab path parameter.
func RBAC(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			resource, ok := domain.ParseResource(c.Param("tab"))
			if !ok {
				return echo.NewHTTPError(http.StatusNotFound, "unknown resource")
			}
			if err := policy.Check(role, resource, action); err != nil {
				return err
			}
			return next(c)
		}
	}
}
