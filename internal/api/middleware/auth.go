package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth sends signed-out visitors to the sign-in form and exposes the
// identity's role to later middleware as "role".
func RequireAuth(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, ok := StoreFrom(c)
			if !ok || !store.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			identity, _ := store.Identity()
			c.Set("identity", identity)
			c.Set("role", identity.Role)

			return next(c)
		}
	}
}
