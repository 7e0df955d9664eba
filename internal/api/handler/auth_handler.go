package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/view"
)

const (
	loginFailedMessage    = "Login failed. Check your email, password and role."
	registerFailedMessage = "Registration failed. The email may already be in use."
)

// SessionDropper discards per-session screen state.
type SessionDropper interface {
	Drop(sessionID string)
}

type AuthHandler struct {
	auth    ports.AuthService
	screens SessionDropper
	log     zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, screens SessionDropper, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, screens: screens, log: log}
}

// ShowLogin renders the sign-in form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.showForm(c, view.AuthLogin)
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.showForm(c, view.AuthRegister)
}

func (h *AuthHandler) showForm(c echo.Context, v view.AuthView) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	if store.IsAuthenticated() {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "auth", authPage{View: string(v), Roles: domain.Roles, Role: string(domain.RoleUser)})
}

// Login validates the form and signs the session in.
func (h *AuthHandler) Login(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	var f loginForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := authPage{View: string(view.AuthLogin), Roles: domain.Roles, Email: f.Email, Role: f.Role}

	if err := c.Validate(&f); err != nil {
		page.Error = formMessage(err)
		return c.Render(http.StatusUnprocessableEntity, "auth", page)
	}

	role, _ := domain.ParseRole(f.Role)
	if !h.auth.Login(c.Request().Context(), f.Email, f.Password, role) {
		page.Error = loginFailedMessage
		return c.Render(http.StatusUnauthorized, "auth", page)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Register validates the form, creates the account and signs in as User.
func (h *AuthHandler) Register(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	var f registerForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	page := authPage{View: string(view.AuthRegister), Roles: domain.Roles, Email: f.Email, Name: f.Name}

	if err := c.Validate(&f); err != nil {
		page.Error = formMessage(err)
		return c.Render(http.StatusUnprocessableEntity, "auth", page)
	}

	if !h.auth.Register(c.Request().Context(), f.Email, f.Password, f.Name) {
		page.Error = registerFailedMessage
		return c.Render(http.StatusBadRequest, "auth", page)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session and returns to the sign-in form.
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	h.auth.Logout(c.Request().Context())
	h.screens.Drop(store.ID())
	return c.Redirect(http.StatusSeeOther, "/login")
}

func formMessage(err error) string {
	var ie inputError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return "The form could not be processed."
}
