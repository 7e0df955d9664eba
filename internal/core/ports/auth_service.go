package ports

import (
	"context"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// LoginRequest is sent to the catalog authentication endpoint.
type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// LoginResult carries the optional fields the endpoint may echo back.
type LoginResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RegisterRequest is sent to the catalog registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// AuthAPI is the catalog authentication boundary.
type AuthAPI interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req RegisterRequest) error
}

// AuthService is the authentication flow a session-bound caller drives.
type AuthService interface {
	Login(ctx context.Context, email, password string, role domain.Role) bool
	Register(ctx context.Context, email, password, name string) bool
	Logout(ctx context.Context)
}
