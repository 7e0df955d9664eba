package domain

import "strings"

// Role is the catalog role an identity signs in with.
type Role string

const (
	RoleUser   Role = "User"
	RoleSeller Role = "Seller"
	RoleAdmin  Role = "Admin"
)

// Roles lists the roles offered on the sign-in form, in display order.
var Roles = []Role{RoleUser, RoleSeller, RoleAdmin}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// ParseRole matches s against the known roles, ignoring surrounding space.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Identity is the authenticated actor owned by a session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// DisplayName falls back to the email when no name was provided.
func (i Identity) DisplayName() string {
	if strings.TrimSpace(i.Name) != "" {
		return i.Name
	}
	return i.Email
}

// User is a catalog account as listed by the user management screen.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// UserInput is the payload for creating or updating a catalog account.
// Password may be empty on update to keep the current one.
type UserInput struct {
	Name     string `json:"name"               validate:"required"`
	Email    string `json:"email"              validate:"required,email"`
	Password string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     Role   `json:"role"               validate:"required,oneof=User Seller Admin"`
}
