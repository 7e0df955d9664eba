package handler

import "github.com/retailcatalog/admin-console/internal/core/domain"

// --- Auth forms ---

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role"     validate:"required,oneof=User Seller Admin"`
}

type registerForm struct {
	Name            string `form:"name"             validate:"required"`
	Email           string `form:"email"            validate:"required,email"`
	Password        string `form:"password"         validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// --- Catalog forms ---

type productForm struct {
	Name        string `form:"name"        validate:"required"`
	Description string `form:"description" validate:"required"`
	ImageURL    string `form:"image_url"   validate:"required,url"`
	Brand       string `form:"brand"       validate:"required"`
}

type variationForm struct {
	ProductID   int64   `form:"product_id"   validate:"required,gt=0"`
	ColorName   string  `form:"color_name"   validate:"required"`
	PriceAmount float64 `form:"price_amount" validate:"required,gt=0"`
}

type colorForm struct {
	Name    string `form:"name"     validate:"required"`
	HexCode string `form:"hex_code" validate:"required,hexcolor"`
}

type priceForm struct {
	Amount float64 `form:"amount" validate:"required,gt=0"`
}

// userForm leaves the password optional; on update an empty password keeps
// the current one. Create requires it, checked in the handler.
type userForm struct {
	Name     string `form:"name"     validate:"required"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	Role     string `form:"role"     validate:"required,oneof=User Seller Admin"`
}

// --- Pages ---

type authPage struct {
	View  string
	Roles []domain.Role
	Email string
	Name  string
	Role  string
	Error string
}

type tabLink struct {
	Resource domain.Resource
	Label    string
	Active   bool
}

type dashboardPage struct {
	Identity domain.Identity
	Tabs     []tabLink
	Tab      domain.Resource
	Label    string

	CanCreate bool
	CanEdit   bool
	CanDelete bool

	Items      any
	Editing    any
	Page       int
	TotalPages int
	Filter     string
	Loading    bool
	Error      string
	Flash      string

	// variations
	Colors      []string
	ColorFilter string

	// users
	Roles      []domain.Role
	RoleFilter string
}

type messagePage struct {
	Title   string
	Message string
	Code    int
}
