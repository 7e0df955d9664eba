package ports

import (
	"context"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// ProductAPI manages products.
type ProductAPI interface {
	ListProducts(ctx context.Context, page, pageSize int) (domain.Page[domain.Product], error)
	CreateProduct(ctx context.Context, in domain.ProductInput) error
	UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

// VariationAPI manages product variations.
type VariationAPI interface {
	ListVariations(ctx context.Context, page, pageSize int) (domain.Page[domain.Variation], error)
	// VariationsByColor returns every variation in the named color, unpaginated.
	VariationsByColor(ctx context.Context, color string) ([]domain.Variation, error)
	ColorNames(ctx context.Context) ([]string, error)
	CreateVariation(ctx context.Context, in domain.VariationInput) error
	UpdateVariation(ctx context.Context, id int64, in domain.VariationInput) error
	DeleteVariation(ctx context.Context, id int64) error
}

// ColorAPI manages colors.
type ColorAPI interface {
	ListColors(ctx context.Context, page, pageSize int) (domain.Page[domain.Color], error)
	CreateColor(ctx context.Context, in domain.ColorInput) error
	UpdateColor(ctx context.Context, id int64, in domain.ColorInput) error
	DeleteColor(ctx context.Context, id int64) error
}

// PriceAPI manages prices. The listing endpoint is not paginated.
type PriceAPI interface {
	ListPrices(ctx context.Context) ([]domain.Price, error)
	CreatePrice(ctx context.Context, in domain.PriceInput) error
	UpdatePrice(ctx context.Context, id int64, in domain.PriceInput) error
	DeletePrice(ctx context.Context, id int64) error
}

// UserAPI manages catalog accounts. The listing endpoints are not paginated.
type UserAPI interface {
	// ListUsers returns every account, or only admins/sellers when role is set.
	ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) error
	UpdateUser(ctx context.Context, id string, in domain.UserInput) error
	DeleteUser(ctx context.Context, id string) error
}

// CatalogAPI is the full remote surface the console consumes.
type CatalogAPI interface {
	AuthAPI
	ProductAPI
	VariationAPI
	ColorAPI
	PriceAPI
	UserAPI
}
