package domain

// Resource identifies one of the catalog collections managed by the console.
type Resource string

const (
	ResourceProducts   Resource = "products"
	ResourceVariations Resource = "variations"
	ResourceColors     Resource = "colors"
	ResourcePrices     Resource = "prices"
	ResourceUsers      Resource = "users"
)

// Resources lists every resource in dashboard tab order.
var Resources = []Resource{
	ResourceProducts,
	ResourceVariations,
	ResourceColors,
	ResourcePrices,
	ResourceUsers,
}

// ParseResource matches s against the known resources.
func ParseResource(s string) (Resource, bool) {
	for _, r := range Resources {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Label is the human-readable tab title.
func (r Resource) Label() string {
	switch r {
	case ResourceProducts:
		return "Products"
	case ResourceVariations:
		return "Product Variations"
	case ResourceColors:
		return "Colors"
	case ResourcePrices:
		return "Prices"
	case ResourceUsers:
		return "Users"
	}
	return string(r)
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Product is a catalog product.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Brand       string `json:"brand"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageUrl"    validate:"required,url"`
	Brand       string `json:"brand"       validate:"required"`
}

// VariationProduct is the product summary embedded in a variation.
type VariationProduct struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Brand       string `json:"brand"`
}

// Variation is a product offered in a given color at a given price.
type Variation struct {
	ID          int64            `json:"id"`
	Product     VariationProduct `json:"product"`
	ColorName   string           `json:"colorName"`
	PriceAmount float64          `json:"priceAmount"`
}

// VariationInput is the payload for creating or updating a variation.
type VariationInput struct {
	ProductID   int64   `json:"productId"   validate:"required,gt=0"`
	ColorName   string  `json:"colorName"   validate:"required"`
	PriceAmount float64 `json:"priceAmount" validate:"required,gt=0"`
}

// Color is a named catalog color.
type Color struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hexCode"`
}

// ColorInput is the payload for creating or updating a color.
type ColorInput struct {
	Name    string `json:"name"    validate:"required"`
	HexCode string `json:"hexCode" validate:"required,hexcolor"`
}

// Price is a standalone price entry.
type Price struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
}

// PriceInput is the payload for creating or updating a price.
type PriceInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}
