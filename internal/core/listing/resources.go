package listing

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/policy"
	"github.com/retailcatalog/admin-console/internal/core/ports"
)

const (
	ProductsPageSize   = 5
	VariationsPageSize = 7
	ColorsPageSize     = 10
	PricesPageSize     = 10
	UsersPageSize      = 10
)

type (
	Products = Controller[domain.Product, int64, domain.ProductInput]
	Colors   = Controller[domain.Color, int64, domain.ColorInput]
	Prices   = Controller[domain.Price, int64, domain.PriceInput]
)

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func parseString(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", strconv.ErrSyntax
	}
	return raw, nil
}

func NewProducts(api ports.ProductAPI, log zerolog.Logger) *Products {
	return New(Source[domain.Product, int64, domain.ProductInput]{
		Resource:         domain.ResourceProducts,
		PageSize:         ProductsPageSize,
		List:             api.ListProducts,
		Create:           api.CreateProduct,
		Update:           api.UpdateProduct,
		Delete:           api.DeleteProduct,
		Key:              func(p domain.Product) int64 { return p.ID },
		ParseKey:         parseInt64,
		StepBackOnDelete: true,
		Match: func(p domain.Product, term string) bool {
			return containsFold(p.Name, term) || containsFold(p.Brand, term) || containsFold(p.Description, term)
		},
	}, log)
}

func NewColors(api ports.ColorAPI, log zerolog.Logger) *Colors {
	return New(Source[domain.Color, int64, domain.ColorInput]{
		Resource: domain.ResourceColors,
		PageSize: ColorsPageSize,
		List:     api.ListColors,
		Create:   api.CreateColor,
		Update:   api.UpdateColor,
		Delete:   api.DeleteColor,
		Key:      func(c domain.Color) int64 { return c.ID },
		ParseKey: parseInt64,
		Match: func(c domain.Color, term string) bool {
			return containsFold(c.Name, term) || containsFold(c.HexCode, term)
		},
	}, log)
}

// NewPrices pages the full price list locally and filters by id substring.
func NewPrices(api ports.PriceAPI, log zerolog.Logger) *Prices {
	return New(Source[domain.Price, int64, domain.PriceInput]{
		Resource: domain.ResourcePrices,
		PageSize: PricesPageSize,
		ListAll:  api.ListPrices,
		Create:   api.CreatePrice,
		Update:   api.UpdatePrice,
		Delete:   api.DeletePrice,
		Key:      func(p domain.Price) int64 { return p.ID },
		ParseKey: parseInt64,
		Match: func(p domain.Price, term string) bool {
			return strings.Contains(strconv.FormatInt(p.ID, 10), term)
		},
	}, log)
}

// Variations adds a color filter mode. While a color is set, loads return
// the whole filtered set as a single page.
type Variations struct {
	*Controller[domain.Variation, int64, domain.VariationInput]

	api   ports.VariationAPI
	mu    sync.RWMutex
	color string
}

func NewVariations(api ports.VariationAPI, log zerolog.Logger) *Variations {
	v := &Variations{api: api}
	v.Controller = New(Source[domain.Variation, int64, domain.VariationInput]{
		Resource: domain.ResourceVariations,
		PageSize: VariationsPageSize,
		List:     v.list,
		Create:   api.CreateVariation,
		Update:   api.UpdateVariation,
		Delete:   api.DeleteVariation,
		Key:      func(it domain.Variation) int64 { return it.ID },
		ParseKey: parseInt64,
		Match: func(it domain.Variation, term string) bool {
			return containsFold(it.Product.Name, term) || containsFold(it.ColorName, term)
		},
	}, log)
	return v
}

func (v *Variations) list(ctx context.Context, page, pageSize int) (domain.Page[domain.Variation], error) {
	color := v.ColorFilter()
	if color == "" {
		return v.api.ListVariations(ctx, page, pageSize)
	}
	items, err := v.api.VariationsByColor(ctx, color)
	if err != nil {
		return domain.Page[domain.Variation]{}, err
	}
	return domain.Page[domain.Variation]{Items: items, TotalPages: 1}, nil
}

// Load ignores page while a color filter is set.
func (v *Variations) Load(ctx context.Context, page int) error {
	if v.ColorFilter() != "" {
		page = 1
	}
	return v.Controller.Load(ctx, page)
}

func (v *Variations) SetColorFilter(color string) {
	v.mu.Lock()
	v.color = strings.TrimSpace(color)
	v.mu.Unlock()
}

func (v *Variations) ClearColorFilter() { v.SetColorFilter("") }

func (v *Variations) ColorFilter() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.color
}

// AvailableColors lists the color names the filter can choose from.
func (v *Variations) AvailableColors(ctx context.Context) ([]string, error) {
	if err := authorize(ctx, domain.ResourceVariations, policy.ActionView); err != nil {
		return nil, err
	}
	return v.api.ColorNames(ctx)
}

// Users pages the account list locally. A role filter narrows the listing
// to admins or sellers on the server side.
type Users struct {
	*Controller[domain.User, string, domain.UserInput]

	api  ports.UserAPI
	mu   sync.RWMutex
	role domain.Role
}

func NewUsers(api ports.UserAPI, log zerolog.Logger) *Users {
	u := &Users{api: api}
	u.Controller = New(Source[domain.User, string, domain.UserInput]{
		Resource: domain.ResourceUsers,
		PageSize: UsersPageSize,
		ListAll:  u.list,
		Create:   api.CreateUser,
		Update:   api.UpdateUser,
		Delete:   api.DeleteUser,
		Key:      func(it domain.User) string { return it.ID },
		ParseKey: parseString,
		Match: func(it domain.User, term string) bool {
			return containsFold(it.Name, term) || containsFold(it.Email, term)
		},
	}, log)
	return u
}

func (u *Users) list(ctx context.Context) ([]domain.User, error) {
	return u.api.ListUsers(ctx, u.RoleFilter())
}

// SetRoleFilter narrows the listing to Admin or Seller accounts. Any other
// value shows every account.
func (u *Users) SetRoleFilter(role domain.Role) {
	if role != domain.RoleAdmin && role != domain.RoleSeller {
		role = ""
	}
	u.mu.Lock()
	u.role = role
	u.mu.Unlock()
}

func (u *Users) RoleFilter() domain.Role {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.role
}
