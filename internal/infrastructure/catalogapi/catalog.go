package catalogapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// ── Products ─────────────────────────────────────────────────────────────────

type productPage struct {
	TotalPages int              `json:"totalPages"`
	Products   []domain.Product `json:"products"`
}

func (c *Client) ListProducts(ctx context.Context, page, pageSize int) (domain.Page[domain.Product], error) {
	var resp productPage
	err := c.do(ctx, call{
		resource: "products",
		method:   http.MethodGet,
		path:     "/Product",
		query:    pageQuery(page, pageSize),
	}, &resp)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return domain.Page[domain.Product]{Items: resp.Products, TotalPages: resp.TotalPages}, nil
}

func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	return c.do(ctx, call{resource: "products", method: http.MethodPost, path: "/Product", body: in}, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) error {
	body := struct {
		ID int64 `json:"id"`
		domain.ProductInput
	}{id, in}
	return c.do(ctx, call{resource: "products", method: http.MethodPut, path: fmt.Sprintf("/Product/%d", id), body: body}, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, call{resource: "products", method: http.MethodDelete, path: fmt.Sprintf("/Product/%d", id)}, nil)
}

// ── Variations ───────────────────────────────────────────────────────────────

type variationPage struct {
	Variations []domain.Variation `json:"variations"`
	TotalCount int                `json:"totalCount"`
	TotalPages int                `json:"totalPages"`
}

func (c *Client) ListVariations(ctx context.Context, page, pageSize int) (domain.Page[domain.Variation], error) {
	var resp variationPage
	err := c.do(ctx, call{
		resource: "variations",
		method:   http.MethodGet,
		path:     "/ProductVariation/display",
		query:    pageQuery(page, pageSize),
	}, &resp)
	if err != nil {
		return domain.Page[domain.Variation]{}, err
	}
	return domain.Page[domain.Variation]{Items: resp.Variations, TotalPages: resp.TotalPages}, nil
}

func (c *Client) VariationsByColor(ctx context.Context, color string) ([]domain.Variation, error) {
	var resp []domain.Variation
	err := c.do(ctx, call{
		resource: "variations",
		method:   http.MethodGet,
		path:     "/ProductVariation/Color/" + url.PathEscape(color),
	}, &resp)
	return resp, err
}

func (c *Client) ColorNames(ctx context.Context) ([]string, error) {
	var resp []string
	err := c.do(ctx, call{resource: "colors", method: http.MethodGet, path: "/Color/names"}, &resp)
	return resp, err
}

func (c *Client) CreateVariation(ctx context.Context, in domain.VariationInput) error {
	return c.do(ctx, call{resource: "variations", method: http.MethodPost, path: "/ProductVariation", body: in}, nil)
}

func (c *Client) UpdateVariation(ctx context.Context, id int64, in domain.VariationInput) error {
	return c.do(ctx, call{resource: "variations", method: http.MethodPut, path: fmt.Sprintf("/ProductVariation/%d", id), body: in}, nil)
}

func (c *Client) DeleteVariation(ctx context.Context, id int64) error {
	return c.do(ctx, call{resource: "variations", method: http.MethodDelete, path: fmt.Sprintf("/ProductVariation/%d", id)}, nil)
}

// ── Colors ───────────────────────────────────────────────────────────────────

type colorPage struct {
	TotalPages int            `json:"totalPages"`
	Colors     []domain.Color `json:"colors"`
}

func (c *Client) ListColors(ctx context.Context, page, pageSize int) (domain.Page[domain.Color], error) {
	var resp colorPage
	err := c.do(ctx, call{
		resource: "colors",
		method:   http.MethodGet,
		path:     "/Color",
		query:    pageQuery(page, pageSize),
	}, &resp)
	if err != nil {
		return domain.Page[domain.Color]{}, err
	}
	return domain.Page[domain.Color]{Items: resp.Colors, TotalPages: resp.TotalPages}, nil
}

func (c *Client) CreateColor(ctx context.Context, in domain.ColorInput) error {
	return c.do(ctx, call{resource: "colors", method: http.MethodPost, path: "/Color", body: in}, nil)
}

func (c *Client) UpdateColor(ctx context.Context, id int64, in domain.ColorInput) error {
	body := struct {
		ID int64 `json:"id"`
		domain.ColorInput
	}{id, in}
	return c.do(ctx, call{resource: "colors", method: http.MethodPut, path: fmt.Sprintf("/Color/%d", id), body: body}, nil)
}

func (c *Client) DeleteColor(ctx context.Context, id int64) error {
	return c.do(ctx, call{resource: "colors", method: http.MethodDelete, path: fmt.Sprintf("/Color/%d", id)}, nil)
}

// ── Prices ───────────────────────────────────────────────────────────────────

func (c *Client) ListPrices(ctx context.Context) ([]domain.Price, error) {
	var resp []domain.Price
	err := c.do(ctx, call{resource: "prices", method: http.MethodGet, path: "/Price"}, &resp)
	return resp, err
}

func (c *Client) CreatePrice(ctx context.Context, in domain.PriceInput) error {
	return c.do(ctx, call{resource: "prices", method: http.MethodPost, path: "/Price", body: in}, nil)
}

func (c *Client) UpdatePrice(ctx context.Context, id int64, in domain.PriceInput) error {
	body := struct {
		ID int64 `json:"id"`
		domain.PriceInput
	}{id, in}
	return c.do(ctx, call{resource: "prices", method: http.MethodPut, path: fmt.Sprintf("/Price/%d", id), body: body}, nil)
}

func (c *Client) DeletePrice(ctx context.Context, id int64) error {
	return c.do(ctx, call{resource: "prices", method: http.MethodDelete, path: fmt.Sprintf("/Price/%d", id)}, nil)
}

// ── Users ────────────────────────────────────────────────────────────────────

// ListUsers reads /User/admins or /User/sellers for those roles and
// /User/all otherwise.
func (c *Client) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	path := "/User/all"
	switch role {
	case domain.RoleAdmin:
		path = "/User/admins"
	case domain.RoleSeller:
		path = "/User/sellers"
	}

	var resp []domain.User
	err := c.do(ctx, call{resource: "users", method: http.MethodGet, path: path}, &resp)
	return resp, err
}

func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) error {
	return c.do(ctx, call{resource: "users", method: http.MethodPost, path: "/User/create", body: in}, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id string, in domain.UserInput) error {
	body := struct {
		ID string `json:"id"`
		domain.UserInput
	}{id, in}
	return c.do(ctx, call{resource: "users", method: http.MethodPut, path: "/User/update", body: body}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{resource: "users", method: http.MethodDelete, path: "/User/delete/" + url.PathEscape(id)}, nil)
}
