package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
)

var _ ports.CatalogAPI = (*Client)(nil)

// loginResponse tolerates numeric or string ids.
type loginResponse struct {
	ID   json.RawMessage `json:"id"`
	Name string          `json:"name"`
}

func (c *Client) Login(ctx context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	var resp loginResponse
	err := c.do(ctx, call{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/Auth/login",
		body:     req,
		noAuth:   true,
	}, &resp)
	if err != nil {
		var apiErr APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, apiErr)
		}
		return nil, err
	}

	id := strings.Trim(strings.TrimSpace(string(resp.ID)), `"`)
	if id == "null" {
		id = ""
	}
	return &ports.LoginResult{ID: id, Name: resp.Name}, nil
}

func (c *Client) Register(ctx context.Context, req ports.RegisterRequest) error {
	return c.do(ctx, call{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/User/register",
		body:     req,
		noAuth:   true,
	}, nil)
}
