package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClient_ListProductsSendsPagingAndBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Product" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("pageNumber"); got != "2" {
			t.Errorf("pageNumber = %q", got)
		}
		if got := r.URL.Query().Get("pageSize"); got != "5" {
			t.Errorf("pageSize = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = io.WriteString(w, `{"totalPages":3,"products":[{"id":1,"name":"Chair","imageUrl":"http://img/1"}]}`)
	})

	ctx := session.ContextWithToken(context.Background(), "tok")
	page, err := c.ListProducts(ctx, 2, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalPages != 3 || len(page.Items) != 1 || page.Items[0].ImageURL != "http://img/1" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestClient_LoginAcceptsNumericID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not carry a bearer token")
		}
		var req ports.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Role != domain.RoleSeller || req.Email != "a@b.com" {
			t.Errorf("unexpected body %+v", req)
		}
		_, _ = io.WriteString(w, `{"id":42,"name":"A"}`)
	})

	ctx := session.ContextWithToken(context.Background(), "stale")
	res, err := c.Login(ctx, ports.LoginRequest{Email: "a@b.com", Password: "x", Role: domain.RoleSeller})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.ID != "42" || res.Name != "A" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClient_LoginEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	res, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.ID != "" || res.Name != "" {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"bad password"}`)
	})

	_, err := c.Login(context.Background(), ports.LoginRequest{Email: "a@b.com"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad password" {
		t.Fatalf("expected wrapped APIError, got %v", err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusUnauthorized, want: domain.ErrUnauthenticated},
		{status: http.StatusForbidden, want: domain.ErrForbidden},
		{status: http.StatusNotFound, want: domain.ErrNotFound},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			if err := c.DeleteProduct(context.Background(), 1); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_ServerErrorIsNotPublic(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stack trace here", http.StatusInternalServerError)
	})

	err := c.DeletePrice(context.Background(), 1)
	var apiErr APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected APIError 500, got %v", err)
	}
	if apiErr.PublicMessage() != "" {
		t.Fatalf("server error text must not be shown to users")
	}
}

func TestClient_UpdateUserCarriesIDInBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/User/update" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["id"] != "u-1" || body["role"] != "Seller" {
			t.Errorf("unexpected body %v", body)
		}
		if _, ok := body["password"]; ok {
			t.Errorf("empty password must be omitted")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	in := domain.UserInput{Name: "A", Email: "a@b.com", Role: domain.RoleSeller}
	if err := c.UpdateUser(context.Background(), "u-1", in); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestClient_ListUsersByRole(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	})

	for _, role := range []domain.Role{"", domain.RoleAdmin, domain.RoleSeller} {
		if _, err := c.ListUsers(context.Background(), role); err != nil {
			t.Fatalf("list users: %v", err)
		}
	}

	want := []string{"/User/all", "/User/admins", "/User/sellers"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("call %d: path %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestClient_VariationsByColorEscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/ProductVariation/Color/Sky%20Blue" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `[{"id":1,"colorName":"Sky Blue","priceAmount":9.5,"product":{"id":3,"name":"Chair"}}]`)
	})

	items, err := c.VariationsByColor(context.Background(), "Sky Blue")
	if err != nil {
		t.Fatalf("by color: %v", err)
	}
	if len(items) != 1 || items[0].Product.Name != "Chair" || items[0].PriceAmount != 9.5 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestNew_NormalisesBaseURL(t *testing.T) {
	c, err := New("catalog.internal:5292/api/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.baseURL != "http://catalog.internal:5292/api" {
		t.Fatalf("unexpected base url %q", c.baseURL)
	}

	c, _ = New("")
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %q", c.baseURL)
	}
}
