package listing

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/infrastructure/db/memory"
)

func sessionCtx(t *testing.T, role domain.Role) context.Context {
	t.Helper()
	store := session.NewStore("sid", memory.NewSessionRepository(0), zerolog.Nop())
	if err := store.Commit(context.Background(), domain.Identity{ID: "1", Email: "a@b.com", Role: role}, "tok"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return session.ContextWithStore(context.Background(), store)
}

type stubProductAPI struct {
	mu      sync.Mutex
	pages   map[int][]domain.Product
	total   int
	listErr error
	calls   []int
	deleted []int64
	created []domain.ProductInput

	// afterDelete replaces pages/total once a delete succeeds.
	afterDelete func(*stubProductAPI)
}

func (a *stubProductAPI) ListProducts(_ context.Context, page, pageSize int) (domain.Page[domain.Product], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, page)
	if a.listErr != nil {
		return domain.Page[domain.Product]{}, a.listErr
	}
	return domain.Page[domain.Product]{Items: a.pages[page], TotalPages: a.total}, nil
}

func (a *stubProductAPI) CreateProduct(_ context.Context, in domain.ProductInput) error {
	a.created = append(a.created, in)
	return nil
}

func (a *stubProductAPI) UpdateProduct(context.Context, int64, domain.ProductInput) error {
	return nil
}

func (a *stubProductAPI) DeleteProduct(_ context.Context, id int64) error {
	a.deleted = append(a.deleted, id)
	if a.afterDelete != nil {
		a.afterDelete(a)
	}
	return nil
}

func TestProducts_LoadFirstPage(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{1: {{ID: 1, Name: "Chair"}}},
		total: 3,
	}
	c := NewProducts(api, zerolog.Nop())

	if err := c.Load(sessionCtx(t, domain.RoleSeller), 1); err != nil {
		t.Fatalf("load: %v", err)
	}

	st := c.State()
	if len(st.Items) != 1 || st.TotalPages != 3 || st.CurrentPage != 1 || st.Loading || st.Error != "" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestProducts_LoadIsIdempotent(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{1: {{ID: 1}, {ID: 2}}},
		total: 1,
	}
	c := NewProducts(api, zerolog.Nop())
	ctx := sessionCtx(t, domain.RoleAdmin)

	_ = c.Load(ctx, 1)
	first := c.State().Items
	_ = c.Load(ctx, 1)

	if !reflect.DeepEqual(first, c.State().Items) {
		t.Fatalf("expected identical items across loads")
	}
}

func TestProducts_DeleteLastItemStepsBack(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{
			1: {{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}},
			2: {{ID: 6}},
		},
		total: 2,
		afterDelete: func(a *stubProductAPI) {
			delete(a.pages, 2)
			a.total = 1
		},
	}
	c := NewProducts(api, zerolog.Nop())
	ctx := sessionCtx(t, domain.RoleAdmin)

	if err := c.Load(ctx, 2); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := c.Delete(ctx, 6); err != nil {
		t.Fatalf("delete: %v", err)
	}

	st := c.State()
	if st.CurrentPage != 1 || len(st.Items) != 5 {
		t.Fatalf("expected to land on page 1 with 5 items, got %+v", st)
	}
	if got := api.calls[len(api.calls)-1]; got != 1 {
		t.Fatalf("expected reload of page 1, got %d", got)
	}
}

func TestProducts_ClampsWhenServerHasFewerPages(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{2: {{ID: 6}}},
		total: 2,
	}
	c := NewProducts(api, zerolog.Nop())

	if err := c.Load(sessionCtx(t, domain.RoleSeller), 9); err != nil {
		t.Fatalf("load: %v", err)
	}

	st := c.State()
	if st.CurrentPage != 2 || len(st.Items) != 1 {
		t.Fatalf("expected last page, got %+v", st)
	}
	if !reflect.DeepEqual(api.calls, []int{9, 2}) {
		t.Fatalf("expected one reload of the last page, got %v", api.calls)
	}
}

func TestProducts_ZeroTotalPagesIsOnePage(t *testing.T) {
	c := NewProducts(&stubProductAPI{total: 0}, zerolog.Nop())
	if err := c.Load(sessionCtx(t, domain.RoleSeller), 1); err != nil {
		t.Fatalf("load: %v", err)
	}
	if st := c.State(); st.TotalPages != 1 || st.CurrentPage != 1 {
		t.Fatalf("unexpected paging: %+v", st)
	}
}

func TestProducts_LoadFailureKeepsItems(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{1: {{ID: 1}}},
		total: 1,
	}
	c := NewProducts(api, zerolog.Nop())
	ctx := sessionCtx(t, domain.RoleSeller)
	_ = c.Load(ctx, 1)

	api.listErr = errors.New("boom")
	if err := c.Load(ctx, 1); err == nil {
		t.Fatalf("expected error")
	}

	st := c.State()
	if len(st.Items) != 1 || st.Error == "" || st.Loading {
		t.Fatalf("expected previous items with an error message, got %+v", st)
	}
}

func TestProducts_MutationsRequireCapability(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		op   func(context.Context, *Products) error
	}{
		{name: "seller delete", role: domain.RoleSeller, op: func(ctx context.Context, c *Products) error { return c.Delete(ctx, 1) }},
		{name: "user create", role: domain.RoleUser, op: func(ctx context.Context, c *Products) error { return c.Create(ctx, domain.ProductInput{}) }},
		{name: "user load", role: domain.RoleUser, op: func(ctx context.Context, c *Products) error { return c.Load(ctx, 1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubProductAPI{total: 1}
			c := NewProducts(api, zerolog.Nop())

			err := tc.op(sessionCtx(t, tc.role), c)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
			if len(api.calls) != 0 || len(api.deleted) != 0 || len(api.created) != 0 {
				t.Fatalf("forbidden call reached the API")
			}
			if c.State().Error == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestProducts_RequiresSession(t *testing.T) {
	c := NewProducts(&stubProductAPI{total: 1}, zerolog.Nop())
	if err := c.Load(context.Background(), 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestProducts_CreateReloadsCurrentPage(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{2: {{ID: 6}}},
		total: 2,
	}
	c := NewProducts(api, zerolog.Nop())
	ctx := sessionCtx(t, domain.RoleSeller)
	_ = c.Load(ctx, 2)

	if err := c.Create(ctx, domain.ProductInput{Name: "Desk"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(api.created) != 1 || api.calls[len(api.calls)-1] != 2 {
		t.Fatalf("expected create then reload of page 2, calls=%v", api.calls)
	}
}

func TestProducts_FilterAndEdit(t *testing.T) {
	api := &stubProductAPI{
		pages: map[int][]domain.Product{1: {{ID: 1, Name: "Oak chair"}, {ID: 2, Name: "Desk"}}},
		total: 1,
	}
	c := NewProducts(api, zerolog.Nop())
	_ = c.Load(sessionCtx(t, domain.RoleSeller), 1)

	c.SetFilter("CHAIR")
	if v := c.Visible(); len(v) != 1 || v[0].ID != 1 {
		t.Fatalf("unexpected filtered items: %+v", v)
	}

	if !c.BeginEdit(2) {
		t.Fatalf("expected item 2 to be editable")
	}
	if st := c.State(); st.Editing == nil || st.Editing.ID != 2 {
		t.Fatalf("expected editing target 2, got %+v", st.Editing)
	}
	c.CancelEdit()
	if c.State().Editing != nil {
		t.Fatalf("expected no editing target")
	}
	if c.BeginEdit(99) {
		t.Fatalf("unknown id must not become the editing target")
	}
}

type blockingProductAPI struct {
	stubProductAPI
	started chan struct{}
}

// ListProducts blocks page 1 until its context is cancelled.
func (a *blockingProductAPI) ListProducts(ctx context.Context, page, pageSize int) (domain.Page[domain.Product], error) {
	if page == 1 {
		close(a.started)
		<-ctx.Done()
		return domain.Page[domain.Product]{}, ctx.Err()
	}
	return domain.Page[domain.Product]{Items: []domain.Product{{ID: 20}}, TotalPages: 3}, nil
}

func TestController_LastRequestWins(t *testing.T) {
	api := &blockingProductAPI{started: make(chan struct{})}
	c := NewProducts(api, zerolog.Nop())
	ctx := sessionCtx(t, domain.RoleSeller)

	stale := make(chan error, 1)
	go func() { stale <- c.Load(ctx, 1) }()

	select {
	case <-api.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first load never started")
	}

	if err := c.Load(ctx, 2); err != nil {
		t.Fatalf("second load: %v", err)
	}

	select {
	case err := <-stale:
		if !errors.Is(err, domain.ErrSuperseded) {
			t.Fatalf("expected ErrSuperseded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stale load was not cancelled")
	}

	st := c.State()
	if st.CurrentPage != 2 || len(st.Items) != 1 || st.Items[0].ID != 20 || st.Error != "" || st.Loading {
		t.Fatalf("stale response leaked into state: %+v", st)
	}
}
