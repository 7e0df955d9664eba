// Package listing holds the per-session list controllers behind each
// dashboard tab: paging, client-side filtering, edit targets and
// capability-checked mutations against the catalog API.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/policy"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/pkg/metrics"
)

// Source binds a controller to one catalog resource. Exactly one of List
// (server-side paging) or ListAll (the API returns everything and the
// controller pages locally) must be set.
type Source[T any, K comparable, I any] struct {
	Resource domain.Resource
	PageSize int

	List    func(ctx context.Context, page, pageSize int) (domain.Page[T], error)
	ListAll func(ctx context.Context) ([]T, error)

	Create func(ctx context.Context, in I) error
	Update func(ctx context.Context, id K, in I) error
	Delete func(ctx context.Context, id K) error

	Key      func(T) K
	ParseKey func(string) (K, error)
	Match    func(item T, term string) bool

	// StepBackOnDelete moves to the previous page when the last item of a
	// page beyond the first is deleted.
	StepBackOnDelete bool
}

// State is a copy of a controller's state.
type State[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	Filter      string
	Loading     bool
	Error       string
	Editing     *T
}

// Controller is the state machine of one list screen. It is safe for
// concurrent use; of several overlapping loads only the most recently
// started one is applied.
type Controller[T any, K comparable, I any] struct {
	src Source[T, K, I]
	log zerolog.Logger

	mu      sync.Mutex
	all     []T
	items   []T
	page    int
	total   int
	filter  string
	loading bool
	errMsg  string
	editing *K

	seq    uint64
	cancel context.CancelFunc
}

// New returns a controller on page 1 of 1 with no items.
func New[T any, K comparable, I any](src Source[T, K, I], log zerolog.Logger) *Controller[T, K, I] {
	if src.PageSize <= 0 {
		src.PageSize = 10
	}
	return &Controller[T, K, I]{
		src:   src,
		log:   log.With().Str("resource", string(src.Resource)).Logger(),
		page:  1,
		total: 1,
	}
}

func (c *Controller[T, K, I]) Resource() domain.Resource { return c.src.Resource }

func (c *Controller[T, K, I]) PageSize() int { return c.src.PageSize }

// Load fetches page and makes it current. On failure the previous items are
// kept and an error message is recorded. A load overtaken by a newer one
// returns domain.ErrSuperseded and changes nothing.
func (c *Controller[T, K, I]) Load(ctx context.Context, page int) error {
	if err := authorize(ctx, c.src.Resource, policy.ActionView); err != nil {
		c.fail(err)
		return err
	}
	return c.load(ctx, page, true)
}

func (c *Controller[T, K, I]) load(ctx context.Context, page int, retry bool) error {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.loading = true
	c.mu.Unlock()
	defer cancel()

	var (
		pg  domain.Page[T]
		all []T
		err error
	)
	if c.src.ListAll != nil {
		all, err = c.src.ListAll(loadCtx)
	} else {
		pg, err = c.src.List(loadCtx, page, c.src.PageSize)
	}

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		metrics.StaleLoadsDiscardedTotal.WithLabelValues(string(c.src.Resource)).Inc()
		c.log.Debug().Int("page", page).Msg("discarded superseded load")
		return domain.ErrSuperseded
	}
	c.cancel = nil
	c.loading = false

	if err != nil {
		c.errMsg = Message(err)
		c.mu.Unlock()
		c.log.Warn().Err(err).Int("page", page).Msg("load failed")
		return fmt.Errorf("load %s page %d: %w", c.src.Resource, page, err)
	}
	c.errMsg = ""

	if c.src.ListAll != nil {
		c.all = all
		c.paginateLocked(page)
		c.mu.Unlock()
		return nil
	}

	total := max(pg.TotalPages, 1)
	if page > total && retry {
		c.mu.Unlock()
		return c.load(ctx, total, false)
	}
	c.items = pg.Items
	c.total = total
	c.page = min(page, total)
	c.mu.Unlock()
	return nil
}

// paginateLocked filters the locally held list and cuts out page.
func (c *Controller[T, K, I]) paginateLocked(page int) {
	filtered := c.all
	if c.filter != "" && c.src.Match != nil {
		filtered = make([]T, 0, len(c.all))
		for _, it := range c.all {
			if c.src.Match(it, c.filter) {
				filtered = append(filtered, it)
			}
		}
	}

	size := c.src.PageSize
	total := max((len(filtered)+size-1)/size, 1)
	page = min(max(page, 1), total)

	start := (page - 1) * size
	end := min(start+size, len(filtered))
	c.items = filtered[start:end]
	c.total = total
	c.page = page
}

// SetFilter sets the client-side filter term. Locally paged lists jump back
// to the first page when the term changes.
func (c *Controller[T, K, I]) SetFilter(term string) {
	term = strings.TrimSpace(term)

	c.mu.Lock()
	defer c.mu.Unlock()
	if term == c.filter {
		return
	}
	c.filter = term
	if c.src.ListAll != nil && c.all != nil {
		c.paginateLocked(1)
	}
}

// Visible returns the current page's items that match the filter.
func (c *Controller[T, K, I]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Controller[T, K, I]) visibleLocked() []T {
	if c.src.ListAll != nil || c.filter == "" || c.src.Match == nil {
		return append([]T(nil), c.items...)
	}
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if c.src.Match(it, c.filter) {
			out = append(out, it)
		}
	}
	return out
}

// State returns a copy of the controller state with Items set to the
// visible items.
func (c *Controller[T, K, I]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State[T]{
		Items:       c.visibleLocked(),
		CurrentPage: c.page,
		TotalPages:  c.total,
		Filter:      c.filter,
		Loading:     c.loading,
		Error:       c.errMsg,
	}
	if item, ok := c.editingLocked(); ok {
		st.Editing = &item
	}
	return st
}

// BeginEdit makes the loaded item with id the edit target.
func (c *Controller[T, K, I]) BeginEdit(id K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if c.src.Key(it) == id {
			c.editing = &id
			return true
		}
	}
	return false
}

// CancelEdit clears the edit target.
func (c *Controller[T, K, I]) CancelEdit() {
	c.mu.Lock()
	c.editing = nil
	c.mu.Unlock()
}

func (c *Controller[T, K, I]) editingLocked() (T, bool) {
	var zero T
	if c.editing == nil {
		return zero, false
	}
	for _, it := range c.items {
		if c.src.Key(it) == *c.editing {
			return it, true
		}
	}
	return zero, false
}

// Create adds an item and reloads the current page.
func (c *Controller[T, K, I]) Create(ctx context.Context, in I) error {
	return c.mutate(ctx, policy.ActionCreate, func(ctx context.Context) error {
		return c.src.Create(ctx, in)
	}, c.CurrentPage)
}

// Update changes item id, clears the edit target and reloads the current page.
func (c *Controller[T, K, I]) Update(ctx context.Context, id K, in I) error {
	return c.mutate(ctx, policy.ActionEdit, func(ctx context.Context) error {
		if err := c.src.Update(ctx, id, in); err != nil {
			return err
		}
		c.CancelEdit()
		return nil
	}, c.CurrentPage)
}

// Delete removes item id and reloads, stepping back a page when the source
// asks for it and the page would otherwise be empty.
func (c *Controller[T, K, I]) Delete(ctx context.Context, id K) error {
	return c.mutate(ctx, policy.ActionDelete, func(ctx context.Context) error {
		return c.src.Delete(ctx, id)
	}, func() int {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.src.StepBackOnDelete && c.page > 1 && len(c.items) == 1 && c.src.Key(c.items[0]) == id {
			return c.page - 1
		}
		return c.page
	})
}

// ParseKey converts a path parameter into an item key.
func (c *Controller[T, K, I]) ParseKey(raw string) (K, error) {
	k, err := c.src.ParseKey(raw)
	if err != nil {
		return k, fmt.Errorf("%s id %q: %w", c.src.Resource, raw, domain.ErrNotFound)
	}
	return k, nil
}

func (c *Controller[T, K, I]) mutate(ctx context.Context, action policy.Action, op func(context.Context) error, nextPage func() int) error {
	if err := authorize(ctx, c.src.Resource, action); err != nil {
		c.fail(err)
		return err
	}

	// computed before the mutation so the step-back sees the pre-delete page
	page := nextPage()

	if err := op(ctx); err != nil {
		c.fail(err)
		c.log.Warn().Err(err).Str("action", string(action)).Msg("mutation failed")
		return fmt.Errorf("%s %s: %w", action, c.src.Resource, err)
	}
	c.log.Info().Str("action", string(action)).Msg("mutation applied")

	if err := c.load(ctx, page, true); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		return err
	}
	return nil
}

// CurrentPage returns the page last loaded.
func (c *Controller[T, K, I]) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T, K, I]) fail(err error) {
	c.mu.Lock()
	c.errMsg = Message(err)
	c.mu.Unlock()
}

// authorize re-checks the role of the session attached to ctx.
func authorize(ctx context.Context, resource domain.Resource, action policy.Action) error {
	store, ok := session.StoreFromContext(ctx)
	if !ok || !store.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	identity, ok := store.Identity()
	if !ok {
		return domain.ErrUnauthenticated
	}
	return policy.Check(identity.Role, resource, action)
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
