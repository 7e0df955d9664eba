package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/listing"
	"github.com/retailcatalog/admin-console/internal/core/policy"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/core/view"
)

// DashboardHandler serves the role-scoped dashboard and its list screens.
type DashboardHandler struct {
	screens *listing.Registry
	log     zerolog.Logger
}

func NewDashboardHandler(screens *listing.Registry, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{screens: screens, log: log}
}

// Home dispatches to the screen the session resolves to.
func (h *DashboardHandler) Home(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	st := view.Resolve(store.Snapshot(), view.AuthView(c.QueryParam("view")))
	switch st.Kind {
	case view.KindDashboard:
		return c.Redirect(http.StatusSeeOther, dashboardPath(st.Tab))
	case view.KindInvalid:
		return h.renderInvalid(c, st)
	}
	return c.Render(http.StatusOK, "auth", authPage{View: string(st.AuthView), Roles: domain.Roles, Role: string(domain.RoleUser)})
}

// Show renders one dashboard tab. Query: page, q, color (variations),
// role (users).
func (h *DashboardHandler) Show(c echo.Context) error {
	return h.show(c, "")
}

// Edit renders a tab with the item :id opened in the edit form.
func (h *DashboardHandler) Edit(c echo.Context) error {
	return h.show(c, c.Param("id"))
}

func (h *DashboardHandler) show(c echo.Context, editID string) error {
	store, st, res, redirect, err := h.resolve(c)
	if err != nil || redirect {
		return err
	}

	ctx := c.Request().Context()
	set := h.screens.For(store.ID())
	page := queryInt(c, "page")
	filter := c.QueryParam("q")

	p := h.basePage(st, res)
	p.Flash = c.QueryParam("flash")

	switch res {
	case domain.ResourceProducts:
		load(ctx, h.log, set.Products, page, filter)
		editTarget(set.Products, editID)
		fill(&p, set.Products.State())

	case domain.ResourceVariations:
		set.Variations.SetColorFilter(c.QueryParam("color"))
		load(ctx, h.log, set.Variations, page, filter)
		editTarget(set.Variations.Controller, editID)
		fill(&p, set.Variations.State())
		p.ColorFilter = set.Variations.ColorFilter()
		if colors, err := set.Variations.AvailableColors(ctx); err != nil {
			h.log.Warn().Err(err).Msg("failed to load color names")
		} else {
			p.Colors = colors
		}

	case domain.ResourceColors:
		load(ctx, h.log, set.Colors, page, filter)
		editTarget(set.Colors, editID)
		fill(&p, set.Colors.State())

	case domain.ResourcePrices:
		load(ctx, h.log, set.Prices, page, filter)
		editTarget(set.Prices, editID)
		fill(&p, set.Prices.State())

	case domain.ResourceUsers:
		role, _ := domain.ParseRole(c.QueryParam("role"))
		set.Users.SetRoleFilter(role)
		load(ctx, h.log, set.Users, page, filter)
		editTarget(set.Users.Controller, editID)
		fill(&p, set.Users.State())
		p.RoleFilter = string(set.Users.RoleFilter())
	}

	if e := c.QueryParam("error"); e != "" {
		p.Error = e
	}
	return c.Render(http.StatusOK, "dashboard", p)
}

// Create handles the add form of a tab.
func (h *DashboardHandler) Create(c echo.Context) error {
	store, _, res, redirect, err := h.resolve(c)
	if err != nil || redirect {
		return err
	}
	set := h.screens.For(store.ID())
	ctx := c.Request().Context()

	switch res {
	case domain.ResourceProducts:
		var f productForm
		if err = bindForm(c, &f); err == nil {
			err = set.Products.Create(ctx, toProductInput(f))
		}
	case domain.ResourceVariations:
		var f variationForm
		if err = bindForm(c, &f); err == nil {
			err = set.Variations.Create(ctx, toVariationInput(f))
		}
	case domain.ResourceColors:
		var f colorForm
		if err = bindForm(c, &f); err == nil {
			err = set.Colors.Create(ctx, toColorInput(f))
		}
	case domain.ResourcePrices:
		var f priceForm
		if err = bindForm(c, &f); err == nil {
			err = set.Prices.Create(ctx, toPriceInput(f))
		}
	case domain.ResourceUsers:
		var f userForm
		if err = bindForm(c, &f); err == nil {
			if f.Password == "" {
				err = inputError{msg: "password is required"}
			} else {
				err = set.Users.Create(ctx, toUserInput(f))
			}
		}
	}
	return h.afterMutation(c, res, err, res.Label()+": item created.")
}

// Update handles the edit form of a tab.
func (h *DashboardHandler) Update(c echo.Context) error {
	store, _, res, redirect, err := h.resolve(c)
	if err != nil || redirect {
		return err
	}
	set := h.screens.For(store.ID())
	ctx := c.Request().Context()
	raw := c.Param("id")

	switch res {
	case domain.ResourceProducts:
		var f productForm
		if err = bindForm(c, &f); err == nil {
			err = update(ctx, set.Products, raw, toProductInput(f))
		}
	case domain.ResourceVariations:
		var f variationForm
		if err = bindForm(c, &f); err == nil {
			err = update(ctx, set.Variations.Controller, raw, toVariationInput(f))
		}
	case domain.ResourceColors:
		var f colorForm
		if err = bindForm(c, &f); err == nil {
			err = update(ctx, set.Colors, raw, toColorInput(f))
		}
	case domain.ResourcePrices:
		var f priceForm
		if err = bindForm(c, &f); err == nil {
			err = update(ctx, set.Prices, raw, toPriceInput(f))
		}
	case domain.ResourceUsers:
		var f userForm
		if err = bindForm(c, &f); err == nil {
			err = update(ctx, set.Users.Controller, raw, toUserInput(f))
		}
	}
	return h.afterMutation(c, res, err, res.Label()+": item updated.")
}

// Delete removes item :id from a tab.
func (h *DashboardHandler) Delete(c echo.Context) error {
	store, _, res, redirect, err := h.resolve(c)
	if err != nil || redirect {
		return err
	}
	set := h.screens.For(store.ID())
	ctx := c.Request().Context()
	raw := c.Param("id")

	switch res {
	case domain.ResourceProducts:
		err = remove(ctx, set.Products, raw)
	case domain.ResourceVariations:
		err = remove(ctx, set.Variations.Controller, raw)
	case domain.ResourceColors:
		err = remove(ctx, set.Colors, raw)
	case domain.ResourcePrices:
		err = remove(ctx, set.Prices, raw)
	case domain.ResourceUsers:
		err = remove(ctx, set.Users.Controller, raw)
	}
	return h.afterMutation(c, res, err, res.Label()+": item deleted.")
}

// resolve finds the session and the tab. redirect is true when a response
// (sign-in redirect, invalid-role page, or default-tab redirect) was
// already written.
func (h *DashboardHandler) resolve(c echo.Context) (*session.Store, view.State, domain.Resource, bool, error) {
	store, err := ctxSession(c)
	if err != nil {
		return nil, view.State{}, "", false, err
	}

	st := view.Resolve(store.Snapshot(), "")
	switch st.Kind {
	case view.KindUnauthenticated:
		return nil, st, "", true, c.Redirect(http.StatusSeeOther, "/login")
	case view.KindInvalid:
		return nil, st, "", true, h.renderInvalid(c, st)
	}

	res, ok := domain.ParseResource(c.Param("tab"))
	if !ok || !st.HasTab(res) {
		if c.Request().Method != http.MethodGet {
			return nil, st, "", false, domain.ErrForbidden
		}
		return nil, st, "", true, c.Redirect(http.StatusSeeOther, dashboardPath(st.SelectTab(res).Tab))
	}
	return store, st.SelectTab(res), res, false, nil
}

func (h *DashboardHandler) basePage(st view.State, res domain.Resource) dashboardPage {
	caps := policy.CapabilitiesFor(st.Identity.Role, res)
	return dashboardPage{
		Identity:  st.Identity,
		Tabs:      tabLinks(st.Tabs, res),
		Tab:       res,
		Label:     res.Label(),
		CanCreate: caps.CanCreate,
		CanEdit:   caps.CanEdit,
		CanDelete: caps.CanDelete,
		Roles:     domain.Roles,
	}
}

func (h *DashboardHandler) renderInvalid(c echo.Context, st view.State) error {
	return c.Render(http.StatusOK, "message", messagePage{
		Title:   "Invalid role",
		Message: "Your account role (" + string(st.Identity.Role) + ") is not recognised. Sign out and try again.",
	})
}

// afterMutation redirects back to the tab with a flash message, keeping the
// search, color and role filters the form was submitted under. The page is
// left out so the tab reloads the controller's current page. Permission
// failures go to the error handler instead.
func (h *DashboardHandler) afterMutation(c echo.Context, res domain.Resource, err error, ok string) error {
	q := keptFilters(c)
	switch {
	case err == nil:
		q.Set("flash", ok)
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthenticated):
		return err
	default:
		var ie inputError
		if errors.As(err, &ie) {
			q.Set("error", ie.Error())
		} else {
			q.Set("error", listing.Message(err))
		}
	}
	return c.Redirect(http.StatusSeeOther, dashboardPath(res)+"?"+q.Encode())
}

// keptFilters reads the list filters carried by a mutation form.
func keptFilters(c echo.Context) url.Values {
	q := url.Values{}
	for param, field := range map[string]string{"q": "keep_q", "color": "keep_color", "role": "keep_role"} {
		if v := c.FormValue(field); v != "" {
			q.Set(param, v)
		}
	}
	return q
}

// --- generic helpers over listing controllers ---

type loader interface {
	Load(ctx context.Context, page int) error
	SetFilter(term string)
	CurrentPage() int
}

// load applies the filter and loads page, or the current page when page is
// zero. Failures are already recorded in the controller state.
func load(ctx context.Context, log zerolog.Logger, l loader, page int, filter string) {
	l.SetFilter(filter)
	if page <= 0 {
		page = l.CurrentPage()
	}
	if err := l.Load(ctx, page); err != nil && !errors.Is(err, domain.ErrSuperseded) {
		log.Debug().Err(err).Msg("tab load failed")
	}
}

func editTarget[T any, K comparable, I any](c *listing.Controller[T, K, I], raw string) {
	if raw == "" {
		c.CancelEdit()
		return
	}
	if id, err := c.ParseKey(raw); err == nil {
		c.BeginEdit(id)
	}
}

func fill[T any](p *dashboardPage, st listing.State[T]) {
	p.Items = st.Items
	p.Page = st.CurrentPage
	p.TotalPages = st.TotalPages
	p.Filter = st.Filter
	p.Loading = st.Loading
	p.Error = st.Error
	if st.Editing != nil {
		p.Editing = *st.Editing
	}
}

func update[T any, K comparable, I any](ctx context.Context, c *listing.Controller[T, K, I], raw string, in I) error {
	id, err := c.ParseKey(raw)
	if err != nil {
		return err
	}
	return c.Update(ctx, id, in)
}

func remove[T any, K comparable, I any](ctx context.Context, c *listing.Controller[T, K, I], raw string) error {
	id, err := c.ParseKey(raw)
	if err != nil {
		return err
	}
	return c.Delete(ctx, id)
}

func bindForm(c echo.Context, f any) error {
	if err := c.Bind(f); err != nil {
		return inputError{msg: "the form could not be read"}
	}
	return c.Validate(f)
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}
