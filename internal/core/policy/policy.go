// Package policy maps a role to the actions it may take on each catalog
// resource. It is the single authority both for which affordances a screen
// offers and for which mutations a controller will issue.
package policy

import "github.com/retailcatalog/admin-console/internal/core/domain"

// Action is an operation a caller may attempt on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Capabilities is the permission set of one role on one resource.
type Capabilities struct {
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}

// Allows reports whether the capability set covers action.
func (c Capabilities) Allows(action Action) bool {
	switch action {
	case ActionView:
		return c.CanView
	case ActionCreate:
		return c.CanCreate
	case ActionEdit:
		return c.CanEdit
	case ActionDelete:
		return c.CanDelete
	}
	return false
}

// CapabilitiesFor returns what role may do on resource. Unknown roles and
// unknown resources get nothing.
func CapabilitiesFor(role domain.Role, resource domain.Resource) Capabilities {
	if !role.Valid() || !knownResource(resource) {
		return Capabilities{}
	}

	manager := role == domain.RoleSeller || role == domain.RoleAdmin
	return Capabilities{
		CanView:   manager || resource == domain.ResourceVariations,
		CanCreate: manager,
		CanEdit:   manager,
		CanDelete: role == domain.RoleAdmin,
	}
}

// Table returns the capabilities of role for every resource.
func Table(role domain.Role) map[domain.Resource]Capabilities {
	table := make(map[domain.Resource]Capabilities, len(domain.Resources))
	for _, r := range domain.Resources {
		table[r] = CapabilitiesFor(role, r)
	}
	return table
}

// Check returns domain.ErrForbidden when role may not perform action on resource.
func Check(role domain.Role, resource domain.Resource, action Action) error {
	if !CapabilitiesFor(role, resource).Allows(action) {
		return domain.ErrForbidden
	}
	return nil
}

func knownResource(r domain.Resource) bool {
	_, ok := domain.ParseResource(string(r))
	return ok
}
