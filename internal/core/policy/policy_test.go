package policy

import (
	"errors"
	"testing"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

func TestCapabilitiesFor_NonManagersCannotMutate(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleUser, "", "Guest", "admin"} {
		for _, res := range domain.Resources {
			caps := CapabilitiesFor(role, res)
			if caps.CanCreate || caps.CanEdit || caps.CanDelete {
				t.Fatalf("role %q on %s: expected no mutation rights, got %+v", role, res, caps)
			}
		}
	}
}

func TestCapabilitiesFor_Admin(t *testing.T) {
	for _, res := range domain.Resources {
		caps := CapabilitiesFor(domain.RoleAdmin, res)
		if !caps.CanView || !caps.CanCreate || !caps.CanEdit || !caps.CanDelete {
			t.Fatalf("admin on %s: expected full rights, got %+v", res, caps)
		}
	}
}

func TestCapabilitiesFor_Seller(t *testing.T) {
	for _, res := range domain.Resources {
		caps := CapabilitiesFor(domain.RoleSeller, res)
		if !caps.CanView || !caps.CanCreate || !caps.CanEdit {
			t.Fatalf("seller on %s: expected view/create/edit, got %+v", res, caps)
		}
		if caps.CanDelete {
			t.Fatalf("seller on %s: delete must be denied", res)
		}
	}
}

func TestCapabilitiesFor_UserReadsVariationsOnly(t *testing.T) {
	for _, res := range domain.Resources {
		caps := CapabilitiesFor(domain.RoleUser, res)
		want := res == domain.ResourceVariations
		if caps.CanView != want {
			t.Fatalf("user on %s: CanView = %v, want %v", res, caps.CanView, want)
		}
	}
}

func TestCapabilitiesFor_UnknownFailsClosed(t *testing.T) {
	if caps := CapabilitiesFor("Root", domain.ResourceProducts); caps != (Capabilities{}) {
		t.Fatalf("unknown role: expected zero capabilities, got %+v", caps)
	}
	if caps := CapabilitiesFor(domain.RoleAdmin, "orders"); caps != (Capabilities{}) {
		t.Fatalf("unknown resource: expected zero capabilities, got %+v", caps)
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name   string
		role   domain.Role
		res    domain.Resource
		action Action
		want   error
	}{
		{"admin deletes price", domain.RoleAdmin, domain.ResourcePrices, ActionDelete, nil},
		{"seller deletes price", domain.RoleSeller, domain.ResourcePrices, ActionDelete, domain.ErrForbidden},
		{"seller edits color", domain.RoleSeller, domain.ResourceColors, ActionEdit, nil},
		{"user views variations", domain.RoleUser, domain.ResourceVariations, ActionView, nil},
		{"user views users", domain.RoleUser, domain.ResourceUsers, ActionView, domain.ErrForbidden},
		{"unknown action", domain.RoleAdmin, domain.ResourceUsers, Action("export"), domain.ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.role, tc.res, tc.action)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Check() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTable_CoversEveryResource(t *testing.T) {
	table := Table(domain.RoleSeller)
	if len(table) != len(domain.Resources) {
		t.Fatalf("expected %d entries, got %d", len(domain.Resources), len(table))
	}
}
