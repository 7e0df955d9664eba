// Package view decides which top-level screen a session gets: the sign-in
// forms, a role's dashboard, or the invalid-role placeholder.
package view

import (
	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/policy"
	"github.com/retailcatalog/admin-console/internal/core/session"
)

// Kind is the top-level screen.
type Kind int

const (
	KindUnauthenticated Kind = iota
	KindDashboard
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindDashboard:
		return "dashboard"
	case KindInvalid:
		return "invalid"
	}
	return "unknown"
}

// AuthView is the form shown while signed out.
type AuthView string

const (
	AuthLogin    AuthView = "login"
	AuthRegister AuthView = "register"
)

// DefaultAuthView is shown to visitors who have not picked a form.
const DefaultAuthView = AuthRegister

// ParseAuthView falls back to DefaultAuthView for anything unknown.
func ParseAuthView(s string) AuthView {
	switch AuthView(s) {
	case AuthLogin, AuthRegister:
		return AuthView(s)
	}
	return DefaultAuthView
}

// State is the resolved screen for one request.
type State struct {
	Kind     Kind
	AuthView AuthView
	Identity domain.Identity
	Tab      domain.Resource
	Tabs     []domain.Resource
}

// Resolve maps a session snapshot to a screen. A session that is loading or
// not authenticated never resolves to a dashboard.
func Resolve(snap session.Snapshot, authView AuthView) State {
	if snap.Loading || !snap.Authenticated || snap.Identity == nil {
		return State{Kind: KindUnauthenticated, AuthView: ParseAuthView(string(authView))}
	}

	identity := *snap.Identity
	tabs := TabsFor(identity.Role)
	if len(tabs) == 0 {
		return State{Kind: KindInvalid, Identity: identity}
	}
	return State{
		Kind:     KindDashboard,
		Identity: identity,
		Tab:      tabs[0],
		Tabs:     tabs,
	}
}

// SelectTab switches to tab when the dashboard offers it and to the default
// tab otherwise. Other screens are returned unchanged.
func (s State) SelectTab(tab domain.Resource) State {
	if s.Kind != KindDashboard {
		return s
	}
	s.Tab = s.Tabs[0]
	for _, t := range s.Tabs {
		if t == tab {
			s.Tab = t
			break
		}
	}
	return s
}

// HasTab reports whether the dashboard offers tab.
func (s State) HasTab(tab domain.Resource) bool {
	if s.Kind != KindDashboard {
		return false
	}
	for _, t := range s.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Logout returns the signed-out screen showing the sign-in form.
func (s State) Logout() State {
	return State{Kind: KindUnauthenticated, AuthView: AuthLogin}
}

// TabsFor lists the resources a role's dashboard shows, default first.
func TabsFor(role domain.Role) []domain.Resource {
	var tabs []domain.Resource
	for _, r := range domain.Resources {
		if policy.CapabilitiesFor(role, r).CanView {
			tabs = append(tabs, r)
		}
	}
	return tabs
}
