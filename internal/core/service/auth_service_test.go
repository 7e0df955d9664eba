package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/infrastructure/db/memory"
)

type stubAuthAPI struct {
	loginResult *ports.LoginResult
	loginErr    error
	registerErr error

	logins    []ports.LoginRequest
	registers []ports.RegisterRequest

	// block, when set, holds Login until released.
	block chan struct{}
}

func (a *stubAuthAPI) Login(_ context.Context, req ports.LoginRequest) (*ports.LoginResult, error) {
	a.logins = append(a.logins, req)
	if a.block != nil {
		<-a.block
	}
	return a.loginResult, a.loginErr
}

func (a *stubAuthAPI) Register(_ context.Context, req ports.RegisterRequest) error {
	a.registers = append(a.registers, req)
	return a.registerErr
}

const testSID = "7b0f1f5e-2c55-4c7a-9a53-4f2f8a1f9d10"

func newTestSession(t *testing.T) (context.Context, *session.Store, *memory.SessionRepository) {
	t.Helper()
	repo := memory.NewSessionRepository(0)
	store := session.NewStore(testSID, repo, zerolog.Nop())
	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return session.ContextWithStore(context.Background(), store), store, repo
}

func newTestAuthService(api ports.AuthAPI) *AuthService {
	return NewAuthService(api, NewTokenIssuer("secret", time.Hour), zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	api := &stubAuthAPI{loginResult: &ports.LoginResult{ID: "1", Name: "A"}}
	svc := newTestAuthService(api)
	ctx, store, repo := newTestSession(t)

	if !svc.Login(ctx, "a@b.com", "x", domain.RoleSeller) {
		t.Fatalf("expected login to succeed")
	}

	want := domain.Identity{ID: "1", Email: "a@b.com", Role: domain.RoleSeller, Name: "A"}
	got, ok := store.Identity()
	if !ok || got != want {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("expected authenticated session")
	}

	persisted, token, ok, _ := repo.Load(context.Background(), testSID)
	if !ok || *persisted != want || token != store.Token() {
		t.Fatalf("pair not persisted: %+v %q", persisted, token)
	}

	if len(api.logins) != 1 || api.logins[0].Role != domain.RoleSeller {
		t.Fatalf("unexpected login requests: %+v", api.logins)
	}
}

func TestAuthService_Login_TokenBoundToSession(t *testing.T) {
	api := &stubAuthAPI{loginResult: &ports.LoginResult{ID: "1"}}
	svc := newTestAuthService(api)
	ctx, store, _ := newTestSession(t)

	if !svc.Login(ctx, "a@b.com", "x", domain.RoleAdmin) {
		t.Fatalf("expected login to succeed")
	}

	claims, err := svc.tokens.Verify(store.Token(), testSID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != domain.RoleAdmin || claims.Subject != "1" || claims.Email != "a@b.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := svc.tokens.Verify(store.Token(), "another-session"); !errors.Is(err, ErrTokenSessionMismatch) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
}

func TestAuthService_Login_DefaultsFromEmail(t *testing.T) {
	svc := newTestAuthService(&stubAuthAPI{loginResult: &ports.LoginResult{}})
	ctx, store, _ := newTestSession(t)

	if !svc.Login(ctx, "a@b.com", "x", domain.RoleUser) {
		t.Fatalf("expected login to succeed")
	}
	got, _ := store.Identity()
	if got.ID != "a@b.com" || got.Name != "a@b.com" {
		t.Fatalf("expected email fallbacks, got %+v", got)
	}
}

func TestAuthService_Login_FailureLeavesSessionUnchanged(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "rejected", err: domain.ErrInvalidCredentials},
		{name: "transport", err: errors.New("connection refused")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(&stubAuthAPI{loginErr: tc.err})
			ctx, store, repo := newTestSession(t)

			if svc.Login(ctx, "a@b.com", "x", domain.RoleSeller) {
				t.Fatalf("expected login to fail")
			}
			if store.IsAuthenticated() {
				t.Fatalf("session must stay signed out")
			}
			if _, _, ok, _ := repo.Load(context.Background(), testSID); ok {
				t.Fatalf("nothing should be persisted")
			}
		})
	}
}

func TestAuthService_Login_InvalidRole(t *testing.T) {
	api := &stubAuthAPI{loginResult: &ports.LoginResult{ID: "1"}}
	svc := newTestAuthService(api)
	ctx, _, _ := newTestSession(t)

	if svc.Login(ctx, "a@b.com", "x", domain.Role("Root")) {
		t.Fatalf("expected login to fail")
	}
	if len(api.logins) != 0 {
		t.Fatalf("unknown role must not reach the API")
	}
}

func TestAuthService_Login_NoSession(t *testing.T) {
	svc := newTestAuthService(&stubAuthAPI{})
	if svc.Login(context.Background(), "a@b.com", "x", domain.RoleSeller) {
		t.Fatalf("expected login without session to fail")
	}
}

func TestAuthService_Login_BusyRejectsReentry(t *testing.T) {
	api := &stubAuthAPI{loginResult: &ports.LoginResult{ID: "1"}, block: make(chan struct{})}
	svc := newTestAuthService(api)
	ctx, store, _ := newTestSession(t)

	done := make(chan bool)
	go func() { done <- svc.Login(ctx, "a@b.com", "x", domain.RoleSeller) }()

	deadline := time.After(2 * time.Second)
	for !store.Loading() {
		select {
		case <-deadline:
			t.Fatalf("first login never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if svc.Login(ctx, "a@b.com", "x", domain.RoleSeller) {
		t.Fatalf("re-entrant login must be rejected")
	}

	close(api.block)
	if !<-done {
		t.Fatalf("first login should succeed")
	}
	if store.Loading() {
		t.Fatalf("busy flag should be cleared")
	}
}

func TestAuthService_Register_LogsInAsUser(t *testing.T) {
	api := &stubAuthAPI{loginResult: &ports.LoginResult{ID: "9", Name: "New"}}
	svc := newTestAuthService(api)
	ctx, store, _ := newTestSession(t)

	if !svc.Register(ctx, "n@b.com", "secret1", "New") {
		t.Fatalf("expected register to succeed")
	}
	if len(api.registers) != 1 || api.registers[0].Name != "New" {
		t.Fatalf("unexpected register requests: %+v", api.registers)
	}
	if len(api.logins) != 1 || api.logins[0].Role != domain.RoleUser {
		t.Fatalf("expected follow-up login as User, got %+v", api.logins)
	}
	if id, _ := store.Identity(); id.Role != domain.RoleUser {
		t.Fatalf("unexpected role %s", id.Role)
	}
}

func TestAuthService_Register_FailureSkipsLogin(t *testing.T) {
	api := &stubAuthAPI{registerErr: errors.New("email taken")}
	svc := newTestAuthService(api)
	ctx, store, _ := newTestSession(t)

	if svc.Register(ctx, "n@b.com", "secret1", "New") {
		t.Fatalf("expected register to fail")
	}
	if len(api.logins) != 0 {
		t.Fatalf("login must not be attempted after a failed registration")
	}
	if store.IsAuthenticated() {
		t.Fatalf("session must stay signed out")
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc := newTestAuthService(&stubAuthAPI{loginResult: &ports.LoginResult{ID: "1"}})
	ctx, store, repo := newTestSession(t)

	if !svc.Login(ctx, "a@b.com", "x", domain.RoleAdmin) {
		t.Fatalf("login failed")
	}
	svc.Logout(ctx)

	if store.IsAuthenticated() {
		t.Fatalf("expected signed out")
	}
	if _, _, ok, _ := repo.Load(context.Background(), testSID); ok {
		t.Fatalf("persisted pair should be removed")
	}
}

func TestTokenIssuer_RejectsExpiredAndTampered(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(testSID, domain.Identity{ID: "1", Email: "a@b.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenIssuer("other", time.Minute).Verify(token, testSID); err == nil {
		t.Fatalf("expected signature error")
	}

	now = now.Add(2 * time.Minute)
	if _, err := issuer.Verify(token, testSID); err == nil {
		t.Fatalf("expected expiry error")
	}
}
