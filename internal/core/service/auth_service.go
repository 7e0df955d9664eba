package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/core/session"
	"github.com/retailcatalog/admin-console/internal/pkg/metrics"
)

// AuthService drives login, registration and logout for the session store
// attached to the call's context. It is the only writer of session state.
type AuthService struct {
	api    ports.AuthAPI
	tokens *TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(api ports.AuthAPI, tokens *TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, tokens: tokens, log: log}
}

// Login exchanges credentials for an identity and commits it with a fresh
// session token. It returns false, leaving the session unchanged, on any
// failure or when another login/register is already in flight.
func (s *AuthService) Login(ctx context.Context, email, password string, role domain.Role) bool {
	store, ok := session.StoreFromContext(ctx)
	if !ok {
		s.log.Error().Msg("login called without a session")
		return false
	}
	if !store.TryBegin() {
		metrics.LoginsTotal.WithLabelValues("busy").Inc()
		return false
	}
	defer store.End()

	return s.login(ctx, store, email, password, role)
}

// Register creates the account and then signs in with role User.
func (s *AuthService) Register(ctx context.Context, email, password, name string) bool {
	store, ok := session.StoreFromContext(ctx)
	if !ok {
		s.log.Error().Msg("register called without a session")
		return false
	}
	if !store.TryBegin() {
		metrics.LoginsTotal.WithLabelValues("busy").Inc()
		return false
	}
	defer store.End()

	req := ports.RegisterRequest{Email: email, Password: password, Name: name}
	if err := s.api.Register(ctx, req); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("registration failed")
		return false
	}
	s.log.Info().Str("email", email).Msg("account registered")

	return s.login(ctx, store, email, password, domain.RoleUser)
}

// Logout clears the session and its persisted copy. It never calls the API.
func (s *AuthService) Logout(ctx context.Context) {
	store, ok := session.StoreFromContext(ctx)
	if !ok {
		return
	}
	if err := store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Str("session_id", store.ID()).Msg("failed to clear persisted session")
		return
	}
	s.log.Info().Str("session_id", store.ID()).Msg("logged out")
}

func (s *AuthService) login(ctx context.Context, store *session.Store, email, password string, role domain.Role) bool {
	log := s.log.With().Str("email", email).Str("role", string(role)).Logger()

	if !role.Valid() {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		log.Warn().Msg("login with unknown role")
		return false
	}

	res, err := s.api.Login(ctx, ports.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "rejected"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		log.Warn().Err(err).Msg("login failed")
		return false
	}

	identity := domain.Identity{ID: email, Email: email, Role: role, Name: email}
	if res != nil {
		if res.ID != "" {
			identity.ID = res.ID
		}
		if res.Name != "" {
			identity.Name = res.Name
		}
	}

	token, err := s.tokens.Issue(store.ID(), identity)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("failed to issue session token")
		return false
	}

	if err := store.Commit(ctx, identity, token); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("failed to persist session")
		return false
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	log.Info().Str("session_id", store.ID()).Msg("logged in")
	return true
}
