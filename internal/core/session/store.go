package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/domain"
	"github.com/retailcatalog/admin-console/internal/core/ports"
)

// Snapshot is a consistent read of a session at one instant.
type Snapshot struct {
	ID            string
	Identity      *domain.Identity
	Token         string
	Authenticated bool
	Loading       bool
}

// Store holds the identity and bearer token of one browser session.
//
// Only the authentication flow calls Commit and Clear; everything else
// reads through Snapshot, Identity and Token.
type Store struct {
	id   string
	repo ports.SessionRepository
	log  zerolog.Logger

	mu       sync.RWMutex
	identity *domain.Identity
	token    string
	hydrated bool

	busy atomic.Bool
}

// NewStore returns an empty, not yet hydrated store for session id.
func NewStore(id string, repo ports.SessionRepository, log zerolog.Logger) *Store {
	return &Store{
		id:   id,
		repo: repo,
		log:  log.With().Str("session_id", id).Logger(),
	}
}

// ID returns the session id the store is bound to.
func (s *Store) ID() string { return s.id }

// Hydrate loads the persisted pair. A half-written pair is treated as absent.
// State written by Commit or Clear while the load was running wins.
func (s *Store) Hydrate(ctx context.Context) error {
	identity, token, ok, err := s.repo.Load(ctx, s.id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hydrated {
		return nil
	}
	s.hydrated = true

	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if !ok || identity == nil || token == "" {
		s.identity, s.token = nil, ""
		return nil
	}
	s.identity = identity
	s.token = token
	return nil
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		ID:      s.id,
		Token:   s.token,
		Loading: !s.hydrated || s.busy.Load(),
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	snap.Authenticated = snap.Identity != nil && snap.Token != ""
	return snap
}

// Identity returns a copy of the active identity.
func (s *Store) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports identity≠nil ∧ token≠"".
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.token != ""
}

// Loading reports whether the store is hydrating or an authentication call
// is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.hydrated || s.busy.Load()
}

// TryBegin marks the session busy. It returns false if it already was.
func (s *Store) TryBegin() bool {
	return s.busy.CompareAndSwap(false, true)
}

// End clears the busy mark set by TryBegin.
func (s *Store) End() {
	s.busy.Store(false)
}

// Commit persists identity and token as a pair and then makes them active.
// On a persistence error the session is left unchanged.
func (s *Store) Commit(ctx context.Context, identity domain.Identity, token string) error {
	if err := s.repo.Save(ctx, s.id, identity, token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.identity = &identity
	s.token = token
	s.hydrated = true
	s.mu.Unlock()

	s.log.Debug().Str("email", identity.Email).Str("role", string(identity.Role)).Msg("session committed")
	return nil
}

// Clear drops the identity and token, in memory and in persistence. The
// in-memory state is cleared even if persistence fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.token = ""
	s.hydrated = true
	s.mu.Unlock()

	if err := s.repo.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
