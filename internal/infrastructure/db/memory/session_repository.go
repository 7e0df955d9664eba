// Package memory provides a process-local SessionRepository for development
// and tests. Sessions do not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

type record struct {
	identity  domain.Identity
	token     string
	expiresAt time.Time
}

type SessionRepository struct {
	mu      sync.RWMutex
	records map[string]record
	ttl     time.Duration
	now     func() time.Time
}

// NewSessionRepository returns an empty repository. A zero ttl never expires.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		records: make(map[string]record),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *SessionRepository) Load(_ context.Context, sid string) (*domain.Identity, string, bool, error) {
	r.mu.RLock()
	rec, ok := r.records[sid]
	r.mu.RUnlock()

	if !ok {
		return nil, "", false, nil
	}
	if !rec.expiresAt.IsZero() && !r.now().Before(rec.expiresAt) {
		r.mu.Lock()
		delete(r.records, sid)
		r.mu.Unlock()
		return nil, "", false, nil
	}
	identity := rec.identity
	return &identity, rec.token, true, nil
}

func (r *SessionRepository) Save(_ context.Context, sid string, identity domain.Identity, token string) error {
	rec := record{identity: identity, token: token}
	if r.ttl > 0 {
		rec.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	r.records[sid] = rec
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Clear(_ context.Context, sid string) error {
	r.mu.Lock()
	delete(r.records, sid)
	r.mu.Unlock()
	return nil
}

func (r *SessionRepository) Ping(context.Context) error { return nil }
