package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/ports"
	"github.com/retailcatalog/admin-console/internal/pkg/metrics"
)

const (
	defaultSweepInterval = time.Minute
	defaultIdleTimeout   = 30 * time.Minute
)

type entry struct {
	store    *Store
	lastSeen time.Time
	ready    chan struct{} // closed once the first hydration finished
}

// Manager owns the open session stores of this process, keyed by session id.
// Stores are hydrated from the repository the first time they are opened and
// dropped from memory after sitting idle; their persisted pair survives.
type Manager struct {
	repo ports.SessionRepository
	log  zerolog.Logger
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	onEvict []func(id string)
}

// NewManager returns a Manager backed by repo.
func NewManager(repo ports.SessionRepository, log zerolog.Logger) *Manager {
	return &Manager{
		repo:    repo,
		log:     log,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// NewID returns a fresh random session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Open returns the store for id, hydrating it on first use. Ids that are not
// valid UUIDs are replaced by a fresh one, so callers must use Store.ID().
// Concurrent opens of the same id wait until the first hydration finished.
func (m *Manager) Open(ctx context.Context, id string) (*Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		id = m.NewID()
	}

	m.mu.Lock()
	if e, ok := m.entries[id]; ok {
		e.lastSeen = m.now()
		m.mu.Unlock()
		select {
		case <-e.ready:
			return e.store, nil
		case <-ctx.Done():
			return nil, fmt.Errorf("open session: %w", ctx.Err())
		}
	}
	store := NewStore(id, m.repo, m.log)
	e := &entry{store: store, lastSeen: m.now(), ready: make(chan struct{})}
	m.entries[id] = e
	metrics.ActiveSessions.Set(float64(len(m.entries)))
	m.mu.Unlock()

	defer close(e.ready)
	if err := store.Hydrate(ctx); err != nil {
		m.log.Warn().Err(err).Str("session_id", id).Msg("session hydration failed, starting signed out")
	}
	return store, nil
}

// OnEvict registers fn to run with the id of every store dropped by Forget
// or Sweep. Register hooks before the manager is shared.
func (m *Manager) OnEvict(fn func(id string)) {
	m.onEvict = append(m.onEvict, fn)
}

// Forget drops the in-memory store for id. Persisted state is untouched.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.entries, id)
	metrics.ActiveSessions.Set(float64(len(m.entries)))
	m.mu.Unlock()

	m.evicted(id)
}

// Len returns the number of stores held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep drops stores not opened within idle. Busy stores are kept.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var removed []string
	for id, e := range m.entries {
		if e.lastSeen.Before(cutoff) && !e.store.busy.Load() {
			delete(m.entries, id)
			removed = append(removed, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.entries)))
	m.mu.Unlock()

	m.evicted(removed...)
	return len(removed)
}

func (m *Manager) evicted(ids ...string) {
	for _, id := range ids {
		for _, fn := range m.onEvict {
			fn(id)
		}
	}
}

// Start runs Sweep every interval until ctx is cancelled.
func (m *Manager) Start(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.Sweep(idle); n > 0 {
					m.log.Debug().Int("evicted", n).Msg("idle sessions evicted")
				}
			}
		}
	}()
}
