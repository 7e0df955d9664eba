package listing

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailcatalog/admin-console/internal/core/ports"
)

// Set is the group of list controllers owned by one session.
type Set struct {
	Products   *Products
	Variations *Variations
	Colors     *Colors
	Prices     *Prices
	Users      *Users
}

func NewSet(api ports.CatalogAPI, log zerolog.Logger) *Set {
	return &Set{
		Products:   NewProducts(api, log),
		Variations: NewVariations(api, log),
		Colors:     NewColors(api, log),
		Prices:     NewPrices(api, log),
		Users:      NewUsers(api, log),
	}
}

// Registry hands out one Set per session id.
type Registry struct {
	api ports.CatalogAPI
	log zerolog.Logger

	mu   sync.Mutex
	sets map[string]*Set
}

func NewRegistry(api ports.CatalogAPI, log zerolog.Logger) *Registry {
	return &Registry{api: api, log: log, sets: make(map[string]*Set)}
}

// For returns the Set of sessionID, creating it on first use.
func (r *Registry) For(sessionID string) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.sets[sessionID]
	if !ok {
		set = NewSet(r.api, r.log.With().Str("session_id", sessionID).Logger())
		r.sets[sessionID] = set
	}
	return set
}

// Drop discards the Set of sessionID. Screen state does not outlive a
// logout or an evicted session.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	delete(r.sets, sessionID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}
