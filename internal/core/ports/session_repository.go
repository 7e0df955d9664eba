package ports

import (
	"context"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

// SessionRepository persists the identity/token pair of a browser session.
// Save and Clear must write both values atomically: a reader never observes
// a user without its token or the reverse.
type SessionRepository interface {
	// Load returns the persisted pair. ok is false when nothing (or only half
	// of the pair) is stored.
	Load(ctx context.Context, sessionID string) (identity *domain.Identity, token string, ok bool, err error)
	Save(ctx context.Context, sessionID string, identity domain.Identity, token string) error
	Clear(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
