package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

const keyPrefix = "console:session:"

// SessionRepository persists the identity/token pair of each session under
// two keys sharing one TTL:
//
//	console:session:<sid>:user   JSON identity
//	console:session:<sid>:token  bearer token
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository wraps client. A zero ttl stores keys without expiry.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Load(ctx context.Context, sid string) (*domain.Identity, string, bool, error) {
	vals, err := r.client.MGet(ctx, userKey(sid), tokenKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("load session: %w", err)
	}

	raw, _ := vals[0].(string)
	token, _ := vals[1].(string)
	if raw == "" || token == "" {
		return nil, "", false, nil
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, "", false, fmt.Errorf("decode session identity: %w", err)
	}
	return &identity, token, true, nil
}

// Save writes both keys in one MULTI/EXEC so a reader never sees half a pair.
func (r *SessionRepository) Save(ctx context.Context, sid string, identity domain.Identity, token string) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session identity: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(sid), raw, r.ttl)
		pipe.Set(ctx, tokenKey(sid), token, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, userKey(sid), tokenKey(sid)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func userKey(sid string) string  { return keyPrefix + sid + ":user" }
func tokenKey(sid string) string { return keyPrefix + sid + ":token" }
