package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/retailcatalog/admin-console/internal/core/domain"
)

const sessionCollection = "console_sessions"

// SessionRepository keeps one document per session holding the identity and
// token together, so the pair is always written atomically.
type SessionRepository struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionRepository(db *mongo.Database, ttl time.Duration) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection), ttl: ttl, now: time.Now}
}

type mongoIdentity struct {
	ID    string `bson:"id"`
	Email string `bson:"email"`
	Role  string `bson:"role"`
	Name  string `bson:"name,omitempty"`
}

type mongoSession struct {
	ID        string        `bson:"_id"`
	User      mongoIdentity `bson:"user"`
	Token     string        `bson:"token"`
	ExpiresAt *time.Time    `bson:"expires_at,omitempty"`
}

// EnsureIndexes creates the TTL index that lets MongoDB expire idle sessions.
func (r *SessionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, sid string) (*domain.Identity, string, bool, error) {
	var doc mongoSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": sid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("find session: %w", err)
	}
	if doc.ExpiresAt != nil && !r.now().Before(*doc.ExpiresAt) {
		return nil, "", false, nil
	}
	if doc.Token == "" || doc.User.Email == "" {
		return nil, "", false, nil
	}

	return &domain.Identity{
		ID:    doc.User.ID,
		Email: doc.User.Email,
		Role:  domain.Role(doc.User.Role),
		Name:  doc.User.Name,
	}, doc.Token, true, nil
}

func (r *SessionRepository) Save(ctx context.Context, sid string, identity domain.Identity, token string) error {
	doc := mongoSession{
		ID: sid,
		User: mongoIdentity{
			ID:    identity.ID,
			Email: identity.Email,
			Role:  string(identity.Role),
			Name:  identity.Name,
		},
		Token: token,
	}
	if r.ttl > 0 {
		exp := r.now().Add(r.ttl).UTC()
		doc.ExpiresAt = &exp
	}

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": sid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, sid string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": sid}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
