package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkly/linkly/internal/model"
)

// sessionKeyPrefix is the Redis key prefix for server-side sessions.
const sessionKeyPrefix = "session:"

// ErrSessionExpired is returned when saving a session whose lifetime already ended.
var ErrSessionExpired = errors.New("session already expired")

// SaveSession stores a session hash that Redis expires with the session.
func (c *Cache) SaveSession(ctx context.Context, session *model.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	key := sessionKeyPrefix + session.ID

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, sessionToHash(session))
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID.
// Returns nil if not found (expired or revoked).
func (c *Cache) GetSession(ctx context.Context, id string) (*model.Session, error) {
	result, err := c.client.HGetAll(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, nil
	}

	session, err := sessionFromHash(id, result)
	if err != nil {
		// Corrupted entry - treat as revoked
		return nil, nil //nolint:nilerr
	}

	return session, nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (c *Cache) DeleteSession(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionToHash(s *model.Session) map[string]any {
	return map[string]any{
		"user_id":    s.UserID,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
		"expires_at": s.ExpiresAt.UTC().Format(time.RFC3339Nano),
	}
}

func sessionFromHash(id string, fields map[string]string) (*model.Session, error) {
	userID := fields["user_id"]
	if userID == "" {
		return nil, errors.New("session missing user_id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}

	return &model.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}
