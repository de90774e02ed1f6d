package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL bounds how long a browser session stays valid without a
	// fresh login.
	SessionTTL = 24 * time.Hour

	// SessionCookie is the cookie name carrying the session id.
	SessionCookie = "session_id"

	sessionKeyPrefix = "session:"
)

// SessionStore maps opaque session ids to user ids in Redis.
//
// Sessions exist so that logout means something: bearer tokens cannot be
// revoked, but a session can be deleted server-side. A login creates both a
// token (for API clients) and a session (for browsers); logout removes only
// the session.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session mapping sessionID -> userID and returns the
// session id.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	sid := uuid.New().String()
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sid, userID, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("auth: creating session: %w", err)
	}
	return sid, nil
}

// Get returns the userID for a session, or "" if the session does not exist
// or has expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("auth: looking up session: %w", err)
	}
	return val, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("auth: deleting session: %w", err)
	}
	return nil
}
