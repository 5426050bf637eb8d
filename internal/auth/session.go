package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/linkly/linkly/internal/model"
)

// Session token errors.
var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrSessionRevoked means the token is valid but its session is gone.
	ErrSessionRevoked = errors.New("session revoked")
)

// SessionStore persists server-side sessions.
// GetSession returns nil, nil when the session does not exist.
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionManager issues and verifies HS256 session tokens backed by a SessionStore.
// The token subject is the user id and its jti is the session id.
type SessionManager struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a session manager.
func NewSessionManager(store SessionStore, secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a session for userID and returns its signed token.
func (m *SessionManager) Issue(ctx context.Context, userID string) (string, *model.Session, error) {
	now := m.now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	claims := &jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := m.store.SaveSession(ctx, session); err != nil {
		return "", nil, err
	}

	return token, session, nil
}

// Verify checks the token signature and expiry, then confirms the session
// still exists server-side.
func (m *SessionManager) Verify(ctx context.Context, tokenString string) (*model.Session, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	session, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.Subject || session.IsExpired(m.now()) {
		return nil, ErrSessionRevoked
	}

	return session, nil
}

// Revoke deletes the session so tokens referencing it stop verifying.
func (m *SessionManager) Revoke(ctx context.Context, sessionID string) error {
	return m.store.DeleteSession(ctx, sessionID)
}
