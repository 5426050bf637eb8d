// Package memstore provides in-memory implementations of the persistence
// interfaces for unit tests. They mirror the sentinel errors of the real
// repository and cache packages.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linkly/linkly/internal/model"
	"github.com/linkly/linkly/internal/repository"
)

// Store is an in-memory user and link store.
type Store struct {
	mu    sync.Mutex
	users map[string]*model.User
	links map[string]*model.Link

	ready bool
	// Err, when set, is returned by every operation.
	Err error
	// CollideNext makes the next n CreateLink calls fail with ErrShortCodeExists.
	CollideNext int
	// CreateLinkCalls counts CreateLink invocations, including collisions.
	CreateLinkCalls int
}

// New returns an empty, ready store.
func New() *Store {
	return &Store{
		users: make(map[string]*model.User),
		links: make(map[string]*model.Link),
		ready: true,
	}
}

// Ready reports the readiness flag.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// SetReady flips the readiness flag.
func (s *Store) SetReady(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = v
}

// CreateUser stores a copy of user.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUserByID returns a copy of the user.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail returns a copy of the user with the exact email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// UpdateUser replaces the stored user's mutable fields.
func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	existing.Name = user.Name
	existing.ProfilePhoto = user.ProfilePhoto
	existing.PasswordHash = user.PasswordHash
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

// CreateLink stores a copy of link.
func (s *Store) CreateLink(_ context.Context, link *model.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.CreateLinkCalls++
	if s.Err != nil {
		return s.Err
	}
	if s.CollideNext > 0 {
		s.CollideNext--
		return repository.ErrShortCodeExists
	}
	if _, exists := s.links[link.ShortCode]; exists {
		return repository.ErrShortCodeExists
	}
	cp := *link
	s.links[link.ShortCode] = &cp
	return nil
}

// GetLinkByShortCode returns a copy of the link.
func (s *Store) GetLinkByShortCode(_ context.Context, code string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.links[code]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	cp := *l
	return &cp, nil
}

// IncrementClicks bumps the counter under the store lock and returns the link.
func (s *Store) IncrementClicks(_ context.Context, code string) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.links[code]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	l.Clicks++
	cp := *l
	return &cp, nil
}

// ListLinksByUser returns the user's links newest first.
func (s *Store) ListLinksByUser(_ context.Context, userID string) ([]*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	links := make([]*model.Link, 0)
	for _, l := range s.links {
		if l.IsOwnedBy(userID) {
			cp := *l
			links = append(links, &cp)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].ID > links[j].ID
		}
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
	return links, nil
}

// Sessions is an in-memory session store.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	// Err, when set, is returned by every operation.
	Err error
}

// NewSessions returns an empty session store.
func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*model.Session)}
}

// SaveSession stores a copy of session.
func (s *Sessions) SaveSession(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

// GetSession returns nil, nil for unknown sessions.
func (s *Sessions) GetSession(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

// DeleteSession removes a session.
func (s *Sessions) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SequenceGenerator returns preset codes in order, then repeats the last one.
type SequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

// NewSequenceGenerator creates a deterministic code generator.
func NewSequenceGenerator(codes ...string) *SequenceGenerator {
	return &SequenceGenerator{codes: codes}
}

// Generate returns the next preset code.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next >= len(g.codes) {
		return g.codes[len(g.codes)-1]
	}
	code := g.codes[g.next]
	g.next++
	return code
}

// StaticQR returns a fixed data URI for any content.
type StaticQR struct {
	Err error
}

// DataURI implements the QR encoder interface.
func (q StaticQR) DataURI(content string) (string, error) {
	if q.Err != nil {
		return "", q.Err
	}
	return "data:image/png;base64,UVI6" + content, nil
}
