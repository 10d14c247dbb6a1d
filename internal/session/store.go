package session

import (
	"context"
	"sync"

	errx "github.com/insightxpress/server/internal/core/error"
)

// Store persists sessions between HTTP requests of the same browser
// session. Implementations must treat sessions as ephemeral; nothing
// survives the configured TTL.
type Store interface {
	// Get loads a session, or errx.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Put saves the session under its ID.
	Put(ctx context.Context, s *Session) error

	// Delete removes the session.
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the default single-process backend.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errx.ErrSessionNotFound
	}
	return s, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
