// Package store keeps conversation sessions. The memory store hands out
// live session pointers; the dialogue service serializes all access to one
// session for the duration of a turn.
package store

import (
	"context"
	"sync"
	"time"

	dialogueerrors "jusbook/internal/dialogue/errors"
	"jusbook/pkg/model"

	"github.com/google/uuid"
)

type SessionStore interface {
	Create(ctx context.Context) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*model.Session),
	}
}

func (s *memorySessionStore) Create(_ context.Context) (*model.Session, error) {
	session := &model.Session{
		ID:        uuid.NewString(),
		State:     model.StateGreeting,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, dialogueerrors.ErrSessionNotFound
	}
	return session, nil
}
