package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	dialogueerrors "jusbook/internal/dialogue/errors"
	"jusbook/internal/dialogue/engine"
	"jusbook/internal/dialogue/store"
	"jusbook/pkg/config"
	apperrors "jusbook/pkg/errors"
	"jusbook/pkg/model"
)

// StartResult is the response shape for a new session.
type StartResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	State     string `json:"state"`
}

// TurnResult is the response shape for one message turn.
type TurnResult struct {
	Reply    string         `json:"response"`
	State    string         `json:"state"`
	Snapshot model.Snapshot `json:"session_data"`
}

type DialogueService interface {
	StartSession(ctx context.Context) (*StartResult, error)
	SendMessage(ctx context.Context, sessionID, message string) (*TurnResult, error)
}

// sessionLock is reference-counted so an entry can be pruned from the lock
// map without racing a turn that already picked it up.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type dialogueService struct {
	sessions store.SessionStore
	engine   *engine.Engine
	cfg      *config.Config

	// locks holds one mutex per live session id, taken for a full turn so
	// two concurrent turns for the same session cannot interleave. Entries
	// for terminal sessions are pruned on release.
	mu    sync.Mutex
	locks map[string]*sessionLock
}

func NewDialogueService(sessions store.SessionStore, eng *engine.Engine, cfg *config.Config) DialogueService {
	return &dialogueService{
		sessions: sessions,
		engine:   eng,
		cfg:      cfg,
		locks:    make(map[string]*sessionLock),
	}
}

func (s *dialogueService) StartSession(ctx context.Context) (*StartResult, error) {
	session, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to create session", err)
	}

	s.cfg.Log.Info("Session started", "session_id", session.ID)
	return &StartResult{
		SessionID: session.ID,
		Message:   s.engine.GreetingText(),
		State:     string(session.State),
	}, nil
}

func (s *dialogueService) SendMessage(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}
	message = strings.TrimSpace(message)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, dialogueerrors.ErrSessionNotFound) {
			return nil, apperrors.NotFoundWithID("Session", sessionID)
		}
		return nil, apperrors.Internal("Failed to load session", err)
	}

	lock := s.acquireLock(sessionID)
	defer func() { s.releaseLock(sessionID, lock, session.State.Terminal()) }()

	session.Append(model.SpeakerUser, message)
	reply := s.engine.Respond(ctx, session, message)
	session.Append(model.SpeakerAssistant, reply)

	s.cfg.Log.Debug("Turn completed",
		"session_id", sessionID,
		"state", session.State,
	)

	return &TurnResult{
		Reply:    reply,
		State:    string(session.State),
		Snapshot: session.Snapshot(),
	}, nil
}

func (s *dialogueService) acquireLock(sessionID string) *sessionLock {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sessionLock{}
		s.locks[sessionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// releaseLock drops the turn's reference and prunes the entry once the
// session is terminal and nobody else is waiting, so the map only holds
// live conversations.
func (s *dialogueService) releaseLock(sessionID string, lock *sessionLock, terminal bool) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 && terminal {
		delete(s.locks, sessionID)
	}
	s.mu.Unlock()
}
