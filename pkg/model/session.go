package model

import "time"

// State is the dialogue position of a conversation session. Transitions are
// owned exclusively by the dialogue engine.
type State string

const (
	StateGreeting     State = "greeting"
	StateName         State = "name"
	StateService      State = "service"
	StateDatetime     State = "datetime"
	StateConfirmation State = "confirmation"
	StateCompleted    State = "completed"
	StateEnded        State = "ended"
)

// Valid reports whether s is a member of the state enum.
func (s State) Valid() bool {
	switch s {
	case StateGreeting, StateName, StateService, StateDatetime,
		StateConfirmation, StateCompleted, StateEnded:
		return true
	}
	return false
}

// Terminal states accept no further flow transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateEnded
}

const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// Turn is one utterance in the conversation history.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// Session is one user conversation. It is owned by the session store and
// mutated only under the dialogue service's per-session lock. History is an
// append-only audit log, never rewritten or truncated.
type Session struct {
	ID              string
	State           State
	UserName        string
	SelectedService *Service
	SelectedDate    string
	SelectedTime    string
	History         []Turn
	CreatedAt       time.Time
}

// Snapshot is the per-turn session view returned to the transport layer.
type Snapshot struct {
	UserName        string `json:"user_name,omitempty"`
	SelectedService string `json:"selected_service,omitempty"`
	SelectedDate    string `json:"selected_date,omitempty"`
	SelectedTime    string `json:"selected_time,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		UserName:     s.UserName,
		SelectedDate: s.SelectedDate,
		SelectedTime: s.SelectedTime,
	}
	if s.SelectedService != nil {
		snap.SelectedService = s.SelectedService.Name
	}
	return snap
}

// Append records one turn at the end of the history.
func (s *Session) Append(speaker, text string) {
	s.History = append(s.History, Turn{Speaker: speaker, Text: text})
}
