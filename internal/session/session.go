// Package session keeps the per-conversation booking state between turns.
// Sessions live in memory only and are lost on restart.
package session

import (
	"time"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// Step is an advisory marker of where a conversation is in the booking flow.
type Step string

const (
	StepInitial          Step = "initial"
	StepAwaitingDateTime Step = "awaiting_datetime"
	StepConfirmed        Step = "confirmed"
)

// Turn is one message/response exchange.
type Turn struct {
	Message  string       `json:"message"`
	Response string       `json:"response"`
	Intent   agent.Intent `json:"intent"`
	At       time.Time    `json:"at"`
}

// Session is the state accumulated for one conversation.
type Session struct {
	ID        string               `json:"id"`
	Step      Step                 `json:"step"`
	Pending   agent.PendingBooking `json:"pending_booking"`
	History   []Turn               `json:"history"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// New creates an empty session in the initial step.
func New(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Step:      StepInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendTurn records an exchange, keeping at most limit turns (0 keeps all).
func (s *Session) AppendTurn(turn Turn, limit int) {
	s.History = append(s.History, turn)
	if limit > 0 && len(s.History) > limit {
		s.History = append([]Turn(nil), s.History[len(s.History)-limit:]...)
	}
	s.UpdatedAt = turn.At
}

// ResetPending clears the collected booking fields.
func (s *Session) ResetPending() {
	s.Pending = agent.PendingBooking{}
}
