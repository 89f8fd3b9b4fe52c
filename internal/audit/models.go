package audit

import (
	"context"
	"time"

	"civreg/internal/wizard"
)

// Event is one user-facing notification, optionally tied to the action that
// produced it. Events are scoped to a browsing session.
type Event struct {
	Timestamp time.Time    `json:"timestamp"`
	SessionID string       `json:"-"`
	Level     wizard.Level `json:"level"`
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	Action    string       `json:"action,omitempty"`
}

// Store keeps pending events until the session reads them.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
	// Drain returns and removes the pending events of a session.
	Drain(ctx context.Context, sessionID string) ([]Event, error)
}
