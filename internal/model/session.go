package model

import (
	"time"
)

// SessionState is the cache-resident record for one support session.
// It is stored as a JSON string under a prefixed key and owned exclusively
// by the session store.
type SessionState struct {
	SessionID     string         `json:"session_id"`
	CustomerEmail string         `json:"customer_email"`
	CreatedAt     time.Time      `json:"created_at"`
	LastActivity  time.Time      `json:"last_activity"`
	Context       map[string]any `json:"context"`
	MessageCount  int            `json:"message_count"`
	Status        SessionStatus  `json:"status"`
}

// UpdateSessionParams enumerates the mutable session fields. Nil fields are
// left untouched. CustomerEmail is immutable and deliberately absent.
type UpdateSessionParams struct {
	Status       *SessionStatus
	Context      map[string]any
	MessageCount *int
}
