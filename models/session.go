package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SessionState is the drafting orchestrator's state for a session
type SessionState string

const (
	StateIdle                  SessionState = "idle"
	StateCollectingFacts       SessionState = "collecting_facts"
	StateAwaitingClarification SessionState = "awaiting_clarification"
	StateDrafted               SessionState = "drafted"
	StateRevising              SessionState = "revising"
)

// PendingVariables holds the variable names requested in the most recent
// clarification prompt. The next user turn is matched against this list.
type PendingVariables []string

// Value implements driver.Valuer for JSONB
func (p PendingVariables) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *PendingVariables) Scan(value interface{}) error {
	if value == nil {
		*p = make(PendingVariables, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*p = make(PendingVariables, 0)
		return nil
	}

	if len(bytes) == 0 {
		*p = make(PendingVariables, 0)
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Session is one drafting conversation. MotionType, Jurisdiction and Chapter
// are fixed at creation; Jurisdiction and Chapter are passed through to
// extraction and lookup unmodified, never parsed.
type Session struct {
	ID           uuid.UUID        `json:"id"`
	MotionType   MotionType       `json:"motion_type"`
	Jurisdiction *string          `json:"jurisdiction,omitempty"`
	Chapter      *string          `json:"chapter,omitempty"`
	State        SessionState     `json:"state"`
	Ledger       VariableLedger   `json:"ledger"`
	Pending      PendingVariables `json:"pending"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
