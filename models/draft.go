package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Citation is one retrieved authority attached to a draft
type Citation struct {
	Snippet  string `json:"snippet"`
	Citation string `json:"citation"`
}

// Citations is the JSONB citation list on a draft
type Citations []Citation

// Value implements driver.Valuer for JSONB
func (c Citations) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *Citations) Scan(value interface{}) error {
	if value == nil {
		*c = make(Citations, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(Citations, 0)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(Citations, 0)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// DraftState is a produced draft: the motion text and its proposed order.
// Created only once the ledger is complete; a new revision is written each
// time the orchestrator re-drafts.
type DraftState struct {
	ID                uuid.UUID `json:"id"`
	SessionID         uuid.UUID `json:"session_id"`
	Revision          int       `json:"revision"`
	MotionText        string    `json:"motion_text"`
	ProposedOrderText string    `json:"proposed_order_text"`
	Citations         Citations `json:"citations"`
	CitationGap       bool      `json:"citation_gap"` // lookup unavailable; drafted without authority
	Degraded          bool      `json:"degraded"`     // drafting agent unavailable; template fallback used
	CreatedAt         time.Time `json:"created_at"`
}

// KnowledgeQuery is a single lookup against a motion's knowledge store.
// Ephemeral, never persisted.
type KnowledgeQuery struct {
	Query        string
	MotionType   MotionType
	Jurisdiction *string
	Chapter      *string
}

// KnowledgeResult is one ranked snippet from the knowledge store
type KnowledgeResult struct {
	Snippet  string
	Citation string
	Score    float64
}
