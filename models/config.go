package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// VectorStoreIDs maps a motion type to its dedicated knowledge store
// identifier. Each motion owns exactly one store.
type VectorStoreIDs map[MotionType]string

// Value implements driver.Valuer for JSONB
func (v VectorStoreIDs) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner for JSONB
func (v *VectorStoreIDs) Scan(value interface{}) error {
	if value == nil {
		*v = make(VectorStoreIDs)
		return nil
	}

	var bytes []byte
	switch val := value.(type) {
	case []byte:
		bytes = val
	case string:
		bytes = []byte(val)
	default:
		*v = make(VectorStoreIDs)
		return nil
	}

	if len(bytes) == 0 {
		*v = make(VectorStoreIDs)
		return nil
	}

	return json.Unmarshal(bytes, v)
}

// WorkspaceConfig is the persisted workspace configuration: one knowledge
// store per motion type plus the drafting-agent identifier. Sessions read it
// at creation and refuse to start unless both pieces are present.
type WorkspaceConfig struct {
	VectorStores    VectorStoreIDs `json:"vector_stores"`
	DraftingAgentID string         `json:"drafting_agent_id"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Configured reports whether every motion type has a store and the drafting
// agent is set
func (c *WorkspaceConfig) Configured() bool {
	if c == nil || c.DraftingAgentID == "" {
		return false
	}
	for _, motion := range []MotionType{MotionValueSecuredClaim, MotionAvoidJudicialLien} {
		if c.VectorStores[motion] == "" {
			return false
		}
	}
	return true
}

// StoreFor returns the knowledge store identifier for a motion type
func (c *WorkspaceConfig) StoreFor(motion MotionType) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.VectorStores[motion]
	return id, ok && id != ""
}
