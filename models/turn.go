package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a conversation turn
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerSystem Speaker = "system"
)

// TurnAttachment references a case file uploaded with a turn
type TurnAttachment struct {
	FileID   uuid.UUID `json:"file_id"`
	Filename string    `json:"filename"`
}

// TurnAttachments is the JSONB attachment list on a turn
type TurnAttachments []TurnAttachment

// Value implements driver.Valuer for JSONB
func (a TurnAttachments) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *TurnAttachments) Scan(value interface{}) error {
	if value == nil {
		*a = make(TurnAttachments, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*a = make(TurnAttachments, 0)
		return nil
	}

	if len(bytes) == 0 {
		*a = make(TurnAttachments, 0)
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// ConversationTurn is one entry in a session's append-only conversation
// record. Clear Chat deletes the whole sequence.
type ConversationTurn struct {
	ID          uuid.UUID       `json:"id"`
	SessionID   uuid.UUID       `json:"session_id"`
	Speaker     Speaker         `json:"speaker"`
	Content     string          `json:"content"`
	Attachments TurnAttachments `json:"attachments"`
	CreatedAt   time.Time       `json:"created_at"`
}
