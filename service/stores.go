package service

import (
	"context"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
)

// Persistence interfaces accepted by the services. The pgx repositories in
// the repository package satisfy them; tests substitute in-memory fakes.

// SessionStore persists sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	DeleteAll(ctx context.Context) error
}

// TurnStore persists the append-only conversation record
type TurnStore interface {
	Append(ctx context.Context, turn *models.ConversationTurn) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.ConversationTurn, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}

// DraftStore persists draft revisions
type DraftStore interface {
	Create(ctx context.Context, draft *models.DraftState) error
	GetLatest(ctx context.Context, sessionID uuid.UUID) (*models.DraftState, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) error
}

// CaseFileStore persists uploaded case-document records
type CaseFileStore interface {
	Create(ctx context.Context, file *models.CaseFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CaseFile, error)
	DeleteAll(ctx context.Context) error
}

// ConfigStore persists the workspace configuration
type ConfigStore interface {
	Get(ctx context.Context) (*models.WorkspaceConfig, error)
	Save(ctx context.Context, cfg *models.WorkspaceConfig) error
	Clear(ctx context.Context) error
}
