package repository

import (
	"context"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepository handles database operations for draft states
type DraftRepository struct {
	db *pgxpool.Pool
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{db: db}
}

// Create stores a new draft revision. The revision number is assigned from
// the session's prior drafts.
func (r *DraftRepository) Create(ctx context.Context, draft *models.DraftState) error {
	query := `
		INSERT INTO drafts (
			id, session_id, revision, motion_text, proposed_order_text,
			citations, citation_gap, degraded
		) VALUES (
			$1, $2,
			COALESCE((SELECT MAX(revision) FROM drafts WHERE session_id = $2), 0) + 1,
			$3, $4, $5, $6, $7
		)
		RETURNING revision, created_at`

	err := r.db.QueryRow(
		ctx, query,
		draft.ID,
		draft.SessionID,
		draft.MotionText,
		draft.ProposedOrderText,
		draft.Citations,
		draft.CitationGap,
		draft.Degraded,
	).Scan(&draft.Revision, &draft.CreatedAt)

	return err
}

// GetLatest retrieves the newest draft revision for a session
func (r *DraftRepository) GetLatest(ctx context.Context, sessionID uuid.UUID) (*models.DraftState, error) {
	draft := &models.DraftState{}
	query := `
		SELECT id, session_id, revision, motion_text, proposed_order_text,
			citations, citation_gap, degraded, created_at
		FROM drafts
		WHERE session_id = $1
		ORDER BY revision DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, sessionID).Scan(
		&draft.ID,
		&draft.SessionID,
		&draft.Revision,
		&draft.MotionText,
		&draft.ProposedOrderText,
		&draft.Citations,
		&draft.CitationGap,
		&draft.Degraded,
		&draft.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return draft, nil
}

// DeleteBySession removes a session's drafts. Used by Clear Chat.
func (r *DraftRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM drafts WHERE session_id = $1`
	_, err := r.db.Exec(ctx, query, sessionID)
	return err
}
