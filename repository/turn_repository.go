package repository

import (
	"context"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TurnRepository handles database operations for conversation turns
type TurnRepository struct {
	db *pgxpool.Pool
}

// NewTurnRepository creates a new turn repository
func NewTurnRepository(db *pgxpool.Pool) *TurnRepository {
	return &TurnRepository{db: db}
}

// Append adds a turn to a session's conversation record
func (r *TurnRepository) Append(ctx context.Context, turn *models.ConversationTurn) error {
	query := `
		INSERT INTO conversation_turns (
			id, session_id, speaker, content, attachments
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		turn.ID,
		turn.SessionID,
		turn.Speaker,
		turn.Content,
		turn.Attachments,
	).Scan(&turn.CreatedAt)

	return err
}

// ListBySession retrieves a session's turns in conversation order
func (r *TurnRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.ConversationTurn, error) {
	query := `
		SELECT id, session_id, speaker, content, attachments, created_at
		FROM conversation_turns
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []*models.ConversationTurn
	for rows.Next() {
		turn := &models.ConversationTurn{}
		err := rows.Scan(
			&turn.ID,
			&turn.SessionID,
			&turn.Speaker,
			&turn.Content,
			&turn.Attachments,
			&turn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// DeleteBySession removes a session's conversation record. Used by Clear Chat.
func (r *TurnRepository) DeleteBySession(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM conversation_turns WHERE session_id = $1`
	_, err := r.db.Exec(ctx, query, sessionID)
	return err
}
