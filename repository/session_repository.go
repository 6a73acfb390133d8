package repository

import (
	"context"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository handles database operations for sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (
			id, motion_type, jurisdiction, chapter, state, ledger, pending
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		session.ID,
		session.MotionType,
		session.Jurisdiction,
		session.Chapter,
		session.State,
		session.Ledger,
		session.Pending,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	return err
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session := &models.Session{}
	query := `
		SELECT id, motion_type, jurisdiction, chapter, state, ledger, pending,
			created_at, updated_at
		FROM sessions
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.MotionType,
		&session.Jurisdiction,
		&session.Chapter,
		&session.State,
		&session.Ledger,
		&session.Pending,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return session, nil
}

// Update persists the session's state, ledger and pending prompt list
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions SET
			state = $2,
			ledger = $3,
			pending = $4,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		session.ID,
		session.State,
		session.Ledger,
		session.Pending,
	).Scan(&session.UpdatedAt)

	return err
}

// DeleteAll removes every session. Used by Reset Workspace.
func (r *SessionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions`)
	return err
}
