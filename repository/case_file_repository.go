package repository

import (
	"context"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseFileRepository handles database operations for uploaded case documents
type CaseFileRepository struct {
	db *pgxpool.Pool
}

// NewCaseFileRepository creates a new case file repository
func NewCaseFileRepository(db *pgxpool.Pool) *CaseFileRepository {
	return &CaseFileRepository{db: db}
}

// Create creates a new case file record
func (r *CaseFileRepository) Create(ctx context.Context, file *models.CaseFile) error {
	query := `
		INSERT INTO case_files (
			id, session_id, filename, kind, size, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		file.ID,
		file.SessionID,
		file.Filename,
		file.Kind,
		file.Size,
		file.StoragePath,
	).Scan(&file.CreatedAt)

	return err
}

// GetByID retrieves a case file by ID
func (r *CaseFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CaseFile, error) {
	file := &models.CaseFile{}
	query := `
		SELECT id, session_id, filename, kind, size, storage_path, created_at
		FROM case_files
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.SessionID,
		&file.Filename,
		&file.Kind,
		&file.Size,
		&file.StoragePath,
		&file.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return file, nil
}

// DeleteAll removes every case file record. Used by Reset Workspace.
func (r *CaseFileRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM case_files`)
	return err
}
