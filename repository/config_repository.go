package repository

import (
	"context"
	"errors"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConfigRepository handles the single-row workspace configuration
type ConfigRepository struct {
	db *pgxpool.Pool
}

// NewConfigRepository creates a new config repository
func NewConfigRepository(db *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get loads the workspace configuration. Returns an empty config when none
// has been saved yet.
func (r *ConfigRepository) Get(ctx context.Context) (*models.WorkspaceConfig, error) {
	cfg := &models.WorkspaceConfig{}
	query := `
		SELECT vector_stores, drafting_agent_id, updated_at
		FROM workspace_config
		WHERE id = 1`

	err := r.db.QueryRow(ctx, query).Scan(
		&cfg.VectorStores,
		&cfg.DraftingAgentID,
		&cfg.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return &models.WorkspaceConfig{VectorStores: make(models.VectorStoreIDs)}, nil
	}
	if err != nil {
		return nil, err
	}

	if cfg.VectorStores == nil {
		cfg.VectorStores = make(models.VectorStoreIDs)
	}

	return cfg, nil
}

// Save upserts the workspace configuration
func (r *ConfigRepository) Save(ctx context.Context, cfg *models.WorkspaceConfig) error {
	query := `
		INSERT INTO workspace_config (id, vector_stores, drafting_agent_id, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			vector_stores = EXCLUDED.vector_stores,
			drafting_agent_id = EXCLUDED.drafting_agent_id,
			updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRow(ctx, query, cfg.VectorStores, cfg.DraftingAgentID).Scan(&cfg.UpdatedAt)
}

// Clear removes the workspace configuration. Used by Reset Workspace.
func (r *ConfigRepository) Clear(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workspace_config WHERE id = 1`)
	return err
}
