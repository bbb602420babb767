package snapshot

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hammadpk/engine/internal/models"
)

// Repository persists the whole engine state as a single JSONB document.
// The engine stays in-memory; this is the durable load/save hook behind it.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Init creates the snapshots table. One row, replaced on every save.
func (r *Repository) Init(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			doc jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)
	`)
	return err
}

// Save upserts the state document. Called after every committed mutation.
func (r *Repository) Save(ctx context.Context, st *models.State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO snapshots (id, doc, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, doc)
	return err
}

// Load restores the last saved state document. Returns nil with no error
// when no snapshot exists yet.
func (r *Repository) Load(ctx context.Context) (*models.State, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM snapshots WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st models.State
	if err := json.Unmarshal(doc, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
