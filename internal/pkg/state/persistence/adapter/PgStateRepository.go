package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"youchat/internal/pkg/state"
)

const (
	stateTable = "app_state"
	stateID    = "main"
)

// PgStateRepository persists the whole state document as one JSONB row.
type PgStateRepository struct {
	pool *pgxpool.Pool
}

func NewPgStateRepository(pool *pgxpool.Pool) *PgStateRepository {
	return &PgStateRepository{pool: pool}
}

// Ensure interface compliance at compile time
var _ state.Repository = (*PgStateRepository)(nil)

// Init creates the backing table if it does not exist.
func (r *PgStateRepository) Init(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return errors.New("PgStateRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+stateTable+` (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("state: create table: %w", err)
	}
	return nil
}

// Load reads the snapshot row. A missing row yields a fresh empty document,
// which is written back so the row exists from then on.
func (r *PgStateRepository) Load(ctx context.Context) (*state.Document, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgStateRepository: nil pool")
	}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		"SELECT data FROM "+stateTable+" WHERE id = $1", stateID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		doc := state.NewDocument()
		if err := r.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: load: %w", err)
	}

	doc := state.NewDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("state: decode snapshot: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// Save upserts the full snapshot.
func (r *PgStateRepository) Save(ctx context.Context, doc *state.Document) error {
	if r == nil || r.pool == nil {
		return errors.New("PgStateRepository: nil pool")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("state: encode snapshot: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO `+stateTable+` (id, data)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, stateID, raw)
	if err != nil {
		return fmt.Errorf("state: save: %w", err)
	}
	return nil
}
