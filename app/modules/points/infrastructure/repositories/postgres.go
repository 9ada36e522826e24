package pointsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// DefaultSnapshotKey is the row key used when none is configured.
const DefaultSnapshotKey = "points"

// PostgresRepository stores the snapshot as a single jsonb row via Bun.
type PostgresRepository struct {
	db  bun.IDB
	key string
}

// NewPostgresRepository creates a repository storing the snapshot under key.
func NewPostgresRepository(db bun.IDB, key string) *PostgresRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &PostgresRepository{db: db, key: key}
}

// Load reads the snapshot row.
func (r *PostgresRepository) Load(ctx context.Context) (*Snapshot, error) {
	record := new(SnapshotRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("key = ?", r.key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if record.Document == nil {
		return NewSnapshot(), nil
	}
	if record.Document.Users == nil {
		record.Document.Users = map[string]Account{}
	}
	return record.Document, nil
}

// Save upserts the snapshot row.
func (r *PostgresRepository) Save(ctx context.Context, snapshot *Snapshot) error {
	record := &SnapshotRecord{
		Key:       r.key,
		Document:  snapshot,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("document = EXCLUDED.document").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
