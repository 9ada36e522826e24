package pointsdb

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load when no snapshot has been written yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Repository is the durable side of the point store. Implementations overwrite
// the whole document on every Save.
type Repository interface {
	// Load reads the last saved snapshot.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
}
