package pointsstore

import (
	"context"
	"sync"

	pointsdb "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories"
)

// FakeRepository is a programmable pointsdb.Repository that records saves.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string
	saved []*pointsdb.Snapshot

	LoadFunc func(ctx context.Context) (*pointsdb.Snapshot, error)
	SaveFunc func(ctx context.Context, snapshot *pointsdb.Snapshot) error
}

func (f *FakeRepository) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *FakeRepository) LastSaved() *pointsdb.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

func (f *FakeRepository) Load(ctx context.Context) (*pointsdb.Snapshot, error) {
	f.record("Load")
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	return nil, pointsdb.ErrSnapshotNotFound
}

func (f *FakeRepository) Save(ctx context.Context, snapshot *pointsdb.Snapshot) error {
	f.record("Save")
	f.mu.Lock()
	f.saved = append(f.saved, snapshot)
	f.mu.Unlock()
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, snapshot)
	}
	return nil
}

var _ pointsdb.Repository = (*FakeRepository)(nil)

type countingMarker struct {
	mu    sync.Mutex
	count int
}

func (c *countingMarker) MarkDirty() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *countingMarker) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
