package pointsstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	pointsdb "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
)

// DefaultDebounce is the quiet window before a snapshot is written.
const DefaultDebounce = time.Second

// SnapshotSource produces the document to persist.
type SnapshotSource interface {
	Snapshot() *pointsdb.Snapshot
}

// Flusher coalesces dirty notifications into debounced snapshot writes.
// Each MarkDirty restarts the quiet window. A mark that arrives while a write
// is in progress re-arms the timer once the write finishes.
type Flusher struct {
	repo    pointsdb.Repository
	source  SnapshotSource
	delay   time.Duration
	logger  *slog.Logger
	metrics botmetrics.StoreMetrics

	// writeMu serialises repository writes.
	writeMu sync.Mutex

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	dirty      bool
	writing    bool
	closed     bool
}

// NewFlusher creates a flusher writing source snapshots to repo.
func NewFlusher(
	repo pointsdb.Repository,
	source SnapshotSource,
	delay time.Duration,
	logger *slog.Logger,
	metrics botmetrics.StoreMetrics,
) *Flusher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	return &Flusher{
		repo:    repo,
		source:  source,
		delay:   delay,
		logger:  logger,
		metrics: metrics,
	}
}

// MarkDirty records a pending change and restarts the quiet window.
func (f *Flusher) MarkDirty() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dirty = true
	if f.closed {
		return
	}
	f.generation++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.writing {
		return
	}
	f.armLocked()
}

// Pending reports whether changes are waiting to be written.
func (f *Flusher) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Flush writes the current snapshot immediately and cancels any armed timer.
func (f *Flusher) Flush(ctx context.Context) error {
	f.mu.Lock()
	f.generation++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.dirty = false
	f.mu.Unlock()

	return f.write(ctx)
}

// Close stops scheduling and writes any pending changes. A timer write that
// is already in progress is waited out before Close returns.
func (f *Flusher) Close(ctx context.Context) error {
	f.mu.Lock()
	f.closed = true
	f.generation++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	pending := f.dirty
	f.dirty = false
	f.mu.Unlock()

	if !pending {
		f.writeMu.Lock()
		f.writeMu.Unlock()
		return nil
	}
	return f.write(ctx)
}

func (f *Flusher) armLocked() {
	gen := f.generation
	f.timer = time.AfterFunc(f.delay, func() { f.fire(gen) })
}

func (f *Flusher) fire(gen uint64) {
	f.mu.Lock()
	if gen != f.generation || f.writing || f.closed {
		f.mu.Unlock()
		return
	}
	f.timer = nil
	f.dirty = false
	f.writing = true
	f.mu.Unlock()

	// Failures are logged inside write and never retried.
	_ = f.write(context.Background())

	f.mu.Lock()
	f.writing = false
	if f.dirty && !f.closed {
		f.generation++
		f.armLocked()
	}
	f.mu.Unlock()
}

func (f *Flusher) write(ctx context.Context) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	start := time.Now()
	err := f.repo.Save(ctx, f.source.Snapshot())
	f.metrics.RecordFlush(ctx, time.Since(start), err)
	if err != nil {
		f.logger.ErrorContext(ctx, "Failed to persist points snapshot", attr.Error(err))
		return err
	}
	f.logger.DebugContext(ctx, "Points snapshot persisted", attr.String("duration", time.Since(start).String()))
	return nil
}
