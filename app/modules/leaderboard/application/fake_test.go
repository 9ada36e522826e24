package leaderboardservice

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	pointsstore "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/store"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/app/platform/platformtest"
	"go.opentelemetry.io/otel/trace/noop"
)

const leaderboardChannel = "chan-classement"

var (
	staff  = platform.Actor{ID: "staff-1", Tag: "mod#0001"}
	member = platform.Actor{ID: "member-1", Tag: "bob"}
)

// FakeStaff treats a fixed set of users as staff.
type FakeStaff struct {
	IDs map[string]bool
}

func (f FakeStaff) IsStaff(_ context.Context, userID string) bool {
	return f.IDs[userID]
}

// FakeRecorder captures audit entries.
type FakeRecorder struct {
	mu      sync.Mutex
	entries []auditevents.AuditRecordedPayloadV1
}

func (f *FakeRecorder) Record(_ context.Context, entry auditevents.AuditRecordedPayloadV1) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
}

func (f *FakeRecorder) Entries() []auditevents.AuditRecordedPayloadV1 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]auditevents.AuditRecordedPayloadV1(nil), f.entries...)
}

// FakeMetrics counts publish modes.
type FakeMetrics struct {
	botmetrics.NoOp
	mu    sync.Mutex
	modes []string
}

func (f *FakeMetrics) RecordPublish(_ context.Context, mode string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modes = append(f.modes, mode)
}

type harness struct {
	svc      *LeaderboardService
	store    *pointsstore.Store
	platform *platformtest.FakePlatform
	audit    *FakeRecorder
	metrics  *FakeMetrics
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := platformtest.New()
	store := pointsstore.New()
	audit := &FakeRecorder{}
	metrics := &FakeMetrics{}

	svc := NewLeaderboardService(
		store,
		pointsdomain.NewRankTable(pointsdomain.GroupIDs{}),
		platform.NewSafe(fake, logger, nil),
		FakeStaff{IDs: map[string]bool{staff.ID: true}},
		audit,
		cfg,
		logger,
		metrics,
		noop.NewTracerProvider().Tracer("test"),
	)
	return &harness{svc: svc, store: store, platform: fake, audit: audit, metrics: metrics}
}

func strPtr(s string) *string { return &s }
