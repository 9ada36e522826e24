package pointsservice

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

const staffRole = "role-staff"

var (
	staff = platform.Actor{ID: "staff-1", Tag: "mod#0001"}
	alice = platform.Actor{ID: "alice-1", Tag: "alice"}
)

func testGroups() pointsdomain.GroupIDs {
	return pointsdomain.GroupIDs{
		Legend:    "role-legend",
		Sponsor:   "role-sponsor",
		RightHand: "role-right-hand",
		Captain:   "role-captain",
		Member:    "role-member",
		Rookie:    "role-rookie",
	}
}

type harness struct {
	svc      *PointsService
	store    *pointsstore.Store
	platform *platformtest.FakePlatform
	audit    *FakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := platformtest.New()
	fake.AddMember(staff.ID, "mod", staffRole)
	store := pointsstore.New()
	audit := &FakeRecorder{}

	svc := NewPointsService(
		store,
		pointsdomain.NewRankTable(testGroups()),
		platform.NewSafe(fake, logger, nil),
		audit,
		staffRole,
		logger,
		botmetrics.NoOp{},
		noop.NewTracerProvider().Tracer("test"),
	)
	return &harness{svc: svc, store: store, platform: fake, audit: audit}
}
