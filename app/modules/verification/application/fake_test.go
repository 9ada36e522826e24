package verificationservice

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/app/platform/platformtest"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	staffChannel   = "chan-staff"
	vipChannel     = "chan-vip"
	unverifiedRole = "role-nonvia"
	rookieRole     = "role-rookie"
)

var (
	staff     = platform.Actor{ID: "staff-1", Tag: "mod#0001"}
	applicant = platform.Actor{ID: "user-1", Tag: "bob"}
)

// FakePoints records calls made on approval.
type FakePoints struct {
	mu    sync.Mutex
	trace []string
	Staff map[string]bool
}

func (f *FakePoints) EnsureAccount(_ context.Context, userID string) pointsdomain.Account {
	f.record("EnsureAccount:" + userID)
	return pointsdomain.Account{UserID: userID}
}

func (f *FakePoints) DecorateMember(_ context.Context, userID string) {
	f.record("DecorateMember:" + userID)
}

func (f *FakePoints) IsStaff(_ context.Context, userID string) bool {
	return f.Staff[userID]
}

func (f *FakePoints) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakePoints) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
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

type harness struct {
	svc      *VerificationService
	registry *verificationdomain.Registry
	platform *platformtest.FakePlatform
	points   *FakePoints
	audit    *FakeRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fake := platformtest.New()
	fake.AddMember(applicant.ID, "bob", unverifiedRole)
	registry := verificationdomain.NewRegistry()
	points := &FakePoints{Staff: map[string]bool{staff.ID: true}}
	audit := &FakeRecorder{}

	svc := NewVerificationService(
		registry,
		platform.NewSafe(fake, logger, nil),
		points,
		audit,
		Config{
			StaffChannelID:   staffChannel,
			VIPChannelID:     vipChannel,
			UnverifiedRoleID: unverifiedRole,
			VerifiedRoleID:   rookieRole,
		},
		logger,
		botmetrics.NoOp{},
		noop.NewTracerProvider().Tracer("test"),
	)
	svc.newID = func() string { return "req-1" }
	svc.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }
	return &harness{svc: svc, registry: registry, platform: fake, points: points, audit: audit}
}

func validSubmission() verificationdomain.Submission {
	return verificationdomain.Submission{
		CelsiusHandle: "bob_celsius",
		Email:         "bob@example.com",
	}
}
