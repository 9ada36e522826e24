// Package auditservice publishes audit notifications. Publishing never fails
// the calling operation.
package auditservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/lp-bot/app/eventbus"
	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Recorder is used by modules that emit audit notifications.
type Recorder interface {
	Record(ctx context.Context, entry auditevents.AuditRecordedPayloadV1)
}

// AuditService publishes entries on the event bus.
type AuditService struct {
	publisher message.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuditService creates an AuditService.
func NewAuditService(publisher message.Publisher, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{publisher: publisher, logger: logger, now: time.Now}
}

// Record publishes entry. Failures are logged and dropped.
func (s *AuditService) Record(ctx context.Context, entry auditevents.AuditRecordedPayloadV1) {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = s.now().UTC()
	}

	msg, err := eventbus.NewJSONMessage(ctx, entry)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to encode audit entry", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return
	}
	if err := s.publisher.Publish(auditevents.AuditRecordedV1, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish audit entry",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", entry.Operation),
			attr.Error(err),
		)
	}
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, auditevents.AuditRecordedPayloadV1) {}

var (
	_ Recorder = (*AuditService)(nil)
	_ Recorder = Nop{}
)
