package audithandlers

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/lp-bot/app/eventbus"
	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Handlers consumes audit events.
type Handlers interface {
	HandleAuditRecorded(msg *message.Message) error
}

// AuditHandlers posts audit entries to the bot log channel.
type AuditHandlers struct {
	platform  *platform.Safe
	channelID string
	logger    *slog.Logger
}

// NewAuditHandlers creates AuditHandlers. An empty channelID disables posting.
func NewAuditHandlers(p *platform.Safe, channelID string, logger *slog.Logger) *AuditHandlers {
	return &AuditHandlers{platform: p, channelID: channelID, logger: logger}
}

// HandleAuditRecorded posts the entry message. Undecodable messages and
// posting failures are logged and acknowledged.
func (h *AuditHandlers) HandleAuditRecorded(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	entry, err := eventbus.DecodeJSON[auditevents.AuditRecordedPayloadV1](msg)
	if err != nil {
		h.logger.WarnContext(ctx, "Dropping malformed audit entry", attr.ExtractCorrelationID(ctx), attr.Error(err))
		return nil
	}

	h.logger.InfoContext(ctx, "Audit",
		attr.ExtractCorrelationID(ctx),
		attr.String("operation", entry.Operation),
		attr.String("actor_id", entry.ActorID),
		attr.String("target_id", entry.TargetID),
	)

	if h.channelID == "" || entry.Message == "" {
		return nil
	}
	h.post(ctx, entry.Message)
	return nil
}

func (h *AuditHandlers) post(ctx context.Context, content string) {
	h.platform.SendMessage(ctx, h.channelID, platform.Message{Content: content})
}

var _ Handlers = (*AuditHandlers)(nil)
