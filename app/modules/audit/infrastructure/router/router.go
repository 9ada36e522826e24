package auditrouter

import (
	"log/slog"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	audithandlers "github.com/Black-And-White-Club/lp-bot/app/modules/audit/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill/message"
)

// AuditRouter registers the audit consumers on a shared watermill router.
type AuditRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
}

// NewAuditRouter creates an AuditRouter.
func NewAuditRouter(logger *slog.Logger, router *message.Router, subscriber message.Subscriber) *AuditRouter {
	return &AuditRouter{logger: logger, Router: router, subscriber: subscriber}
}

// Configure registers every audit handler.
func (r *AuditRouter) Configure(handlers audithandlers.Handlers) {
	r.Router.AddNoPublisherHandler(
		"audit."+auditevents.AuditRecordedV1,
		auditevents.AuditRecordedV1,
		r.subscriber,
		handlers.HandleAuditRecorded,
	)
	r.logger.Info("Audit handlers registered", "topic", auditevents.AuditRecordedV1)
}
