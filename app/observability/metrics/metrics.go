// Package botmetrics defines the metrics recorded by the bot's modules.
// Each module depends on a narrow interface; Prometheus implements all of them.
package botmetrics

import (
	"context"
	"time"
)

// OperationMetrics is recorded around every service operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// PointsMetrics covers point mutations and rank role synchronisation.
type PointsMetrics interface {
	OperationMetrics
	RecordPointsChange(ctx context.Context, currency string, delta int64)
	RecordRoleChanges(ctx context.Context, added, removed int)
	RecordNicknameUpdate(ctx context.Context)
}

// LeaderboardMetrics covers leaderboard publication.
type LeaderboardMetrics interface {
	OperationMetrics
	RecordPublish(ctx context.Context, mode string)
}

// VerificationMetrics covers the deposit verification workflow.
type VerificationMetrics interface {
	OperationMetrics
	RecordDecision(ctx context.Context, decision string)
}

// TicketMetrics covers support tickets.
type TicketMetrics interface {
	OperationMetrics
	RecordTicket(ctx context.Context, outcome string)
}

// StoreMetrics covers snapshot persistence.
type StoreMetrics interface {
	RecordFlush(ctx context.Context, duration time.Duration, err error)
}

// PlatformMetrics counts swallowed collaborator failures.
type PlatformMetrics interface {
	RecordCollaboratorFailure(ctx context.Context, operation string)
}

// Publish modes.
const (
	PublishEdited = "edited"
	PublishSent   = "sent"
	PublishFailed = "failed"
)
