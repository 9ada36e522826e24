package botmetrics

import (
	"context"
	"time"
)

// NoOp discards every measurement. It is used in tests and when metrics are disabled.
type NoOp struct{}

func (NoOp) RecordOperationAttempt(context.Context, string, string)                 {}
func (NoOp) RecordOperationSuccess(context.Context, string, string)                 {}
func (NoOp) RecordOperationFailure(context.Context, string, string)                 {}
func (NoOp) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOp) RecordPointsChange(context.Context, string, int64)                      {}
func (NoOp) RecordRoleChanges(context.Context, int, int)                            {}
func (NoOp) RecordNicknameUpdate(context.Context)                                   {}
func (NoOp) RecordPublish(context.Context, string)                                  {}
func (NoOp) RecordDecision(context.Context, string)                                 {}
func (NoOp) RecordTicket(context.Context, string)                                   {}
func (NoOp) RecordFlush(context.Context, time.Duration, error)                      {}
func (NoOp) RecordCollaboratorFailure(context.Context, string)                      {}

var (
	_ PointsMetrics       = NoOp{}
	_ LeaderboardMetrics  = NoOp{}
	_ VerificationMetrics = NoOp{}
	_ TicketMetrics       = NoOp{}
	_ StoreMetrics        = NoOp{}
	_ PlatformMetrics     = NoOp{}

	_ PointsMetrics       = (*Prometheus)(nil)
	_ LeaderboardMetrics  = (*Prometheus)(nil)
	_ VerificationMetrics = (*Prometheus)(nil)
	_ TicketMetrics       = (*Prometheus)(nil)
	_ StoreMetrics        = (*Prometheus)(nil)
	_ PlatformMetrics     = (*Prometheus)(nil)
)
