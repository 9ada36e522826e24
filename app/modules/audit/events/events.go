// Package auditevents defines the audit notification stream.
package auditevents

import "time"

// AuditRecordedV1 is published after every privileged action.
const AuditRecordedV1 = "lpbot.audit.v1"

// Operations.
const (
	OperationLPAdded             = "points.lp.added"
	OperationLPSet               = "points.lp.set"
	OperationSPAdded             = "points.sp.added"
	OperationSPRemoved           = "points.sp.removed"
	OperationLeaderboardPublish  = "leaderboard.published"
	OperationVerificationSubmit  = "verification.submitted"
	OperationVerificationApprove = "verification.approved"
	OperationVerificationReject  = "verification.rejected"
	OperationTicketOpened        = "ticket.opened"
	OperationPointsExported      = "points.exported"
)

// AuditRecordedPayloadV1 describes who did what to whom.
type AuditRecordedPayloadV1 struct {
	Operation  string    `json:"operation"`
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id,omitempty"`
	Total      *int64    `json:"total,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
