package verificationservice

import (
	"context"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// Service runs the deposit verification workflow.
type Service interface {
	// Submit validates the form and posts a review message for staff.
	Submit(ctx context.Context, applicant platform.Actor, sub verificationdomain.Submission) (verificationdomain.Request, error)
	// Approve grants access to the applicant.
	Approve(ctx context.Context, actor platform.Actor, in DecisionInput) (verificationdomain.Request, error)
	// Reject closes the request without granting access.
	Reject(ctx context.Context, actor platform.Actor, in DecisionInput) (verificationdomain.Request, error)
}

// DecisionInput identifies the request being decided and its review message.
type DecisionInput struct {
	RequestID   string
	ApplicantID string
	ChannelID   string
	MessageID   string
}

// Points is the subset of the points service used on approval.
type Points interface {
	EnsureAccount(ctx context.Context, userID string) pointsdomain.Account
	DecorateMember(ctx context.Context, userID string)
	IsStaff(ctx context.Context, userID string) bool
}

// Config holds the channels and roles used by the workflow.
type Config struct {
	StaffChannelID   string
	VIPChannelID     string
	UnverifiedRoleID string
	VerifiedRoleID   string
}
