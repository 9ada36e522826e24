package pointsservice

import (
	"context"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// Service is the points application surface.
type Service interface {
	AddLP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	SetLP(ctx context.Context, actor, target platform.Actor, value int64) (pointsdomain.Account, error)
	AddSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	RemoveSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	GetMyPoints(ctx context.Context, userID string) (Summary, error)

	// EnsureAccount creates the account for userID if it does not exist yet.
	EnsureAccount(ctx context.Context, userID string) pointsdomain.Account
	// SyncMemberRank converges the member's rank role to its LP and redecorates the nickname.
	SyncMemberRank(ctx context.Context, userID string)
	// DecorateMember re-applies the rank emoji for the roles the member currently holds.
	DecorateMember(ctx context.Context, userID string)
	// IsStaff reports whether userID holds the staff role.
	IsStaff(ctx context.Context, userID string) bool
}

// Store is the subset of the point store used by the service.
type Store interface {
	Get(userID string) pointsdomain.Account
	AdjustLP(userID string, delta int64) pointsdomain.Account
	AdjustSP(userID string, delta int64) pointsdomain.Account
	SetLP(userID string, value int64) (pointsdomain.Account, error)
}

// Summary is returned by GetMyPoints.
type Summary struct {
	Account pointsdomain.Account
	Tier    pointsdomain.RankTier
}
