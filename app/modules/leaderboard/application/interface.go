package leaderboardservice

import (
	"context"
	"io"

	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// Service is the leaderboard application surface.
type Service interface {
	// Render returns the ranked top entries.
	Render(ctx context.Context) ([]leaderboarddomain.Entry, error)
	// GetLeaderboard returns the leaderboard as a message.
	GetLeaderboard(ctx context.Context) (platform.Message, error)
	// Publish posts or edits the leaderboard in the configured channel.
	Publish(ctx context.Context, actor platform.Actor) (PublishResult, error)
	// ExportPoints writes every account as an XLSX workbook.
	ExportPoints(ctx context.Context, actor platform.Actor) (platform.File, error)
}

// Store is the subset of the point store read by the leaderboard.
type Store interface {
	Accounts() []pointsdomain.Account
	Pointer() pointsdomain.LeaderboardPointer
	SetPointer(p pointsdomain.LeaderboardPointer)
}

// StaffChecker reports whether a user holds the staff role.
type StaffChecker interface {
	IsStaff(ctx context.Context, userID string) bool
}

// Exporter writes an XLSX workbook of accounts.
type Exporter interface {
	Write(w io.Writer, accounts []pointsdomain.Account) error
}

// PublishResult describes what Publish did.
type PublishResult struct {
	Pointer pointsdomain.LeaderboardPointer
	// Mode is one of the botmetrics publish modes.
	Mode string
}
