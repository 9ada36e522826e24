package memberservice

import (
	"context"
	"log/slog"
	"slices"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// Points is the subset of the points service used by member lifecycle events.
type Points interface {
	EnsureAccount(ctx context.Context, userID string) pointsdomain.Account
	DecorateMember(ctx context.Context, userID string)
}

// Config holds the channels and roles used on member events.
type Config struct {
	WelcomeChannelID  string
	AnalysisChannelID string
	UnverifiedRoleID  string
	AffiliateURL      string
}

// Service handles member lifecycle events.
type Service interface {
	HandleJoin(ctx context.Context, userID string)
	HandleRolesChanged(ctx context.Context, userID string, before, after []string)
	PostStartupMessages(ctx context.Context)
}

// MemberService implements Service. Every platform call is best effort.
type MemberService struct {
	platform *platform.Safe
	points   Points
	cfg      Config
	logger   *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(p *platform.Safe, points Points, cfg Config, logger *slog.Logger) *MemberService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemberService{platform: p, points: points, cfg: cfg, logger: logger}
}

// HandleJoin assigns the unverified role, creates the points account,
// welcomes the member and decorates their nickname.
func (s *MemberService) HandleJoin(ctx context.Context, userID string) {
	s.logger.InfoContext(ctx, "Member joined", attr.ExtractCorrelationID(ctx), attr.UserID(userID))

	if s.cfg.UnverifiedRoleID != "" {
		if !s.platform.HasRole(ctx, userID, s.cfg.UnverifiedRoleID) {
			s.platform.AddRole(ctx, userID, s.cfg.UnverifiedRoleID)
		}
	}
	s.points.EnsureAccount(ctx, userID)
	s.platform.SendMessage(ctx, s.cfg.WelcomeChannelID, WelcomeMessage(s.cfg.AffiliateURL, userID))
	s.points.DecorateMember(ctx, userID)
}

// HandleRolesChanged redecorates the nickname when the role set changed.
func (s *MemberService) HandleRolesChanged(ctx context.Context, userID string, before, after []string) {
	if sameRoles(before, after) {
		return
	}
	s.points.DecorateMember(ctx, userID)
}

// PostStartupMessages posts the welcome and analysis-request messages.
func (s *MemberService) PostStartupMessages(ctx context.Context) {
	s.platform.SendMessage(ctx, s.cfg.WelcomeChannelID, WelcomeMessage(s.cfg.AffiliateURL, ""))
	s.platform.SendMessage(ctx, s.cfg.AnalysisChannelID, AnalysisRequestMessage())
}

func sameRoles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

var _ Service = (*MemberService)(nil)
