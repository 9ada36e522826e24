package pointsservice

import (
	"context"

	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// EnsureAccount touches the account so that it exists.
func (s *PointsService) EnsureAccount(_ context.Context, userID string) pointsdomain.Account {
	return s.store.Get(userID)
}

// SyncMemberRank reconciles the rank role against the stored LP, then decorates.
func (s *PointsService) SyncMemberRank(ctx context.Context, userID string) {
	account := s.store.Get(userID)
	if member := s.syncRank(ctx, userID, account.LP); member != nil {
		s.decorate(ctx, member)
	}
}

// DecorateMember re-applies the nickname emoji from the roles the member holds.
func (s *PointsService) DecorateMember(ctx context.Context, userID string) {
	member := s.platform.Member(ctx, userID)
	if member == nil {
		return
	}
	s.decorate(ctx, member)
}

// syncRank converges the member's rank roles to the tier for lp. It returns the
// member with the roles that were actually applied, or nil when the member
// cannot be fetched. Each role call is independent of the others.
func (s *PointsService) syncRank(ctx context.Context, userID string, lp int64) *platform.Member {
	member := s.platform.Member(ctx, userID)
	if member == nil {
		return nil
	}

	tier := s.ranks.ResolveTier(lp)
	changes := s.ranks.Reconcile(member.RoleIDs, tier)
	if changes.Empty() {
		return member
	}

	removed := make([]string, 0, len(changes.ToRemove))
	for _, roleID := range changes.ToRemove {
		if s.platform.RemoveRole(ctx, userID, roleID) {
			removed = append(removed, roleID)
		}
	}
	added := make([]string, 0, len(changes.ToAdd))
	for _, roleID := range changes.ToAdd {
		if s.platform.AddRole(ctx, userID, roleID) {
			added = append(added, roleID)
		}
	}

	member.RoleIDs = pointsdomain.RoleChanges{ToAdd: added, ToRemove: removed}.Apply(member.RoleIDs)

	s.metrics.RecordRoleChanges(ctx, len(added), len(removed))
	s.logger.InfoContext(ctx, "Rank roles reconciled",
		attr.ExtractCorrelationID(ctx),
		attr.UserID(userID),
		attr.String("tier", string(tier.ID)),
		attr.Int("added", len(added)),
		attr.Int("removed", len(removed)),
	)
	return member
}

func (s *PointsService) decorate(ctx context.Context, member *platform.Member) {
	name, ok := s.ranks.Decorate(member.NicknamePtr(), member.RoleIDs, member.Username)
	if !ok {
		return
	}
	if s.platform.SetNickname(ctx, member.ID, name) {
		s.metrics.RecordNicknameUpdate(ctx)
	}
}
