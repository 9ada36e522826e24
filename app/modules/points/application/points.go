package pointsservice

import (
	"context"
	"fmt"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
)

// AddLP credits amount LP to target, then syncs its rank role and nickname.
func (s *PointsService) AddLP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return run(s, ctx, "AddLP", target.ID, func(ctx context.Context) (pointsdomain.Account, error) {
		if err := s.authorize(ctx, actor, amount); err != nil {
			return pointsdomain.Account{}, err
		}

		account := s.store.AdjustLP(target.ID, amount)
		s.metrics.RecordPointsChange(ctx, "lp", amount)

		if member := s.syncRank(ctx, target.ID, account.LP); member != nil {
			s.decorate(ctx, member)
		}

		s.record(ctx, auditevents.OperationLPAdded, actor, target, account.LP,
			fmt.Sprintf("➕ %s a ajouté %d LP à %s (total %d).", actor.Tag, amount, target.Tag, account.LP))
		return account, nil
	})
}

// SetLP replaces target's LP and syncs its rank role. The nickname is left as is.
func (s *PointsService) SetLP(ctx context.Context, actor, target platform.Actor, value int64) (pointsdomain.Account, error) {
	return run(s, ctx, "SetLP", target.ID, func(ctx context.Context) (pointsdomain.Account, error) {
		if !s.IsStaff(ctx, actor.ID) {
			return pointsdomain.Account{}, ErrPermissionDenied
		}
		if value < 0 {
			return pointsdomain.Account{}, ErrInvalidValue
		}

		previous := s.store.Get(target.ID)
		account, err := s.store.SetLP(target.ID, value)
		if err != nil {
			return pointsdomain.Account{}, ErrInvalidValue
		}
		s.metrics.RecordPointsChange(ctx, "lp", account.LP-previous.LP)

		s.syncRank(ctx, target.ID, account.LP)

		s.record(ctx, auditevents.OperationLPSet, actor, target, account.LP,
			fmt.Sprintf("🪄 %s a défini les LP de %s à %d.", actor.Tag, target.Tag, account.LP))
		return account, nil
	})
}

// AddSP credits amount SP to target.
func (s *PointsService) AddSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return run(s, ctx, "AddSP", target.ID, func(ctx context.Context) (pointsdomain.Account, error) {
		if err := s.authorize(ctx, actor, amount); err != nil {
			return pointsdomain.Account{}, err
		}

		account := s.store.AdjustSP(target.ID, amount)
		s.metrics.RecordPointsChange(ctx, "sp", amount)

		s.record(ctx, auditevents.OperationSPAdded, actor, target, account.SP,
			fmt.Sprintf("🔸 %s a ajouté %d SP à %s (total %d).", actor.Tag, amount, target.Tag, account.SP))
		return account, nil
	})
}

// RemoveSP debits amount SP from target, never going below zero.
func (s *PointsService) RemoveSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return run(s, ctx, "RemoveSP", target.ID, func(ctx context.Context) (pointsdomain.Account, error) {
		if err := s.authorize(ctx, actor, amount); err != nil {
			return pointsdomain.Account{}, err
		}

		previous := s.store.Get(target.ID)
		account := s.store.AdjustSP(target.ID, -amount)
		s.metrics.RecordPointsChange(ctx, "sp", account.SP-previous.SP)

		s.record(ctx, auditevents.OperationSPRemoved, actor, target, account.SP,
			fmt.Sprintf("🔻 %s a retiré %d SP de %s (total %d).", actor.Tag, amount, target.Tag, account.SP))
		return account, nil
	})
}

// GetMyPoints returns the caller's balances and LP-derived tier.
func (s *PointsService) GetMyPoints(ctx context.Context, userID string) (Summary, error) {
	return run(s, ctx, "GetMyPoints", userID, func(ctx context.Context) (Summary, error) {
		account := s.store.Get(userID)
		return Summary{Account: account, Tier: s.ranks.ResolveTier(account.LP)}, nil
	})
}

// authorize checks the staff role first, then the amount.
func (s *PointsService) authorize(ctx context.Context, actor platform.Actor, amount int64) error {
	if !s.IsStaff(ctx, actor.ID) {
		return ErrPermissionDenied
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s *PointsService) record(ctx context.Context, operation string, actor, target platform.Actor, total int64, message string) {
	s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
		Operation: operation,
		ActorID:   actor.ID,
		TargetID:  target.ID,
		Total:     &total,
		Message:   message,
	})
}
