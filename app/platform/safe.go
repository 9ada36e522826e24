package platform

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
)

// Safe decorates a Platform so that every failure is logged and turned into a
// no-op result. Callers only see a success flag.
type Safe struct {
	platform Platform
	logger   *slog.Logger
	metrics  botmetrics.PlatformMetrics
}

// NewSafe wraps p.
func NewSafe(p Platform, logger *slog.Logger, metrics botmetrics.PlatformMetrics) *Safe {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	return &Safe{platform: p, logger: logger, metrics: metrics}
}

func (s *Safe) fail(ctx context.Context, operation string, err error, attrs ...any) {
	s.metrics.RecordCollaboratorFailure(ctx, operation)
	args := append([]any{attr.ExtractCorrelationID(ctx), attr.String("operation", operation), attr.Error(err)}, attrs...)
	s.logger.WarnContext(ctx, "Platform call failed", args...)
}

// Member fetches a member, returning nil on failure.
func (s *Safe) Member(ctx context.Context, userID string) *Member {
	m, err := s.platform.Member(ctx, userID)
	if err != nil {
		s.fail(ctx, "Member", err, attr.UserID(userID))
		return nil
	}
	return m
}

func (s *Safe) AddRole(ctx context.Context, userID, roleID string) bool {
	if err := s.platform.AddRole(ctx, userID, roleID); err != nil {
		s.fail(ctx, "AddRole", err, attr.UserID(userID), attr.String("role_id", roleID))
		return false
	}
	return true
}

func (s *Safe) RemoveRole(ctx context.Context, userID, roleID string) bool {
	if err := s.platform.RemoveRole(ctx, userID, roleID); err != nil {
		s.fail(ctx, "RemoveRole", err, attr.UserID(userID), attr.String("role_id", roleID))
		return false
	}
	return true
}

func (s *Safe) SetNickname(ctx context.Context, userID, nickname string) bool {
	if err := s.platform.SetNickname(ctx, userID, nickname); err != nil {
		s.fail(ctx, "SetNickname", err, attr.UserID(userID))
		return false
	}
	return true
}

// RoleMembers lists members of roleID; failures yield an empty list.
func (s *Safe) RoleMembers(ctx context.Context, roleID string) []string {
	ids, err := s.platform.RoleMembers(ctx, roleID)
	if err != nil {
		s.fail(ctx, "RoleMembers", err, attr.String("role_id", roleID))
		return nil
	}
	return ids
}

// SendMessage posts msg and returns its ID, or "" and false on failure.
func (s *Safe) SendMessage(ctx context.Context, channelID string, msg Message) (string, bool) {
	if channelID == "" {
		return "", false
	}
	id, err := s.platform.SendMessage(ctx, channelID, msg)
	if err != nil {
		s.fail(ctx, "SendMessage", err, attr.String("channel_id", channelID))
		return "", false
	}
	return id, true
}

func (s *Safe) EditMessage(ctx context.Context, channelID, messageID string, msg Message) bool {
	if err := s.platform.EditMessage(ctx, channelID, messageID, msg); err != nil {
		s.fail(ctx, "EditMessage", err, attr.String("channel_id", channelID), attr.String("message_id", messageID))
		return false
	}
	return true
}

// MessageExists treats lookup failures as a missing message.
func (s *Safe) MessageExists(ctx context.Context, channelID, messageID string) bool {
	ok, err := s.platform.MessageExists(ctx, channelID, messageID)
	if err != nil {
		s.fail(ctx, "MessageExists", err, attr.String("channel_id", channelID), attr.String("message_id", messageID))
		return false
	}
	return ok
}

func (s *Safe) AnnotateMessage(ctx context.Context, channelID, messageID string, status EmbedField, color int) bool {
	if err := s.platform.AnnotateMessage(ctx, channelID, messageID, status, color); err != nil {
		s.fail(ctx, "AnnotateMessage", err, attr.String("channel_id", channelID), attr.String("message_id", messageID))
		return false
	}
	return true
}

func (s *Safe) CreatePrivateThread(ctx context.Context, channelID, name string, autoArchiveMinutes int) (string, bool) {
	id, err := s.platform.CreatePrivateThread(ctx, channelID, name, autoArchiveMinutes)
	if err != nil {
		s.fail(ctx, "CreatePrivateThread", err, attr.String("channel_id", channelID))
		return "", false
	}
	return id, true
}

func (s *Safe) AddThreadMember(ctx context.Context, threadID, userID string) bool {
	if err := s.platform.AddThreadMember(ctx, threadID, userID); err != nil {
		s.fail(ctx, "AddThreadMember", err, attr.String("thread_id", threadID), attr.UserID(userID))
		return false
	}
	return true
}

// HasRole reports whether userID currently holds roleID. An empty roleID or a
// failed lookup yields false.
func (s *Safe) HasRole(ctx context.Context, userID, roleID string) bool {
	if roleID == "" {
		return false
	}
	m := s.Member(ctx, userID)
	return m != nil && m.HasRole(roleID)
}
