package leaderboardservice

import (
	"context"
	"fmt"
	"strings"

	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	leaderboardTitle = "🏆 Leaderboard — Top %d LP"
	emptyLeaderboard = "_Aucune donnée disponible._"
	chartFileName    = "leaderboard.png"
)

var frenchPrinter = message.NewPrinter(language.French)

// FormatLP renders an LP amount with French digit grouping.
func FormatLP(lp int64) string {
	return frenchPrinter.Sprintf("%d", lp)
}

// Render returns the ranked top entries.
func (s *LeaderboardService) Render(ctx context.Context) ([]leaderboarddomain.Entry, error) {
	return run(s, ctx, "Render", "", func(ctx context.Context) ([]leaderboarddomain.Entry, error) {
		return leaderboarddomain.Render(s.store.Accounts(), s.cfg.TopN), nil
	})
}

// GetLeaderboard returns the leaderboard embed.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) (platform.Message, error) {
	return run(s, ctx, "GetLeaderboard", "", func(ctx context.Context) (platform.Message, error) {
		entries := leaderboarddomain.Render(s.store.Accounts(), s.cfg.TopN)
		return s.buildMessage(ctx, entries, false), nil
	})
}

// Publish posts the leaderboard to the configured channel. The published
// message is edited in place while the pointer still refers to an existing
// message in that channel; otherwise a new message is sent and the pointer
// replaced. Platform failures leave the pointer unchanged.
func (s *LeaderboardService) Publish(ctx context.Context, actor platform.Actor) (PublishResult, error) {
	return run(s, ctx, "Publish", actor.ID, func(ctx context.Context) (PublishResult, error) {
		if !s.staff.IsStaff(ctx, actor.ID) {
			return PublishResult{}, ErrPermissionDenied
		}
		if s.cfg.ChannelID == "" {
			return PublishResult{}, ErrChannelNotConfigured
		}

		entries := leaderboarddomain.Render(s.store.Accounts(), s.cfg.TopN)
		msg := s.buildMessage(ctx, entries, s.cfg.Chart)
		pointer := s.store.Pointer()

		if pointer.Matches(s.cfg.ChannelID) && s.platform.MessageExists(ctx, s.cfg.ChannelID, *pointer.MessageID) {
			if !s.platform.EditMessage(ctx, s.cfg.ChannelID, *pointer.MessageID, msg) {
				return s.publishFailed(ctx, pointer), nil
			}
			return s.published(ctx, actor, pointer, botmetrics.PublishEdited), nil
		}

		messageID, ok := s.platform.SendMessage(ctx, s.cfg.ChannelID, msg)
		if !ok {
			return s.publishFailed(ctx, pointer), nil
		}

		channelID := s.cfg.ChannelID
		pointer = pointsdomain.LeaderboardPointer{ChannelID: &channelID, MessageID: &messageID}
		s.store.SetPointer(pointer)
		return s.published(ctx, actor, pointer, botmetrics.PublishSent), nil
	})
}

func (s *LeaderboardService) published(ctx context.Context, actor platform.Actor, pointer pointsdomain.LeaderboardPointer, mode string) PublishResult {
	s.metrics.RecordPublish(ctx, mode)
	s.logger.InfoContext(ctx, "Leaderboard published",
		attr.ExtractCorrelationID(ctx),
		attr.String("mode", mode),
		attr.String("message_id", *pointer.MessageID),
	)
	s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
		Operation: auditevents.OperationLeaderboardPublish,
		ActorID:   actor.ID,
		Message:   fmt.Sprintf("📣 %s a mis à jour le classement.", actor.Tag),
	})
	return PublishResult{Pointer: pointer, Mode: mode}
}

func (s *LeaderboardService) publishFailed(ctx context.Context, pointer pointsdomain.LeaderboardPointer) PublishResult {
	s.metrics.RecordPublish(ctx, botmetrics.PublishFailed)
	s.logger.WarnContext(ctx, "Leaderboard publish failed, pointer kept",
		attr.ExtractCorrelationID(ctx),
		attr.String("channel_id", s.cfg.ChannelID),
	)
	return PublishResult{Pointer: pointer, Mode: botmetrics.PublishFailed}
}

func (s *LeaderboardService) buildMessage(ctx context.Context, entries []leaderboarddomain.Entry, withChart bool) platform.Message {
	embed := platform.Embed{
		Title:     fmt.Sprintf(leaderboardTitle, s.cfg.TopN),
		Color:     platform.ColorGold,
		Timestamp: true,
	}
	if len(entries) == 0 {
		embed.Description = emptyLeaderboard
		return platform.Message{Embeds: []platform.Embed{embed}}
	}

	labels := make([]string, len(entries))
	lines := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = s.displayName(ctx, e.UserID)
		lines[i] = fmt.Sprintf("**#%d** — %s : **%s LP**", e.Rank, labels[i], FormatLP(e.LP))
	}
	embed.Description = strings.Join(lines, "\n")

	msg := platform.Message{}
	if withChart {
		png, err := RenderChart(entries, labels)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to render leaderboard chart", attr.Error(err))
		} else {
			embed.ImageURL = "attachment://" + chartFileName
			msg.Files = []platform.File{{Name: chartFileName, ContentType: "image/png", Data: png}}
		}
	}
	msg.Embeds = []platform.Embed{embed}
	return msg
}

func (s *LeaderboardService) displayName(ctx context.Context, userID string) string {
	if m := s.platform.Member(ctx, userID); m != nil && m.Username != "" {
		return m.Username
	}
	return platform.Mention(userID)
}
