package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/application"
	memberservice "github.com/Black-And-White-Club/lp-bot/app/modules/member/application"
	pointsservice "github.com/Black-And-White-Club/lp-bot/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	ticketservice "github.com/Black-And-White-Club/lp-bot/app/modules/ticket/application"
	verificationservice "github.com/Black-And-White-Club/lp-bot/app/modules/verification/application"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_PointsCommands(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.Interaction
		points      *FakePoints
		want        string
	}{
		{
			name:        "addlp",
			interaction: slashInteraction(CommandAddLP, userOption("user-1"), intOpt(optionAmount, 50)),
			points: &FakePoints{AddLPFunc: func(_ context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
				assert.Equal(t, "staff-1", actor.ID)
				assert.Equal(t, platform.Actor{ID: "user-1", Tag: "alice"}, target)
				assert.EqualValues(t, 50, amount)
				return pointsdomain.Account{UserID: target.ID, LP: 150}, nil
			}},
			want: "✅ **50 LP** ajoutés à **alice** (total: 150).",
		},
		{
			name:        "setlp",
			interaction: slashInteraction(CommandSetLP, userOption("user-1"), intOpt(optionValue, 1200)),
			points: &FakePoints{SetLPFunc: func(_ context.Context, _, target platform.Actor, value int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{UserID: target.ID, LP: value}, nil
			}},
			want: "✅ Les LP de **alice** ont été définis à **1200**.",
		},
		{
			name:        "addsp",
			interaction: slashInteraction(CommandAddSP, userOption("user-1"), intOpt(optionAmount, 5)),
			points: &FakePoints{AddSPFunc: func(_ context.Context, _, target platform.Actor, amount int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{UserID: target.ID, SP: 7}, nil
			}},
			want: "✅ **5 SP** ajoutés à **alice** (total: 7).",
		},
		{
			name:        "removesp",
			interaction: slashInteraction(CommandRemoveSP, userOption("user-1"), intOpt(optionAmount, 3)),
			points: &FakePoints{RemoveSPFunc: func(_ context.Context, _, target platform.Actor, amount int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{UserID: target.ID, SP: 0}, nil
			}},
			want: "✅ **3 SP** retirés de **alice** (total: 0).",
		},
		{
			name:        "permission denied",
			interaction: slashInteraction(CommandAddLP, userOption("user-1"), intOpt(optionAmount, 5)),
			points: &FakePoints{AddLPFunc: func(context.Context, platform.Actor, platform.Actor, int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{}, pointsservice.ErrPermissionDenied
			}},
			want: replyPermissionDenied,
		},
		{
			name:        "invalid amount",
			interaction: slashInteraction(CommandAddSP, userOption("user-1"), intOpt(optionAmount, 0)),
			points: &FakePoints{AddSPFunc: func(context.Context, platform.Actor, platform.Actor, int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{}, pointsservice.ErrInvalidAmount
			}},
			want: replyInvalidAmount,
		},
		{
			name:        "negative value",
			interaction: slashInteraction(CommandSetLP, userOption("user-1"), intOpt(optionValue, -1)),
			points: &FakePoints{SetLPFunc: func(context.Context, platform.Actor, platform.Actor, int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{}, pointsservice.ErrInvalidValue
			}},
			want: replyInvalidValue,
		},
		{
			name:        "unexpected failure",
			interaction: slashInteraction(CommandAddLP, userOption("user-1"), intOpt(optionAmount, 5)),
			points: &FakePoints{AddLPFunc: func(context.Context, platform.Actor, platform.Actor, int64) (pointsdomain.Account, error) {
				return pointsdomain.Account{}, errors.New("boom")
			}},
			want: replyCommandFailed,
		},
		{
			name:        "unknown command",
			interaction: slashInteraction("dance"),
			points:      &FakePoints{},
			want:        replyUnknownCommand,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &FakeSession{}
			r := newTestRouter(session, Services{Points: tt.points})

			r.Handle(context.Background(), tt.interaction)

			assert.Equal(t, []string{"InteractionRespond", "InteractionResponseEdit"}, session.Trace())
			require.Len(t, session.Responses, 1)
			assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, session.Responses[0].Type)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, session.Responses[0].Data.Flags)
			assert.Equal(t, tt.want, session.LastEditContent())
		})
	}
}

func TestRouter_MyPoints(t *testing.T) {
	session := &FakeSession{}
	points := &FakePoints{GetMyPointsFunc: func(_ context.Context, userID string) (pointsservice.Summary, error) {
		assert.Equal(t, "staff-1", userID)
		return pointsservice.Summary{
			Account: pointsdomain.Account{UserID: userID, LP: 1500, SP: 4},
			Tier:    pointsdomain.RankTier{Label: "Captain"},
		}, nil
	}}
	r := newTestRouter(session, Services{Points: points})

	r.Handle(context.Background(), slashInteraction(CommandMyPoints))

	require.Len(t, session.Edits, 1)
	embeds := *session.Edits[0].Embeds
	require.Len(t, embeds, 1)
	assert.Equal(t, "Vos Points", embeds[0].Title)
	assert.Equal(t, "**LP :** 1500\n**SP :** 4\n**Rang :** Captain", embeds[0].Description)
	assert.Equal(t, pointsColor, embeds[0].Color)
}

func TestRouter_LeaderboardCommands(t *testing.T) {
	tests := []struct {
		name    string
		command string
		board   *FakeLeaderboard
		want    string
		files   int
	}{
		{
			name:    "publish sent",
			command: CommandPublishLeaderboard,
			board: &FakeLeaderboard{PublishFunc: func(context.Context, platform.Actor) (leaderboardservice.PublishResult, error) {
				return leaderboardservice.PublishResult{Mode: botmetrics.PublishSent}, nil
			}},
			want: replyPublished,
		},
		{
			name:    "publish failed on the platform",
			command: CommandPublishLeaderboard,
			board: &FakeLeaderboard{PublishFunc: func(context.Context, platform.Actor) (leaderboardservice.PublishResult, error) {
				return leaderboardservice.PublishResult{Mode: botmetrics.PublishFailed}, nil
			}},
			want: replyPublishFailed,
		},
		{
			name:    "publish without channel",
			command: CommandPublishLeaderboard,
			board: &FakeLeaderboard{PublishFunc: func(context.Context, platform.Actor) (leaderboardservice.PublishResult, error) {
				return leaderboardservice.PublishResult{}, leaderboardservice.ErrChannelNotConfigured
			}},
			want: replyNoChannel,
		},
		{
			name:    "publish by non staff",
			command: CommandPublishLeaderboard,
			board: &FakeLeaderboard{PublishFunc: func(context.Context, platform.Actor) (leaderboardservice.PublishResult, error) {
				return leaderboardservice.PublishResult{}, leaderboardservice.ErrPermissionDenied
			}},
			want: replyPermissionDenied,
		},
		{
			name:    "export attaches workbook",
			command: CommandExportPoints,
			board: &FakeLeaderboard{ExportPointsFunc: func(context.Context, platform.Actor) (platform.File, error) {
				return platform.File{Name: "points.xlsx", Data: []byte("xlsx")}, nil
			}},
			want:  replyExported,
			files: 1,
		},
		{
			name:    "leaderboard",
			command: CommandLeaderboard,
			board: &FakeLeaderboard{GetLeaderboardFunc: func(context.Context) (platform.Message, error) {
				return platform.Message{Embeds: []platform.Embed{{Title: "🏆"}}}, nil
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &FakeSession{}
			r := newTestRouter(session, Services{Leaderboard: tt.board})

			r.Handle(context.Background(), slashInteraction(tt.command))

			assert.Equal(t, tt.want, session.LastEditContent())
			assert.Len(t, session.Edits[0].Files, tt.files)
		})
	}
}

func TestRouter_StartVerificationShowsModal(t *testing.T) {
	session := &FakeSession{}
	r := newTestRouter(session, Services{})

	r.Handle(context.Background(), buttonInteraction(memberservice.StartVerificationID))

	assert.Equal(t, []string{"InteractionRespond"}, session.Trace())
	resp := session.Responses[0]
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, ModalID, resp.Data.CustomID)
	require.Len(t, resp.Data.Components, 3)

	var ids []string
	for _, c := range resp.Data.Components {
		input := c.(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
		ids = append(ids, input.CustomID)
	}
	assert.Equal(t, []string{fieldCelsius, fieldSponsor, fieldEmail}, ids)
}

func TestRouter_HelpButton(t *testing.T) {
	session := &FakeSession{}
	r := newTestRouter(session, Services{})

	r.Handle(context.Background(), buttonInteraction(memberservice.HelpID))

	resp := session.Responses[0]
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, memberservice.HelpReply, resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
}

func TestRouter_AnalysisRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "opened", want: "🎫 Votre ticket a été créé : <#thread-7>"},
		{name: "rate limited", err: ticketservice.ErrTicketRateLimited, want: replyTicketLimited},
		{name: "thread failure", err: ticketservice.ErrThreadUnavailable, want: replyTicketFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &FakeSession{}
			tickets := &FakeTickets{OpenFunc: func(_ context.Context, requester platform.Actor, channelID string) (ticketservice.Ticket, error) {
				assert.Equal(t, "staff-1", requester.ID)
				assert.Equal(t, "chan-1", channelID)
				if tt.err != nil {
					return ticketservice.Ticket{}, tt.err
				}
				return ticketservice.Ticket{ThreadID: "thread-7"}, nil
			}}
			r := newTestRouter(session, Services{Tickets: tickets})

			r.Handle(context.Background(), buttonInteraction(memberservice.AnalysisRequestID))

			assert.Equal(t, tt.want, session.LastEditContent())
		})
	}
}

func TestRouter_VerificationDecision(t *testing.T) {
	customID := verificationdomain.DecisionCustomID(verificationdomain.DecisionApprove, "req-1", "user-9")

	t.Run("approve passes the review message location", func(t *testing.T) {
		session := &FakeSession{}
		verification := &FakeVerification{ApproveFunc: func(_ context.Context, actor platform.Actor, in verificationservice.DecisionInput) (verificationdomain.Request, error) {
			assert.Equal(t, "staff-1", actor.ID)
			assert.Equal(t, verificationservice.DecisionInput{RequestID: "req-1", ApplicantID: "user-9", ChannelID: "chan-1", MessageID: "review-1"}, in)
			return verificationdomain.Request{ID: in.RequestID, Status: verificationdomain.StatusApproved}, nil
		}}
		r := newTestRouter(session, Services{Verification: verification})

		r.Handle(context.Background(), buttonInteraction(customID))

		assert.Equal(t, []string{"Approve"}, verification.Calls())
		assert.Equal(t, []string{"InteractionRespond"}, session.Trace())
		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, session.Responses[0].Type)
	})

	t.Run("second decision answers privately", func(t *testing.T) {
		session := &FakeSession{}
		verification := &FakeVerification{RejectFunc: func(context.Context, platform.Actor, verificationservice.DecisionInput) (verificationdomain.Request, error) {
			return verificationdomain.Request{}, verificationdomain.ErrAlreadyDecided
		}}
		r := newTestRouter(session, Services{Verification: verification})

		r.Handle(context.Background(), buttonInteraction(verificationdomain.DecisionCustomID(verificationdomain.DecisionReject, "req-1", "user-9")))

		assert.Equal(t, []string{"Reject"}, verification.Calls())
		require.Len(t, session.Followups, 1)
		assert.Equal(t, replyAlreadyDecided, session.Followups[0].Content)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, session.Followups[0].Flags)
	})

	t.Run("missing applicant can be retried", func(t *testing.T) {
		session := &FakeSession{}
		verification := &FakeVerification{ApproveFunc: func(context.Context, platform.Actor, verificationservice.DecisionInput) (verificationdomain.Request, error) {
			return verificationdomain.Request{}, verificationservice.ErrApplicantUnavailable
		}}
		r := newTestRouter(session, Services{Verification: verification})

		r.Handle(context.Background(), buttonInteraction(customID))

		require.Len(t, session.Followups, 1)
		assert.Equal(t, replyApplicantMissing, session.Followups[0].Content)
	})

	t.Run("non staff", func(t *testing.T) {
		session := &FakeSession{}
		verification := &FakeVerification{ApproveFunc: func(context.Context, platform.Actor, verificationservice.DecisionInput) (verificationdomain.Request, error) {
			return verificationdomain.Request{}, verificationservice.ErrPermissionDenied
		}}
		r := newTestRouter(session, Services{Verification: verification})

		r.Handle(context.Background(), buttonInteraction(customID))

		require.Len(t, session.Followups, 1)
		assert.Equal(t, replyPermissionDenied, session.Followups[0].Content)
	})

	t.Run("unknown button is acknowledged", func(t *testing.T) {
		session := &FakeSession{}
		verification := &FakeVerification{}
		r := newTestRouter(session, Services{Verification: verification})

		r.Handle(context.Background(), buttonInteraction("mystery"))

		assert.Empty(t, verification.Calls())
		require.Len(t, session.Responses, 1)
		assert.Equal(t, discordgo.InteractionResponseDeferredMessageUpdate, session.Responses[0].Type)
	})
}

func modalInteraction(values map[string]string) *discordgo.Interaction {
	var rows []discordgo.MessageComponent
	for _, id := range []string{fieldCelsius, fieldSponsor, fieldEmail} {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: values[id]},
		}})
	}
	return &discordgo.Interaction{
		ID:     "int-3",
		Type:   discordgo.InteractionModalSubmit,
		Member: &discordgo.Member{User: &discordgo.User{ID: "user-9", Username: "bob"}},
		Data:   discordgo.ModalSubmitInteractionData{CustomID: ModalID, Components: rows},
	}
}

func TestRouter_ModalSubmit(t *testing.T) {
	values := map[string]string{fieldCelsius: "bob_c", fieldSponsor: "", fieldEmail: "bob@example.com"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "submitted", want: replySubmitted},
		{
			name: "invalid email",
			err:  fmt.Errorf("%w: L’adresse email est invalide.", verificationdomain.ErrInvalidSubmission),
			want: "❌ L’adresse email est invalide.",
		},
		{name: "review channel down", err: verificationservice.ErrReviewUnavailable, want: replySubmitFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &FakeSession{}
			verification := &FakeVerification{SubmitFunc: func(_ context.Context, applicant platform.Actor, sub verificationdomain.Submission) (verificationdomain.Request, error) {
				assert.Equal(t, platform.Actor{ID: "user-9", Tag: "bob"}, applicant)
				assert.Equal(t, verificationdomain.Submission{CelsiusHandle: "bob_c", Email: "bob@example.com"}, sub)
				return verificationdomain.Request{}, tt.err
			}}
			r := newTestRouter(session, Services{Verification: verification})

			r.Handle(context.Background(), modalInteraction(values))

			assert.Equal(t, []string{"InteractionRespond", "InteractionResponseEdit"}, session.Trace())
			assert.Equal(t, tt.want, session.LastEditContent())
		})
	}
}

func TestRouter_AcknowledgeFailureStopsProcessing(t *testing.T) {
	session := &FakeSession{InteractionRespondFunc: func(*discordgo.Interaction, *discordgo.InteractionResponse) error {
		return errors.New("unknown interaction")
	}}
	points := &FakePoints{AddLPFunc: func(context.Context, platform.Actor, platform.Actor, int64) (pointsdomain.Account, error) {
		t.Fatal("service must not run")
		return pointsdomain.Account{}, nil
	}}
	r := newTestRouter(session, Services{Points: points})

	r.Handle(context.Background(), slashInteraction(CommandAddLP, userOption("user-1"), intOpt(optionAmount, 5)))

	assert.Equal(t, []string{"InteractionRespond"}, session.Trace())
}
