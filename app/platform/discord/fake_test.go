package discord

import (
	"context"
	"io"
	"log/slog"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	pointsservice "github.com/Black-And-White-Club/lp-bot/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	ticketservice "github.com/Black-And-White-Club/lp-bot/app/modules/ticket/application"
	verificationservice "github.com/Black-And-White-Club/lp-bot/app/modules/verification/application"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel/trace/noop"
)

// FakeSession is a programmable Session that records calls.
type FakeSession struct {
	mu    sync.Mutex
	trace []string

	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit
	Followups []*discordgo.WebhookParams
	Sends     []*discordgo.MessageSend
	MsgEdits  []*discordgo.MessageEdit

	GuildMemberFunc               func(guildID, userID string) (*discordgo.Member, error)
	GuildMembersFunc              func(guildID, after string, limit int) ([]*discordgo.Member, error)
	ChannelMessageFunc            func(channelID, messageID string) (*discordgo.Message, error)
	ChannelMessageSendComplexFunc func(channelID string, data *discordgo.MessageSend) (*discordgo.Message, error)
	ChannelMessageEditComplexFunc func(m *discordgo.MessageEdit) (*discordgo.Message, error)
	ThreadStartComplexFunc        func(channelID string, data *discordgo.ThreadStart) (*discordgo.Channel, error)
	InteractionRespondFunc        func(i *discordgo.Interaction, resp *discordgo.InteractionResponse) error
}

func (f *FakeSession) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeSession) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeSession) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	f.record("GuildMember")
	if f.GuildMemberFunc != nil {
		return f.GuildMemberFunc(guildID, userID)
	}
	return &discordgo.Member{User: &discordgo.User{ID: userID}}, nil
}

func (f *FakeSession) GuildMembers(guildID, after string, limit int, _ ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	f.record("GuildMembers")
	if f.GuildMembersFunc != nil {
		return f.GuildMembersFunc(guildID, after, limit)
	}
	return nil, nil
}

func (f *FakeSession) GuildMemberRoleAdd(_, _, _ string, _ ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleAdd")
	return nil
}

func (f *FakeSession) GuildMemberRoleRemove(_, _, _ string, _ ...discordgo.RequestOption) error {
	f.record("GuildMemberRoleRemove")
	return nil
}

func (f *FakeSession) GuildMemberNickname(_, _, _ string, _ ...discordgo.RequestOption) error {
	f.record("GuildMemberNickname")
	return nil
}

func (f *FakeSession) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessage")
	if f.ChannelMessageFunc != nil {
		return f.ChannelMessageFunc(channelID, messageID)
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSendComplex")
	f.mu.Lock()
	f.Sends = append(f.Sends, data)
	f.mu.Unlock()
	if f.ChannelMessageSendComplexFunc != nil {
		return f.ChannelMessageSendComplexFunc(channelID, data)
	}
	return &discordgo.Message{ID: "msg-1", ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageEditComplex")
	f.mu.Lock()
	f.MsgEdits = append(f.MsgEdits, m)
	f.mu.Unlock()
	if f.ChannelMessageEditComplexFunc != nil {
		return f.ChannelMessageEditComplexFunc(m)
	}
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *FakeSession) ThreadStartComplex(channelID string, data *discordgo.ThreadStart, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("ThreadStartComplex")
	if f.ThreadStartComplexFunc != nil {
		return f.ThreadStartComplexFunc(channelID, data)
	}
	return &discordgo.Channel{ID: "thread-1", ParentID: channelID, Name: data.Name}, nil
}

func (f *FakeSession) ThreadMemberAdd(_, _ string, _ ...discordgo.RequestOption) error {
	f.record("ThreadMemberAdd")
	return nil
}

func (f *FakeSession) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.record("InteractionRespond")
	f.mu.Lock()
	f.Responses = append(f.Responses, resp)
	f.mu.Unlock()
	if f.InteractionRespondFunc != nil {
		return f.InteractionRespondFunc(i, resp)
	}
	return nil
}

func (f *FakeSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("InteractionResponseEdit")
	f.mu.Lock()
	f.Edits = append(f.Edits, edit)
	f.mu.Unlock()
	return &discordgo.Message{}, nil
}

func (f *FakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("FollowupMessageCreate")
	f.mu.Lock()
	f.Followups = append(f.Followups, data)
	f.mu.Unlock()
	return &discordgo.Message{}, nil
}

// LastEditContent returns the content of the latest interaction reply edit.
func (f *FakeSession) LastEditContent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Edits) == 0 || f.Edits[len(f.Edits)-1].Content == nil {
		return ""
	}
	return *f.Edits[len(f.Edits)-1].Content
}

var _ Session = (*FakeSession)(nil)

// FakePoints implements pointsservice.Service.
type FakePoints struct {
	AddLPFunc       func(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	SetLPFunc       func(ctx context.Context, actor, target platform.Actor, value int64) (pointsdomain.Account, error)
	AddSPFunc       func(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	RemoveSPFunc    func(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error)
	GetMyPointsFunc func(ctx context.Context, userID string) (pointsservice.Summary, error)
}

func (f *FakePoints) AddLP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return f.AddLPFunc(ctx, actor, target, amount)
}

func (f *FakePoints) SetLP(ctx context.Context, actor, target platform.Actor, value int64) (pointsdomain.Account, error) {
	return f.SetLPFunc(ctx, actor, target, value)
}

func (f *FakePoints) AddSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return f.AddSPFunc(ctx, actor, target, amount)
}

func (f *FakePoints) RemoveSP(ctx context.Context, actor, target platform.Actor, amount int64) (pointsdomain.Account, error) {
	return f.RemoveSPFunc(ctx, actor, target, amount)
}

func (f *FakePoints) GetMyPoints(ctx context.Context, userID string) (pointsservice.Summary, error) {
	return f.GetMyPointsFunc(ctx, userID)
}

func (f *FakePoints) EnsureAccount(_ context.Context, userID string) pointsdomain.Account {
	return pointsdomain.Account{UserID: userID}
}

func (f *FakePoints) SyncMemberRank(context.Context, string) {}
func (f *FakePoints) DecorateMember(context.Context, string) {}
func (f *FakePoints) IsStaff(context.Context, string) bool   { return false }

var _ pointsservice.Service = (*FakePoints)(nil)

// FakeLeaderboard implements leaderboardservice.Service.
type FakeLeaderboard struct {
	GetLeaderboardFunc func(ctx context.Context) (platform.Message, error)
	PublishFunc        func(ctx context.Context, actor platform.Actor) (leaderboardservice.PublishResult, error)
	ExportPointsFunc   func(ctx context.Context, actor platform.Actor) (platform.File, error)
}

func (f *FakeLeaderboard) Render(context.Context) ([]leaderboarddomain.Entry, error) {
	return nil, nil
}

func (f *FakeLeaderboard) GetLeaderboard(ctx context.Context) (platform.Message, error) {
	return f.GetLeaderboardFunc(ctx)
}

func (f *FakeLeaderboard) Publish(ctx context.Context, actor platform.Actor) (leaderboardservice.PublishResult, error) {
	return f.PublishFunc(ctx, actor)
}

func (f *FakeLeaderboard) ExportPoints(ctx context.Context, actor platform.Actor) (platform.File, error) {
	return f.ExportPointsFunc(ctx, actor)
}

var _ leaderboardservice.Service = (*FakeLeaderboard)(nil)

// FakeVerification implements verificationservice.Service.
type FakeVerification struct {
	mu    sync.Mutex
	calls []string

	SubmitFunc  func(ctx context.Context, applicant platform.Actor, sub verificationdomain.Submission) (verificationdomain.Request, error)
	ApproveFunc func(ctx context.Context, actor platform.Actor, in verificationservice.DecisionInput) (verificationdomain.Request, error)
	RejectFunc  func(ctx context.Context, actor platform.Actor, in verificationservice.DecisionInput) (verificationdomain.Request, error)
}

func (f *FakeVerification) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
}

func (f *FakeVerification) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeVerification) Submit(ctx context.Context, applicant platform.Actor, sub verificationdomain.Submission) (verificationdomain.Request, error) {
	f.record("Submit")
	return f.SubmitFunc(ctx, applicant, sub)
}

func (f *FakeVerification) Approve(ctx context.Context, actor platform.Actor, in verificationservice.DecisionInput) (verificationdomain.Request, error) {
	f.record("Approve")
	return f.ApproveFunc(ctx, actor, in)
}

func (f *FakeVerification) Reject(ctx context.Context, actor platform.Actor, in verificationservice.DecisionInput) (verificationdomain.Request, error) {
	f.record("Reject")
	return f.RejectFunc(ctx, actor, in)
}

var _ verificationservice.Service = (*FakeVerification)(nil)

// FakeTickets implements ticketservice.Service.
type FakeTickets struct {
	OpenFunc func(ctx context.Context, requester platform.Actor, channelID string) (ticketservice.Ticket, error)
}

func (f *FakeTickets) Open(ctx context.Context, requester platform.Actor, channelID string) (ticketservice.Ticket, error) {
	return f.OpenFunc(ctx, requester, channelID)
}

var _ ticketservice.Service = (*FakeTickets)(nil)

// FakeMembers implements memberservice.Service.
type FakeMembers struct {
	mu    sync.Mutex
	calls []string
}

func (f *FakeMembers) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
}

func (f *FakeMembers) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeMembers) HandleJoin(_ context.Context, userID string) {
	f.record("HandleJoin:" + userID)
}

func (f *FakeMembers) HandleRolesChanged(_ context.Context, userID string, _, _ []string) {
	f.record("HandleRolesChanged:" + userID)
}

func (f *FakeMembers) PostStartupMessages(context.Context) {
	f.record("PostStartupMessages")
}

// FakeRegistrar records command registrations.
type FakeRegistrar struct {
	mu       sync.Mutex
	Commands [][]*discordgo.ApplicationCommand
	Err      error
}

func (f *FakeRegistrar) ApplicationCommandBulkOverwrite(_, _ string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, commands)
	return commands, f.Err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(session *FakeSession, services Services) *Router {
	return NewRouter(session, services, discardLogger(), noop.NewTracerProvider().Tracer("test"))
}

var staffUser = &discordgo.User{ID: "staff-1", Username: "modo"}

func slashInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:      "int-1",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "guild-1",
		Member:  &discordgo.Member{User: staffUser},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
			Resolved: &discordgo.ApplicationCommandInteractionDataResolved{
				Users: map[string]*discordgo.User{"user-1": {ID: "user-1", Username: "alice"}},
			},
		},
	}
}

func userOption(id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: optionUser, Type: discordgo.ApplicationCommandOptionUser, Value: id}
}

func intOpt(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: v}
}

func buttonInteraction(customID string) *discordgo.Interaction {
	return &discordgo.Interaction{
		ID:        "int-2",
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		Member:    &discordgo.Member{User: staffUser},
		Message:   &discordgo.Message{ID: "review-1", ChannelID: "chan-1"},
		Data:      discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}
}
