package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	memberservice "github.com/Black-And-White-Club/lp-bot/app/modules/member/application"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/bwmarrin/discordgo"
)

// Intents requested by the bot.
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsGuildMessages

// NewSession creates an unopened bot session.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	s.Identify.Intents = Intents
	s.StateEnabled = true
	s.State.TrackMembers = true
	return s, nil
}

// CommandRegistrar registers the guild slash commands.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Gateway routes gateway events to the application services.
type Gateway struct {
	session   *discordgo.Session
	registrar CommandRegistrar
	guildID   string
	router    *Router
	members   memberservice.Service
	logger    *slog.Logger

	ctx       context.Context
	startOnce sync.Once
	removers  []func()
}

// NewGateway creates a Gateway over session.
func NewGateway(session *discordgo.Session, guildID string, router *Router, members memberservice.Service, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		session:   session,
		registrar: session,
		guildID:   guildID,
		router:    router,
		members:   members,
		logger:    logger,
		ctx:       context.Background(),
	}
}

// Open registers the event handlers and connects. Handlers run with ctx.
func (g *Gateway) Open(ctx context.Context) error {
	g.ctx = ctx
	g.removers = append(g.removers,
		g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
			appID := ""
			if r.User != nil {
				appID = r.User.ID
			}
			g.onReady(g.ctx, appID)
		}),
		g.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
			g.onMemberAdd(g.ctx, m)
		}),
		g.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberUpdate) {
			g.onMemberUpdate(g.ctx, m)
		}),
		g.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
			g.router.Handle(g.ctx, i.Interaction)
		}),
	)

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	g.logger.InfoContext(ctx, "Discord gateway connected", attr.String("guild_id", g.guildID))
	return nil
}

// Close disconnects from the gateway.
func (g *Gateway) Close() error {
	for _, remove := range g.removers {
		remove()
	}
	g.removers = nil
	return g.session.Close()
}

// onReady runs on every (re)connect. Commands are overwritten each time;
// startup messages are posted once per process.
func (g *Gateway) onReady(ctx context.Context, appID string) {
	if _, err := g.registrar.ApplicationCommandBulkOverwrite(appID, g.guildID, Commands(), discordgo.WithContext(ctx)); err != nil {
		g.logger.ErrorContext(ctx, "Failed to register slash commands", attr.Error(err))
	} else {
		g.logger.InfoContext(ctx, "Slash commands registered", attr.Int("count", len(Commands())))
	}
	g.startOnce.Do(func() {
		g.members.PostStartupMessages(ctx)
	})
}

func (g *Gateway) onMemberAdd(ctx context.Context, m *discordgo.GuildMemberAdd) {
	if !g.relevant(m.Member) {
		return
	}
	g.members.HandleJoin(ctx, m.User.ID)
}

func (g *Gateway) onMemberUpdate(ctx context.Context, m *discordgo.GuildMemberUpdate) {
	if !g.relevant(m.Member) {
		return
	}
	var before []string
	if m.BeforeUpdate != nil {
		before = m.BeforeUpdate.Roles
	}
	g.members.HandleRolesChanged(ctx, m.User.ID, before, m.Roles)
}

func (g *Gateway) relevant(m *discordgo.Member) bool {
	return m != nil && m.User != nil && !m.User.Bot && m.GuildID == g.guildID
}
