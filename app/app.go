// Package app wires configuration, observability, storage, the event bus and
// the chat gateway into a running bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Black-And-White-Club/lp-bot/app/eventbus"
	"github.com/Black-And-White-Club/lp-bot/app/modules/audit"
	leaderboardservice "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/application"
	memberservice "github.com/Black-And-White-Club/lp-bot/app/modules/member/application"
	"github.com/Black-And-White-Club/lp-bot/app/modules/points"
	ticketservice "github.com/Black-And-White-Club/lp-bot/app/modules/ticket/application"
	verificationservice "github.com/Black-And-White-Club/lp-bot/app/modules/verification/application"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/app/platform/discord"
	"github.com/Black-And-White-Club/lp-bot/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/bwmarrin/discordgo"
)

const shutdownTimeout = 10 * time.Second

// App holds every long-lived component of the bot.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      *eventbus.EventBus
	Router        *message.Router
	Session       *discordgo.Session
	Gateway       *discord.Gateway

	PointsModule        *points.Module
	AuditModule         *audit.Module
	LeaderboardService  *leaderboardservice.LeaderboardService
	VerificationService *verificationservice.VerificationService
	TicketService       *ticketservice.TicketService
	MemberService       *memberservice.MemberService

	connected atomic.Bool
	wg        sync.WaitGroup
}

// Initialize builds the app without connecting to the gateway.
func Initialize(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Logger

	bus, err := eventbus.New(ctx, eventbus.Config{
		Backend:    cfg.EventBus.Backend,
		NATSURL:    cfg.EventBus.NATSURL,
		JetStream:  cfg.EventBus.JetStream,
		QueueGroup: "lp-bot",
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		bus.Close()
		return nil, err
	}
	safe := platform.NewSafe(discord.NewClient(session, cfg.Discord.GuildID), logger, obs.Metrics)

	auditModule := audit.NewAuditModule(ctx, cfg, obs, bus, router, safe)

	pointsModule, err := points.NewPointsModule(ctx, cfg, obs, safe, auditModule.AuditService)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize points module: %w", err)
	}
	pointsService := pointsModule.PointsService

	channels, roles := cfg.Discord.Channels, cfg.Discord.Roles

	leaderboard := leaderboardservice.NewLeaderboardService(
		pointsModule.Store,
		pointsModule.Ranks,
		safe,
		pointsService,
		auditModule.AuditService,
		leaderboardservice.Config{
			ChannelID: channels.Leaderboard,
			TopN:      cfg.Leaderboard.TopN,
			Chart:     cfg.Leaderboard.Chart,
		},
		logger, obs.Metrics, obs.Tracer,
	)

	verification := verificationservice.NewVerificationService(
		verificationdomain.NewRegistry(),
		safe,
		pointsService,
		auditModule.AuditService,
		verificationservice.Config{
			StaffChannelID:   channels.StaffValidation,
			VIPChannelID:     channels.GeneralVIP,
			UnverifiedRoleID: roles.Unverified,
			VerifiedRoleID:   roles.Rookie,
		},
		logger, obs.Metrics, obs.Tracer,
	)

	tickets := ticketservice.NewTicketService(
		safe,
		auditModule.AuditService,
		ticketservice.Config{
			StaffRoleID:   roles.Staff,
			RatePerMinute: cfg.Ticket.RatePerMinute,
			Burst:         cfg.Ticket.Burst,
		},
		logger, obs.Metrics, obs.Tracer,
	)

	members := memberservice.NewMemberService(safe, pointsService, memberservice.Config{
		WelcomeChannelID:  channels.Welcome,
		AnalysisChannelID: channels.AnalysisRequest,
		UnverifiedRoleID:  roles.Unverified,
		AffiliateURL:      cfg.Discord.AffiliateURL,
	}, logger)

	interactions := discord.NewRouter(session, discord.Services{
		Points:       pointsService,
		Leaderboard:  leaderboard,
		Verification: verification,
		Tickets:      tickets,
	}, logger, obs.Tracer)

	return &App{
		Config:              cfg,
		Observability:       obs,
		EventBus:            bus,
		Router:              router,
		Session:             session,
		Gateway:             discord.NewGateway(session, cfg.Discord.GuildID, interactions, members, logger),
		PointsModule:        pointsModule,
		AuditModule:         auditModule,
		LeaderboardService:  leaderboard,
		VerificationService: verification,
		TicketService:       tickets,
		MemberService:       members,
	}, nil
}

// Run starts the message router, the modules, the HTTP server and the
// gateway, and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Logger

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- a.Router.Run(ctx)
	}()
	select {
	case <-a.Router.Running():
	case err := <-routerErr:
		return fmt.Errorf("message router stopped: %w", err)
	}

	a.wg.Add(2)
	go a.PointsModule.Run(ctx, &a.wg)
	go a.AuditModule.Run(ctx, &a.wg)

	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		server := observability.NewServer(addr, observability.NewRouter(
			a.Observability.Registry,
			a.LeaderboardService,
			a.health,
			logger,
		), logger)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := server.Run(ctx); err != nil {
				logger.ErrorContext(ctx, "HTTP server stopped", "error", err)
			}
		}()
	}

	if err := a.Gateway.Open(ctx); err != nil {
		return err
	}
	a.connected.Store(true)
	logger.InfoContext(ctx, "Bot is running")

	<-ctx.Done()
	logger.Info("Shutdown requested")
	return nil
}

func (a *App) health(context.Context) error {
	if !a.connected.Load() {
		return errors.New("gateway not connected")
	}
	return nil
}

// Close disconnects the gateway, stops the modules and writes pending points.
func (a *App) Close() error {
	logger := a.Observability.Logger
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.connected.Swap(false) {
		if err := a.Gateway.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing gateway: %w", err))
		}
	}
	if err := a.AuditModule.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing message router: %w", err))
	}
	if err := a.PointsModule.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing event bus: %w", err))
	}

	a.wg.Wait()
	logger.Info("Bot stopped")
	return errors.Join(errs...)
}
