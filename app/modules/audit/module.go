package audit

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/lp-bot/app/eventbus"
	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	audithandlers "github.com/Black-And-White-Club/lp-bot/app/modules/audit/infrastructure/handlers"
	auditrouter "github.com/Black-And-White-Club/lp-bot/app/modules/audit/infrastructure/router"
	"github.com/Black-And-White-Club/lp-bot/app/observability"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Module publishes audit entries and relays them to the bot log channel.
type Module struct {
	AuditService  *auditservice.AuditService
	AuditRouter   *auditrouter.AuditRouter
	observability observability.Observability
	stop          chan struct{}
	stopOnce      sync.Once
}

// NewAuditModule registers the audit consumer on router.
func NewAuditModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	bus *eventbus.EventBus,
	router *message.Router,
	p *platform.Safe,
) *Module {
	logger := obs.Logger
	logger.InfoContext(ctx, "audit.NewAuditModule called")

	service := auditservice.NewAuditService(bus, logger)

	r := auditrouter.NewAuditRouter(logger, router, bus)
	r.Configure(audithandlers.NewAuditHandlers(p, cfg.Discord.Channels.BotLogs, logger))

	return &Module{
		AuditService:  service,
		AuditRouter:   r,
		observability: obs,
		stop:          make(chan struct{}),
	}
}

// Run blocks until ctx is done or the module is closed.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting audit module")

	if wg != nil {
		defer wg.Done()
	}

	select {
	case <-ctx.Done():
	case <-m.stop:
	}
	logger.InfoContext(ctx, "Audit module goroutine stopped")
}

// Close stops the module. The shared router is closed by the app.
func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping audit module")
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}
