package leaderboardservice

import (
	"context"
	"log/slog"

	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/observability/telemetry"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"go.opentelemetry.io/otel/trace"
)

// Config controls rendering and publication.
type Config struct {
	ChannelID string
	TopN      int
	Chart     bool
}

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	store    Store
	ranks    *pointsdomain.RankTable
	platform *platform.Safe
	staff    StaffChecker
	audit    auditservice.Recorder
	exporter Exporter
	cfg      Config
	logger   *slog.Logger
	metrics  botmetrics.LeaderboardMetrics
	tracer   trace.Tracer
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	store Store,
	ranks *pointsdomain.RankTable,
	p *platform.Safe,
	staff StaffChecker,
	audit auditservice.Recorder,
	cfg Config,
	logger *slog.Logger,
	metrics botmetrics.LeaderboardMetrics,
	tracer trace.Tracer,
) *LeaderboardService {
	if cfg.TopN <= 0 {
		cfg.TopN = leaderboarddomain.DefaultTopN
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	if audit == nil {
		audit = auditservice.Nop{}
	}
	return &LeaderboardService{
		store:    store,
		ranks:    ranks,
		platform: p,
		staff:    staff,
		audit:    audit,
		exporter: NewXLSXExporter(ranks),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
	}
}

func run[T any](s *LeaderboardService, ctx context.Context, operation, identifier string, fn func(ctx context.Context) (T, error)) (T, error) {
	return telemetry.Run(ctx, telemetry.Operation{
		Service:   "LeaderboardService",
		Logger:    s.logger,
		Tracer:    s.tracer,
		Metrics:   s.metrics,
		IsFailure: isFailure,
	}, operation, identifier, fn)
}

var _ Service = (*LeaderboardService)(nil)
