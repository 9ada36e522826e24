package pointsservice

import (
	"context"
	"log/slog"

	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/observability/telemetry"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"go.opentelemetry.io/otel/trace"
)

// PointsService implements the Service interface.
type PointsService struct {
	store       Store
	ranks       *pointsdomain.RankTable
	platform    *platform.Safe
	audit       auditservice.Recorder
	staffRoleID string
	logger      *slog.Logger
	metrics     botmetrics.PointsMetrics
	tracer      trace.Tracer
}

// NewPointsService creates a new PointsService.
func NewPointsService(
	store Store,
	ranks *pointsdomain.RankTable,
	p *platform.Safe,
	audit auditservice.Recorder,
	staffRoleID string,
	logger *slog.Logger,
	metrics botmetrics.PointsMetrics,
	tracer trace.Tracer,
) *PointsService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	if audit == nil {
		audit = auditservice.Nop{}
	}
	return &PointsService{
		store:       store,
		ranks:       ranks,
		platform:    p,
		audit:       audit,
		staffRoleID: staffRoleID,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
	}
}

func run[T any](s *PointsService, ctx context.Context, operation, identifier string, fn func(ctx context.Context) (T, error)) (T, error) {
	return telemetry.Run(ctx, telemetry.Operation{
		Service:   "PointsService",
		Logger:    s.logger,
		Tracer:    s.tracer,
		Metrics:   s.metrics,
		IsFailure: isFailure,
	}, operation, identifier, fn)
}

// IsStaff reports whether userID holds the configured staff role.
func (s *PointsService) IsStaff(ctx context.Context, userID string) bool {
	return s.platform.HasRole(ctx, userID, s.staffRoleID)
}

var _ Service = (*PointsService)(nil)
