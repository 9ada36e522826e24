package verificationservice

import (
	"context"
	"log/slog"
	"time"

	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	verificationdomain "github.com/Black-And-White-Club/lp-bot/app/modules/verification/domain"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/observability/telemetry"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// VerificationService implements the Service interface.
type VerificationService struct {
	registry *verificationdomain.Registry
	platform *platform.Safe
	points   Points
	audit    auditservice.Recorder
	validate *validator.Validate
	cfg      Config
	logger   *slog.Logger
	metrics  botmetrics.VerificationMetrics
	tracer   trace.Tracer
	newID    func() string
	now      func() time.Time
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(
	registry *verificationdomain.Registry,
	p *platform.Safe,
	points Points,
	audit auditservice.Recorder,
	cfg Config,
	logger *slog.Logger,
	metrics botmetrics.VerificationMetrics,
	tracer trace.Tracer,
) *VerificationService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	if audit == nil {
		audit = auditservice.Nop{}
	}
	return &VerificationService{
		registry: registry,
		platform: p,
		points:   points,
		audit:    audit,
		validate: validator.New(),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
}

func run[T any](s *VerificationService, ctx context.Context, operation, identifier string, fn func(ctx context.Context) (T, error)) (T, error) {
	return telemetry.Run(ctx, telemetry.Operation{
		Service:   "VerificationService",
		Logger:    s.logger,
		Tracer:    s.tracer,
		Metrics:   s.metrics,
		IsFailure: isFailure,
	}, operation, identifier, fn)
}

var _ Service = (*VerificationService)(nil)
