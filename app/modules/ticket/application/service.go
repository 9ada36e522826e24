package ticketservice

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	auditevents "github.com/Black-And-White-Club/lp-bot/app/modules/audit/events"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/Black-And-White-Club/lp-bot/app/observability/telemetry"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/app/ratelimit"
	"go.opentelemetry.io/otel/trace"
)

// AutoArchiveMinutes archives idle tickets after seven days.
const AutoArchiveMinutes = 10080

// Ticket outcomes recorded in metrics.
const (
	OutcomeOpened      = "opened"
	OutcomeRateLimited = "rate_limited"
	OutcomeFailed      = "failed"
)

// Service opens support tickets.
type Service interface {
	Open(ctx context.Context, requester platform.Actor, channelID string) (Ticket, error)
}

// Ticket is an opened private thread.
type Ticket struct {
	ThreadID string
	Name     string
}

// Config controls ticket creation.
type Config struct {
	StaffRoleID   string
	RatePerMinute float64
	Burst         int
}

// TicketService implements Service.
type TicketService struct {
	platform *platform.Safe
	audit    auditservice.Recorder
	limiter  *ratelimit.KeyedLimiter
	cfg      Config
	logger   *slog.Logger
	metrics  botmetrics.TicketMetrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewTicketService creates a new TicketService.
func NewTicketService(
	p *platform.Safe,
	audit auditservice.Recorder,
	cfg Config,
	logger *slog.Logger,
	metrics botmetrics.TicketMetrics,
	tracer trace.Tracer,
) *TicketService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = botmetrics.NoOp{}
	}
	if audit == nil {
		audit = auditservice.Nop{}
	}
	return &TicketService{
		platform: p,
		audit:    audit,
		limiter:  ratelimit.New(ratelimit.PerMinute(cfg.RatePerMinute), cfg.Burst),
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		now:      time.Now,
	}
}

// Open creates a private thread under channelID, invites the requester and
// every staff member, and posts the opening message.
func (s *TicketService) Open(ctx context.Context, requester platform.Actor, channelID string) (Ticket, error) {
	return telemetry.Run(ctx, telemetry.Operation{
		Service:   "TicketService",
		Logger:    s.logger,
		Tracer:    s.tracer,
		Metrics:   s.metrics,
		IsFailure: isFailure,
	}, "Open", requester.ID, func(ctx context.Context) (Ticket, error) {
		if !s.limiter.Allow(requester.ID) {
			s.metrics.RecordTicket(ctx, OutcomeRateLimited)
			return Ticket{}, ErrTicketRateLimited
		}

		name := threadName(requester.Tag, s.now())
		threadID, ok := s.platform.CreatePrivateThread(ctx, channelID, name, AutoArchiveMinutes)
		if !ok {
			s.metrics.RecordTicket(ctx, OutcomeFailed)
			return Ticket{}, ErrThreadUnavailable
		}

		s.platform.AddThreadMember(ctx, threadID, requester.ID)
		if s.cfg.StaffRoleID != "" {
			for _, staffID := range s.platform.RoleMembers(ctx, s.cfg.StaffRoleID) {
				if staffID == requester.ID {
					continue
				}
				s.platform.AddThreadMember(ctx, threadID, staffID)
			}
		}

		s.platform.SendMessage(ctx, threadID, platform.Message{Content: openingMessage(requester.ID)})

		s.metrics.RecordTicket(ctx, OutcomeOpened)
		s.logger.InfoContext(ctx, "Ticket opened",
			attr.ExtractCorrelationID(ctx),
			attr.UserID(requester.ID),
			attr.String("thread_id", threadID),
		)
		s.audit.Record(ctx, auditevents.AuditRecordedPayloadV1{
			Operation: auditevents.OperationTicketOpened,
			ActorID:   requester.ID,
			TargetID:  requester.ID,
			Message:   fmt.Sprintf("🎫 Ticket d’analyse créé par %s (%s).", requester.Tag, ChannelMention(threadID)),
		})
		return Ticket{ThreadID: threadID, Name: name}, nil
	})
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9_.-]+`)

func threadName(username string, at time.Time) string {
	base := strings.Trim(unsafeNameChars.ReplaceAllString(strings.ToLower(username), "-"), "-")
	if base == "" {
		base = "membre"
	}
	return fmt.Sprintf("ticket-%s-%d", base, at.UnixMilli())
}

func openingMessage(userID string) string {
	return "👋 " + platform.Mention(userID) + " ticket d’analyse ouvert\n" +
		"Merci de préciser ta requête\n" +
		"Un membre du staff te répondra sous peu.\n" +
		"(Le ticket s’archive automatiquement après 7 jours d’inactivité)"
}

// ChannelMention renders a channel or thread link.
func ChannelMention(channelID string) string {
	return "<#" + channelID + ">"
}

var _ Service = (*TicketService)(nil)
