package botmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lpbot"

// Prometheus implements every module metrics interface on a single registry.
type Prometheus struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	pointsChanges   *prometheus.CounterVec
	roleChanges     *prometheus.CounterVec
	nicknameUpdates prometheus.Counter

	publishes     *prometheus.CounterVec
	decisions     *prometheus.CounterVec
	tickets       *prometheus.CounterVec
	flushes       *prometheus.CounterVec
	flushDuration prometheus.Histogram

	collaboratorFailures *prometheus.CounterVec
}

// NewPrometheus registers the bot metrics on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	opLabels := []string{"operation", "service"}

	return &Prometheus{
		operationAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_attempts_total",
			Help: "Service operations started.",
		}, opLabels),
		operationSuccesses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_successes_total",
			Help: "Service operations that completed.",
		}, opLabels),
		operationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_failures_total",
			Help: "Service operations that failed or panicked.",
		}, opLabels),
		operationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, opLabels),
		pointsChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "points_changed_total",
			Help: "Absolute points moved per currency and direction.",
		}, []string{"currency", "direction"}),
		roleChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rank_role_changes_total",
			Help: "Rank roles added or removed during reconciliation.",
		}, []string{"action"}),
		nicknameUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "nickname_updates_total",
			Help: "Nickname renames requested.",
		}),
		publishes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "leaderboard_publishes_total",
			Help: "Leaderboard publications by mode.",
		}, []string{"mode"}),
		decisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "verification_decisions_total",
			Help: "Verification requests decided.",
		}, []string{"decision"}),
		tickets: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "tickets_total",
			Help: "Support tickets by outcome.",
		}, []string{"outcome"}),
		flushes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "snapshot_flushes_total",
			Help: "Snapshot writes by outcome.",
		}, []string{"outcome"}),
		flushDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "snapshot_flush_duration_seconds",
			Help:    "Snapshot write latency.",
			Buckets: prometheus.DefBuckets,
		}),
		collaboratorFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "collaborator_failures_total",
			Help: "Chat platform calls that failed and were swallowed.",
		}, []string{"operation"}),
	}
}

func (p *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	p.operationAttempts.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	p.operationSuccesses.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	p.operationFailures.WithLabelValues(operation, service).Inc()
}

func (p *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	p.operationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (p *Prometheus) RecordPointsChange(_ context.Context, currency string, delta int64) {
	direction := "up"
	if delta < 0 {
		direction = "down"
		delta = -delta
	}
	p.pointsChanges.WithLabelValues(currency, direction).Add(float64(delta))
}

func (p *Prometheus) RecordRoleChanges(_ context.Context, added, removed int) {
	p.roleChanges.WithLabelValues("add").Add(float64(added))
	p.roleChanges.WithLabelValues("remove").Add(float64(removed))
}

func (p *Prometheus) RecordNicknameUpdate(_ context.Context) {
	p.nicknameUpdates.Inc()
}

func (p *Prometheus) RecordPublish(_ context.Context, mode string) {
	p.publishes.WithLabelValues(mode).Inc()
}

func (p *Prometheus) RecordDecision(_ context.Context, decision string) {
	p.decisions.WithLabelValues(decision).Inc()
}

func (p *Prometheus) RecordTicket(_ context.Context, outcome string) {
	p.tickets.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RecordFlush(_ context.Context, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.flushes.WithLabelValues(outcome).Inc()
	p.flushDuration.Observe(duration.Seconds())
}

func (p *Prometheus) RecordCollaboratorFailure(_ context.Context, operation string) {
	p.collaboratorFailures.WithLabelValues(operation).Inc()
}
