// Package observability builds the logger, tracer and metrics registry shared
// by every module, and serves the health, metrics and read-only API endpoints.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	botmetrics "github.com/Black-And-White-Club/lp-bot/app/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config selects log format and level.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	Output      io.Writer
}

// Observability carries the shared observability handles.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  *botmetrics.Prometheus
}

// Init creates the logger, tracer and a fresh Prometheus registry.
func Init(cfg Config) Observability {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "lp-bot"
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Registry: registry,
		Metrics:  botmetrics.NewPrometheus(registry),
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
