package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/lp-bot/app/observability/attr"
	"github.com/Black-And-White-Club/lp-bot/app/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LeaderboardReader renders the current leaderboard.
type LeaderboardReader interface {
	Render(ctx context.Context) ([]leaderboarddomain.Entry, error)
}

// HealthCheck reports readiness. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// LeaderboardEntry is the JSON form of a leaderboard line.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	LP     int64  `json:"lp"`
}

// Server exposes /healthz, /metrics and /api/leaderboard.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewRouter builds the HTTP routes.
func NewRouter(registry *prometheus.Registry, leaderboard LeaderboardReader, health HealthCheck, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	if leaderboard != nil {
		limiter := ratelimit.New(ratelimit.PerMinute(60), 10)
		r.Route("/api", func(r chi.Router) {
			r.Use(ratelimit.Middleware(limiter))
			r.Get("/leaderboard", func(w http.ResponseWriter, req *http.Request) {
				entries, err := leaderboard.Render(req.Context())
				if err != nil {
					logger.ErrorContext(req.Context(), "Failed to render leaderboard", attr.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				out := make([]LeaderboardEntry, len(entries))
				for i, e := range entries {
					out[i] = LeaderboardEntry{Rank: e.Rank, UserID: e.UserID, LP: e.LP}
				}
				w.Header().Set("Content-Type", "application/json")
				if err := json.NewEncoder(w).Encode(out); err != nil {
					logger.WarnContext(req.Context(), "Failed to write leaderboard response", attr.Error(err))
				}
			})
		})
	}

	return r
}

// NewServer creates a server listening on addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "HTTP server listening", attr.String("address", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
