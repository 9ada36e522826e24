package points

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	auditservice "github.com/Black-And-White-Club/lp-bot/app/modules/audit/application"
	pointsservice "github.com/Black-And-White-Club/lp-bot/app/modules/points/application"
	pointsdomain "github.com/Black-And-White-Club/lp-bot/app/modules/points/domain"
	pointsdb "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories"
	pointsstore "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/store"
	"github.com/Black-And-White-Club/lp-bot/app/observability"
	"github.com/Black-And-White-Club/lp-bot/app/platform"
	"github.com/Black-And-White-Club/lp-bot/config"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Module owns the point store, its persistence and the points service.
type Module struct {
	Store         *pointsstore.Store
	Flusher       *pointsstore.Flusher
	Ranks         *pointsdomain.RankTable
	PointsService *pointsservice.PointsService

	logger    *slog.Logger
	closeRepo func() error
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewPointsModule opens the configured snapshot repository, restores the
// store from it and wires the debounced flusher.
func NewPointsModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	p *platform.Safe,
	audit auditservice.Recorder,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "points.NewPointsModule called", "backend", cfg.Storage.Backend)

	repo, closeRepo, err := OpenRepository(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	store := pointsstore.New()
	store.Load(ctx, repo, logger)

	flusher := pointsstore.NewFlusher(repo, store, cfg.Storage.FlushDebounce, logger, obs.Metrics)
	store.SetDirtyMarker(flusher)

	ranks := NewRankTable(cfg.Discord.Roles)
	service := pointsservice.NewPointsService(store, ranks, p, audit, cfg.Discord.Roles.Staff, logger, obs.Metrics, obs.Tracer)

	return &Module{
		Store:         store,
		Flusher:       flusher,
		Ranks:         ranks,
		PointsService: service,
		logger:        logger,
		closeRepo:     closeRepo,
		stop:          make(chan struct{}),
	}, nil
}

// NewRankTable maps the configured rank roles onto the tier table.
func NewRankTable(roles config.RolesConfig) *pointsdomain.RankTable {
	return pointsdomain.NewRankTable(pointsdomain.GroupIDs{
		Legend:    roles.Legend,
		Sponsor:   roles.Sponsor,
		RightHand: roles.RightHand,
		Captain:   roles.Captain,
		Member:    roles.Member,
		Rookie:    roles.Rookie,
	})
}

// OpenRepository builds the snapshot repository for the selected backend.
// The returned close function releases its connection.
func OpenRepository(ctx context.Context, cfg config.StorageConfig) (pointsdb.Repository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.StorageFile, "":
		return pointsdb.NewFileRepository(cfg.FilePath), noop, nil
	case config.StoragePostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
		db := bun.NewDB(sqldb, pgdialect.New())
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return pointsdb.NewPostgresRepository(db, ""), db.Close, nil
	case config.StorageRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return pointsdb.NewRedisRepository(client, cfg.Redis.Key), client.Close, nil
	case config.StorageS3:
		client, err := pointsdb.NewS3Client(ctx, pointsdb.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Key:       cfg.S3.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return pointsdb.NewS3Repository(client, cfg.S3.Bucket, cfg.S3.Key), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Run blocks until ctx is done or the module is closed.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting points module")

	if wg != nil {
		defer wg.Done()
	}

	select {
	case <-ctx.Done():
	case <-m.stop:
	}
	m.logger.InfoContext(ctx, "Points module goroutine stopped")
}

// Close writes pending changes and releases the repository.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping points module")

	m.stopOnce.Do(func() { close(m.stop) })

	var firstErr error
	if err := m.Flusher.Close(ctx); err != nil {
		m.logger.Error("Final points flush failed", "error", err)
		firstErr = fmt.Errorf("error flushing points: %w", err)
	}
	if m.closeRepo != nil {
		if err := m.closeRepo(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error closing points repository: %w", err)
		}
	}

	m.logger.Info("Points module stopped")
	return firstErr
}
