package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	leaderboardservice "github.com/Black-And-White-Club/lp-bot/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/lp-bot/app/modules/points"
	pointsdb "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories"
	pointsstore "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/store"
	"github.com/Black-And-White-Club/lp-bot/config"
)

// exportPoints reads the snapshot from the configured backend and writes it
// as a workbook to path.
func exportPoints(ctx context.Context, cfg *config.Config, path string) (int, error) {
	repo, closeRepo, err := points.OpenRepository(ctx, cfg.Storage)
	if err != nil {
		return 0, err
	}
	defer closeRepo()

	store := pointsstore.New()
	snap, err := repo.Load(ctx)
	switch {
	case err == nil:
		store.Restore(snap)
	case !errors.Is(err, pointsdb.ErrSnapshotNotFound):
		return 0, fmt.Errorf("failed to load points: %w", err)
	}
	accounts := store.Accounts()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	exporter := leaderboardservice.NewXLSXExporter(points.NewRankTable(cfg.Discord.Roles))
	if err := exporter.Write(f, accounts); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return len(accounts), nil
}
