package pointsmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating bot_snapshots table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS bot_snapshots (
					key        VARCHAR(64) PRIMARY KEY,
					document   JSONB NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create bot_snapshots table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping bot_snapshots table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS bot_snapshots;`); err != nil {
			return fmt.Errorf("failed to drop bot_snapshots: %w", err)
		}
		return nil
	})
}
