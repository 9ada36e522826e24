package main

import (
	"database/sql"
	"errors"
	"fmt"

	pointsmigrations "github.com/Black-And-White-Club/lp-bot/app/modules/points/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func newMigrateCommand() *cli.Command {
	// withMigrator opens the postgres snapshot database for the duration of fn.
	withMigrator := func(fn func(c *cli.Context, migrator *migrate.Migrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Storage.Postgres.DSN == "" {
				return errors.New("DATABASE_URL is required for migrations")
			}

			pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Storage.Postgres.DSN)))
			db := bun.NewDB(pgdb, pgdialect.New())
			defer db.Close()

			return fn(c, migrate.NewMigrator(db, pointsmigrations.Migrations))
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "postgres snapshot migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
					return migrator.Init(c.Context)
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
					if err := migrator.Lock(c.Context); err != nil {
						return err
					}
					defer migrator.Unlock(c.Context) //nolint:errcheck

					group, err := migrator.Migrate(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No new migrations to run")
						return nil
					}
					fmt.Printf("Migrated to %s\n", group)
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
					if err := migrator.Lock(c.Context); err != nil {
						return err
					}
					defer migrator.Unlock(c.Context) //nolint:errcheck

					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Println("No groups to roll back")
						return nil
					}
					fmt.Printf("Rolled back %s\n", group)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrator(func(c *cli.Context, migrator *migrate.Migrator) error {
					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("migrations: %s\n", ms)
					fmt.Printf("unapplied migrations: %s\n", ms.Unapplied())
					fmt.Printf("last migration group: %s\n", ms.LastGroup())
					return nil
				}),
			},
		},
	}
}
