package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/lp-bot/app"
	"github.com/Black-And-White-Club/lp-bot/app/observability"
	"github.com/Black-And-White-Club/lp-bot/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "lp-bot",
		Usage: "Betting School points bot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newRunCommand(),
			newMigrateCommand(),
			newExportCommand(),
		},
		DefaultCommand: "run",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "connect to Discord and serve interactions",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			obs := observability.Init(observability.Config{
				ServiceName: "lp-bot",
				Environment: cfg.Observability.Environment,
				LogLevel:    cfg.Observability.LogLevel,
			})
			logger := obs.Logger

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			bot, err := app.Initialize(ctx, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize bot: %w", err)
			}

			runErr := bot.Run(ctx)
			if runErr != nil {
				logger.Error("Bot stopped with error", "error", runErr)
			}
			stop()

			if err := bot.Close(); err != nil {
				logger.Error("Shutdown finished with errors", "error", err)
				if runErr == nil {
					runErr = err
				}
			}
			return runErr
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write every account to an XLSX workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "points.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := cfg.ValidateStorage(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			n, err := exportPoints(c.Context, cfg, c.String("out"))
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d accounts to %s\n", n, c.String("out"))
			return nil
		},
	}
}
