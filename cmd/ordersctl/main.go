package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/unclebandit/orders-backend/cmd/ordersctl/commands"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to the environment file",
		Value: ".env",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ordersctl",
		Usage: "administration tool for the orders database",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "schema migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply every pending migration",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.MigrateUpAction,
					},
					{
						Name:  "down",
						Usage: "roll back applied migrations",
						Flags: []cli.Flag{
							envFlag(),
							&cli.IntFlag{
								Name:  "steps",
								Usage: "number of migrations to roll back",
								Value: 1,
							},
						},
						Action: commands.MigrateDownAction,
					},
					{
						Name:   "version",
						Usage:  "show the current schema version",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.MigrateVersionAction,
					},
				},
			},
			{
				Name:  "seed",
				Usage: "load customers and products from a JSON file",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "seed file path",
						Required: true,
					},
				},
				Action: commands.SeedAction,
			},
			{
				Name:   "stats",
				Usage:  "show row counts",
				Flags:  []cli.Flag{envFlag()},
				Action: commands.StatsAction,
			},
		},
	}
}
