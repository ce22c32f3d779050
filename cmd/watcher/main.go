package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"position-watcher/internal/logger"
	"position-watcher/internal/position"
	"position-watcher/internal/trace"
)

func main() {
	app := &cli.App{
		Name:  "position-watcher",
		Usage: "follow NinjaTrader position files and report position changes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; when empty the account/instrument flags are used",
				EnvVars: []string{"WATCHER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "account",
				Usage: "account name, e.g. Sim101",
			},
			&cli.StringFlag{
				Name:  "instrument",
				Usage: "instrument name as the platform writes it, e.g. ES 12-26",
			},
			&cli.StringFlag{
				Name:  "base-path",
				Usage: "platform data folder (default <USERPROFILE>/Documents/NinjaTrader 8)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: position.DefaultInterval,
				Usage: "poll interval",
			},
			&cli.BoolFlag{
				Name:  "journal",
				Usage: "append every position change to the journal",
			},
			&cli.StringFlag{
				Name:  "journal-dir",
				Value: "logs",
				Usage: "journal directory",
			},
		},
		Before: func(c *cli.Context) error {
			return initializeSystem()
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer shutdownTracing()

	cfg, err := loadConfig(ctx, c)
	if err != nil {
		return err
	}

	trackers, err := initializeTrackers(ctx, cfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, tr := range trackers {
		g.Go(func() error {
			return tr.Run(gctx)
		})
	}

	logger.Info(ctx, "Watcher started", "trackers", len(trackers))
	err = g.Wait()
	logger.Info(context.Background(), "Shutting down...")
	return err
}

func shutdownTracing() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down tracer: %v\n", err)
	}
}
