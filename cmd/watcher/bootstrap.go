package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"position-watcher/internal/journal"
	"position-watcher/internal/logger"
	"position-watcher/internal/position"
	"position-watcher/internal/store"
	"position-watcher/internal/trace"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig reads the YAML config, or builds one from flags when no file is given
func loadConfig(ctx context.Context, c *cli.Context) (*store.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := store.LoadConfig(path)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
			return nil, err
		}
		return cfg, nil
	}

	cfg := &store.Config{
		BasePath:       c.String("base-path"),
		PollIntervalMs: int(c.Duration("interval").Milliseconds()),
		Positions: []store.PositionConfig{{
			Account:    c.String("account"),
			Instrument: c.String("instrument"),
		}},
	}
	cfg.Journal.Enabled = c.Bool("journal")
	cfg.Journal.Dir = c.String("journal-dir")

	if err := cfg.ApplyDefaults(os.LookupEnv); err != nil {
		logger.ErrorWithErr(ctx, "Failed to resolve configuration", err)
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		logger.ErrorWithErr(ctx, "Invalid configuration", err)
		return nil, fmt.Errorf("%w: %v", position.ErrConfiguration, err)
	}
	return cfg, nil
}

// initializeTrackers builds one tracker per configured position and wires the journal
func initializeTrackers(ctx context.Context, cfg *store.Config) ([]*position.Tracker, error) {
	var jw *journal.Writer
	if cfg.Journal.Enabled {
		jw = journal.NewWriter(cfg.Journal.Dir)
		op := logger.StartOperation(ctx, "journal.CompressOlder",
			"dir", jw.Dir(),
			"retention_days", cfg.Journal.RetentionDays,
		)
		if err := jw.CompressOlder(cfg.Journal.RetentionDays); err != nil {
			op.EndWithError(err)
		} else {
			op.End()
		}
		logger.Info(ctx, "Journaling position changes", "dir", jw.Dir())
	}

	trackers := make([]*position.Tracker, 0, len(cfg.Positions))
	for _, p := range cfg.Positions {
		tr, err := position.New(position.Options{
			BasePath:   cfg.BasePath,
			Account:    p.Account,
			Instrument: p.Instrument,
			Interval:   cfg.PollInterval(),
		})
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to create position tracker", err,
				"account", p.Account,
				"instrument", p.Instrument,
			)
			return nil, err
		}

		if jw != nil {
			tr.OnUpdate(jw.Listener(tr.Account(), tr.Instrument()))
		}
		trackers = append(trackers, tr)
	}
	return trackers, nil
}
