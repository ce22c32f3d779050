package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"position-watcher/internal/store"
)

func flagContext(t *testing.T, basePath string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("watcher", flag.ContinueOnError)
	set.String("config", "", "")
	set.String("account", "Sim101", "")
	set.String("instrument", "ES", "")
	set.String("base-path", basePath, "")
	set.Duration("interval", 100*time.Millisecond, "")
	set.Bool("journal", false, "")
	set.String("journal-dir", "logs", "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfigFlagBasePathBeatsEnv(t *testing.T) {
	t.Setenv("TRADER_BASE_PATH", "/from-env")

	cfg, err := loadConfig(context.Background(), flagContext(t, "/from-flag"))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.BasePath != "/from-flag" {
		t.Errorf("Expected /from-flag, got %s", cfg.BasePath)
	}
}

func TestLoadConfigEnvFillsMissingBasePathFlag(t *testing.T) {
	t.Setenv("TRADER_BASE_PATH", "/from-env")

	cfg, err := loadConfig(context.Background(), flagContext(t, ""))
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.BasePath != "/from-env" {
		t.Errorf("Expected /from-env, got %s", cfg.BasePath)
	}
}

func TestInitializeTrackersWiresJournal(t *testing.T) {
	cfg := &store.Config{
		BasePath:       t.TempDir(),
		PollIntervalMs: 100,
		Positions: []store.PositionConfig{
			{Account: "Sim101", Instrument: "ES"},
			{Account: "Sim101", Instrument: "NQ"},
		},
	}
	cfg.Journal.Enabled = true
	cfg.Journal.Dir = t.TempDir()

	ctx := context.Background()
	trackers, err := initializeTrackers(ctx, cfg)
	if err != nil {
		t.Fatalf("initializeTrackers failed: %v", err)
	}
	if len(trackers) != 2 {
		t.Fatalf("Expected 2 trackers, got %d", len(trackers))
	}

	trackers[0].HandleContent(ctx, "Long;3;4521.25")

	files, err := filepath.Glob(filepath.Join(cfg.Journal.Dir, "*.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected 1 journal file, got %d", len(files))
	}
	b, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(b) == 0 {
		t.Error("Expected journal entry to be written")
	}
}

func TestInitializeTrackersRejectsBadPosition(t *testing.T) {
	cfg := &store.Config{
		BasePath:       t.TempDir(),
		PollIntervalMs: 100,
		Positions:      []store.PositionConfig{{Account: "", Instrument: "ES"}},
	}

	if _, err := initializeTrackers(context.Background(), cfg); err == nil {
		t.Error("Expected error for empty account")
	}
}
