// ABOUTME: Root Cobra command for fitlog CLI.
// ABOUTME: Loads config, logging and storage in PersistentPreRunE and closes them after.
package main

import (
	"context"
	"fmt"

	"github.com/harperreed/fitlog/internal/config"
	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/i18n"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg   *config.Config
	repo  storage.Repository
	maint *groups.Maintainer
	log   = zap.NewNop()

	flagBackend  string
	flagDataDir  string
	flagLocale   string
	flagLogLevel string
)

// commands that never touch storage
var noStorage = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
	"fitlog":        true,
}

var rootCmd = &cobra.Command{
	Use:   "fitlog",
	Short: "Strength training log",
	Long: `fitlog is a CLI tool for logging strength training sets.

Each record is sets x reps at a weight for one exercise. Consecutive records
of the same exercise form a group, so a history reads as runs:

  #2  Squat          3x5 @ 100
                     3x5 @ 100
  #1  Bench Press    5x5 @ 60
  #0  Squat          3x5 @ 95

QUICK START:

  $ fitlog seed                            # Starter exercises and records
  $ fitlog exercise add "Front Squat"      # Create an exercise
  $ fitlog add squat 3 5 100               # Log 3x5 @ 100
  $ fitlog add bench 5 5 60 --at "2026-01-02 07:30"
  $ fitlog list                            # Newest first, grouped
  $ fitlog list -e squat --format json     # Filter and export

MAINTENANCE:

  $ fitlog check            # Verify grouping
  $ fitlog check --repair   # Recompute all groups
  $ fitlog migrate --to badger

STORAGE BACKENDS:

  sqlite (default)   ~/.local/share/fitlog/fitlog.db
  badger             ~/.local/share/fitlog/badger/
  charm              Charm KV, synced through Charm Cloud (see 'fitlog sync')

  Pick one in ~/.config/fitlog/config.json, with FITLOG_BACKEND, or --backend.

MCP INTEGRATION:

  Run 'fitlog mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "fitlog": { "command": "fitlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsStorage(cmd) {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func needsStorage(cmd *cobra.Command) bool {
	if noStorage[cmd.Name()] {
		return false
	}
	if cmd.HasParent() {
		switch cmd.Parent().Name() {
		case "completion":
			return false
		case "sync":
			return !syncNoStorage[cmd.Name()]
		}
	}
	return true
}

// setup loads configuration and opens the configured repository.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if flagBackend != "" {
		loaded.Backend = flagBackend
	}
	if flagDataDir != "" {
		loaded.DataDir = flagDataDir
	}
	if flagLocale != "" {
		loaded.Locale = flagLocale
	}
	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	log, err = logging.New(cfg.GetLogLevel())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	trans, err := i18n.New(cfg.GetLocale())
	if err != nil {
		return err
	}

	repo, err = cfg.OpenStorage(log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	maint = groups.NewMaintainer(repo,
		groups.WithValidator(models.NewValidator(trans)),
		groups.WithLogger(log))
	if _, err := maint.RepairIfNeeded(context.Background()); err != nil {
		log.Warn("group repair failed", zap.Error(err))
	}

	log.Debug("storage ready",
		zap.String("backend", cfg.GetBackend()),
		zap.String("data_dir", cfg.GetDataDir()))
	return nil
}

func teardown() error {
	_ = log.Sync()
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	maint = nil
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagBackend, "backend", "", "storage backend: sqlite, badger or charm")
	pf.StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/fitlog)")
	pf.StringVar(&flagLocale, "locale", "", "message language: en or tr")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}
