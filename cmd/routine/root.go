// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the store and tracker for each command

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hariviapak/routine-tracker/internal/config"
	"github.com/hariviapak/routine-tracker/internal/logger"
	"github.com/hariviapak/routine-tracker/internal/storage"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

// skipStorage marks commands that run without opening the store.
const skipStorage = "skip-storage"

var (
	cfg    *config.Config
	appLog *logger.Logger
	store  storage.Store
	trk    *tracker.Tracker

	flagDataDir  string
	flagBackend  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "routine",
	Short: "Daily routine and habit tracker",
	Long: `
██████╗  ██████╗ ██╗   ██╗████████╗██╗███╗   ██╗███████╗
██╔══██╗██╔═══██╗██║   ██║╚══██╔══╝██║████╗  ██║██╔════╝
██████╔╝██║   ██║██║   ██║   ██║   ██║██╔██╗ ██║█████╗
██╔══██╗██║   ██║██║   ██║   ██║   ██║██║╚██╗██║██╔══╝
██║  ██║╚██████╔╝╚██████╔╝   ██║   ██║██║ ╚████║███████╗
╚═╝  ╚═╝ ╚═════╝  ╚═════╝    ╚═╝   ╚═╝╚═╝  ╚═══╝╚══════╝

       Track daily habits: counters and done-or-not

Examples:
  routine add Water --target 7 --icon 💧
  routine add Yoga --type done
  routine inc Water
  routine done Yoga
  routine today
  routine week`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipStorage] == "true" {
			return nil
		}
		return openTracker(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// openTracker loads configuration and opens the store behind a freshly loaded tracker.
func openTracker(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLog = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LoggerConfig())

	store, err = cfg.OpenStorage(appLog)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}
	appLog.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())

	trk = tracker.New(store, appLog)
	if err := trk.Load(cmd.Context()); err != nil {
		_ = closeStore()
		return fmt.Errorf("failed to load routines: %w", err)
	}
	return nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	trk = nil
	return err
}
