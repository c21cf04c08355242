package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arbeitszeit/internal/autostop"
	"github.com/arbeitszeit/internal/config"
	"github.com/arbeitszeit/internal/storage"
	"github.com/arbeitszeit/internal/tracker"
)

var (
	cfg            *config.Config
	db             *storage.Database
	logger         *slog.Logger
	trackerService *tracker.Tracker
	eventLog       *autostop.EventLog
	overrides      *autostop.OverrideStore

	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "arbeitszeit",
	Short: "Work-time tracking with ArbZG break and limit checks",
	Long: `arbeitszeit tracks today's working time, breaks and projected end of day,
and stops work automatically when the German Working Hours Act (ArbZG) or
the selected work plan would be violated.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadFrom(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := cfg.SlogLevel()
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		db, err = storage.New(cfg.DatabasePath, cfg.CacheSize, logger)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}

		plans, err := cfg.WorkPlans()
		if err != nil {
			return err
		}
		trackerService = tracker.New(db, plans, tracker.Defaults{Plan: cfg.Plan, PlannedWork: cfg.PlannedWork}, logger)
		eventLog = autostop.NewEventLog(db, logger)
		overrides = autostop.NewOverrideStore(db, logger)

		// Storage failures fall back to defaults; keep going in memory.
		if err := trackerService.Load(); err != nil {
			logger.Warn("session state unavailable", "error", err)
		}
		if err := eventLog.Load(); err != nil {
			logger.Warn("auto-stop log unavailable", "error", err)
		}
		if err := overrides.Load(); err != nil {
			logger.Warn("override setting unavailable", "error", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func historyPath() string {
	return filepath.Join(filepath.Dir(cfg.DatabasePath), "history")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
