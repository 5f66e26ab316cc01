// Package main is the entry point for the dailyfocus application.
// With no subcommand it loads configuration, opens storage and starts the
// dashboard; subcommands expose the same data for scripting.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dailyfocus/internal/logger"
	"dailyfocus/internal/notify"
	"dailyfocus/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags shared by every command.
var (
	configPath string
	dataDir    string
	backend    string
	logLevel   string
)

const rootLongText = `dailyfocus - A productivity dashboard for your terminal

dailyfocus combines tasks, habits, a pomodoro timer, a calendar and
productivity statistics in a single, keyboard-driven interface.
Run it without a command to open the dashboard.

FEATURES:
    • Tasks      - Priorities, categories, tags, dates and manual order
    • Focus      - Pomodoro timer with work, short and long breaks
    • Habits     - Daily tracking with week view and streak counting
    • Calendar   - Month grid with per-day task counts
    • Stats      - Productivity score, weekly activity and achievements

DATA STORAGE:
    Data lives in ~/.dailyfocus/ (or $DAILYFOCUS_DATA_DIR):
        tasks.json, categories.json, habits.json, sessions.json
    or a single SQLite database with --backend sqlite.

CONFIGURATION:
    Optional config file: ~/.config/dailyfocus/config.yaml`

var rootCmd = &cobra.Command{
	Use:           "dailyfocus",
	Short:         "A productivity dashboard for your terminal",
	Long:          rootLongText,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dailyfocus version %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/dailyfocus/config.yaml)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (overrides config)")
	flags.StringVar(&backend, "backend", "", "storage backend: file or sqlite")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		versionCmd,
		taskCmd,
		habitCmd,
		calendarCmd,
		statsCmd,
		exportCmd,
		backupCmd,
		restoreCmd,
		importCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runDashboard opens the interactive dashboard.
func runDashboard(cmd *cobra.Command, args []string) error {
	rt, err := setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	cfg := rt.cfg
	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		Announcer:             notify.NewAnnouncer(notify.New(), cfg.Notifications, rt.log),
		Log:                   rt.log,
		Warnings:              rt.store.Warnings(),
	}

	if err := ui.Run(ctrl, ui.NewStylesFromTheme(&cfg.Theme), appCfg); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	logger.Sync(rt.log)
	return nil
}
