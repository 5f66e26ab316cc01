package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"dailyfocus/internal/backup"
	"dailyfocus/internal/storage"
)

var (
	backupList  bool
	backupPrune int
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and manage backups",
	Long: `Create a timestamped snapshot of every collection (tasks, categories,
habits, sessions). Backups are stored in <data dir>/backups/ and can be
restored with 'dailyfocus restore'.`,
	Example: `  # Create a new backup
  dailyfocus backup

  # List all available backups
  dailyfocus backup --list

  # Keep only the 10 most recent backups
  dailyfocus backup --prune 10`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	f := backupCmd.Flags()
	f.BoolVarP(&backupList, "list", "l", false, "list available backups")
	f.IntVar(&backupPrune, "prune", -1, "delete all but the N most recent backups")
	backupCmd.MarkFlagsMutuallyExclusive("list", "prune")
}

func runBackup(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()

	manager := newBackupManager(rt)
	out := cmd.OutOrStdout()

	switch {
	case backupList:
		return listBackups(out, manager, time.Now())

	case cmd.Flags().Changed("prune"):
		deleted, err := manager.Prune(backupPrune)
		if err != nil {
			return fmt.Errorf("pruning backups: %w", err)
		}
		fmt.Fprintf(out, "✓ Removed %d old backups\n", deleted)
		return nil
	}

	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}
	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  Location: %s\n", manager.Dir())
	return nil
}

func newBackupManager(rt *runtime) *backup.Manager {
	return backup.NewManager(rt.store, rt.cfg.GetDataDir(), version, rt.log.Named("backup"))
}

func listBackups(out io.Writer, manager *backup.Manager, now time.Time) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'dailyfocus backup' to create one.")
		return nil
	}

	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   Tasks: %d, Habits: %d, Sessions: %d\n",
			b.Name, formatAge(b.CreatedAt, now),
			b.Stats[storage.KeyTasks], b.Stats[storage.KeyHabits], b.Stats[storage.KeySessions])
	}
	return nil
}

// formatAge returns a human-readable age string.
func formatAge(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return plural(int(d.Hours()/24/7), "week") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
