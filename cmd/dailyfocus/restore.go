package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dailyfocus/internal/storage"
)

var (
	restoreLatest bool
	restoreForce  bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [BACKUP_NAME]",
	Short: "Restore data from a backup",
	Long: `Restore every collection from a backup. BACKUP_NAME looks like
2025-12-15_143022_000; use 'dailyfocus backup --list' to see them.
Each file is validated first and a safety backup of the current data is
created before anything is overwritten.`,
	Example: `  # Restore from a specific backup
  dailyfocus restore 2025-12-15_143022_000

  # Restore from the most recent backup
  dailyfocus restore --latest

  # Restore without confirmation prompt
  dailyfocus restore --force 2025-12-15_143022_000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func init() {
	f := restoreCmd.Flags()
	f.BoolVar(&restoreLatest, "latest", false, "restore from most recent backup")
	f.BoolVarP(&restoreForce, "force", "f", false, "skip confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) error {
	if restoreLatest == (len(args) == 1) {
		return fmt.Errorf("give either a backup name or --latest (run 'dailyfocus backup --list' to see available backups)")
	}

	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	manager := newBackupManager(rt)

	var name string
	if restoreLatest {
		backups, err := manager.List()
		if err != nil {
			return fmt.Errorf("listing backups: %w", err)
		}
		if len(backups) == 0 {
			return fmt.Errorf("no backups available")
		}
		name = backups[0].Name
	} else {
		name = args[0]
	}

	info, err := manager.Get(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
	fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Tasks: %d, Categories: %d, Habits: %d, Sessions: %d\n",
		info.Stats[storage.KeyTasks], info.Stats[storage.KeyCategories],
		info.Stats[storage.KeyHabits], info.Stats[storage.KeySessions])
	fmt.Fprintln(out)

	if !restoreForce {
		fmt.Fprintln(out, "⚠ This will overwrite your current data.")
		fmt.Fprint(out, "Continue? [y/N] ")

		response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && response == "" {
			return fmt.Errorf("reading input: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(out, "Restore cancelled.")
			return nil
		}
	}

	safety, err := manager.Restore(name)
	if safety != "" {
		fmt.Fprintf(out, "✓ Safety backup created: %s\n", safety)
	}
	if err != nil {
		return fmt.Errorf("restoring backup: %w", err)
	}
	fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)
	return nil
}
