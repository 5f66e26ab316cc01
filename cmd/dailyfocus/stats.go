package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailyfocus/internal/analytics"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the productivity summary",
	Long: `Show the productivity summary: task completion, focus time, habit
streaks, the last seven days and achievement progress.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}
	rt.printWarnings()

	state := ctrl.State()
	summary := analytics.Compute(state.Tasks, state.Habits, state.Sessions, ctrl.Env().Now().In(rt.loc))

	out := cmd.OutOrStdout()
	if statsJSON {
		data, err := analytics.FormatJSON(summary)
		if err != nil {
			return fmt.Errorf("formatting stats: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprint(out, analytics.FormatText(summary))
	return nil
}
