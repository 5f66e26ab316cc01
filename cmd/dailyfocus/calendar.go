package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dailyfocus/internal/calendar"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/tasks"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Print a month with task counts per day",
	Long: `Print a month grid. Days with tasks are marked with *, today is
wrapped in brackets, and the days with tasks are listed below the grid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalendar,
}

func runCalendar(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	today := ctrl.Env().Today()
	t, _ := datekey.Parse(today)
	year, month := t.Year(), t.Month()
	if len(args) == 1 {
		m, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid month %q (want YYYY-MM)", args[0])
		}
		year, month = m.Year(), m.Month()
	}

	state := ctrl.State()
	counts := tasks.CountByDate(state.Tasks)
	grid := calendar.Build(year, month)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", grid.Title())
	for _, name := range calendar.DayNames {
		fmt.Fprintf(out, " %-4s", name)
	}
	fmt.Fprintln(out)

	for _, week := range grid.Weeks() {
		var line strings.Builder
		for _, c := range week {
			line.WriteString(formatCell(c, counts[c.Key] > 0, c.Key == today))
		}
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}

	var days []string
	for key := range counts {
		if grid.Contains(key) {
			days = append(days, key)
		}
	}
	if len(days) == 0 {
		fmt.Fprintln(out, "\nNo tasks this month.")
		return nil
	}
	sort.Strings(days)

	fmt.Fprintln(out)
	for _, day := range days {
		list := tasks.Apply(state.Tasks, tasks.Filter{DateKey: day})
		done := 0
		for _, task := range list {
			if task.Completed {
				done++
			}
		}
		fmt.Fprintf(out, "  %s  %d/%d tasks done\n", day, done, len(list))
	}
	return nil
}

// formatCell renders one five-column cell.
func formatCell(c calendar.Cell, hasTasks, isToday bool) string {
	if c.Blank() {
		return "     "
	}
	mark := " "
	if hasTasks {
		mark = "*"
	}
	if isToday {
		return fmt.Sprintf("[%2d]%s", c.Day, mark)
	}
	return fmt.Sprintf(" %2d %s", c.Day, mark)
}
