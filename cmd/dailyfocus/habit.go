package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dailyfocus/internal/app"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Track daily habits",
}

var (
	habitAddIcon   string
	habitAddColor  string
	habitAddTarget int
)

var habitAddCmd = &cobra.Command{
	Use:     "add NAME...",
	Short:   "Add a habit",
	Example: `  dailyfocus habit add Drink water --icon 💧 --target 8`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runHabitAdd,
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with streaks and the last seven days",
	Args:    cobra.NoArgs,
	RunE:    runHabitList,
}

var habitToggleDate string

var habitToggleCmd = &cobra.Command{
	Use:   "toggle HABIT",
	Short: "Toggle a habit's completion for a day",
	Long:  "Toggle a habit's completion. HABIT is a name or a unique id prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitToggle,
}

func init() {
	f := habitAddCmd.Flags()
	f.StringVarP(&habitAddIcon, "icon", "i", habits.Icons[0], "icon")
	f.StringVar(&habitAddColor, "color", habits.Colors[0], "hex color")
	f.IntVarP(&habitAddTarget, "target", "t", 1, "daily target")

	habitToggleCmd.Flags().StringVarP(&habitToggleDate, "date", "d", "today", "date: today, yesterday or YYYY-MM-DD")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitToggleCmd)
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	in := habits.NewHabit{
		Name:   strings.Join(args, " "),
		Icon:   habitAddIcon,
		Color:  habitAddColor,
		Target: habitAddTarget,
	}
	if err := dispatch(ctrl, app.AddHabit{Input: in}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added habit: %s %s\n", in.Icon, in.Name)
	return nil
}

func runHabitList(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	list := ctrl.State().Habits
	if len(list) == 0 {
		fmt.Fprintln(out, "No habits yet.")
		fmt.Fprintln(out, "Run 'dailyfocus habit add NAME' to create one.")
		return nil
	}

	today := ctrl.Env().Today()
	for _, h := range list {
		var week strings.Builder
		for _, done := range habits.Week(h, today) {
			if done {
				week.WriteString("●")
			} else {
				week.WriteString("○")
			}
		}
		mark := " "
		if habits.IsCompletedOn(h, today) {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s %s %-20s %s  streak %d (best %d)  %s\n",
			mark, h.Icon, h.Name, week.String(), h.CurrentStreak, h.LongestStreak, shortID(h.ID))
	}
	return nil
}

func runHabitToggle(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	day, err := parseDay(habitToggleDate, ctrl.Env().Today())
	if err != nil {
		return err
	}
	h, err := resolveHabit(ctrl.State().Habits, args[0])
	if err != nil {
		return err
	}
	if err := dispatch(ctrl, app.ToggleHabit{ID: h.ID, Date: day}); err != nil {
		return err
	}

	updated, _ := habits.Find(ctrl.State().Habits, h.ID)
	if habits.IsCompletedOn(updated, day) {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %s done on %s (streak %d)\n", updated.Icon, updated.Name, day, updated.CurrentStreak)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "↩ %s %s not done on %s (streak %d)\n", updated.Icon, updated.Name, day, updated.CurrentStreak)
	}
	return nil
}

// resolveHabit finds a habit by case-insensitive name, id or unique id
// prefix.
func resolveHabit(list []storage.Habit, ref string) (storage.Habit, error) {
	var matches []storage.Habit
	for _, h := range list {
		if h.ID == ref || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return storage.Habit{}, fmt.Errorf("%w: %q", habits.ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return storage.Habit{}, fmt.Errorf("habit id %q is ambiguous (%d matches)", ref, len(matches))
	}
}
