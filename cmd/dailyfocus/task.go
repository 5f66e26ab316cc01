package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dailyfocus/internal/app"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
	"dailyfocus/internal/ui"
)

// shortIDLen is how much of an id list output shows.
const shortIDLen = 8

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Add, list, complete and remove tasks",
}

var (
	taskAddDate     string
	taskAddPriority string
	taskAddCategory string
	taskAddDesc     string
	taskAddEstimate int
)

var taskAddCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Add a task",
	Long: `Add a task. The text accepts the dashboard's quick-add markers:

    !urgent !high !medium !low   priority (or !u !h !m !l)
    #tag                         tag (repeatable)
    @category                    category id or name
    ^2024-03-15                  date

Flags override markers.`,
	Example: `  dailyfocus task add Write report !high #work ^2025-06-20
  dailyfocus task add Call mom --date today --category Personal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskAdd,
}

var (
	taskListDate     string
	taskListPending  bool
	taskListCategory string
	taskListPriority string
	taskListSearch   string
)

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks in display order",
	Args:    cobra.NoArgs,
	RunE:    runTaskList,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Toggle a task's completion",
	Long:  "Toggle a task's completion. ID may be any unique prefix of the task id.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

func init() {
	f := taskAddCmd.Flags()
	f.StringVarP(&taskAddDate, "date", "d", "", "date: today, tomorrow or YYYY-MM-DD")
	f.StringVarP(&taskAddPriority, "priority", "p", "", "priority: urgent, high, medium or low")
	f.StringVarP(&taskAddCategory, "category", "c", "", "category id or name")
	f.StringVar(&taskAddDesc, "desc", "", "description")
	f.IntVar(&taskAddEstimate, "estimate", 0, "estimated minutes")

	f = taskListCmd.Flags()
	f.StringVarP(&taskListDate, "date", "d", "", "only tasks on this date (today, tomorrow or YYYY-MM-DD)")
	f.BoolVar(&taskListPending, "pending", false, "hide completed tasks")
	f.StringVarP(&taskListCategory, "category", "c", "", "only tasks in this category")
	f.StringVarP(&taskListPriority, "priority", "p", "", "only tasks with this priority")
	f.StringVarP(&taskListSearch, "search", "s", "", "text to search for")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRmCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
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

	qa, err := ui.ParseQuickAdd(strings.Join(args, " "))
	if err != nil {
		return err
	}
	if taskAddDate != "" {
		if qa.Task.Date, err = parseDay(taskAddDate, ctrl.Env().Today()); err != nil {
			return err
		}
	}
	if taskAddPriority != "" {
		if qa.Task.Priority, err = tasks.ParsePriority(taskAddPriority); err != nil {
			return err
		}
	}
	if taskAddCategory != "" {
		qa.Category = taskAddCategory
	}
	qa.Task.Description = taskAddDesc
	qa.Task.EstimatedTime = taskAddEstimate

	if err := dispatch(ctrl, app.AddTask{Input: qa.Task, Category: qa.Category}); err != nil {
		return err
	}

	added := newest(ctrl.State().Tasks)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added task %s: %s\n", shortID(added.ID), added.Text)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
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
	filter := tasks.Filter{
		Query:         taskListSearch,
		HideCompleted: taskListPending,
	}
	if taskListDate != "" {
		if filter.DateKey, err = parseDay(taskListDate, ctrl.Env().Today()); err != nil {
			return err
		}
	}
	if taskListPriority != "" {
		if filter.Priority, err = tasks.ParsePriority(taskListPriority); err != nil {
			return err
		}
	}
	if taskListCategory != "" {
		c, ok := tasks.FindCategory(state.Categories, taskListCategory)
		if !ok {
			return fmt.Errorf("%w: %q", tasks.ErrCategoryNotFound, taskListCategory)
		}
		filter.CategoryID = c.ID
	}

	list := tasks.Apply(state.Tasks, filter)
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return nil
	}
	for _, t := range list {
		printTask(out, t)
	}

	done := 0
	for _, t := range list {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(out, "\n%d/%d done\n", done, len(list))
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	t, err := resolveTask(ctrl.State().Tasks, args[0])
	if err != nil {
		return err
	}
	if err := dispatch(ctrl, app.ToggleTask{ID: t.ID}); err != nil {
		return err
	}

	if t.Completed {
		fmt.Fprintf(cmd.OutOrStdout(), "↩ Marked task %s back to todo: %s\n", shortID(t.ID), t.Text)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed task %s: %s\n", shortID(t.ID), t.Text)
	}
	return nil
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()
	ctrl, err := rt.controller()
	if err != nil {
		return err
	}

	t, err := resolveTask(ctrl.State().Tasks, args[0])
	if err != nil {
		return err
	}
	if err := dispatch(ctrl, app.DeleteTask{ID: t.ID}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted task %s: %s\n", shortID(t.ID), t.Text)
	return nil
}

func printTask(w io.Writer, t storage.Task) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	details := []string{string(t.Priority)}
	if t.Category.Name != "" {
		details = append(details, t.Category.Name)
	}
	if t.Date != "" {
		details = append(details, t.Date)
	}
	for _, tag := range t.Tags {
		details = append(details, "#"+tag)
	}
	fmt.Fprintf(w, "  %s %s  %s (%s)\n", check, shortID(t.ID), t.Text, strings.Join(details, ", "))
}

// resolveTask finds a task by id or unique id prefix.
func resolveTask(list []storage.Task, ref string) (storage.Task, error) {
	var matches []storage.Task
	for _, t := range list {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return storage.Task{}, fmt.Errorf("%w: %q", tasks.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return storage.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// newest returns the most recently added task: new tasks take the lowest
// position.
func newest(list []storage.Task) storage.Task {
	var out storage.Task
	for i, t := range list {
		if i == 0 || t.Position < out.Position {
			out = t
		}
	}
	return out
}

// dispatch applies a, labelling a failed save with the action.
func dispatch(ctrl *app.Controller, a app.Action) error {
	err := ctrl.Dispatch(a)
	if errors.Is(err, app.ErrPersist) {
		return fmt.Errorf("%s: %w", a.Describe(), err)
	}
	return err
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// parseDay accepts "today", "tomorrow", "yesterday" or a date-key.
func parseDay(s, today string) (string, error) {
	switch strings.ToLower(s) {
	case "today":
		return today, nil
	case "tomorrow":
		return datekey.AddDays(today, 1), nil
	case "yesterday":
		return datekey.Prev(today), nil
	}
	if !datekey.Valid(s) {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}
