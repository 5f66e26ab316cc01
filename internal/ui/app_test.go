// Package ui provides the terminal dashboard.
// This file contains tests for the main App model, including layout behavior.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// newTestApp returns an app over ctrl, sized to width x 30, with
// onboarding off and delete confirmation on.
func newTestApp(t *testing.T, ctrl *app.Controller, width int) *App {
	t.Helper()
	setupTest(t)
	a := NewApp(ctrl, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
	})
	a.Update(tea.WindowSizeMsg{Width: width, Height: 30})
	return a
}

// send delivers msg and returns the resulting command.
func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

// =============================================================================
// Layout
// =============================================================================

// TestApp_LayoutModeTransitions verifies layout mode changes based on width.
func TestApp_LayoutModeTransitions(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	tests := []struct {
		name         string
		width        int
		expectedMode LayoutMode
	}{
		{"Very narrow (40)", 40, LayoutNarrow},
		{"Narrow (60)", 60, LayoutNarrow},
		{"At threshold (79)", 79, LayoutNarrow},
		{"At threshold (80)", 80, LayoutWide},
		{"Wide (100)", 100, LayoutWide},
		{"Very wide (200)", 200, LayoutWide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})

			if a.layoutMode != tc.expectedMode {
				t.Errorf("Width %d: expected layout mode %v, got %v",
					tc.width, tc.expectedMode, a.layoutMode)
			}
		})
	}
}

// TestApp_NarrowLayoutShowsOnlyActivePane verifies only the active pane is shown in narrow mode.
func TestApp_NarrowLayoutShowsOnlyActivePane(t *testing.T) {
	a := newTestApp(t, createTestController(t), 60)

	if a.activePane != PaneTasks {
		t.Errorf("Expected default active pane to be Tasks")
	}

	view := a.View()
	for _, want := range []string{"[1 Tasks]", "2 Focus", "3 Habits", "4 Calendar", "5 Stats", "✅ TASKS"} {
		if !strings.Contains(view, want) {
			t.Errorf("narrow view missing %q", want)
		}
	}
	if strings.Contains(view, "🍅 FOCUS") {
		t.Error("narrow view should not show the focus pane")
	}
}

// TestApp_WideLayoutShowsAllPanes verifies the three columns in wide mode.
func TestApp_WideLayoutShowsAllPanes(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	if a.layoutMode != LayoutWide {
		t.Errorf("Expected LayoutWide at width 120, got %v", a.layoutMode)
	}

	view := a.View()
	for _, want := range []string{"✅ TASKS", "🍅 FOCUS", "🔥 HABITS"} {
		if !strings.Contains(view, want) {
			t.Errorf("wide view missing %q", want)
		}
	}
}

// TestApp_CalendarAndStatsUseFullWidth verifies the calendar and stats
// panes replace the columns.
func TestApp_CalendarAndStatsUseFullWidth(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	send(a, keyMsg("4"))
	view := a.View()
	if !strings.Contains(view, "📅 CALENDAR") || strings.Contains(view, "✅ TASKS") {
		t.Errorf("calendar should replace the columns:\n%s", view)
	}

	send(a, keyMsg("5"))
	view = a.View()
	if !strings.Contains(view, "📊 STATS") || strings.Contains(view, "🔥 HABITS") {
		t.Errorf("stats should replace the columns:\n%s", view)
	}
}

// TestApp_CustomThreshold verifies custom threshold configuration.
func TestApp_CustomThreshold(t *testing.T) {
	setupTest(t)
	a := NewApp(createTestController(t), createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 100,
	})

	a.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	if a.layoutMode != LayoutNarrow {
		t.Errorf("Expected LayoutNarrow at width 90 with threshold 100, got %v", a.layoutMode)
	}

	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if a.layoutMode != LayoutWide {
		t.Errorf("Expected LayoutWide at width 100 with threshold 100, got %v", a.layoutMode)
	}
}

// TestApp_PaneSwitching verifies tab cycling and number keys.
func TestApp_PaneSwitching(t *testing.T) {
	a := newTestApp(t, createTestController(t), 60)

	order := []PaneID{PaneFocus, PaneHabits, PaneCalendar, PaneStats, PaneTasks}
	for _, want := range order {
		send(a, keyMsg("tab"))
		if a.activePane != want {
			t.Errorf("after tab activePane = %v, want %v", a.activePane, want)
		}
	}

	send(a, keyMsg("2"))
	if a.activePane != PaneFocus || !a.focusPane.IsFocused() || a.taskPane.IsFocused() {
		t.Error("'2' should focus only the focus pane")
	}
	if view := a.View(); !strings.Contains(view, "[2 Focus]") {
		t.Error("Expected [2 Focus] tab to be highlighted")
	}

	for i, want := range []PaneID{PaneTasks, PaneFocus, PaneHabits, PaneCalendar, PaneStats} {
		send(a, keyMsg(fmt.Sprint(i+1)))
		if a.activePane != want {
			t.Errorf("key %d: activePane = %v, want %v", i+1, a.activePane, want)
		}
	}
}

// TestApp_LayoutModeAfterResize verifies layout adapts after resize.
func TestApp_LayoutModeAfterResize(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)
	if a.layoutMode != LayoutWide {
		t.Error("Expected LayoutWide initially")
	}

	a.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	if a.layoutMode != LayoutNarrow {
		t.Error("Expected LayoutNarrow after resize")
	}

	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	if a.layoutMode != LayoutWide {
		t.Error("Expected LayoutWide after resize back")
	}
}

// TestApp_TitleBar verifies today's counts in the title bar.
func TestApp_TitleBar(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Stand-up", storage.PriorityMedium, testToday)
	addTestTask(t, ctrl, "Someday", storage.PriorityLow, "")
	mustDispatch(t, ctrl, app.AddHabit{Input: habits.NewHabit{Name: "Water"}})
	a := newTestApp(t, ctrl, 120)

	bar := a.renderTitleBar()
	for _, want := range []string{"dailyfocus", "Today: 0/1", "Habits: 0/1", "Sun Jun 15"} {
		if !strings.Contains(bar, want) {
			t.Errorf("title bar missing %q: %q", want, bar)
		}
	}
}

// =============================================================================
// Overlays
// =============================================================================

func TestApp_Welcome(t *testing.T) {
	setupTest(t)
	a := NewApp(createTestController(t), createTestStyles(), nil)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if view := a.View(); !strings.Contains(view, "Welcome to dailyfocus") {
		t.Fatalf("first run should show the welcome screen:\n%s", view)
	}

	// The dismissing key is swallowed.
	send(a, keyMsg("a"))
	if a.showWelcome {
		t.Error("any key should dismiss the welcome screen")
	}
	if a.taskPane.IsEditing() {
		t.Error("the dismissing key should not reach the pane")
	}

	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Existing", storage.PriorityMedium, "")
	if b := NewApp(ctrl, createTestStyles(), nil); b.showWelcome {
		t.Error("welcome should not show when data exists")
	}
}

func TestApp_HelpToggle(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	send(a, keyMsg("?"))
	if !a.showHelp {
		t.Fatal("? should open help")
	}
	if view := a.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("help view missing title:\n%s", view)
	}

	// Help swallows other keys.
	send(a, keyMsg("a"))
	if a.taskPane.IsEditing() || !a.showHelp {
		t.Error("help should block pane keys")
	}

	send(a, keyMsg("esc"))
	if a.showHelp {
		t.Error("esc should close help")
	}
}

func TestApp_Quit(t *testing.T) {
	ctrl := createTestController(t)
	done := addTestTask(t, ctrl, "Stand-up", storage.PriorityMedium, testToday)
	mustDispatch(t, ctrl, app.ToggleTask{ID: done.ID})
	a := newTestApp(t, ctrl, 120)

	cmd := send(a, keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}

	view := a.View()
	for _, want := range []string{"See you later!", "Tasks:  1/1 (100%)"} {
		if !strings.Contains(view, want) {
			t.Errorf("goodbye missing %q:\n%s", want, view)
		}
	}
}

// =============================================================================
// Deletion
// =============================================================================

func TestApp_ConfirmDeleteTask(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Write report", storage.PriorityMedium, "")
	a := newTestApp(t, ctrl, 120)

	send(a, keyMsg("x"))
	view := a.View()
	if !strings.Contains(view, "Delete task?") || !strings.Contains(view, "Write report") {
		t.Fatalf("expected confirmation:\n%s", view)
	}

	send(a, keyMsg("n"))
	if a.confirmDel != nil || len(ctrl.State().Tasks) != 1 {
		t.Error("n should cancel without deleting")
	}
	if !strings.Contains(a.View(), "Canceled") {
		t.Error("status should say Canceled")
	}

	send(a, keyMsg("x"))
	cmd := send(a, keyMsg("y"))
	send(a, actionResult(t, cmd))

	if len(ctrl.State().Tasks) != 0 {
		t.Error("y should delete the task")
	}
	if view := a.View(); !strings.Contains(view, "Deleted: Write report") {
		t.Errorf("status missing:\n%s", view)
	}
}

func TestApp_NoDeleteOnHabits(t *testing.T) {
	ctrl := createTestController(t)
	mustDispatch(t, ctrl, app.AddHabit{Input: habits.NewHabit{Name: "Water", Icon: "💧"}})
	a := newTestApp(t, ctrl, 120)

	send(a, keyMsg("3"))
	send(a, keyMsg("x"))
	if a.confirmDel != nil {
		t.Error("habits have no delete confirmation")
	}
	if len(ctrl.State().Habits) != 1 {
		t.Error("habit should remain")
	}
}

func TestApp_DeleteWithNothingSelected(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	send(a, keyMsg("x"))
	if a.confirmDel != nil {
		t.Error("no confirmation without a selection")
	}
	if !strings.Contains(a.View(), "No task selected") {
		t.Error("status should say No task selected")
	}
}

func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Write report", storage.PriorityMedium, "")
	a := NewApp(ctrl, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      false,
		NarrowLayoutThreshold: 80,
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	done := actionResult(t, send(a, keyMsg("x")))
	if done.err != nil || len(ctrl.State().Tasks) != 0 {
		t.Errorf("x should delete directly, err = %v", done.err)
	}
}

// =============================================================================
// Undo and status
// =============================================================================

func TestApp_UndoRedo(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Write report", storage.PriorityMedium, "")
	a := newTestApp(t, ctrl, 120)

	for _, msg := range runCmd(t, send(a, keyMsg("ctrl+z"))) {
		send(a, msg)
	}
	if len(ctrl.State().Tasks) != 0 {
		t.Error("undo should remove the task")
	}
	if view := a.View(); !strings.Contains(view, `Undid: add task "Write report"`) {
		t.Errorf("undo status missing:\n%s", view)
	}
	if len(a.taskPane.all) != 0 {
		t.Error("panes should refresh after undo")
	}

	for _, msg := range runCmd(t, send(a, keyMsg("ctrl+y"))) {
		send(a, msg)
	}
	if len(ctrl.State().Tasks) != 1 {
		t.Error("redo should restore the task")
	}
	if view := a.View(); !strings.Contains(view, `Redid: add task "Write report"`) {
		t.Errorf("redo status missing:\n%s", view)
	}
}

func TestApp_UndoNothing(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	for _, msg := range runCmd(t, send(a, keyMsg("u"))) {
		send(a, msg)
	}
	if !strings.Contains(a.View(), "Nothing to undo") {
		t.Error("status should say Nothing to undo")
	}
}

func TestApp_UndoBusy(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "One", storage.PriorityMedium, "")
	addTestTask(t, ctrl, "Two", storage.PriorityMedium, "")
	a := newTestApp(t, ctrl, 120)

	first := send(a, keyMsg("ctrl+z"))
	if cmd := send(a, keyMsg("ctrl+z")); cmd != nil {
		t.Error("second undo should wait for the first")
	}
	if !strings.Contains(a.View(), "Undo: busy") {
		t.Error("status should say Undo: busy")
	}

	for _, msg := range runCmd(t, first) {
		send(a, msg)
	}
	if a.historyBusy {
		t.Error("history should be free after the result arrives")
	}
	if len(ctrl.State().Tasks) != 1 {
		t.Errorf("len(Tasks) = %d, want 1 after a single undo", len(ctrl.State().Tasks))
	}
}

func TestApp_ActionErrors(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	send(a, actionDoneMsg{label: "add task", err: errors.New("text is required")})
	if !strings.Contains(a.View(), "Add task: text is required") {
		t.Errorf("validation error missing:\n%s", a.View())
	}

	send(a, actionDoneMsg{label: "add task", err: fmt.Errorf("%w: disk full", app.ErrPersist)})
	if !strings.Contains(a.View(), "Not saved: save failed: disk full") {
		t.Errorf("persist error missing:\n%s", a.View())
	}
}

func TestApp_Warnings(t *testing.T) {
	setupTest(t)
	a := NewApp(createTestController(t), createTestStyles(), &AppConfig{
		Keys:     &config.KeysConfig{},
		Warnings: []string{"tasks.json is corrupt", "habits.json is corrupt"},
	})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	if view := a.View(); !strings.Contains(view, "tasks.json is corrupt (+1 more)") {
		t.Errorf("startup warning missing:\n%s", view)
	}
}

func TestApp_StatusExpiresAndDayChanges(t *testing.T) {
	clock := testNow
	env := app.Env{
		Now:   func() time.Time { return clock },
		Loc:   time.UTC,
		NewID: func() string { return "id" },
	}
	ctrl := app.New(nil, app.State{Categories: tasks.DefaultCategories()}, env, nil)
	a := newTestApp(t, ctrl, 120)

	a.SetStatus("Saved", false)
	clock = clock.Add(3 * time.Second)
	a.Update(tickMsg(clock))
	if a.status != "Saved" {
		t.Error("status should still show after 3s")
	}

	clock = clock.Add(3 * time.Second)
	a.Update(tickMsg(clock))
	if a.status != "" {
		t.Errorf("status = %q, want cleared after 6s", a.status)
	}

	clock = testNow.Add(24 * time.Hour)
	a.Update(tickMsg(clock))
	if a.today != "2025-06-16" {
		t.Errorf("today = %q, want 2025-06-16", a.today)
	}
}

// =============================================================================
// Routing
// =============================================================================

func TestApp_InputModeBlocksGlobalKeys(t *testing.T) {
	a := newTestApp(t, createTestController(t), 120)

	send(a, keyMsg("a"))
	if !a.taskPane.IsEditing() {
		t.Fatal("a should start adding")
	}
	if !strings.Contains(a.renderHelpBar(), "save") {
		t.Error("help bar should show input keys")
	}

	send(a, keyMsg("2"))
	send(a, keyMsg("q"))
	if a.activePane != PaneTasks || a.quitting {
		t.Error("global keys should go to the input")
	}
	if got := a.taskPane.input.Value(); got != "2q" {
		t.Errorf("input = %q, want 2q", got)
	}

	send(a, keyMsg("esc"))
	if a.taskPane.IsEditing() {
		t.Error("esc should leave input mode")
	}
}

func TestApp_FocusUsesSelectedTask(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Write report", storage.PriorityHigh, "")
	a := newTestApp(t, ctrl, 60)

	send(a, keyMsg("2"))
	view := a.View()
	if !strings.Contains(view, "🍅 FOCUS") || !strings.Contains(view, "Write report") {
		t.Errorf("focus pane should show the selected task:\n%s", view)
	}

	send(a, keyMsg(" "))
	s, ok := a.focusPane.Timer().Session()
	if !ok || s.TaskID != ctrl.State().Tasks[0].ID {
		t.Errorf("session = %+v, want linked to the task", s)
	}
	if !strings.Contains(a.renderTitleBar(), "🍅 25:00") {
		t.Error("title bar should show the running timer")
	}
}

func TestApp_DateSelected(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Dentist", storage.PriorityHigh, "2025-06-20")
	addTestTask(t, ctrl, "Other day", storage.PriorityHigh, "2025-06-21")
	a := newTestApp(t, ctrl, 120)

	send(a, keyMsg("4"))
	send(a, dateSelectedMsg{date: "2025-06-20"})

	if a.activePane != PaneTasks {
		t.Errorf("activePane = %v, want Tasks", a.activePane)
	}
	if got := a.taskPane.Filter().DateKey; got != "2025-06-20" {
		t.Errorf("task filter date = %q", got)
	}
	if got := a.habitsPane.Date(); got != "2025-06-20" {
		t.Errorf("habit date = %q", got)
	}

	view := a.View()
	if !strings.Contains(view, "Dentist") || strings.Contains(view, "Other day") {
		t.Errorf("task list should show only the chosen day:\n%s", view)
	}
	if !strings.Contains(view, "Showing 2025-06-20 (esc clears)") {
		t.Errorf("status missing:\n%s", view)
	}

	send(a, keyMsg("esc"))
	if a.taskPane.Filter().DateKey != "" {
		t.Error("esc should clear the date filter")
	}
}
