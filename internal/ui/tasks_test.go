package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"dailyfocus/internal/app"
	"dailyfocus/internal/storage"
)

// newTestTaskPane returns a focused task pane over ctrl's current state.
func newTestTaskPane(t *testing.T, ctrl *app.Controller) *TaskPane {
	t.Helper()
	pane := NewTaskPane(ctrl, createTestStyles(), nil)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	pane.SetState(ctrl.State(), testToday)
	return pane
}

// sync pushes the controller's state back into the pane, as the App does
// after every action.
func sync(pane *TaskPane, ctrl *app.Controller) {
	pane.SetState(ctrl.State(), testToday)
}

// =============================================================================
// Rendering
// =============================================================================

func TestTaskPaneView_Empty(t *testing.T) {
	setupTest(t)
	pane := newTestTaskPane(t, createTestController(t))

	output := pane.View()
	for _, want := range []string{"TASKS", "All tasks", "No tasks yet"} {
		if !contains(output, want) {
			t.Errorf("empty view missing %q:\n%s", want, output)
		}
	}
}

func TestTaskPaneView_WithTasks(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Buy groceries", storage.PriorityHigh, testToday)
	addTestTask(t, ctrl, "Review PR", storage.PriorityLow, "")
	mustDispatch(t, ctrl, app.ToggleTask{ID: ctrl.State().Tasks[1].ID})

	pane := newTestTaskPane(t, ctrl)
	output := pane.View()

	for _, want := range []string{"Buy groceries", "Review PR", "[ ]", "[✓]", "1/2 complete"} {
		if !contains(output, want) {
			t.Errorf("view missing %q:\n%s", want, output)
		}
	}
	if strings.Index(output, "Buy groceries") > strings.Index(output, "Review PR") {
		t.Error("pending task should be listed before the completed one")
	}
}

func TestTaskPaneView_FilterLine(t *testing.T) {
	setupTest(t)
	pane := newTestTaskPane(t, createTestController(t))

	pane.SetDateFilter(testToday)
	if output := pane.View(); !contains(output, "today") || !contains(output, "No tasks match the filter") {
		t.Errorf("date filter not shown:\n%s", output)
	}

	pane.SetDateFilter("2025-07-01")
	pane.Update(keyMsg("h"))
	output := pane.View()
	if !contains(output, "2025-07-01") || !contains(output, "hiding done") {
		t.Errorf("filter line = \n%s", output)
	}
}

func TestTaskPane_FormatDate(t *testing.T) {
	setupTest(t)
	pane := newTestTaskPane(t, createTestController(t))

	tests := []struct {
		date string
		want string
	}{
		{"", ""},
		{"2025-06-14", "!"},
		{testToday, "T"},
		{"2025-06-16", "+1"},
		{"2025-06-20", "5d"},
		{"2025-06-29", "2w"},
		{"2025-08-01", ">1m"},
		{"garbage", ""},
	}
	for _, tt := range tests {
		if got := pane.formatDate(tt.date); got != tt.want {
			t.Errorf("formatDate(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

// =============================================================================
// Adding
// =============================================================================

func TestTaskPane_QuickAdd(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	pane := newTestTaskPane(t, ctrl)

	pane.Update(keyMsg("a"))
	if !pane.IsEditing() {
		t.Fatal("'a' should open the input")
	}

	pane.input.SetValue("Write tests !high @learning #go")
	done := actionResult(t, pane.Update(keyMsg("enter")))
	if done.err != nil {
		t.Fatalf("add error = %v", done.err)
	}
	if pane.IsEditing() {
		t.Error("input should close after enter")
	}
	if done.status != "Added: Write tests" {
		t.Errorf("status = %q", done.status)
	}

	list := ctrl.State().Tasks
	if len(list) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(list))
	}
	got := list[0]
	if got.Text != "Write tests" || got.Priority != storage.PriorityHigh || got.Category.ID != "learning" {
		t.Errorf("task = %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("tags = %v", got.Tags)
	}
}

func TestTaskPane_AddUsesDateFilter(t *testing.T) {
	ctrl := createTestController(t)
	pane := newTestTaskPane(t, ctrl)
	pane.SetDateFilter("2025-06-20")

	pane.Update(keyMsg("a"))
	pane.input.SetValue("Plan trip")
	if done := actionResult(t, pane.Update(keyMsg("enter"))); done.err != nil {
		t.Fatal(done.err)
	}
	pane.Update(keyMsg("a"))
	pane.input.SetValue("Pack ^2025-06-21")
	if done := actionResult(t, pane.Update(keyMsg("enter"))); done.err != nil {
		t.Fatal(done.err)
	}

	list := ctrl.State().Tasks
	if list[0].Date != "2025-06-20" {
		t.Errorf("Date = %q, want the filtered day", list[0].Date)
	}
	if list[1].Date != "2025-06-21" {
		t.Errorf("Date = %q, want the explicit date", list[1].Date)
	}
}

func TestTaskPane_AddErrors(t *testing.T) {
	ctrl := createTestController(t)
	pane := newTestTaskPane(t, ctrl)

	tests := []struct {
		line string
		want string
	}{
		{"Pay rent ^2025-13-01", "invalid date"},
		{"Pay rent @nowhere", "nowhere"},
		{strings.Repeat("x", 201), "200"},
	}
	for _, tt := range tests {
		pane.Update(keyMsg("a"))
		pane.input.CharLimit = 0
		pane.input.SetValue(tt.line)
		done := actionResult(t, pane.Update(keyMsg("enter")))
		if done.err == nil || !strings.Contains(done.err.Error(), tt.want) {
			t.Errorf("add %q error = %v, want %q", tt.line, done.err, tt.want)
		}
	}
	if n := len(ctrl.State().Tasks); n != 0 {
		t.Errorf("len(tasks) = %d, want 0", n)
	}
}

func TestTaskPane_AddCancel(t *testing.T) {
	ctrl := createTestController(t)
	pane := newTestTaskPane(t, ctrl)

	pane.Update(keyMsg("a"))
	pane.input.SetValue("never mind")
	if cmd := pane.Update(keyMsg("esc")); cmd != nil {
		t.Error("cancel should not dispatch")
	}
	if pane.IsEditing() {
		t.Error("esc should close the input")
	}

	// Blank input is ignored
	pane.Update(keyMsg("a"))
	if cmd := pane.Update(keyMsg("enter")); cmd != nil {
		t.Error("blank input should not dispatch")
	}
}

// =============================================================================
// Browsing
// =============================================================================

func TestTaskPane_Navigation(t *testing.T) {
	ctrl := createTestController(t)
	for _, text := range []string{"one", "two", "three"} {
		addTestTask(t, ctrl, text, storage.PriorityMedium, "")
	}
	pane := newTestTaskPane(t, ctrl)

	steps := []struct {
		key  string
		want int
	}{
		{"j", 1},
		{"down", 2},
		{"j", 2},
		{"k", 1},
		{"g", 0},
		{"up", 0},
		{"G", 2},
	}
	for _, s := range steps {
		pane.Update(keyMsg(s.key))
		if pane.cursor != s.want {
			t.Errorf("after %q cursor = %d, want %d", s.key, pane.cursor, s.want)
		}
	}
}

func TestTaskPane_ToggleKeepsSelection(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "first", storage.PriorityMedium, "")
	second := addTestTask(t, ctrl, "second", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	// Newest is on top
	if sel, _ := pane.Selected(); sel.ID != second.ID {
		t.Fatalf("selected %q, want %q", sel.Text, second.Text)
	}

	if done := actionResult(t, pane.Update(keyMsg("d"))); done.err != nil {
		t.Fatal(done.err)
	}
	sync(pane, ctrl)

	sel, ok := pane.Selected()
	if !ok || sel.ID != second.ID || !sel.Completed {
		t.Errorf("selected = %+v, want completed %q", sel, second.Text)
	}
	if pane.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (completed tasks sort last)", pane.cursor)
	}
}

func TestTaskPane_Search(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Buy groceries", storage.PriorityMedium, "")
	addTestTask(t, ctrl, "Review PR", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	pane.Update(keyMsg("/"))
	if !pane.IsEditing() {
		t.Fatal("'/' should open search")
	}
	pane.Update(keyMsg("groc"))
	if len(pane.tasks) != 1 || pane.tasks[0].Text != "Buy groceries" {
		t.Fatalf("visible = %+v", pane.tasks)
	}

	// Enter keeps the query, esc in browse mode clears it
	pane.Update(keyMsg("enter"))
	if pane.IsEditing() || pane.Filter().Query != "groc" {
		t.Errorf("after enter: editing=%v query=%q", pane.IsEditing(), pane.Filter().Query)
	}
	pane.Update(keyMsg("esc"))
	if pane.Filter().Active() || len(pane.tasks) != 2 {
		t.Errorf("esc should clear filters, got %+v", pane.Filter())
	}
}

func TestTaskPane_SearchCancelClearsQuery(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "alpha", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	pane.Update(keyMsg("/"))
	pane.Update(keyMsg("zzz"))
	if len(pane.tasks) != 0 {
		t.Fatalf("visible = %d, want 0", len(pane.tasks))
	}
	pane.Update(keyMsg("esc"))
	if pane.Filter().Query != "" || len(pane.tasks) != 1 {
		t.Errorf("query = %q, visible = %d", pane.Filter().Query, len(pane.tasks))
	}
}

func TestTaskPane_HideCompleted(t *testing.T) {
	ctrl := createTestController(t)
	done := addTestTask(t, ctrl, "done", storage.PriorityMedium, "")
	addTestTask(t, ctrl, "open", storage.PriorityMedium, "")
	mustDispatch(t, ctrl, app.ToggleTask{ID: done.ID})
	pane := newTestTaskPane(t, ctrl)

	pane.Update(keyMsg("h"))
	if len(pane.tasks) != 1 || pane.tasks[0].Text != "open" {
		t.Errorf("visible = %+v", pane.tasks)
	}
	pane.Update(keyMsg("h"))
	if len(pane.tasks) != 2 {
		t.Errorf("len(visible) = %d, want 2", len(pane.tasks))
	}
}

func TestTaskPane_Move(t *testing.T) {
	ctrl := createTestController(t)
	a := addTestTask(t, ctrl, "a", storage.PriorityMedium, "")
	b := addTestTask(t, ctrl, "b", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	// Visible order is b, a. Move b down.
	if done := actionResult(t, pane.Update(keyMsg("J"))); done.err != nil {
		t.Fatal(done.err)
	}
	sync(pane, ctrl)

	if pane.tasks[0].ID != a.ID || pane.tasks[1].ID != b.ID {
		t.Errorf("order = %q, %q; want a, b", pane.tasks[0].Text, pane.tasks[1].Text)
	}
	if sel, _ := pane.Selected(); sel.ID != b.ID {
		t.Errorf("selection should follow the moved task, got %q", sel.Text)
	}

	// Already at the bottom
	if cmd := pane.Update(keyMsg("J")); cmd != nil {
		t.Error("moving past the end should do nothing")
	}
}

func TestTaskPane_MoveAcrossPriorities(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "low", storage.PriorityLow, "")
	addTestTask(t, ctrl, "high", storage.PriorityHigh, "")
	pane := newTestTaskPane(t, ctrl)

	done := actionResult(t, pane.Update(keyMsg("J")))
	if !errors.Is(done.err, errCrossPriority) {
		t.Errorf("err = %v, want errCrossPriority", done.err)
	}
}

func TestTaskPane_IgnoresKeysWhenUnfocused(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "task", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)
	pane.SetFocused(false)

	if cmd := pane.Update(keyMsg("d")); cmd != nil {
		t.Error("unfocused pane should ignore keys")
	}
	if pane.IsFocused() {
		t.Error("IsFocused() = true")
	}
}

func TestTaskPane_DeleteSelected(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "doomed", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	done := actionResult(t, pane.DeleteSelectedCmd())
	if done.err != nil || done.status != "Deleted: doomed" {
		t.Errorf("delete = %+v", done)
	}
	if len(ctrl.State().Tasks) != 0 {
		t.Error("task was not deleted")
	}

	sync(pane, ctrl)
	if cmd := pane.DeleteSelectedCmd(); cmd != nil {
		t.Error("delete with nothing selected should be a no-op")
	}
}

// =============================================================================
// Mouse
// =============================================================================

func TestTaskPane_MouseClick(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "one", storage.PriorityMedium, "")
	addTestTask(t, ctrl, "two", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	// Click on the text of the second row selects it
	click := tea.MouseMsg{X: 20, Y: taskListTop + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	if cmd := pane.Update(click); cmd != nil {
		t.Error("clicking text should not toggle")
	}
	if pane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", pane.cursor)
	}

	// Click on the checkbox toggles
	click.X = 4
	click.Y = taskListTop
	if done := actionResult(t, pane.Update(click)); done.err != nil {
		t.Fatal(done.err)
	}
	if pane.cursor != 0 {
		t.Errorf("cursor = %d, want 0", pane.cursor)
	}
	completed := 0
	for _, task := range ctrl.State().Tasks {
		if task.Completed {
			completed++
		}
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
}

func TestTaskPane_MouseWheel(t *testing.T) {
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "one", storage.PriorityMedium, "")
	addTestTask(t, ctrl, "two", storage.PriorityMedium, "")
	pane := newTestTaskPane(t, ctrl)

	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if pane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", pane.cursor)
	}
	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if pane.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", pane.cursor)
	}
	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if pane.cursor != 0 {
		t.Errorf("cursor = %d, want 0", pane.cursor)
	}
}
