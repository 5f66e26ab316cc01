package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dailyfocus/internal/app"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
)

func newTestCalendarPane(t *testing.T, ctrl *app.Controller) *CalendarPane {
	t.Helper()
	pane := NewCalendarPane(createTestStyles(), nil)
	pane.SetState(ctrl.State(), testToday)
	pane.SetSize(60, 22)
	pane.SetFocused(true)
	return pane
}

func TestCalendarPane_StartsOnToday(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	if pane.Selected() != testToday {
		t.Errorf("Selected() = %q, want %q", pane.Selected(), testToday)
	}
	if got := pane.Grid().Title(); got != "June 2025" {
		t.Errorf("Grid().Title() = %q, want June 2025", got)
	}

	// Later state updates keep the selection.
	pane.Select("2025-06-03")
	pane.SetState(app.State{}, testToday)
	if pane.Selected() != "2025-06-03" {
		t.Errorf("Selected() = %q after SetState, want 2025-06-03", pane.Selected())
	}
}

func TestCalendarPane_Navigation(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	steps := []struct {
		key  string
		want string
	}{
		{"l", "2025-06-16"},
		{"right", "2025-06-17"},
		{"h", "2025-06-16"},
		{"j", "2025-06-23"},
		{"k", "2025-06-16"},
		{"]", "2025-07-16"},
		{"n", "2025-08-16"},
		{"[", "2025-07-16"},
		{"p", "2025-06-16"},
		{"t", testToday},
	}
	for _, s := range steps {
		pane.Update(keyMsg(s.key))
		if got := pane.Selected(); got != s.want {
			t.Errorf("after %q Selected() = %q, want %q", s.key, got, s.want)
		}
	}
}

func TestCalendarPane_CrossesMonthByDay(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	pane.Select("2025-06-30")
	pane.Update(keyMsg("l"))
	if pane.Selected() != "2025-07-01" {
		t.Errorf("Selected() = %q, want 2025-07-01", pane.Selected())
	}
	if pane.Grid().Month != time.July {
		t.Errorf("Grid().Month = %v, want July", pane.Grid().Month)
	}

	pane.Select("2025-01-01")
	pane.Update(keyMsg("k"))
	if pane.Selected() != "2024-12-25" || pane.Grid().Year != 2024 {
		t.Errorf("Selected() = %q, grid %d; want 2024-12-25 in 2024", pane.Selected(), pane.Grid().Year)
	}
}

func TestCalendarPane_MonthClampsDay(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	tests := []struct {
		from string
		key  string
		want string
	}{
		{"2025-01-31", "]", "2025-02-28"},
		{"2024-01-31", "]", "2024-02-29"},
		{"2025-03-31", "[", "2025-02-28"},
		{"2025-12-15", "]", "2026-01-15"},
		{"2025-01-15", "[", "2024-12-15"},
	}
	for _, tt := range tests {
		pane.Select(tt.from)
		pane.Update(keyMsg(tt.key))
		if got := pane.Selected(); got != tt.want {
			t.Errorf("%s %q = %q, want %q", tt.from, tt.key, got, tt.want)
		}
	}
}

func TestCalendarPane_SelectInvalidDate(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	pane.Select("2025-02-30")
	if pane.Selected() != testToday {
		t.Errorf("invalid date changed the selection to %q", pane.Selected())
	}
}

func TestCalendarPane_EnterSelectsDay(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))
	pane.Select("2025-06-20")

	msgs := runCmd(t, pane.Update(keyMsg("enter")))
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	msg, ok := msgs[0].(dateSelectedMsg)
	if !ok || msg.date != "2025-06-20" {
		t.Errorf("msg = %#v, want dateSelectedMsg for 2025-06-20", msgs[0])
	}
}

func TestCalendarPane_IgnoresKeysWhenUnfocused(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))
	pane.SetFocused(false)

	pane.Update(keyMsg("l"))
	if pane.Selected() != testToday {
		t.Error("unfocused pane should ignore keys")
	}
}

func TestCalendarPane_Mouse(t *testing.T) {
	setupTest(t)
	pane := newTestCalendarPane(t, createTestController(t))

	// June 2025 starts on a Sunday, so the 15th opens the third row.
	if cmd := pane.Update(tea.MouseMsg{X: 2 + calendarCellWidth, Y: calendarGridTop + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}); cmd != nil {
		t.Error("first click should only select")
	}
	if pane.Selected() != "2025-06-16" {
		t.Errorf("Selected() = %q, want 2025-06-16", pane.Selected())
	}

	msgs := runCmd(t, pane.Update(tea.MouseMsg{X: 2 + calendarCellWidth, Y: calendarGridTop + 2, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}))
	if len(msgs) != 1 {
		t.Fatalf("second click should open the day, got %v", msgs)
	}
	if msg, ok := msgs[0].(dateSelectedMsg); !ok || msg.date != "2025-06-16" {
		t.Errorf("msg = %#v", msgs[0])
	}

	// Outside the grid.
	if cmd := pane.Update(tea.MouseMsg{X: 2, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}); cmd != nil {
		t.Error("click on the title should do nothing")
	}
}

func TestCalendarPane_View(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	addTestTask(t, ctrl, "Dentist", storage.PriorityHigh, "2025-06-20")
	done := addTestTask(t, ctrl, "Call mom", storage.PriorityLow, "2025-06-20")
	mustDispatch(t, ctrl,
		app.ToggleTask{ID: done.ID},
		app.AddHabit{Input: habits.NewHabit{Name: "Water"}},
	)

	pane := newTestCalendarPane(t, ctrl)
	output := pane.View()
	for _, want := range []string{"📅 CALENDAR", "June 2025", "Sun", "Sat", "•", testToday + " (today)", "No tasks", "0/1 habits done", "enter: show tasks for this day"} {
		if !contains(output, want) {
			t.Errorf("view missing %q:\n%s", want, output)
		}
	}

	pane.Select("2025-06-20")
	output = pane.View()
	if !contains(output, "1/2 tasks done") {
		t.Errorf("view missing day counts:\n%s", output)
	}
	if contains(output, "(today)") {
		t.Errorf("only today is marked:\n%s", output)
	}
}
