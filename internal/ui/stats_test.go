package ui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dailyfocus/internal/app"
	"dailyfocus/internal/storage"
)

func newTestStatsPane(t *testing.T, ctrl *app.Controller, height int) *StatsPane {
	t.Helper()
	pane := NewStatsPane(ctrl, createTestStyles(), nil)
	pane.SetState(ctrl.State(), testToday)
	pane.SetSize(70, height)
	pane.SetFocused(true)
	return pane
}

func seedStats(t *testing.T, ctrl *app.Controller) {
	t.Helper()
	done := addTestTask(t, ctrl, "Ship release", storage.PriorityHigh, testToday)
	addTestTask(t, ctrl, "Write notes", storage.PriorityLow, "")
	mustDispatch(t, ctrl,
		app.ToggleTask{ID: done.ID},
		app.RecordSession{Session: storage.PomodoroSession{
			StartTime: testNow.Add(-30 * time.Minute),
			Duration:  25,
			Type:      storage.PhaseWork,
			Completed: true,
		}},
	)
}

func TestStatsPane_WeekUsesConfiguredZone(t *testing.T) {
	// 13:00 UTC on Jan 2 is already Jan 3 at UTC+13.
	now := time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)
	env := app.Env{
		Now:   func() time.Time { return now },
		Loc:   time.FixedZone("NZDT", 13*60*60),
		NewID: func() string { return "id" },
	}
	ctrl := app.New(nil, app.State{}, env, nil)

	pane := NewStatsPane(ctrl, createTestStyles(), nil)
	pane.SetState(ctrl.State(), env.Today())

	week := pane.Summary().Week
	if got, want := week[len(week)-1].Date, env.Today(); got != want {
		t.Errorf("last week day = %s, want %s", got, want)
	}
}

func TestStatsPane_View(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	seedStats(t, ctrl)
	pane := newTestStatsPane(t, ctrl, 60)

	output := pane.View()
	wants := []string{
		"📊 STATS",
		fmt.Sprintf("Productivity score: %d/100", pane.Summary().Score),
		"1/2 (50%)",
		"25m",
		"1 (1 this week)",
		"Last 7 days",
		"Sun",
		"Categories",
		"Work",
		"Achievements",
		"🔒 Task Master",
		"1% (1/100)",
	}
	for _, want := range wants {
		if !contains(output, want) {
			t.Errorf("view missing %q:\n%s", want, output)
		}
	}
}

func TestStatsPane_Empty(t *testing.T) {
	setupTest(t)
	pane := newTestStatsPane(t, createTestController(t), 60)

	if got := pane.Summary().Score; got != 0 {
		t.Errorf("Score = %d, want 0", got)
	}
	output := pane.View()
	if !contains(output, "Productivity score: 0/100") {
		t.Errorf("view missing zero score:\n%s", output)
	}
	if contains(output, "Categories") {
		t.Errorf("no categories section without tasks:\n%s", output)
	}
}

func TestStatsPane_UnlockedAchievement(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	for i := 0; i < 50; i++ {
		mustDispatch(t, ctrl, app.RecordSession{Session: storage.PomodoroSession{
			StartTime: testNow,
			Duration:  5,
			Type:      storage.PhaseShortBreak,
			Completed: true,
		}})
	}
	pane := newTestStatsPane(t, ctrl, 60)

	output := pane.View()
	if !contains(output, "⚡ Focus Warrior") {
		t.Errorf("Focus Warrior should be unlocked:\n%s", output)
	}
}

func TestStatsPane_Scroll(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	seedStats(t, ctrl)
	pane := newTestStatsPane(t, ctrl, 10)

	if !contains(pane.View(), "Productivity score") {
		t.Fatal("top of the summary should be visible first")
	}

	pane.Update(keyMsg("j"))
	if contains(pane.View(), "Productivity score") {
		t.Error("j should scroll past the score line")
	}

	pane.Update(keyMsg("G"))
	if output := pane.View(); !contains(output, "Productivity Master") {
		t.Errorf("G should show the last line:\n%s", output)
	}

	pane.Update(keyMsg("g"))
	if !contains(pane.View(), "Productivity score") {
		t.Error("g should return to the top")
	}

	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	pane.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp})
	if !contains(pane.View(), "Productivity score") {
		t.Error("wheel down then up should return to the top")
	}
}

func TestStatsPane_IgnoresKeysWhenUnfocused(t *testing.T) {
	setupTest(t)
	ctrl := createTestController(t)
	seedStats(t, ctrl)
	pane := newTestStatsPane(t, ctrl, 10)
	pane.SetFocused(false)

	pane.Update(keyMsg("j"))
	if !contains(pane.View(), "Productivity score") {
		t.Error("unfocused pane should not scroll")
	}
}
