package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// testNow is a Sunday.
var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

const testToday = "2025-06-15"

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// testEnv returns a fixed clock at testNow with sequential ids.
func testEnv() app.Env {
	n := 0
	return app.Env{
		Now: func() time.Time { return testNow },
		Loc: time.UTC,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

// createTestController returns an in-memory controller seeded with the
// default categories.
func createTestController(t *testing.T) *app.Controller {
	t.Helper()
	return app.New(nil, app.State{Categories: tasks.DefaultCategories()}, testEnv(), nil)
}

// mustDispatch applies actions directly, bypassing the UI.
func mustDispatch(t *testing.T, ctrl *app.Controller, actions ...app.Action) {
	t.Helper()
	for _, a := range actions {
		if err := ctrl.Dispatch(a); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", a.Describe(), err)
		}
	}
}

// addTestTask adds a task and returns it.
func addTestTask(t *testing.T, ctrl *app.Controller, text string, p storage.Priority, date string) storage.Task {
	t.Helper()
	mustDispatch(t, ctrl, app.AddTask{Input: tasks.NewTask{Text: text, Priority: p, Date: date}})
	list := ctrl.State().Tasks
	return list[len(list)-1]
}

// runCmd executes cmd and any batched commands, returning the messages.
// Only use it for commands that do not block (no ticks or cursor blinks).
func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// actionResult runs cmd and returns its actionDoneMsg.
func actionResult(t *testing.T, cmd tea.Cmd) actionDoneMsg {
	t.Helper()
	for _, msg := range runCmd(t, cmd) {
		if done, ok := msg.(actionDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("command produced no actionDoneMsg")
	return actionDoneMsg{}
}

// keyMsg builds a key press for a single rune or a named key.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
