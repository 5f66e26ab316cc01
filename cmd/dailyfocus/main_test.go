package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"dailyfocus/internal/calendar"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/importer"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// ============================================================================
// Helpers
// ============================================================================

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
		{21 * 24 * time.Hour, "3 weeks ago"},
	}
	for _, tt := range tests {
		if got := formatAge(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("formatAge(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestParseDay(t *testing.T) {
	const today = "2025-06-15"
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"today", today, false},
		{"Tomorrow", "2025-06-16", false},
		{"yesterday", "2025-06-14", false},
		{"2025-12-31", "2025-12-31", false},
		{"2025-02-30", "", true},
		{"next week", "", true},
	}
	for _, tt := range tests {
		got, err := parseDay(tt.in, today)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveTask(t *testing.T) {
	list := []storage.Task{
		{ID: "abc123", Text: "One"},
		{ID: "abd456", Text: "Two"},
		{ID: "ab", Text: "Exact"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"abc", "One", nil},
		{"abd456", "Two", nil},
		{"ab", "Exact", nil},
		{"zz", "", tasks.ErrTaskNotFound},
	}
	for _, tt := range tests {
		got, err := resolveTask(list, tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolveTask(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got.Text != tt.want {
			t.Errorf("resolveTask(%q) = %q, %v; want %q", tt.ref, got.Text, err, tt.want)
		}
	}

	if _, err := resolveTask(list, "a"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("resolveTask(a) error = %v, want ambiguous", err)
	}
}

func TestResolveHabit(t *testing.T) {
	list := []storage.Habit{
		{ID: "h-1111", Name: "Read"},
		{ID: "h-2222", Name: "Water"},
	}

	if h, err := resolveHabit(list, "water"); err != nil || h.ID != "h-2222" {
		t.Errorf("by name = %q, %v", h.ID, err)
	}
	if h, err := resolveHabit(list, "h-1"); err != nil || h.Name != "Read" {
		t.Errorf("by prefix = %q, %v", h.Name, err)
	}
	if _, err := resolveHabit(list, "h-"); err == nil {
		t.Error("ambiguous prefix should fail")
	}
	if _, err := resolveHabit(list, "Run"); !errors.Is(err, habits.ErrHabitNotFound) {
		t.Errorf("unknown habit error = %v", err)
	}
}

func TestNewest(t *testing.T) {
	list := []storage.Task{
		{ID: "a", Position: 0},
		{ID: "b", Position: -2},
		{ID: "c", Position: -1},
	}
	if got := newest(list); got.ID != "b" {
		t.Errorf("newest() = %q, want b", got.ID)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		cell     calendar.Cell
		hasTasks bool
		isToday  bool
		want     string
	}{
		{calendar.Cell{}, false, false, "     "},
		{calendar.Cell{Day: 3, Key: "2025-06-03"}, false, false, "  3  "},
		{calendar.Cell{Day: 12, Key: "2025-06-12"}, true, false, " 12 *"},
		{calendar.Cell{Day: 15, Key: "2025-06-15"}, true, true, "[15]*"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.cell, tt.hasTasks, tt.isToday); got != tt.want {
			t.Errorf("formatCell(%d) = %q, want %q", tt.cell.Day, got, tt.want)
		}
	}
}

func TestPrintPreview(t *testing.T) {
	items := make([]importer.PreviewTask, previewLimit+3)
	for i := range items {
		items[i] = importer.PreviewTask{Text: "Task", Priority: storage.PriorityHigh}
	}
	items[0] = importer.PreviewTask{Text: "First", Project: "Work", Priority: storage.PriorityUrgent, Date: "2025-06-20", Done: true}

	var buf bytes.Buffer
	printPreview(&buf, items)
	out := buf.String()

	for _, want := range []string{
		"Preview: 23 tasks to import",
		"First (Work, urgent, 2025-06-20, done)",
		"... and 3 more",
		"Run without --dry-run to import.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
}

// ============================================================================
// Commands
// ============================================================================

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Flag values survive between Execute calls.
	configPath, dataDir, backend, logLevel = "", "", "", ""
	statsJSON, importDryRun, restoreLatest, restoreForce = false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_TaskAndHabitRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DAILYFOCUS_DATA_DIR", "")
	dir := t.TempDir()

	out, err := execute(t, "--data-dir", dir, "task", "add", "Write", "report", "!high", "#work")
	if err != nil {
		t.Fatalf("task add: %v", err)
	}
	if !strings.Contains(out, "✓ Added task") || !strings.Contains(out, "Write report") {
		t.Errorf("task add output = %q", out)
	}

	out, err = execute(t, "--data-dir", dir, "task", "list")
	if err != nil {
		t.Fatalf("task list: %v", err)
	}
	for _, want := range []string{"[ ]", "Write report (high", "#work", "0/1 done"} {
		if !strings.Contains(out, want) {
			t.Errorf("task list missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "--data-dir", dir, "habit", "add", "Read")
	if err != nil {
		t.Fatalf("habit add: %v", err)
	}
	if !strings.Contains(out, "Read") {
		t.Errorf("habit add output = %q", out)
	}

	out, err = execute(t, "--data-dir", dir, "habit", "toggle", "read")
	if err != nil {
		t.Fatalf("habit toggle: %v", err)
	}
	if !strings.Contains(out, "(streak 1)") {
		t.Errorf("habit toggle output = %q", out)
	}

	out, err = execute(t, "--data-dir", dir, "stats", "--json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, `"productivity_score"`) {
		t.Errorf("stats output = %q", out)
	}
}

func TestCommands_Errors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DAILYFOCUS_DATA_DIR", "")
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown task", []string{"task", "done", "nope"}, "task not found"},
		{"bad month", []string{"calendar", "June"}, "invalid month"},
		{"bad format", []string{"import", "csv", "x.csv"}, "unknown format"},
		{"bad backend", []string{"--backend", "redis", "task", "list"}, "backend"},
		{"restore without name", []string{"restore"}, "--latest"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--data-dir", dir}, tt.args...)
			_, err := execute(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
