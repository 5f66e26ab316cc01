package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dailyfocus/internal/storage"
)

var now = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func sample() []storage.Task {
	done := now.Add(-time.Hour)
	return []storage.Task{
		{Text: "Write report", Completed: true, CompletedAt: &done, CreatedAt: now.Add(-24 * time.Hour), Date: "2024-03-15",
			Category: storage.Category{Name: "Work"}, Priority: storage.PriorityHigh, Tags: []string{"q1", "finance"}},
		{Text: "Buy milk, eggs", CreatedAt: now.Add(-2 * time.Hour), Category: storage.Category{Name: "Home"}, Priority: storage.PriorityLow},
	}
}

func TestBuildDocument(t *testing.T) {
	doc := BuildDocument(sample(), now)

	if doc.TotalTasks != 2 || doc.CompletedTasks != 1 || doc.PendingTasks != 1 {
		t.Errorf("counts = %d/%d/%d", doc.TotalTasks, doc.CompletedTasks, doc.PendingTasks)
	}
	if len(doc.Tasks) != 2 || doc.Tasks[0].Text != "Write report" {
		t.Errorf("tasks = %+v", doc.Tasks)
	}
}

func TestJSONShape(t *testing.T) {
	data, err := JSON(sample(), now)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"exportedAt", "totalTasks", "completedTasks", "pendingTasks", "tasks"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	tasks := raw["tasks"].([]any)
	pending := tasks[1].(map[string]any)
	if v, ok := pending["completedAt"]; !ok || v != nil {
		t.Errorf("pending completedAt = %v (present %v), want null", v, ok)
	}
	if _, ok := pending["date"]; ok {
		t.Error("undated task should omit date")
	}
}

func TestRenderText(t *testing.T) {
	text := RenderText(sample(), now)

	for _, want := range []string{
		"DailyFocus Task Export",
		"Generated: Mar 15, 2024 2:30 PM",
		"- Total Tasks: 2",
		"- Completed: 1",
		"- Pending: 1",
		"✅ Write report",
		"Date: Fri, Mar 15, 2024",
		"Completed: Mar 15, 2024 1:30 PM",
		"⏳ Buy milk, eggs",
		"No specific date",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("RenderText() missing %q:\n%s", want, text)
		}
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(sample())
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[2], `"Buy milk, eggs"`) {
		t.Errorf("comma not quoted: %s", lines[2])
	}
	if !strings.Contains(lines[1], "q1 finance") {
		t.Errorf("tags missing: %s", lines[1])
	}
}

func TestFileNamesAndWrite(t *testing.T) {
	jsonName, textName := FileNames(now)
	if jsonName != "dailyfocus-tasks-2024-03-15.json" || textName != "dailyfocus-tasks-2024-03-15.txt" {
		t.Errorf("FileNames() = %q, %q", jsonName, textName)
	}

	dir := filepath.Join(t.TempDir(), "exports")
	paths, err := WriteFiles(dir, sample(), now)
	if err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("stat %s: %v", p, err)
		}
	}
}

func TestEmptyExport(t *testing.T) {
	doc := BuildDocument(nil, now)
	if doc.Tasks == nil || doc.TotalTasks != 0 {
		t.Errorf("empty doc = %+v", doc)
	}
}
