// Package export turns the task collection into downloadable artifacts.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/fsutil"
	"dailyfocus/internal/storage"
)

// FilePrefix starts every export file name.
const FilePrefix = "dailyfocus-tasks"

const (
	humanTime = "Jan 2, 2006 3:04 PM"
	humanDate = "Mon, Jan 2, 2006"
)

// Document is the JSON export.
type Document struct {
	ExportedAt     time.Time  `json:"exportedAt"`
	TotalTasks     int        `json:"totalTasks"`
	CompletedTasks int        `json:"completedTasks"`
	PendingTasks   int        `json:"pendingTasks"`
	Tasks          []TaskLine `json:"tasks"`
}

// TaskLine is one task in the JSON export.
type TaskLine struct {
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Date        string     `json:"date,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// BuildDocument summarizes tasks as of now.
func BuildDocument(tasks []storage.Task, now time.Time) Document {
	doc := Document{
		ExportedAt: now,
		TotalTasks: len(tasks),
		Tasks:      make([]TaskLine, 0, len(tasks)),
	}
	for _, t := range tasks {
		if t.Completed {
			doc.CompletedTasks++
		} else {
			doc.PendingTasks++
		}
		doc.Tasks = append(doc.Tasks, TaskLine{
			Text:        t.Text,
			Completed:   t.Completed,
			Date:        t.Date,
			CreatedAt:   t.CreatedAt,
			CompletedAt: t.CompletedAt,
		})
	}
	return doc
}

// JSON renders the export document.
func JSON(tasks []storage.Task, now time.Time) ([]byte, error) {
	return json.MarshalIndent(BuildDocument(tasks, now), "", "  ")
}

// RenderText renders the human-readable report.
func RenderText(tasks []storage.Task, now time.Time) string {
	doc := BuildDocument(tasks, now)
	loc := now.Location()

	var b strings.Builder
	b.WriteString("DailyFocus Task Export\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format(humanTime))

	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "- Total Tasks: %d\n", doc.TotalTasks)
	fmt.Fprintf(&b, "- Completed: %d\n", doc.CompletedTasks)
	fmt.Fprintf(&b, "- Pending: %d\n", doc.PendingTasks)

	b.WriteString("\nTasks:\n")
	for _, t := range tasks {
		mark := "⏳"
		if t.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "\n%s %s\n", mark, t.Text)
		fmt.Fprintf(&b, "   Created: %s\n", t.CreatedAt.In(loc).Format(humanTime))
		if d, err := datekey.Parse(t.Date); err == nil {
			fmt.Fprintf(&b, "   Date: %s\n", d.Format(humanDate))
		} else {
			b.WriteString("   No specific date\n")
		}
		if t.CompletedAt != nil {
			fmt.Fprintf(&b, "   Completed: %s\n", t.CompletedAt.In(loc).Format(humanTime))
		}
	}

	return b.String()
}

// CSV renders tasks as a spreadsheet-friendly table.
func CSV(tasks []storage.Task) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"ID", "Text", "Category", "Priority", "Date", "Completed", "CreatedAt", "CompletedAt", "Tags"}); err != nil {
		return "", err
	}
	for _, t := range tasks {
		completedAt := ""
		if t.CompletedAt != nil {
			completedAt = t.CompletedAt.Format(time.RFC3339)
		}
		row := []string{
			t.ID,
			t.Text,
			t.Category.Name,
			string(t.Priority),
			t.Date,
			strconv.FormatBool(t.Completed),
			t.CreatedAt.Format(time.RFC3339),
			completedAt,
			strings.Join(t.Tags, " "),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return b.String(), w.Error()
}

// FileNames returns the JSON and text file names for an export made at now.
func FileNames(now time.Time) (jsonName, textName string) {
	base := FilePrefix + "-" + datekey.Key(now)
	return base + ".json", base + ".txt"
}

// WriteFiles writes both artifacts into dir and returns their paths.
func WriteFiles(dir string, tasks []storage.Task, now time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	data, err := JSON(tasks, now)
	if err != nil {
		return nil, fmt.Errorf("serialize export: %w", err)
	}

	jsonName, textName := FileNames(now)
	jsonPath := filepath.Join(dir, jsonName)
	textPath := filepath.Join(dir, textName)

	if err := fsutil.WriteFileAtomic(jsonPath, data, 0600); err != nil {
		return nil, err
	}
	if err := fsutil.WriteFileAtomic(textPath, []byte(RenderText(tasks, now)), 0600); err != nil {
		return nil, err
	}
	return []string{jsonPath, textPath}, nil
}
