package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
)

// TodoistImporter reads Todoist CSV exports.
type TodoistImporter struct {
	Loc *time.Location
}

// Name returns the importer name.
func (t *TodoistImporter) Name() string {
	return "todoist"
}

// Preview returns a list of tasks that would be imported.
func (t *TodoistImporter) Preview(reader io.Reader) ([]PreviewTask, error) {
	return t.parseTasks(reader)
}

// parseTasks reads and parses the Todoist CSV format.
func (t *TodoistImporter) parseTasks(reader io.Reader) ([]PreviewTask, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	// Read header
	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	// Find column indices
	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM (common in some exports)
		}
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}

	// Verify required columns
	requiredCols := []string{"TYPE", "CONTENT"}
	for _, col := range requiredCols {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var tasks []PreviewTask

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		// Skip non-task rows
		typeIdx := colIndex["TYPE"]
		if typeIdx >= len(record) || strings.ToLower(record[typeIdx]) != "task" {
			continue
		}

		task := PreviewTask{}

		// Content (task text)
		if idx, ok := colIndex["CONTENT"]; ok && idx < len(record) {
			task.Text = strings.TrimSpace(record[idx])
		}

		// Skip empty tasks
		if task.Text == "" {
			continue
		}

		if idx, ok := colIndex["PRIORITY"]; ok && idx < len(record) {
			task.Priority = mapTodoistPriority(record[idx])
		}

		if idx, ok := colIndex["PROJECT"]; ok && idx < len(record) {
			task.Project = strings.TrimSpace(record[idx])
		}

		if idx, ok := colIndex["DATE"]; ok && idx < len(record) {
			task.Date = parseTodoistDate(record[idx], t.location())
		}

		if idx, ok := colIndex["LABELS"]; ok && idx < len(record) {
			task.Tags = splitLabels(record[idx])
		}

		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (t *TodoistImporter) location() *time.Location {
	if t.Loc == nil {
		return time.Local
	}
	return t.Loc
}

// mapTodoistPriority converts the export's PRIORITY column, where 4 is the
// most important.
func mapTodoistPriority(priority string) storage.Priority {
	switch strings.TrimSpace(priority) {
	case "4":
		return storage.PriorityUrgent
	case "3":
		return storage.PriorityHigh
	case "1":
		return storage.PriorityLow
	default:
		return storage.PriorityMedium
	}
}

// splitLabels reads Todoist's comma- or space-separated label list, with or
// without @ prefixes.
func splitLabels(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimPrefix(strings.TrimSpace(f), "@"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseTodoistDate returns the date-key of a Todoist date, or "" when the
// value is empty or not understood.
func parseTodoistDate(dateStr string, loc *time.Location) string {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return ""
	}

	formats := []string{
		"2006-01-02",
		"Jan 2 2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"01/02/2006",
		"02/01/2006",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, loc); err == nil {
			return datekey.In(t, loc)
		}
	}

	return ""
}
