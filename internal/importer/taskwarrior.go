package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
)

// TaskwarriorImporter reads `task export` output.
type TaskwarriorImporter struct {
	Loc *time.Location
}

// taskwarriorTask represents a task in Taskwarrior's JSON format.
type taskwarriorTask struct {
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Project     string   `json:"project"`
	Priority    string   `json:"priority"`
	Due         string   `json:"due"`
	Entry       string   `json:"entry"`
	End         string   `json:"end"`
	UUID        string   `json:"uuid"`
	Tags        []string `json:"tags"`
}

// Name returns the importer name.
func (t *TaskwarriorImporter) Name() string {
	return "taskwarrior"
}

// Preview returns a list of tasks that would be imported.
func (t *TaskwarriorImporter) Preview(reader io.Reader) ([]PreviewTask, error) {
	return t.parseTasks(reader)
}

// parseTasks reads and parses Taskwarrior JSON format.
// Supports both JSON array format and newline-delimited JSON (NDJSON).
func (t *TaskwarriorImporter) parseTasks(reader io.Reader) ([]PreviewTask, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty input")
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	r := io.MultiReader(bytes.NewReader(prefix), br)
	if first == '[' {
		return parseTaskwarriorJSONArray(r, t.location())
	}
	return parseTaskwarriorNDJSON(r, t.location())
}

func (t *TaskwarriorImporter) location() *time.Location {
	if t.Loc == nil {
		return time.Local
	}
	return t.Loc
}

const maxTaskwarriorNDJSONLineBytes = 4 << 20 // 4MiB

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		if !isSpaceByte(b) {
			return prefix, b, nil
		}
	}
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func parseTaskwarriorJSONArray(r io.Reader, loc *time.Location) ([]PreviewTask, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	var tasks []PreviewTask
	var idx int
	for dec.More() {
		idx++
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", idx, err)
		}
		if task, ok := previewFromTaskwarrior(tw, loc); ok {
			tasks = append(tasks, task)
		}
	}

	// Consume closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}

	return tasks, nil
}

func parseTaskwarriorNDJSON(r io.Reader, loc *time.Location) ([]PreviewTask, error) {
	br := bufio.NewReader(r)
	var tasks []PreviewTask
	var lineNo int
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > maxTaskwarriorNDJSONLineBytes {
			return nil, fmt.Errorf("taskwarrior NDJSON line %d exceeds %d bytes", lineNo+1, maxTaskwarriorNDJSONLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read NDJSON: %w", err)
		}
		if len(line) == 0 && err == io.EOF {
			break
		}

		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err == io.EOF {
				break
			}
			continue
		}

		var tw taskwarriorTask
		if uerr := json.Unmarshal(line, &tw); uerr != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
		}
		if task, ok := previewFromTaskwarrior(tw, loc); ok {
			tasks = append(tasks, task)
		}

		if err == io.EOF {
			break
		}
	}

	if lineNo == 0 {
		return nil, fmt.Errorf("empty input")
	}

	return tasks, nil
}

func previewFromTaskwarrior(tw taskwarriorTask, loc *time.Location) (PreviewTask, bool) {
	if tw.Status == "deleted" {
		return PreviewTask{}, false
	}

	task := PreviewTask{
		Text:     tw.Description,
		Project:  tw.Project,
		Priority: mapTaskwarriorPriority(tw.Priority),
		Done:     tw.Status == "completed",
		Tags:     tw.Tags,
	}

	if strings.TrimSpace(task.Text) == "" {
		return PreviewTask{}, false
	}
	task.Text = strings.TrimSpace(task.Text)

	task.Date = parseTaskwarriorDate(tw.Due, loc)

	return task, true
}

// mapTaskwarriorPriority converts H/M/L; anything else is medium.
func mapTaskwarriorPriority(priority string) storage.Priority {
	switch strings.ToUpper(strings.TrimSpace(priority)) {
	case "H":
		return storage.PriorityHigh
	case "L":
		return storage.PriorityLow
	default:
		return storage.PriorityMedium
	}
}

// parseTaskwarriorDate returns the date-key in loc of a timestamp such as
// 20140928T211124Z, or "" when it cannot be parsed.
func parseTaskwarriorDate(dateStr string, loc *time.Location) string {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return ""
	}

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			if format == "2006-01-02" {
				return dateStr
			}
			return datekey.In(t, loc)
		}
	}

	return ""
}
