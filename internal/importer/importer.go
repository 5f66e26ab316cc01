// Package importer migrates tasks from other productivity tools like
// Todoist and Taskwarrior.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"dailyfocus/internal/app"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
	"dailyfocus/internal/validation"
)

// Result contains statistics about an import operation.
type Result struct {
	Imported          int      // Number of successfully imported tasks
	Skipped           int      // Tasks already present (same text and date)
	CategoriesCreated int      // Categories created for unknown projects
	Errors            []string // Error messages for rejected tasks
}

// PreviewTask is a parsed task before import.
type PreviewTask struct {
	Text     string
	Project  string
	Priority storage.Priority
	Date     string // date-key, "" when undated
	Tags     []string
	Done     bool
}

// Importer parses one external format.
type Importer interface {
	// Preview reads tasks from the reader without importing.
	Preview(reader io.Reader) ([]PreviewTask, error)

	// Name returns the importer name (e.g., "todoist", "taskwarrior").
	Name() string
}

// GetImporter returns the importer for format. Due dates are converted to
// date-keys in loc.
func GetImporter(format string, loc *time.Location) Importer {
	if loc == nil {
		loc = time.Local
	}
	switch format {
	case "todoist":
		return &TodoistImporter{Loc: loc}
	case "taskwarrior":
		return &TaskwarriorImporter{Loc: loc}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// categoryColors are assigned in turn to categories created for projects.
var categoryColors = []string{"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1", "#14B8A6"}

// Import adds items through the controller as a single undoable step. Items
// that fail validation are reported in Result.Errors and left out; the
// rest are committed together.
func Import(ctrl *app.Controller, items []PreviewTask) (*Result, error) {
	result := &Result{}
	state := ctrl.State()
	env := ctrl.Env()

	seen := make(map[string]bool, len(state.Tasks))
	for _, t := range state.Tasks {
		seen[dedupeKey(t.Text, t.Date)] = true
	}

	var batch []app.Action
	for _, item := range items {
		key := dedupeKey(item.Text, item.Date)
		if seen[key] {
			result.Skipped++
			continue
		}

		actions, created := actionsFor(state, item, result.CategoriesCreated)
		next, err := app.Reduce(state, app.Batch{Actions: actions}, env)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Text, err))
			continue
		}

		state = next
		seen[key] = true
		batch = append(batch, actions...)
		result.Imported++
		if created {
			result.CategoriesCreated++
		}
	}

	if len(batch) == 0 {
		return result, nil
	}

	label := fmt.Sprintf("import %d tasks", result.Imported)
	if err := ctrl.Dispatch(app.Batch{Label: label, Actions: batch}); err != nil {
		if errors.Is(err, app.ErrPersist) {
			return result, err
		}
		return nil, err
	}
	return result, nil
}

// actionsFor builds the actions importing item, creating its project as a
// category when no category of that name exists.
func actionsFor(state app.State, item PreviewTask, createdSoFar int) ([]app.Action, bool) {
	add := app.AddTask{
		Input: tasks.NewTask{
			Text:     item.Text,
			Date:     item.Date,
			Priority: item.Priority,
			Tags:     item.Tags,
		},
		Completed: item.Done,
	}

	project := validation.SanitizeLine(item.Project)
	if project == "" {
		return []app.Action{add}, false
	}
	add.Category = project
	if _, ok := tasks.FindCategory(state.Categories, project); ok {
		return []app.Action{add}, false
	}

	create := app.AddCategory{Input: tasks.NewCategory{
		Name:  project,
		Color: categoryColors[createdSoFar%len(categoryColors)],
	}}
	return []app.Action{create, add}, true
}

func dedupeKey(text, date string) string {
	return strings.ToLower(strings.TrimSpace(text)) + "\x00" + date
}
