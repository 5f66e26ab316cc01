package app

import (
	"fmt"

	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// Action is a state change understood by Reduce.
type Action interface {
	// Keys lists the storage entries the action may change.
	Keys() []string
	// Describe is a short label for status and undo messages.
	Describe() string
}

var (
	taskKeys     = []string{storage.KeyTasks}
	categoryKeys = []string{storage.KeyCategories}
	habitKeys    = []string{storage.KeyHabits}
)

// AddTask creates a task. Category is an id or name; empty picks the first
// category. Completed marks the new task done at once (used by imports).
type AddTask struct {
	Input     tasks.NewTask
	Category  string
	Completed bool
}

func (AddTask) Keys() []string     { return taskKeys }
func (a AddTask) Describe() string { return fmt.Sprintf("add task %q", a.Input.Text) }

// EditTask changes task fields. Category, when set, is an id or name.
type EditTask struct {
	ID       string
	Edit     tasks.Edit
	Category *string
}

func (EditTask) Keys() []string   { return taskKeys }
func (EditTask) Describe() string { return "edit task" }

// ToggleTask flips completion.
type ToggleTask struct{ ID string }

func (ToggleTask) Keys() []string   { return taskKeys }
func (ToggleTask) Describe() string { return "toggle task" }

// DeleteTask removes a task.
type DeleteTask struct{ ID string }

func (DeleteTask) Keys() []string   { return taskKeys }
func (DeleteTask) Describe() string { return "delete task" }

// ReorderTasks puts the named tasks into the given order.
type ReorderTasks struct{ IDs []string }

func (ReorderTasks) Keys() []string   { return taskKeys }
func (ReorderTasks) Describe() string { return "reorder tasks" }

// MoveTask moves a task one step within the list selected by Filter.
type MoveTask struct {
	ID     string
	Filter tasks.Filter
	Delta  int
}

func (MoveTask) Keys() []string   { return taskKeys }
func (MoveTask) Describe() string { return "move task" }

// AddCategory creates a user category.
type AddCategory struct{ Input tasks.NewCategory }

func (AddCategory) Keys() []string     { return categoryKeys }
func (a AddCategory) Describe() string { return fmt.Sprintf("add category %q", a.Input.Name) }

// UpdateCategory changes a category's display fields.
type UpdateCategory struct {
	ID    string
	Input tasks.NewCategory
}

func (UpdateCategory) Keys() []string   { return categoryKeys }
func (UpdateCategory) Describe() string { return "update category" }

// DeleteCategory removes a user category. Tasks keep their copy.
type DeleteCategory struct{ ID string }

func (DeleteCategory) Keys() []string   { return categoryKeys }
func (DeleteCategory) Describe() string { return "delete category" }

// AddHabit creates a habit.
type AddHabit struct{ Input habits.NewHabit }

func (AddHabit) Keys() []string     { return habitKeys }
func (a AddHabit) Describe() string { return fmt.Sprintf("add habit %q", a.Input.Name) }

// EditHabit changes habit metadata.
type EditHabit struct {
	ID   string
	Edit habits.Edit
}

func (EditHabit) Keys() []string   { return habitKeys }
func (EditHabit) Describe() string { return "edit habit" }

// ToggleHabit flips completion on Date (today when empty).
type ToggleHabit struct {
	ID   string
	Date string
}

func (ToggleHabit) Keys() []string   { return habitKeys }
func (ToggleHabit) Describe() string { return "toggle habit" }

// RecordSession appends a finished pomodoro session. A completed work
// session linked to a task adds its minutes to the task's actual time.
type RecordSession struct{ Session storage.PomodoroSession }

func (RecordSession) Keys() []string   { return []string{storage.KeySessions, storage.KeyTasks} }
func (RecordSession) Describe() string { return "record session" }

// RefreshDay recomputes every habit streak for today. Dispatched when the
// date rolls over; it is not recorded in undo history.
type RefreshDay struct{}

func (RefreshDay) Keys() []string   { return habitKeys }
func (RefreshDay) Describe() string { return "refresh day" }

// Batch applies actions in order as one all-or-nothing step.
type Batch struct {
	Label   string
	Actions []Action
}

func (b Batch) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, a := range b.Actions {
		for _, k := range a.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func (b Batch) Describe() string {
	if b.Label != "" {
		return b.Label
	}
	return fmt.Sprintf("%d changes", len(b.Actions))
}
