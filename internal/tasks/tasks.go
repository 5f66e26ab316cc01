// Package tasks implements filtering, ordering and CRUD over the task and
// category collections. Functions take a collection and return a new one;
// nothing is modified in place.
package tasks

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dailyfocus/internal/storage"
	"dailyfocus/internal/validation"
)

var (
	// ErrTaskNotFound is returned when no task has the given id.
	ErrTaskNotFound = errors.New("task not found")
	// ErrCategoryNotFound is returned when no category has the given id.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDefaultCategory is returned when deleting a seeded category.
	ErrDefaultCategory = errors.New("default categories cannot be deleted")
)

// NewTask is the input for Add.
type NewTask struct {
	Text          string           `json:"text" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=1000"`
	Date          string           `json:"date" validate:"omitempty,datekey"`
	Priority      storage.Priority `json:"priority" validate:"priority"`
	Tags          []string         `json:"tags" validate:"max=10,dive,max=30"`
	EstimatedTime int              `json:"estimatedTime" validate:"gte=0"`
}

// Edit changes a task. Nil fields are left alone.
type Edit struct {
	Text          *string
	Description   *string
	Date          *string // "" clears the date
	Priority      *storage.Priority
	Category      *storage.Category
	Tags          *[]string
	EstimatedTime *int
	ActualTime    *int
}

// Add validates in and appends a new incomplete task. The task is placed
// above every existing one in manual order.
func Add(list []storage.Task, in NewTask, category storage.Category, id string, now time.Time) ([]storage.Task, storage.Task, error) {
	in = sanitize(in)
	if in.Priority == "" {
		in.Priority = storage.PriorityMedium
	}
	if err := validation.Struct(in); err != nil {
		return list, storage.Task{}, err
	}

	task := storage.Task{
		ID:            id,
		Text:          in.Text,
		Description:   in.Description,
		Date:          in.Date,
		CreatedAt:     now,
		Category:      category,
		Priority:      in.Priority,
		Tags:          in.Tags,
		EstimatedTime: in.EstimatedTime,
		Position:      topPosition(list),
	}

	out := make([]storage.Task, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, task)
	return out, task, nil
}

func sanitize(in NewTask) NewTask {
	in.Text = validation.SanitizeLine(in.Text)
	in.Description = validation.SanitizeText(in.Description)
	in.Date = strings.TrimSpace(in.Date)
	in.Tags = normalizeTags(in.Tags)
	return in
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimPrefix(validation.SanitizeLine(tag), "#")
		if tag == "" || seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func topPosition(list []storage.Task) int64 {
	min := int64(0)
	for _, t := range list {
		if t.Position < min {
			min = t.Position
		}
	}
	return min - 1
}

// Toggle flips completion. CompletedAt is set exactly on false→true and
// cleared on true→false.
func Toggle(list []storage.Task, id string, now time.Time) ([]storage.Task, storage.Task, error) {
	return update(list, id, func(t *storage.Task) error {
		t.Completed = !t.Completed
		if t.Completed {
			at := now
			t.CompletedAt = &at
		} else {
			t.CompletedAt = nil
		}
		return nil
	})
}

// Update applies e to the task with the given id.
func Update(list []storage.Task, id string, e Edit) ([]storage.Task, storage.Task, error) {
	return update(list, id, func(t *storage.Task) error {
		in := NewTask{
			Text:          t.Text,
			Description:   t.Description,
			Date:          t.Date,
			Priority:      t.Priority,
			Tags:          t.Tags,
			EstimatedTime: t.EstimatedTime,
		}
		if e.Text != nil {
			in.Text = *e.Text
		}
		if e.Description != nil {
			in.Description = *e.Description
		}
		if e.Date != nil {
			in.Date = *e.Date
		}
		if e.Priority != nil {
			in.Priority = *e.Priority
		}
		if e.Tags != nil {
			in.Tags = *e.Tags
		}
		if e.EstimatedTime != nil {
			in.EstimatedTime = *e.EstimatedTime
		}
		in = sanitize(in)
		if err := validation.Struct(in); err != nil {
			return err
		}
		if e.ActualTime != nil && *e.ActualTime < 0 {
			return fmt.Errorf("actualTime must be at least 0")
		}

		t.Text, t.Description, t.Date = in.Text, in.Description, in.Date
		t.Priority, t.Tags, t.EstimatedTime = in.Priority, in.Tags, in.EstimatedTime
		if e.Category != nil {
			t.Category = *e.Category
		}
		if e.ActualTime != nil {
			t.ActualTime = *e.ActualTime
		}
		return nil
	})
}

// Delete removes the task with the given id.
func Delete(list []storage.Task, id string) ([]storage.Task, storage.Task, error) {
	for i := range list {
		if list[i].ID == id {
			out := make([]storage.Task, 0, len(list)-1)
			out = append(out, list[:i]...)
			out = append(out, list[i+1:]...)
			return out, list[i], nil
		}
	}
	return list, storage.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Find returns the task with the given id.
func Find(list []storage.Task, id string) (storage.Task, bool) {
	for _, t := range list {
		if t.ID == id {
			return t, true
		}
	}
	return storage.Task{}, false
}

func update(list []storage.Task, id string, fn func(*storage.Task) error) ([]storage.Task, storage.Task, error) {
	for i := range list {
		if list[i].ID != id {
			continue
		}
		t := cloneTask(list[i])
		if err := fn(&t); err != nil {
			return list, list[i], err
		}
		out := make([]storage.Task, len(list))
		copy(out, list)
		out[i] = t
		return out, t, nil
	}
	return list, storage.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

func cloneTask(t storage.Task) storage.Task {
	if t.Tags != nil {
		t.Tags = append([]string(nil), t.Tags...)
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// Reorder puts the tasks named by orderedIDs into that order. The subset's
// existing position slots are reused, so tasks outside it keep their place
// and CreatedAt is never touched.
func Reorder(list []storage.Task, orderedIDs []string) ([]storage.Task, error) {
	index := make(map[string]int, len(list))
	for i, t := range list {
		index[t.ID] = i
	}

	slots := make([]int64, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		i, ok := index[id]
		if !ok {
			return list, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		if seen[id] {
			return list, fmt.Errorf("duplicate task in order: %s", id)
		}
		seen[id] = true
		slots = append(slots, list[i].Position)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	// Equal slots (legacy data) would not express an order; spread them.
	for i := 1; i < len(slots); i++ {
		if slots[i] <= slots[i-1] {
			slots[i] = slots[i-1] + 1
		}
	}

	out := make([]storage.Task, len(list))
	copy(out, list)
	for n, id := range orderedIDs {
		out[index[id]].Position = slots[n]
	}
	return out, nil
}

// Move shifts the task one step up (delta<0) or down (delta>0) within the
// visible list, by swapping positions with its neighbour. A neighbour with a
// different priority or completion state sorts apart regardless of position,
// so the move is a no-op there.
func Move(list []storage.Task, visible []storage.Task, id string, delta int) ([]storage.Task, error) {
	ids := make([]string, len(visible))
	at := -1
	for i, t := range visible {
		ids[i] = t.ID
		if t.ID == id {
			at = i
		}
	}
	if at < 0 {
		return list, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	to := at + delta
	if to < 0 || to >= len(ids) || !sameGroup(visible[at], visible[to]) {
		return list, nil
	}
	ids[at], ids[to] = ids[to], ids[at]
	return Reorder(list, ids)
}

func sameGroup(a, b storage.Task) bool {
	return a.Completed == b.Completed && a.Priority.Rank() == b.Priority.Rank()
}

// CountByDate returns the number of tasks per date-key.
func CountByDate(list []storage.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range list {
		if t.Date != "" {
			counts[t.Date]++
		}
	}
	return counts
}

// Progress returns the rounded percentage of completed tasks in list.
func Progress(list []storage.Task) int {
	if len(list) == 0 {
		return 0
	}
	done := 0
	for _, t := range list {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(list)) * 100))
}

// ParsePriority accepts a level name or its first letter.
func ParsePriority(s string) (storage.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urgent", "u", "!!":
		return storage.PriorityUrgent, nil
	case "high", "h", "!":
		return storage.PriorityHigh, nil
	case "medium", "med", "m", "":
		return storage.PriorityMedium, nil
	case "low", "l":
		return storage.PriorityLow, nil
	default:
		return "", fmt.Errorf("invalid priority %q: must be urgent, high, medium, or low", s)
	}
}
