package tasks

import (
	"sort"
	"strings"

	"dailyfocus/internal/storage"
)

// Filter selects tasks. Zero-valued fields match everything; set fields are
// combined with AND.
type Filter struct {
	DateKey       string
	CategoryID    string
	Query         string
	Priority      storage.Priority
	HideCompleted bool
}

// Match reports whether t passes every set criterion.
func (f Filter) Match(t storage.Task) bool {
	if f.DateKey != "" && t.Date != f.DateKey {
		return false
	}
	if f.CategoryID != "" && t.Category.ID != f.CategoryID {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.HideCompleted && t.Completed {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !matchesQuery(t, q) {
		return false
	}
	return true
}

func matchesQuery(t storage.Task, q string) bool {
	if strings.Contains(strings.ToLower(t.Text), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category.Name), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Active reports whether any criterion is set.
func (f Filter) Active() bool {
	return f != Filter{}
}

// Apply filters and sorts list.
func Apply(list []storage.Task, f Filter) []storage.Task {
	out := make([]storage.Task, 0, len(list))
	for _, t := range list {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	Sort(out)
	return out
}

// Sort orders tasks in place: incomplete first, then priority rank
// (urgent, high, medium, low), then manual position, then newest first.
func Sort(list []storage.Task) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]

		if a.Completed != b.Completed {
			return !a.Completed
		}
		if ar, br := a.Priority.Rank(), b.Priority.Rank(); ar != br {
			return ar < br
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
