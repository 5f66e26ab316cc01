package habits

import (
	"errors"
	"fmt"

	"dailyfocus/internal/storage"
)

// ErrHabitNotFound is returned when no habit has the given id.
var ErrHabitNotFound = errors.New("habit not found")

// Find returns the habit with the given id.
func Find(list []storage.Habit, id string) (storage.Habit, bool) {
	for _, h := range list {
		if h.ID == id {
			return h, true
		}
	}
	return storage.Habit{}, false
}

// Replace applies fn to the habit with the given id and returns a new list
// holding the result.
func Replace(list []storage.Habit, id string, fn func(storage.Habit) (storage.Habit, error)) ([]storage.Habit, storage.Habit, error) {
	for i := range list {
		if list[i].ID != id {
			continue
		}
		h, err := fn(list[i])
		if err != nil {
			return list, list[i], err
		}
		out := make([]storage.Habit, len(list))
		copy(out, list)
		out[i] = h
		return out, h, nil
	}
	return list, storage.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
}
