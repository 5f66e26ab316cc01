// Package app owns the application state. Every change is an Action applied
// by the pure Reduce function; the Controller serializes dispatches,
// persists the result and keeps undo history.
package app

import (
	"time"

	"github.com/google/uuid"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
)

// State is the whole persisted application state. Slices are treated as
// immutable: reducers build new slices and never write through old ones.
type State struct {
	Tasks      []storage.Task
	Categories []storage.Category
	Habits     []storage.Habit
	Sessions   []storage.PomodoroSession
}

// Env supplies the impure inputs of Reduce.
type Env struct {
	Now   func() time.Time
	Loc   *time.Location
	NewID func() string
}

// DefaultEnv uses the wall clock, the given location and random UUIDs.
func DefaultEnv(loc *time.Location) Env {
	return Env{Loc: loc}.withDefaults()
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Loc == nil {
		e.Loc = time.Local
	}
	if e.NewID == nil {
		e.NewID = uuid.NewString
	}
	return e
}

// Today returns the current date-key in the reference location.
func (e Env) Today() string {
	return datekey.In(e.Now(), e.Loc)
}
