package app

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// ErrPersist wraps write failures. The in-memory state is still updated.
var ErrPersist = errors.New("save failed")

type snapshot struct {
	state State
	label string
}

// Controller owns the State. It is safe for concurrent use.
type Controller struct {
	store *storage.Storage
	log   *zap.Logger
	env   Env

	mu        sync.Mutex
	state     State
	undoStack []snapshot
	redoStack []snapshot
	subs      map[int]func(State)
	nextSub   int
}

// New returns a controller over an initial state without reading storage.
// store may be nil for an in-memory controller.
func New(store *storage.Storage, initial State, env Env, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		store: store,
		log:   log,
		env:   env.withDefaults(),
		state: initial,
		subs:  make(map[int]func(State)),
	}
}

// Load reads every collection, seeds the default categories when none are
// stored, and refreshes habit streaks for today.
func Load(store *storage.Storage, env Env, log *zap.Logger) (*Controller, error) {
	var (
		s   State
		err error
	)
	if s.Tasks, err = store.LoadTasks(); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if s.Categories, err = store.LoadCategories(); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if s.Habits, err = store.LoadHabits(); err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	if s.Sessions, err = store.LoadSessions(); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	c := New(store, s, env, log)
	today := c.env.Today()

	seeded := len(s.Categories) == 0
	c.state.Categories = tasks.EnsureDefaults(s.Categories)
	c.state.Tasks = normalizeTasks(s.Tasks)

	refreshed := make([]storage.Habit, len(s.Habits))
	for i, h := range s.Habits {
		refreshed[i] = habits.Recompute(habits.Normalize(h), today)
	}
	c.state.Habits = refreshed

	if seeded {
		if err := store.SaveCategories(c.state.Categories); err != nil {
			c.log.Warn("seed default categories", zap.Error(err))
		}
	}

	c.log.Info("state loaded",
		zap.Int("tasks", len(c.state.Tasks)),
		zap.Int("categories", len(c.state.Categories)),
		zap.Int("habits", len(c.state.Habits)),
		zap.Int("sessions", len(c.state.Sessions)),
		zap.String("today", today),
	)
	return c, nil
}

// normalizeTasks fills fields older data may lack.
func normalizeTasks(list []storage.Task) []storage.Task {
	out := make([]storage.Task, len(list))
	for i, t := range list {
		if t.Priority == "" {
			t.Priority = storage.PriorityMedium
		}
		out[i] = t
	}
	return out
}

// State returns the current state. Callers must not modify its slices.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Env returns the controller's environment.
func (c *Controller) Env() Env {
	return c.env
}

// Dispatch reduces a into the state, persists the changed collections and
// records undo history. A validation error leaves everything untouched; a
// write failure is returned wrapped in ErrPersist after the state changed.
func (c *Controller) Dispatch(a Action) error {
	c.mu.Lock()
	prev := c.state
	next, err := Reduce(prev, a, c.env)
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("action rejected", zap.String("action", a.Describe()), zap.Error(err))
		return err
	}

	c.state = next
	if _, ok := a.(RefreshDay); !ok {
		c.pushUndo(snapshot{state: prev, label: a.Describe()})
		c.redoStack = c.redoStack[:0]
	}
	perr := c.persist(a.Keys())
	subs := c.subscribers()
	c.mu.Unlock()

	c.log.Debug("action applied", zap.String("action", a.Describe()))
	notify(subs, next)
	return perr
}

// Undo restores the state before the most recent action and returns its
// label. ok is false when there is nothing to undo.
func (c *Controller) Undo() (label string, ok bool, err error) {
	return c.travel(&c.undoStack, &c.redoStack)
}

// Redo reapplies the most recently undone action.
func (c *Controller) Redo() (label string, ok bool, err error) {
	return c.travel(&c.redoStack, &c.undoStack)
}

func (c *Controller) travel(from, to *[]snapshot) (string, bool, error) {
	c.mu.Lock()
	if len(*from) == 0 {
		c.mu.Unlock()
		return "", false, nil
	}
	entry := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	*to = append(*to, snapshot{state: c.state, label: entry.label})

	c.state = entry.state
	err := c.persist(storage.Keys)
	subs := c.subscribers()
	state := c.state
	c.mu.Unlock()

	notify(subs, state)
	return entry.label, true, err
}

// CanUndo reports whether there is history to undo.
func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.undoStack) > 0
}

// CanRedo reports whether there is history to redo.
func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.redoStack) > 0
}

// Replace swaps in a state read from elsewhere (e.g. after a restore) and
// clears history.
func (c *Controller) Replace(s State) {
	c.mu.Lock()
	c.state = s
	c.undoStack = nil
	c.redoStack = nil
	subs := c.subscribers()
	c.mu.Unlock()
	notify(subs, s)
}

// Subscribe registers fn to run after every state change. The returned
// function removes it.
func (c *Controller) Subscribe(fn func(State)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) pushUndo(s snapshot) {
	if len(c.undoStack) >= maxHistorySize {
		c.undoStack = c.undoStack[1:]
	}
	c.undoStack = append(c.undoStack, s)
}

func (c *Controller) subscribers() []func(State) {
	out := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s)
	}
}

// persist writes the named collections. Called with mu held.
func (c *Controller) persist(keys []string) error {
	if c.store == nil {
		return nil
	}
	var errs []error
	for _, key := range keys {
		var err error
		switch key {
		case storage.KeyTasks:
			err = c.store.SaveTasks(c.state.Tasks)
		case storage.KeyCategories:
			err = c.store.SaveCategories(c.state.Categories)
		case storage.KeyHabits:
			err = c.store.SaveHabits(c.state.Habits)
		case storage.KeySessions:
			err = c.store.SaveSessions(c.state.Sessions)
		}
		if err != nil {
			c.log.Error("persist collection", zap.String("key", key), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}
