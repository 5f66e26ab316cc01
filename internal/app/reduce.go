package app

import (
	"fmt"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// Reduce applies a to s and returns the new state. s is never modified; on
// error the returned state is s.
func Reduce(s State, a Action, env Env) (State, error) {
	env = env.withDefaults()
	next, err := reduce(s, a, env)
	if err != nil {
		return s, err
	}
	return next, nil
}

func reduce(s State, a Action, env Env) (State, error) {
	var err error

	switch a := a.(type) {
	case AddTask:
		var cat storage.Category
		if cat, err = resolveCategory(s.Categories, a.Category); err != nil {
			return s, err
		}
		var added storage.Task
		if s.Tasks, added, err = tasks.Add(s.Tasks, a.Input, cat, env.NewID(), env.Now()); err != nil {
			return s, err
		}
		if a.Completed {
			s.Tasks, _, err = tasks.Toggle(s.Tasks, added.ID, env.Now())
		}

	case EditTask:
		edit := a.Edit
		if a.Category != nil {
			cat, cerr := resolveCategory(s.Categories, *a.Category)
			if cerr != nil {
				return s, cerr
			}
			edit.Category = &cat
		}
		s.Tasks, _, err = tasks.Update(s.Tasks, a.ID, edit)

	case ToggleTask:
		s.Tasks, _, err = tasks.Toggle(s.Tasks, a.ID, env.Now())

	case DeleteTask:
		s.Tasks, _, err = tasks.Delete(s.Tasks, a.ID)

	case ReorderTasks:
		s.Tasks, err = tasks.Reorder(s.Tasks, a.IDs)

	case MoveTask:
		s.Tasks, err = tasks.Move(s.Tasks, tasks.Apply(s.Tasks, a.Filter), a.ID, a.Delta)

	case AddCategory:
		s.Categories, _, err = tasks.AddCategory(s.Categories, a.Input, env.NewID())

	case UpdateCategory:
		s.Categories, _, err = tasks.UpdateCategory(s.Categories, a.ID, a.Input)

	case DeleteCategory:
		s.Categories, _, err = tasks.DeleteCategory(s.Categories, a.ID)

	case AddHabit:
		var h storage.Habit
		if h, err = habits.New(a.Input, env.NewID(), env.Now()); err != nil {
			return s, err
		}
		s.Habits = append(append(make([]storage.Habit, 0, len(s.Habits)+1), s.Habits...), h)

	case EditHabit:
		s.Habits, _, err = habits.Replace(s.Habits, a.ID, func(h storage.Habit) (storage.Habit, error) {
			return habits.Apply(h, a.Edit)
		})

	case ToggleHabit:
		today := env.Today()
		date := a.Date
		if date == "" {
			date = today
		}
		if !datekey.Valid(date) {
			return s, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", date)
		}
		s.Habits, _, err = habits.Replace(s.Habits, a.ID, func(h storage.Habit) (storage.Habit, error) {
			return habits.ToggleCompletion(h, date, today), nil
		})

	case RecordSession:
		s, err = recordSession(s, a.Session, env)

	case RefreshDay:
		today := env.Today()
		out := make([]storage.Habit, len(s.Habits))
		for i, h := range s.Habits {
			out[i] = habits.Recompute(h, today)
		}
		s.Habits = out

	case Batch:
		for _, sub := range a.Actions {
			if s, err = reduce(s, sub, env); err != nil {
				return s, fmt.Errorf("%s: %w", sub.Describe(), err)
			}
		}

	default:
		return s, fmt.Errorf("unknown action %T", a)
	}

	return s, err
}

// resolveCategory finds ref by id or name. An empty ref picks the first
// category, or the first default when none exist yet.
func resolveCategory(list []storage.Category, ref string) (storage.Category, error) {
	if ref == "" {
		if len(list) > 0 {
			return list[0], nil
		}
		return tasks.DefaultCategories()[0], nil
	}
	if c, ok := tasks.FindCategory(list, ref); ok {
		return c, nil
	}
	return storage.Category{}, fmt.Errorf("%w: %s", tasks.ErrCategoryNotFound, ref)
}

func recordSession(s State, session storage.PomodoroSession, env Env) (State, error) {
	if session.ID == "" {
		session.ID = env.NewID()
	}
	switch session.Type {
	case storage.PhaseWork, storage.PhaseShortBreak, storage.PhaseLongBreak:
	default:
		return s, fmt.Errorf("unknown session type %q", session.Type)
	}
	if session.Duration < 0 {
		return s, fmt.Errorf("duration must be at least 0")
	}

	s.Sessions = append(append(make([]storage.PomodoroSession, 0, len(s.Sessions)+1), s.Sessions...), session)

	if !session.Completed || session.Type != storage.PhaseWork || session.TaskID == "" {
		return s, nil
	}
	t, ok := tasks.Find(s.Tasks, session.TaskID)
	if !ok {
		// The task may have been deleted while the timer ran.
		return s, nil
	}
	actual := t.ActualTime + session.Duration
	var err error
	s.Tasks, _, err = tasks.Update(s.Tasks, t.ID, tasks.Edit{ActualTime: &actual})
	return s, err
}
