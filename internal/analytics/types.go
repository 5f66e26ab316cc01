// Package analytics derives summary metrics from the task, habit and
// pomodoro collections. Nothing is cached: every call recomputes from the
// collections it is given.
package analytics

import "time"

// Summary is the dashboard view of all three collections.
type Summary struct {
	Tasks        TaskStats      `json:"tasks"`
	Focus        FocusStats     `json:"focus"`
	Habits       HabitStats     `json:"habits"`
	Score        int            `json:"productivity_score"`
	Categories   []CategoryStat `json:"categories"`
	Week         []DayStat      `json:"week"`
	Achievements []Achievement  `json:"achievements"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// TaskStats counts tasks overall and in trailing windows.
type TaskStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletedWeek  int     `json:"completed_week"`
	CompletedMonth int     `json:"completed_month"`
	CompletionRate float64 `json:"completion_rate"` // percent
}

// FocusStats summarizes pomodoro sessions.
type FocusStats struct {
	TotalMinutes int `json:"total_minutes"` // completed work sessions only
	Sessions     int `json:"sessions"`      // completed sessions of any phase
	SessionsWeek int `json:"sessions_week"`
}

// HabitStats summarizes habits with at least one completion.
type HabitStats struct {
	Total     int     `json:"total"`
	Active    int     `json:"active"`
	AvgStreak float64 `json:"avg_streak"`
}

// CategoryStat counts tasks per category display name.
type CategoryStat struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// DayStat is one day of the trailing week.
type DayStat struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	TasksCompleted int    `json:"tasks_completed"`
	FocusMinutes   int    `json:"focus_minutes"`
	HabitsDone     int    `json:"habits_done"`
}

// Achievement is a milestone with progress toward its target.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

// Unlocked reports whether the target has been reached.
func (a Achievement) Unlocked() bool {
	return a.Progress >= a.Target
}

// Percent returns progress toward the target, capped at 100.
func (a Achievement) Percent() int {
	if a.Target <= 0 {
		return 100
	}
	p := a.Progress * 100 / a.Target
	if p > 100 {
		return 100
	}
	return p
}
