package storage

import "time"

// Priority represents task priority levels
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every level from most to least pressing.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting: urgent=0 < high=1 < medium=2 < low=3.
// Unknown values sort after low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Valid reports whether p is one of the four known levels.
func (p Priority) Valid() bool {
	return p.Rank() < 4
}

// Category groups tasks. Tasks embed a copy, not a reference.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Task represents a single todo item
type Task struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Description   string     `json:"description,omitempty"`
	Completed     bool       `json:"completed"`
	Date          string     `json:"date,omitempty"` // YYYY-MM-DD
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Category      Category   `json:"category"`
	Priority      Priority   `json:"priority"`
	Tags          []string   `json:"tags,omitempty"`
	EstimatedTime int        `json:"estimatedTime,omitempty"` // minutes
	ActualTime    int        `json:"actualTime,omitempty"`    // minutes
	Position      int64      `json:"position"`                // manual order, lower first
}

// Habit is a daily habit with its completion history.
type Habit struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	Icon           string    `json:"icon"`
	Target         int       `json:"target"`
	CurrentStreak  int       `json:"currentStreak"`
	LongestStreak  int       `json:"longestStreak"`
	CompletedDates []string  `json:"completedDates"` // sorted, unique YYYY-MM-DD
	CreatedAt      time.Time `json:"createdAt"`
}

// Phase is a pomodoro phase.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short-break"
	PhaseLongBreak  Phase = "long-break"
)

// PomodoroSession records one run of the pomodoro timer.
type PomodoroSession struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId,omitempty"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int        `json:"duration"` // minutes
	Type      Phase      `json:"type"`
	Completed bool       `json:"completed"`
}
