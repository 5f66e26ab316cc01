package analytics

import (
	"math"
	"sort"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
)

const (
	habitStreakCeiling = 30.0   // days
	focusCeiling       = 1000.0 // minutes
)

// Compute derives the summary as of now. Day boundaries for the weekly
// breakdown are taken in now's location.
func Compute(tasks []storage.Task, habitList []storage.Habit, sessions []storage.PomodoroSession, now time.Time) Summary {
	s := Summary{
		Tasks:       taskStats(tasks, now),
		Focus:       focusStats(sessions, now),
		Habits:      habitStats(habitList),
		Categories:  categoryStats(tasks),
		Week:        weekStats(tasks, habitList, sessions, now),
		GeneratedAt: now,
	}
	s.Score = Score(s.Tasks.CompletionRate, s.Habits.AvgStreak, s.Focus.TotalMinutes)
	s.Achievements = achievements(s)
	return s
}

func taskStats(tasks []storage.Task, now time.Time) TaskStats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	st := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if !t.Completed {
			st.Pending++
			continue
		}
		st.Completed++
		if t.CompletedAt == nil {
			continue
		}
		if !t.CompletedAt.Before(weekAgo) {
			st.CompletedWeek++
		}
		if !t.CompletedAt.Before(monthAgo) {
			st.CompletedMonth++
		}
	}
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	return st
}

func focusStats(sessions []storage.PomodoroSession, now time.Time) FocusStats {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var st FocusStats
	for _, s := range sessions {
		if !s.Completed {
			continue
		}
		st.Sessions++
		if s.Type == storage.PhaseWork {
			st.TotalMinutes += s.Duration
		}
		if !s.StartTime.Before(weekAgo) {
			st.SessionsWeek++
		}
	}
	return st
}

func habitStats(list []storage.Habit) HabitStats {
	st := HabitStats{Total: len(list)}
	sum := 0
	for _, h := range list {
		if len(h.CompletedDates) == 0 {
			continue
		}
		st.Active++
		sum += h.CurrentStreak
	}
	if st.Active > 0 {
		st.AvgStreak = float64(sum) / float64(st.Active)
	}
	return st
}

// Score averages task completion rate, habit consistency (average streak
// against a 30-day ceiling) and focus consistency (minutes against a
// 1000-minute ceiling). Each part is capped at 100.
func Score(taskRate, avgStreak float64, focusMinutes int) int {
	habit := math.Min(avgStreak/habitStreakCeiling*100, 100)
	focus := math.Min(float64(focusMinutes)/focusCeiling*100, 100)
	task := math.Min(math.Max(taskRate, 0), 100)
	return int(math.Round((task + habit + focus) / 3))
}

// categoryStats groups by display name. Two categories with different ids
// and the same name are merged; the color of the first one seen wins.
func categoryStats(tasks []storage.Task) []CategoryStat {
	byName := make(map[string]*CategoryStat)
	var order []string
	for _, t := range tasks {
		name := t.Category.Name
		st, ok := byName[name]
		if !ok {
			st = &CategoryStat{Name: name, Color: t.Category.Color}
			byName[name] = st
			order = append(order, name)
		}
		st.Total++
		if t.Completed {
			st.Completed++
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func weekStats(tasks []storage.Task, habitList []storage.Habit, sessions []storage.PomodoroSession, now time.Time) []DayStat {
	loc := now.Location()
	today := datekey.Key(now)

	days := make([]DayStat, 7)
	index := make(map[string]int, 7)
	for i := range days {
		key := datekey.AddDays(today, i-6)
		t, _ := datekey.Parse(key)
		days[i] = DayStat{Date: key, DayOfWeek: t.Weekday().String()[:3]}
		index[key] = i
	}

	for _, t := range tasks {
		if t.Completed && t.CompletedAt != nil {
			if i, ok := index[datekey.In(*t.CompletedAt, loc)]; ok {
				days[i].TasksCompleted++
			}
		}
	}
	for _, s := range sessions {
		if s.Completed && s.Type == storage.PhaseWork {
			if i, ok := index[datekey.In(s.StartTime, loc)]; ok {
				days[i].FocusMinutes += s.Duration
			}
		}
	}
	for _, h := range habitList {
		for i := range days {
			if habits.IsCompletedOn(h, days[i].Date) {
				days[i].HabitsDone++
			}
		}
	}
	return days
}

func achievements(s Summary) []Achievement {
	return []Achievement{
		{
			ID:          "task-master",
			Name:        "Task Master",
			Description: "Complete 100 tasks",
			Icon:        "🏆",
			Progress:    s.Tasks.Completed,
			Target:      100,
		},
		{
			ID:          "focus-warrior",
			Name:        "Focus Warrior",
			Description: "Complete 50 pomodoro sessions",
			Icon:        "⚡",
			Progress:    s.Focus.Sessions,
			Target:      50,
		},
		{
			ID:          "habit-builder",
			Name:        "Habit Builder",
			Description: "Maintain 7-day habit streak",
			Icon:        "🔥",
			Progress:    int(math.Round(s.Habits.AvgStreak)),
			Target:      7,
		},
		{
			ID:          "productivity-master",
			Name:        "Productivity Master",
			Description: "Reach 90% productivity score",
			Icon:        "🎯",
			Progress:    s.Score,
			Target:      90,
		},
	}
}
