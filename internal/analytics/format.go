package analytics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatMinutes renders minutes as "1h 5m" or "45m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// ScoreGrade buckets a score for coloring: "great" (80+), "good" (60+),
// "fair" (40+) or "low".
func ScoreGrade(score int) string {
	switch {
	case score >= 80:
		return "great"
	case score >= 60:
		return "good"
	case score >= 40:
		return "fair"
	default:
		return "low"
	}
}

// FormatJSON formats a summary as indented JSON.
func FormatJSON(s Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// FormatText renders a summary for the terminal.
func FormatText(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Productivity score: %d/100\n\n", s.Score)

	b.WriteString("Tasks\n")
	fmt.Fprintf(&b, "  %d of %d completed (%.0f%%)\n", s.Tasks.Completed, s.Tasks.Total, s.Tasks.CompletionRate)
	fmt.Fprintf(&b, "  %d this week, %d this month\n\n", s.Tasks.CompletedWeek, s.Tasks.CompletedMonth)

	b.WriteString("Focus\n")
	fmt.Fprintf(&b, "  %s focused over %d sessions\n", FormatMinutes(s.Focus.TotalMinutes), s.Focus.Sessions)
	fmt.Fprintf(&b, "  %d sessions this week\n\n", s.Focus.SessionsWeek)

	b.WriteString("Habits\n")
	fmt.Fprintf(&b, "  %d of %d active, average streak %.1f days\n", s.Habits.Active, s.Habits.Total, s.Habits.AvgStreak)

	if len(s.Categories) > 0 {
		b.WriteString("\nCategories\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "  %-12s %d/%d\n", c.Name, c.Completed, c.Total)
		}
	}

	if len(s.Week) > 0 {
		b.WriteString("\nLast 7 days\n")
		for _, d := range s.Week {
			fmt.Fprintf(&b, "  %s %s  tasks %d  focus %s  habits %d\n",
				d.DayOfWeek, d.Date, d.TasksCompleted, FormatMinutes(d.FocusMinutes), d.HabitsDone)
		}
	}

	b.WriteString("\nAchievements\n")
	for _, a := range s.Achievements {
		mark := " "
		if a.Unlocked() {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s %s: %s (%d/%d)\n", mark, a.Icon, a.Name, a.Description, a.Progress, a.Target)
	}

	return b.String()
}
