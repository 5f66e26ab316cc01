// Package ui is the terminal dashboard.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dailyfocus/internal/analytics"
	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
)

// StatsPane shows the analytics summary.
type StatsPane struct {
	ctrl    *app.Controller
	summary analytics.Summary
	offset  int // first visible line
	focused bool
	width   int
	height  int
	styles  *Styles
	keys    NavigationKeyMap
}

// NewStatsPane creates a stats pane with custom key bindings.
func NewStatsPane(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *StatsPane {
	return &StatsPane{
		ctrl:   ctrl,
		styles: styles,
		keys:   NewNavigationKeyMap(keyCfg),
	}
}

// SetState recomputes the summary.
func (p *StatsPane) SetState(s app.State, _ string) {
	env := p.ctrl.Env()
	p.summary = analytics.Compute(s.Tasks, s.Habits, s.Sessions, env.Now().In(env.Loc))
}

// Summary returns the last computed summary.
func (p *StatsPane) Summary() analytics.Summary {
	return p.summary
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *StatsPane) IsFocused() bool {
	return p.focused
}

// Update scrolls the summary.
func (p *StatsPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.offset = max(p.offset-1, 0)
		case tea.MouseButtonWheelDown:
			p.offset++
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Up):
			p.offset = max(p.offset-1, 0)
		case key.Matches(msg, p.keys.Down):
			p.offset++
		case key.Matches(msg, p.keys.Top):
			p.offset = 0
		case key.Matches(msg, p.keys.Bottom):
			p.offset = 1 << 30
		}
	}
	return nil
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	lines := strings.Split(strings.TrimRight(p.body(sepWidth), "\n"), "\n")
	visible := p.height - 5
	if visible < 3 {
		visible = len(lines)
	}
	maxOffset := max(0, len(lines)-visible)
	if p.offset > maxOffset {
		p.offset = maxOffset
	}
	end := min(len(lines), p.offset+visible)
	b.WriteString(strings.Join(lines[p.offset:end], "\n"))
	b.WriteString("\n")

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *StatsPane) body(width int) string {
	s := p.summary
	var b strings.Builder

	label := p.styles.StatLabelStyle.Render
	value := p.styles.StatValueStyle.Render

	b.WriteString("  " + label("Productivity score: ") + p.scoreStyle(s.Score).Render(fmt.Sprintf("%d/100", s.Score)))
	b.WriteString("\n\n")

	b.WriteString("  " + value("Tasks") + "\n")
	b.WriteString(fmt.Sprintf("    %s %s\n", label("Completed:"), value(fmt.Sprintf("%d/%d (%.0f%%)", s.Tasks.Completed, s.Tasks.Total, s.Tasks.CompletionRate))))
	b.WriteString(fmt.Sprintf("    %s %s\n", label("This week:"), value(fmt.Sprintf("%d", s.Tasks.CompletedWeek))))
	b.WriteString(fmt.Sprintf("    %s %s\n", label("This month:"), value(fmt.Sprintf("%d", s.Tasks.CompletedMonth))))
	b.WriteString("\n")

	b.WriteString("  " + value("Focus") + "\n")
	b.WriteString(fmt.Sprintf("    %s %s\n", label("Total:"), value(analytics.FormatMinutes(s.Focus.TotalMinutes))))
	b.WriteString(fmt.Sprintf("    %s %s\n", label("Sessions:"), value(fmt.Sprintf("%d (%d this week)", s.Focus.Sessions, s.Focus.SessionsWeek))))
	b.WriteString("\n")

	b.WriteString("  " + value("Habits") + "\n")
	b.WriteString(fmt.Sprintf("    %s %s\n", label("Active:"), value(fmt.Sprintf("%d/%d", s.Habits.Active, s.Habits.Total))))
	b.WriteString(fmt.Sprintf("    %s %s\n", label("Avg streak:"), value(fmt.Sprintf("%.1f days", s.Habits.AvgStreak))))
	b.WriteString("\n")

	if len(s.Week) > 0 {
		b.WriteString("  " + value("Last 7 days") + "\n")
		b.WriteString(p.renderWeek(width))
		b.WriteString("\n")
	}

	if len(s.Categories) > 0 {
		b.WriteString("  " + value("Categories") + "\n")
		for _, c := range s.Categories {
			name := runewidth.FillRight(runewidth.Truncate(c.Name, 12, ".."), 12)
			b.WriteString(fmt.Sprintf("    %s %s %s\n", p.styles.Swatch(c.Color), name, label(fmt.Sprintf("%d/%d", c.Completed, c.Total))))
		}
		b.WriteString("\n")
	}

	b.WriteString("  " + value("Achievements") + "\n")
	for _, a := range s.Achievements {
		if a.Unlocked() {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", a.Icon, value(a.Name), label(a.Description)))
			continue
		}
		b.WriteString(fmt.Sprintf("    🔒 %s %s\n", label(a.Name), label(fmt.Sprintf("%d%% (%d/%d)", a.Percent(), a.Progress, a.Target))))
	}

	return b.String()
}

// renderWeek draws one bar per day scaled to the busiest day.
func (p *StatsPane) renderWeek(width int) string {
	peak := 1
	for _, d := range p.summary.Week {
		peak = max(peak, d.TasksCompleted)
	}
	barWidth := max(5, min(width-24, 20))

	var b strings.Builder
	for _, d := range p.summary.Week {
		n := d.TasksCompleted * barWidth / peak
		bar := p.styles.FocusBreakStyle.Render(strings.Repeat("█", n)) +
			p.styles.StatLabelStyle.Render(strings.Repeat("░", barWidth-n))
		day := d.DayOfWeek
		if len(day) > 3 {
			day = day[:3]
		}
		b.WriteString(fmt.Sprintf("    %s %s %d", p.styles.StatLabelStyle.Render(day), bar, d.TasksCompleted))
		if d.FocusMinutes > 0 {
			b.WriteString(p.styles.StatLabelStyle.Render(" · " + analytics.FormatMinutes(d.FocusMinutes)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (p *StatsPane) scoreStyle(score int) lipgloss.Style {
	switch analytics.ScoreGrade(score) {
	case "great":
		return p.styles.FocusBreakStyle
	case "good":
		return p.styles.StatValueStyle
	case "fair":
		return p.styles.FocusPausedStyle
	default:
		return p.styles.ErrorStyle
	}
}
