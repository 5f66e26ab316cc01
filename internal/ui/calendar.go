// Package ui is the terminal dashboard.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dailyfocus/internal/app"
	"dailyfocus/internal/calendar"
	"dailyfocus/internal/config"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

// calendarCellWidth is the width of one day column.
const calendarCellWidth = 5

// calendarGridTop is the first week row inside the pane: border, title and
// its margin, separator, month title, day names.
const calendarGridTop = 6

// CalendarPane shows a month grid with per-day task counts.
type CalendarPane struct {
	grid     calendar.Grid
	selected string
	today    string
	counts   map[string]int
	done     map[string]int
	habits   []storage.Habit
	focused  bool
	width    int
	height   int
	styles   *Styles
	keys     CalendarKeyMap
}

// NewCalendarPane creates a calendar pane with custom key bindings.
func NewCalendarPane(styles *Styles, keyCfg *config.KeysConfig) *CalendarPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &CalendarPane{
		counts: map[string]int{},
		done:   map[string]int{},
		styles: styles,
		keys:   NewCalendarKeyMap(keyCfg),
	}
}

// SetState refreshes the per-day counts. The first call selects today.
func (p *CalendarPane) SetState(s app.State, today string) {
	p.habits = s.Habits
	p.counts = tasks.CountByDate(s.Tasks)
	p.done = make(map[string]int)
	for _, t := range s.Tasks {
		if t.Completed && t.Date != "" {
			p.done[t.Date]++
		}
	}
	p.today = today
	if p.selected == "" {
		p.Select(today)
	}
}

// Select moves the selection to date and shows its month.
func (p *CalendarPane) Select(date string) {
	t, err := datekey.Parse(date)
	if err != nil {
		return
	}
	p.selected = date
	if !p.grid.Contains(date) {
		p.grid = calendar.Build(t.Year(), t.Month())
	}
}

// Selected returns the selected date-key.
func (p *CalendarPane) Selected() string {
	return p.selected
}

// Grid returns the month being shown.
func (p *CalendarPane) Grid() calendar.Grid {
	return p.grid
}

// SetSize sets the pane dimensions.
func (p *CalendarPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *CalendarPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *CalendarPane) IsFocused() bool {
	return p.focused
}

// Update handles messages for the calendar pane.
func (p *CalendarPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused || p.selected == "" {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Left):
			p.Select(datekey.AddDays(p.selected, -1))
		case key.Matches(msg, p.keys.Right):
			p.Select(datekey.AddDays(p.selected, 1))
		case key.Matches(msg, p.keys.Up):
			p.Select(datekey.AddDays(p.selected, -7))
		case key.Matches(msg, p.keys.Down):
			p.Select(datekey.AddDays(p.selected, 7))
		case key.Matches(msg, p.keys.PrevMonth):
			p.moveMonth(-1)
		case key.Matches(msg, p.keys.NextMonth):
			p.moveMonth(1)
		case key.Matches(msg, p.keys.Today):
			p.Select(p.today)
		case key.Matches(msg, p.keys.Select):
			return p.selectCmd()
		}
	}
	return nil
}

// moveMonth keeps the day of month, clamped to the target month's length.
func (p *CalendarPane) moveMonth(delta int) {
	t, err := datekey.Parse(p.selected)
	if err != nil {
		return
	}
	year, month := calendar.Navigate(t.Year(), t.Month(), delta)
	day := min(t.Day(), calendar.DaysIn(year, month))
	p.Select(datekey.FromDate(year, month, day))
}

func (p *CalendarPane) selectCmd() tea.Cmd {
	date := p.selected
	return func() tea.Msg {
		return dateSelectedMsg{date: date}
	}
}

// handleMouse selects the clicked day. A second click on the selected day
// opens it.
func (p *CalendarPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
		return nil
	}
	row := msg.Y - calendarGridTop
	col := (msg.X - 2) / calendarCellWidth
	weeks := p.grid.Weeks()
	if row < 0 || row >= len(weeks) || col < 0 || col >= len(weeks[row]) {
		return nil
	}
	cell := weeks[row][col]
	if cell.Blank() {
		return nil
	}
	if cell.Key == p.selected {
		return p.selectCmd()
	}
	p.selected = cell.Key
	return nil
}

// View renders the calendar pane.
func (p *CalendarPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📅 CALENDAR"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 7 * calendarCellWidth
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	b.WriteString(p.styles.StatValueStyle.Render(centre(p.grid.Title(), 7*calendarCellWidth)))
	b.WriteString("\n")

	var header strings.Builder
	for _, name := range calendar.DayNames {
		header.WriteString(fmt.Sprintf("%*s", calendarCellWidth, name))
	}
	b.WriteString(p.styles.CalendarHeaderStyle.Render(header.String()))
	b.WriteString("\n")

	for _, week := range p.grid.Weeks() {
		for _, cell := range week {
			b.WriteString(p.renderCell(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderDaySummary())

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *CalendarPane) renderCell(cell calendar.Cell) string {
	if cell.Blank() {
		return strings.Repeat(" ", calendarCellWidth)
	}

	marker := " "
	if p.counts[cell.Key] > 0 {
		marker = p.styles.CalendarBusyStyle.Render("•")
	}
	day := fmt.Sprintf("%3d", cell.Day)

	switch {
	case cell.Key == p.selected:
		day = p.styles.CalendarSelectedStyle.Render(day)
	case cell.Key == p.today:
		day = p.styles.CalendarTodayStyle.Render(day)
	}
	return " " + day + marker
}

func (p *CalendarPane) renderDaySummary() string {
	var b strings.Builder

	label := p.selected
	if p.selected == p.today {
		label += " (today)"
	}
	b.WriteString("  " + p.styles.StatValueStyle.Render(label))
	b.WriteString("\n")

	total := p.counts[p.selected]
	if total == 0 {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("No tasks"))
	} else {
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d tasks done", p.done[p.selected], total)))
	}
	b.WriteString("\n")

	if len(p.habits) > 0 {
		done := 0
		for _, h := range p.habits {
			for _, d := range h.CompletedDates {
				if d == p.selected {
					done++
					break
				}
			}
		}
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d habits done", done, len(p.habits))))
		b.WriteString("\n")
	}

	b.WriteString("  " + p.styles.HelpStyle.Render("enter: show tasks for this day"))
	b.WriteString("\n")
	return b.String()
}

// centre pads s to width with s in the middle.
func centre(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
