// Package ui is the terminal dashboard.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/habits"
	"dailyfocus/internal/storage"
)

type habitMode int

const (
	habitBrowsing habitMode = iota
	habitAddingName
	habitAddingIcon
	habitEditingTarget
)

// HabitsPane handles habit tracking display and interactions.
type HabitsPane struct {
	ctrl    *app.Controller
	habits  []storage.Habit
	today   string
	date    string // day toggles apply to; "" means today
	cursor  int
	focused bool
	width   int
	height  int
	mode    habitMode
	input   textinput.Model
	newName string
	styles  *Styles

	// Key bindings
	keys      HabitKeyMap
	inputKeys InputKeyMap
}

// NewHabitsPane creates a habits pane with custom key bindings.
func NewHabitsPane(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *HabitsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "Habit name (e.g., Exercise)"
	ti.CharLimit = 60
	ti.Width = 30

	return &HabitsPane{
		ctrl:      ctrl,
		input:     ti,
		styles:    styles,
		keys:      NewHabitKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetState replaces the habit list and adjusts cursor bounds.
func (p *HabitsPane) SetState(s app.State, today string) {
	p.habits = s.Habits
	p.today = today
	if p.cursor >= len(p.habits) {
		p.cursor = max(0, len(p.habits)-1)
	}
}

// SetDate selects the day toggles apply to. "" or today resets to today.
func (p *HabitsPane) SetDate(date string) {
	if date == p.today {
		date = ""
	}
	p.date = date
}

// Date returns the day toggles apply to.
func (p *HabitsPane) Date() string {
	if p.date == "" {
		return p.today
	}
	return p.date
}

// SetSize sets the pane dimensions.
func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-12)
}

// SetFocused sets whether this pane is focused.
func (p *HabitsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *HabitsPane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether a text input has the keyboard.
func (p *HabitsPane) IsEditing() bool {
	return p.mode != habitBrowsing
}

// Selected returns the habit under the cursor.
func (p *HabitsPane) Selected() (storage.Habit, bool) {
	if p.cursor < 0 || p.cursor >= len(p.habits) {
		return storage.Habit{}, false
	}
	return p.habits[p.cursor], true
}

// Update handles messages for the habits pane.
func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	if p.mode != habitBrowsing {
		return p.updateInput(msg)
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.habits) > 0 {
				p.cursor = min(p.cursor+1, len(p.habits)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.habits) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			p.cursor = max(0, len(p.habits)-1)

		case key.Matches(msg, p.keys.Add):
			p.startInput(habitAddingName, "Habit name (e.g., Exercise)", 60)
			return textinput.Blink

		case key.Matches(msg, p.keys.EditTarget):
			h, ok := p.Selected()
			if !ok {
				return nil
			}
			p.startInput(habitEditingTarget, "Times per day (1-20)", 2)
			p.input.SetValue(strconv.Itoa(h.Target))
			return textinput.Blink

		case key.Matches(msg, p.keys.Toggle):
			return p.toggleSelectedCmd()
		}
	}

	return nil
}

func (p *HabitsPane) updateInput(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			return p.confirmInput()

		case key.Matches(msg, p.inputKeys.Cancel):
			p.resetInput()
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *HabitsPane) confirmInput() tea.Cmd {
	value := strings.TrimSpace(p.input.Value())

	switch p.mode {
	case habitAddingName:
		if value == "" {
			p.resetInput()
			return nil
		}
		// Got name, now get icon
		p.newName = value
		p.mode = habitAddingIcon
		p.input.Reset()
		p.input.Placeholder = "Icon (emoji, blank for " + p.defaultIcon() + ")"
		p.input.CharLimit = 12
		return nil

	case habitAddingIcon:
		in := habits.NewHabit{
			Name:   p.newName,
			Icon:   value,
			Color:  habits.Colors[len(p.habits)%len(habits.Colors)],
			Target: 1,
		}
		if in.Icon == "" {
			in.Icon = p.defaultIcon()
		}
		p.resetInput()
		p.cursor = len(p.habits)
		return dispatchWithStatus(p.ctrl, app.AddHabit{Input: in}, "Added habit: "+in.Name)

	case habitEditingTarget:
		p.resetInput()
		h, ok := p.Selected()
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return errCmd("edit habit", fmt.Errorf("target must be a number, got %q", value))
		}
		return dispatchCmd(p.ctrl, app.EditHabit{ID: h.ID, Edit: habits.Edit{Target: &n}})
	}

	p.resetInput()
	return nil
}

func (p *HabitsPane) defaultIcon() string {
	return habits.Icons[len(p.habits)%len(habits.Icons)]
}

func (p *HabitsPane) startInput(mode habitMode, placeholder string, limit int) {
	p.mode = mode
	p.input.Reset()
	p.input.Placeholder = placeholder
	p.input.CharLimit = limit
	p.input.Focus()
}

// resetInput leaves input mode.
func (p *HabitsPane) resetInput() {
	p.mode = habitBrowsing
	p.newName = ""
	p.input.Blur()
	p.input.Reset()
}

func (p *HabitsPane) toggleSelectedCmd() tea.Cmd {
	h, ok := p.Selected()
	if !ok {
		return nil
	}
	return dispatchCmd(p.ctrl, app.ToggleHabit{ID: h.ID, Date: p.Date()})
}

// habitListTop is the first habit row inside the pane: border, title and
// its margin, separator, date line, blank.
const habitListTop = 6

// handleMouse processes mouse events for the habits pane.
func (p *HabitsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.habits) == 0 {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.habits)-1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - habitListTop
		if row < 0 || row >= len(p.habits) {
			return nil
		}
		p.cursor = row

		// Icon area: border, padding, prefix, icon
		if msg.X < 6 {
			return p.toggleSelectedCmd()
		}
	}
	return nil
}

// View renders the habits pane.
func (p *HabitsPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🔥 HABITS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styleMutedText(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	date := p.Date()
	if p.date == "" {
		b.WriteString(p.styleMutedText("  Today"))
	} else {
		b.WriteString(p.styles.DueDateTodayStyle.Render("  📅 " + date))
	}
	b.WriteString("\n\n")

	if len(p.habits) == 0 {
		b.WriteString(p.styleMutedText("  No habits yet."))
		b.WriteString("\n")
		b.WriteString(p.styleMutedText("  Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		best := 0
		for i, h := range p.habits {
			best = max(best, h.LongestStreak)
			b.WriteString(p.renderHabit(i, h, date, sepWidth))
			b.WriteString("\n")
		}

		b.WriteString("  " + p.styleMutedText(p.dayLabels(date)))
		b.WriteString("\n")

		if best > 0 {
			b.WriteString("\n")
			b.WriteString("  " + p.styles.StatLabelStyle.Render("Best streak: ") + p.styles.HabitStreakStyle.Render(fmt.Sprintf("%d days 🔥", best)))
			b.WriteString("\n")
		}
	}

	if p.mode != habitBrowsing {
		b.WriteString("\n")
		var prompt string
		switch p.mode {
		case habitAddingName:
			prompt = "Name: "
		case habitAddingIcon:
			prompt = "Icon: "
		default:
			prompt = "Target: "
		}
		b.WriteString("  " + p.styles.InputPromptStyle.Render(prompt) + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// nameWidth is the column reserved for habit names.
const nameWidth = 14

func (p *HabitsPane) renderHabit(i int, h storage.Habit, date string, width int) string {
	selected := i == p.cursor && p.focused && p.mode == habitBrowsing

	prefix := "  "
	if selected {
		prefix = "▶ "
	}

	name := runewidth.FillRight(runewidth.Truncate(h.Name, nameWidth, ".."), nameWidth)
	line := fmt.Sprintf("%s%s %s %s ", prefix, h.Icon, p.styles.Swatch(h.Color), name)

	week := habits.Week(h, date)
	line += p.renderWeekView(week)

	weekCount := 0
	for _, done := range week {
		if done {
			weekCount++
		}
	}
	line += fmt.Sprintf("  %d/7", weekCount)

	if h.Target > 1 {
		line += p.styleMutedText(fmt.Sprintf(" ×%d", h.Target))
	}
	if width >= 40 && h.CurrentStreak > 0 {
		line += " " + p.styles.StreakBadge(h.CurrentStreak)
	}

	if selected {
		return p.styles.TaskSelectedStyle.Render(line)
	}
	return line
}

// renderWeekView creates the visual week representation.
func (p *HabitsPane) renderWeekView(week []bool) string {
	parts := make([]string, len(week))
	for i, done := range week {
		if done {
			parts[i] = p.styles.HabitDoneIcon
		} else {
			parts[i] = p.styles.HabitUndoneIcon
		}
	}
	return strings.Join(parts, " ")
}

// dayLabels returns the weekday initials under the week view, ending at
// date.
func (p *HabitsPane) dayLabels(date string) string {
	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		t, err := datekey.Parse(datekey.AddDays(date, i-6))
		if err != nil {
			days[i] = " "
			continue
		}
		days[i] = t.Weekday().String()[:1]
	}
	// prefix, icon, swatch and name columns
	indent := strings.Repeat(" ", 2+2+1+2+1+nameWidth+1)
	return indent + strings.Join(days, " ")
}

// styleMutedText applies muted style to text.
func (p *HabitsPane) styleMutedText(s string) string {
	return p.styles.StatLabelStyle.Render(s)
}

// CompletionOn returns how many habits are done on date.
func (p *HabitsPane) CompletionOn(date string) (done, total int) {
	for _, h := range p.habits {
		if habits.IsCompletedOn(h, date) {
			done++
		}
	}
	return done, len(p.habits)
}
