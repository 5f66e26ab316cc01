// Package ui is the terminal dashboard.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
	"dailyfocus/internal/tasks"
)

type taskMode int

const (
	taskBrowsing taskMode = iota
	taskAdding
	taskSearching
)

var errCrossPriority = errors.New("tasks only move within the same priority")

// TaskPane handles the task list display and interactions.
type TaskPane struct {
	ctrl       *app.Controller
	all        []storage.Task
	tasks      []storage.Task // visible, filtered and sorted
	filter     tasks.Filter
	today      string
	cursor     int
	selectedID string
	focused    bool
	width      int
	height     int
	mode       taskMode
	input      textinput.Model
	styles     *Styles

	// Key bindings
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTaskPane creates a task pane with custom key bindings.
func NewTaskPane(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 40

	return &TaskPane{
		ctrl:      ctrl,
		tasks:     []storage.Task{},
		focused:   true,
		input:     ti,
		styles:    styles,
		keys:      NewTaskKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetState replaces the task list. The selection follows the previously
// selected task when it is still visible.
func (p *TaskPane) SetState(s app.State, today string) {
	p.all = s.Tasks
	p.today = today
	p.applyFilter()
}

func (p *TaskPane) applyFilter() {
	p.tasks = tasks.Apply(p.all, p.filter)
	if p.selectedID != "" {
		for i, t := range p.tasks {
			if t.ID == p.selectedID {
				p.cursor = i
				return
			}
		}
	}
	if p.cursor >= len(p.tasks) {
		p.cursor = max(0, len(p.tasks)-1)
	}
	p.syncSelection()
}

func (p *TaskPane) syncSelection() {
	if p.cursor >= 0 && p.cursor < len(p.tasks) {
		p.selectedID = p.tasks[p.cursor].ID
	} else {
		p.selectedID = ""
	}
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-6)
}

// SetFocused sets whether this pane is focused.
func (p *TaskPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TaskPane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether a text input has the keyboard.
func (p *TaskPane) IsEditing() bool {
	return p.mode != taskBrowsing
}

// Selected returns the task under the cursor.
func (p *TaskPane) Selected() (storage.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.tasks) {
		return storage.Task{}, false
	}
	return p.tasks[p.cursor], true
}

// SetDateFilter shows only tasks on date; "" shows every date.
func (p *TaskPane) SetDateFilter(date string) {
	p.filter.DateKey = date
	p.applyFilter()
}

// Filter returns the active filter.
func (p *TaskPane) Filter() tasks.Filter {
	return p.filter
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	switch p.mode {
	case taskAdding:
		return p.updateAdding(msg)
	case taskSearching:
		return p.updateSearching(msg)
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
			if len(p.tasks) > 0 {
				p.cursor = min(p.cursor+1, len(p.tasks)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.tasks) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.tasks) > 0 {
				p.cursor = len(p.tasks) - 1
			}

		case key.Matches(msg, p.keys.Add):
			p.mode = taskAdding
			p.input.Reset()
			p.input.Placeholder = "Task  !high #tag @work ^2024-12-31"
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Search):
			p.mode = taskSearching
			p.input.Reset()
			p.input.SetValue(p.filter.Query)
			p.input.Placeholder = "Search tasks"
			p.input.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.HideCompleted):
			p.filter.HideCompleted = !p.filter.HideCompleted
			p.applyFilter()

		case key.Matches(msg, p.keys.ClearFilter):
			p.filter = tasks.Filter{}
			p.applyFilter()

		case key.Matches(msg, p.keys.Toggle):
			if task, ok := p.Selected(); ok {
				p.syncSelection()
				return dispatchCmd(p.ctrl, app.ToggleTask{ID: task.ID})
			}

		case key.Matches(msg, p.keys.Delete):
			return p.DeleteSelectedCmd()

		case key.Matches(msg, p.keys.MoveUp):
			return p.moveCmd(-1)

		case key.Matches(msg, p.keys.MoveDown):
			return p.moveCmd(1)
		}
		p.syncSelection()
	}

	return nil
}

func (p *TaskPane) updateAdding(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			line := strings.TrimSpace(p.input.Value())
			p.stopInput()
			if line == "" {
				return nil
			}
			return p.addCmd(line)

		case key.Matches(msg, p.inputKeys.Cancel):
			p.stopInput()
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *TaskPane) updateSearching(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			p.stopInput()
			return nil

		case key.Matches(msg, p.inputKeys.Cancel):
			p.filter.Query = ""
			p.applyFilter()
			p.stopInput()
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.filter.Query = p.input.Value()
	p.applyFilter()
	return cmd
}

func (p *TaskPane) stopInput() {
	p.mode = taskBrowsing
	p.input.Blur()
	p.input.Reset()
}

// addCmd parses a quick-add line and dispatches it. Without an explicit
// date the task lands on the day being viewed, if any.
func (p *TaskPane) addCmd(line string) tea.Cmd {
	in, err := ParseQuickAdd(line)
	if err != nil {
		return errCmd("add task", err)
	}
	if in.Task.Date == "" {
		in.Task.Date = p.filter.DateKey
	}
	p.selectedID = ""
	p.cursor = 0
	return dispatchWithStatus(p.ctrl, app.AddTask{Input: in.Task, Category: in.Category}, "Added: "+in.Task.Text)
}

// DeleteSelectedCmd removes the task under the cursor.
func (p *TaskPane) DeleteSelectedCmd() tea.Cmd {
	task, ok := p.Selected()
	if !ok {
		return nil
	}
	p.selectedID = ""
	return dispatchWithStatus(p.ctrl, app.DeleteTask{ID: task.ID}, "Deleted: "+task.Text)
}

func (p *TaskPane) moveCmd(delta int) tea.Cmd {
	task, ok := p.Selected()
	if !ok {
		return nil
	}
	to := p.cursor + delta
	if to < 0 || to >= len(p.tasks) {
		return nil
	}
	other := p.tasks[to]
	if other.Completed != task.Completed || other.Priority != task.Priority {
		return errCmd("move task", errCrossPriority)
	}
	p.selectedID = task.ID
	return dispatchCmd(p.ctrl, app.MoveTask{ID: task.ID, Filter: p.filter, Delta: delta})
}

// taskListTop is the first list row inside the pane: border, title and
// its margin, separator, filter line.
const taskListTop = 5

func (p *TaskPane) maxVisible() int {
	n := p.height - 8 // title, separator, filter line, stats, input
	if n < 3 {
		n = 5
	}
	return n
}

func (p *TaskPane) window() int {
	maxTasks := p.maxVisible()
	if p.cursor >= maxTasks {
		return p.cursor - maxTasks + 1
	}
	return 0
}

// handleMouse processes mouse events for the task pane.
func (p *TaskPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.tasks) == 0 {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.tasks)-1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		row := msg.Y - taskListTop
		if row < 0 || row >= p.maxVisible() {
			return nil
		}
		idx := p.window() + row
		if idx >= len(p.tasks) {
			return nil
		}
		p.cursor = idx
		p.syncSelection()

		// Checkbox area: border, padding, " ![ ]"
		if msg.X < 7 {
			return dispatchCmd(p.ctrl, app.ToggleTask{ID: p.tasks[idx].ID})
		}
	}
	p.syncSelection()
	return nil
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("✅ TASKS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")
	b.WriteString(p.renderFilterLine())
	b.WriteString("\n")

	if len(p.tasks) == 0 {
		empty := "  No tasks yet. Press 'a' to add one."
		if p.filter.Active() {
			empty = "  No tasks match the filter."
		}
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render(empty))
		b.WriteString("\n")
	} else {
		start := p.window()
		end := min(len(p.tasks), start+p.maxVisible())
		for i := start; i < end; i++ {
			b.WriteString(p.renderTask(i, p.tasks[i]))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		done, total := p.Stats()
		stats := fmt.Sprintf("%d/%d complete", done, total)
		if end-start < total {
			stats += fmt.Sprintf("  ·  %d-%d of %d", start+1, end, total)
		}
		b.WriteString("  " + p.styles.StatLabelStyle.Render(stats))
		b.WriteString("\n")
	}

	switch p.mode {
	case taskAdding:
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("+ ") + p.input.View())
		b.WriteString("\n")
	case taskSearching:
		b.WriteString("\n")
		b.WriteString(p.styles.InputPromptStyle.Render("/ ") + p.input.View())
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *TaskPane) renderFilterLine() string {
	var parts []string
	if p.filter.DateKey != "" {
		label := p.filter.DateKey
		if label == p.today {
			label = "today"
		}
		parts = append(parts, "📅 "+label)
	}
	if p.filter.Query != "" {
		parts = append(parts, fmt.Sprintf("🔍 %q", p.filter.Query))
	}
	if p.filter.HideCompleted {
		parts = append(parts, "hiding done")
	}
	if len(parts) == 0 {
		return p.styles.StatLabelStyle.Render("  All tasks")
	}
	return p.styles.StatLabelStyle.Render("  " + strings.Join(parts, "  ·  "))
}

func (p *TaskPane) renderTask(i int, task storage.Task) string {
	badge := p.styles.PriorityBadge(task.Priority)
	checkbox := p.styles.TaskCheckboxPending
	if task.Completed {
		checkbox = p.styles.TaskCheckboxDone
	}

	due := p.formatDate(task.Date)
	dueWidth := lipgloss.Width(due)

	// [space][priority][checkbox][space][text][pad][due]
	fixedWidth := 6
	if dueWidth > 0 {
		fixedWidth += dueWidth + 1
	}
	available := p.width - 4 - fixedWidth
	if available < 5 {
		available = 5
	}

	text := runewidth.Truncate(task.Text, available, "..")
	pad := ""
	if dueWidth > 0 {
		pad = strings.Repeat(" ", max(1, available-runewidth.StringWidth(text)))
	}

	if i == p.cursor && p.focused && p.mode == taskBrowsing {
		return p.styles.TaskSelectedStyle.Render(fmt.Sprintf(" %s%s %s%s%s ", badge, checkbox, text, pad, due))
	}

	styled := p.styles.TaskPendingStyle.Render(text)
	if task.Completed {
		styled = p.styles.TaskDoneStyle.Render(text)
	}
	return fmt.Sprintf(" %s%s %s%s%s", badge, checkbox, styled, pad, due)
}

// formatDate returns a compact date indicator relative to today: "!"
// (overdue), "T" (today), "+1" (tomorrow), "3d", "2w" or ">1m".
func (p *TaskPane) formatDate(date string) string {
	if date == "" || p.today == "" {
		return ""
	}
	days, err := datekey.DaysBetween(p.today, date)
	if err != nil {
		return ""
	}

	switch {
	case days < 0:
		return p.styles.DueDateOverdueStyle.Render("!")
	case days == 0:
		return p.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return p.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", days/7))
	default:
		return p.styles.DueDateFutureStyle.Render(">1m")
	}
}

// Stats returns completed and total counts of the visible tasks.
func (p *TaskPane) Stats() (done, total int) {
	for _, task := range p.tasks {
		if task.Completed {
			done++
		}
	}
	return done, len(p.tasks)
}
