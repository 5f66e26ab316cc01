// Package ui is the terminal dashboard.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/datekey"
	"dailyfocus/internal/notify"
	"dailyfocus/internal/pomodoro"
	"dailyfocus/internal/storage"
)

// FocusPane runs the pomodoro timer. Finished sessions are recorded through
// the controller.
type FocusPane struct {
	ctrl      *app.Controller
	announcer *notify.Announcer
	timer     pomodoro.Timer
	seeded    bool

	task     storage.Task // attached to the next session
	hasTask  bool
	sessions []storage.PomodoroSession
	today    string

	focused bool
	width   int
	height  int
	styles  *Styles
	keys    FocusKeyMap
}

// NewFocusPane creates a focus pane with custom key bindings. announcer may
// be nil.
func NewFocusPane(ctrl *app.Controller, styles *Styles, keyCfg *config.KeysConfig, announcer *notify.Announcer) *FocusPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &FocusPane{
		ctrl:      ctrl,
		announcer: announcer,
		timer:     pomodoro.New(),
		styles:    styles,
		keys:      NewFocusKeyMap(keyCfg),
	}
}

// SetState refreshes session history. The rotation counter is seeded from
// today's completed work sessions the first time state arrives.
func (p *FocusPane) SetState(s app.State, today string) {
	p.sessions = s.Sessions
	p.today = today
	if !p.seeded {
		p.timer = p.timer.WithCompletedWork(pomodoro.CompletedWorkOn(s.Sessions, today, p.ctrl.Env().Loc))
		p.seeded = true
	}
	if p.hasTask {
		p.hasTask = false
		for _, t := range s.Tasks {
			if t.ID == p.task.ID {
				p.task, p.hasTask = t, true
				break
			}
		}
	}
}

// SetTask attaches a task to the next session. Ignored while a session is
// in progress.
func (p *FocusPane) SetTask(t storage.Task, ok bool) {
	if _, active := p.timer.Session(); active {
		return
	}
	p.task, p.hasTask = t, ok
}

// SetSize sets the pane dimensions.
func (p *FocusPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *FocusPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *FocusPane) IsFocused() bool {
	return p.focused
}

// IsRunning returns whether the countdown is running.
func (p *FocusPane) IsRunning() bool {
	return p.timer.State() == pomodoro.StateRunning
}

// Timer returns the current timer value.
func (p *FocusPane) Timer() pomodoro.Timer {
	return p.timer
}

// StatusLine is the compact timer shown in the title bar.
func (p *FocusPane) StatusLine() string {
	switch p.timer.State() {
	case pomodoro.StateRunning:
		return p.phaseStyle().Render("🍅 " + pomodoro.FormatClock(p.timer.Remaining()))
	case pomodoro.StatePaused:
		return p.styles.FocusPausedStyle.Render("⏸ " + pomodoro.FormatClock(p.timer.Remaining()))
	default:
		return ""
	}
}

func (p *FocusPane) now() time.Time {
	return p.ctrl.Env().Now()
}

// Update handles messages for the focus pane. Ticks are handled whether or
// not the pane is focused.
func (p *FocusPane) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tickMsg); ok {
		next, finished, done := p.timer.Tick(time.Time(msg))
		p.timer = next
		if done {
			return p.recordCmd(finished)
		}
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Toggle):
			return p.toggle()

		case key.Matches(msg, p.keys.Complete):
			next, finished, err := p.timer.Complete(p.now())
			if err != nil {
				return errCmd("finish session", err)
			}
			p.timer = next
			return p.recordCmd(finished)

		case key.Matches(msg, p.keys.Reset):
			p.timer = p.timer.Reset()

		case key.Matches(msg, p.keys.Switch):
			next, err := p.timer.SwitchPhase(nextPhase(p.timer.Phase()))
			if err != nil {
				return errCmd("switch phase", err)
			}
			p.timer = next
		}
	}

	return nil
}

func (p *FocusPane) toggle() tea.Cmd {
	var (
		next pomodoro.Timer
		err  error
	)
	if p.IsRunning() {
		next, err = p.timer.Pause()
	} else {
		taskID := ""
		if p.hasTask && p.timer.Phase() == storage.PhaseWork {
			taskID = p.task.ID
		}
		next, err = p.timer.Start(taskID, p.ctrl.Env().NewID(), p.now())
	}
	if err != nil {
		return errCmd("start timer", err)
	}
	p.timer = next
	return nil
}

func (p *FocusPane) recordCmd(s storage.PomodoroSession) tea.Cmd {
	_, body := notify.PhaseMessage(s.Type)
	return tea.Batch(
		dispatchWithStatus(p.ctrl, app.RecordSession{Session: s}, body),
		announceCmd(p.announcer, s.Type),
	)
}

func nextPhase(ph storage.Phase) storage.Phase {
	for i, candidate := range pomodoro.Phases {
		if candidate == ph {
			return pomodoro.Phases[(i+1)%len(pomodoro.Phases)]
		}
	}
	return storage.PhaseWork
}

// handleMouse toggles the timer on a click in the clock area.
func (p *FocusPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	// border, title and its margin, separator
	const headerRows = 4

	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
		if msg.Y >= headerRows && msg.Y < headerRows+4 {
			return p.toggle()
		}
	}
	return nil
}

func (p *FocusPane) phaseStyle() lipgloss.Style {
	if p.timer.Phase() == storage.PhaseWork {
		return p.styles.FocusRunningStyle
	}
	return p.styles.FocusBreakStyle
}

// View renders the focus pane.
func (p *FocusPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🍅 FOCUS"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styleMutedText(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	// Phase and clock
	indicator := "■"
	clockStyle := p.phaseStyle()
	switch p.timer.State() {
	case pomodoro.StateRunning:
		indicator = "▶"
	case pomodoro.StatePaused:
		indicator = "⏸"
		clockStyle = p.styles.FocusPausedStyle
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", clockStyle.Render(indicator), p.timer.Label()))
	b.WriteString("    " + clockStyle.Render(pomodoro.FormatClock(p.timer.Remaining())))
	b.WriteString("\n")
	b.WriteString("  " + p.progressBar(max(10, min(sepWidth-4, 30))))
	b.WriteString("\n")

	if p.timer.State() == pomodoro.StateIdle {
		b.WriteString("  " + p.styleMutedText("Press space to start"))
	} else {
		b.WriteString("  " + p.styleMutedText(fmt.Sprintf("%.0f%% of %s", p.timer.Progress(), p.timer.Label())))
	}
	b.WriteString("\n\n")

	// Task for the session
	taskLine := p.styleMutedText("No task selected")
	if s, ok := p.timer.Session(); ok && s.TaskID != "" {
		taskLine = p.styles.FocusTaskStyle.Render(runewidth.Truncate(p.task.Text, max(5, sepWidth-8), ".."))
	} else if p.hasTask && p.timer.Phase() == storage.PhaseWork {
		taskLine = p.styles.FocusTaskStyle.Render(runewidth.Truncate(p.task.Text, max(5, sepWidth-8), ".."))
	}
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Task: ") + taskLine)
	b.WriteString("\n\n")

	// Today's totals
	count, minutes := p.todayTotals()
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Today: ") +
		p.styles.StatValueStyle.Render(fmt.Sprintf("%d sessions, %dm", count, minutes)))
	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Cycle: ") + p.rotation())
	b.WriteString("\n")

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *FocusPane) progressBar(width int) string {
	filled := int(p.timer.Progress() / 100 * float64(width))
	filled = max(0, min(filled, width))
	return p.phaseStyle().Render(strings.Repeat("█", filled)) +
		p.styleMutedText(strings.Repeat("░", width-filled))
}

// rotation shows progress towards the next long break.
func (p *FocusPane) rotation() string {
	done := p.timer.CompletedWork() % pomodoro.LongBreakEvery
	return p.styles.FocusRunningStyle.Render(strings.Repeat("●", done)) +
		p.styleMutedText(strings.Repeat("○", pomodoro.LongBreakEvery-done))
}

// todayTotals counts completed work sessions started today.
func (p *FocusPane) todayTotals() (count, minutes int) {
	loc := p.ctrl.Env().Loc
	for _, s := range p.sessions {
		if s.Completed && s.Type == storage.PhaseWork && datekey.In(s.StartTime, loc) == p.today {
			count++
			minutes += s.Duration
		}
	}
	return count, minutes
}

func (p *FocusPane) styleMutedText(s string) string {
	return lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(s)
}
