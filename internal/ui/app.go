// Package ui is the terminal dashboard.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"dailyfocus/internal/app"
	"dailyfocus/internal/config"
	"dailyfocus/internal/notify"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTasks PaneID = iota
	PaneFocus
	PaneHabits
	PaneCalendar
	PaneStats
)

var paneLabels = []string{"Tasks", "Focus", "Habits", "Calendar", "Stats"}

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows tasks, focus and habits side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	Announcer             *notify.Announcer // nil disables notifications
	Log                   *zap.Logger
	Warnings              []string // shown once at startup
}

// App is the main application model that coordinates all panes.
type App struct {
	ctrl         *app.Controller
	log          *zap.Logger
	styles       *Styles
	config       *AppConfig
	state        app.State
	today        string
	taskPane     *TaskPane
	focusPane    *FocusPane
	habitsPane   *HabitsPane
	calendarPane *CalendarPane
	statsPane    *StatsPane
	helpOverlay  *HelpOverlay
	historyBusy  bool
	confirmDel   *confirmDeleteState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showWelcome  bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	tasksPaneStart  int
	tasksPaneEnd    int
	focusPaneStart  int
	focusPaneEnd    int
	habitsPaneStart int
	habitsPaneEnd   int
	contentTop      int // Y coordinate where panes start
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application over a loaded controller.
func NewApp(ctrl *app.Controller, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 100,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		ctrl:         ctrl,
		log:          log,
		styles:       styles,
		config:       cfg,
		taskPane:     NewTaskPane(ctrl, styles, cfg.Keys),
		focusPane:    NewFocusPane(ctrl, styles, cfg.Keys, cfg.Announcer),
		habitsPane:   NewHabitsPane(ctrl, styles, cfg.Keys),
		calendarPane: NewCalendarPane(styles, cfg.Keys),
		statsPane:    NewStatsPane(ctrl, styles, cfg.Keys),
		helpOverlay:  NewHelpOverlay(styles, cfg.Keys),
		activePane:   PaneTasks,
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
		contentTop:   2,
	}
	a.refresh()
	a.setActivePane(PaneTasks)

	s := a.state
	a.showWelcome = cfg.ShowOnboarding && len(s.Tasks) == 0 && len(s.Habits) == 0 && len(s.Sessions) == 0

	if n := len(cfg.Warnings); n > 0 {
		msg := cfg.Warnings[0]
		if n > 1 {
			msg += fmt.Sprintf(" (+%d more)", n-1)
		}
		a.SetStatus(msg, true)
	}
	return a
}

// refresh pulls the controller's state into every pane.
func (a *App) refresh() {
	a.state = a.ctrl.State()
	a.today = a.ctrl.Env().Today()
	a.taskPane.SetState(a.state, a.today)
	a.focusPane.SetState(a.state, a.today)
	a.habitsPane.SetState(a.state, a.today)
	a.calendarPane.SetState(a.state, a.today)
	a.statsPane.SetState(a.state, a.today)
}

func (a *App) now() time.Time {
	env := a.ctrl.Env()
	return env.Now().In(env.Loc)
}

// Init starts the clock.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of controller operations refresh every pane, whichever is
	// active.
	switch msg := msg.(type) {
	case actionDoneMsg:
		switch {
		case msg.err != nil && errors.Is(msg.err, app.ErrPersist):
			a.log.Error("action not saved", zap.String("action", msg.label), zap.Error(msg.err))
			a.SetStatus("Not saved: "+msg.err.Error(), true)
		case msg.err != nil:
			a.SetStatus(capitalize(msg.label)+": "+msg.err.Error(), true)
		case msg.status != "":
			a.SetStatus(msg.status, false)
		}
		a.refresh()
		return a, nil

	case historyMsg:
		a.historyBusy = false
		verb, noun := "Undid", "undo"
		if msg.redo {
			verb, noun = "Redid", "redo"
		}
		switch {
		case msg.err != nil:
			a.SetStatus(capitalize(noun)+" failed: "+msg.err.Error(), true)
		case msg.ok:
			a.SetStatus(verb+": "+msg.label, false)
		default:
			a.SetStatus("Nothing to "+noun, false)
		}
		a.refresh()
		return a, nil

	case dateSelectedMsg:
		a.taskPane.SetDateFilter(msg.date)
		a.habitsPane.SetDate(msg.date)
		a.setActivePane(PaneTasks)
		a.SetStatus("Showing "+msg.date+" (esc clears)", false)
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && a.now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		cmds := []tea.Cmd{tickCmd(), a.focusPane.Update(msg)}
		if today := a.ctrl.Env().Today(); today != a.today {
			a.log.Info("day changed", zap.String("today", today))
			a.today = today
			cmds = append(cmds, dispatchCmd(a.ctrl, app.RefreshDay{}))
		}
		return a, tea.Batch(cmds...)
	}

	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showWelcome {
		a.showWelcome = false
		return a, nil
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return a, cmd
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
			return a, nil
		default:
			return a, nil
		}
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return a, nil
	}

	if a.inInputMode() {
		return a, a.forward(msg)
	}

	// Confirm task deletion if enabled.
	if a.config.ConfirmDeletions && a.activePane == PaneTasks && key.Matches(msg, a.taskPane.keys.Delete) {
		task, ok := a.taskPane.Selected()
		if !ok {
			a.SetStatus("No task selected", true)
			return a, nil
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete task?",
			body:  runewidth.Truncate(task.Text, 60, "..."),
			cmd:   a.taskPane.DeleteSelectedCmd(),
		}
		return a, nil
	}

	// Global keys only when not in input mode
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, a.keys.NextPane):
		a.setActivePane((a.activePane + 1) % PaneID(len(paneLabels)))
		return a, nil

	case key.Matches(msg, a.keys.Pane1):
		a.setActivePane(PaneTasks)
		return a, nil

	case key.Matches(msg, a.keys.Pane2):
		a.setActivePane(PaneFocus)
		return a, nil

	case key.Matches(msg, a.keys.Pane3):
		a.setActivePane(PaneHabits)
		return a, nil

	case key.Matches(msg, a.keys.Pane4):
		a.setActivePane(PaneCalendar)
		return a, nil

	case key.Matches(msg, a.keys.Pane5):
		a.setActivePane(PaneStats)
		return a, nil

	case key.Matches(msg, a.keys.Undo):
		if a.historyBusy {
			a.SetStatus("Undo: busy", true)
			return a, nil
		}
		a.historyBusy = true
		return a, undoCmd(a.ctrl)

	case key.Matches(msg, a.keys.Redo):
		if a.historyBusy {
			a.SetStatus("Redo: busy", true)
			return a, nil
		}
		a.historyBusy = true
		return a, redoCmd(a.ctrl)
	}

	return a, a.forward(msg)
}

// inInputMode reports whether a pane's text input has the keyboard.
func (a *App) inInputMode() bool {
	return a.taskPane.IsEditing() || a.habitsPane.IsEditing()
}

// forward sends msg to the active pane.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch a.activePane {
	case PaneTasks:
		return a.taskPane.Update(msg)
	case PaneFocus:
		a.focusPane.SetTask(a.taskPane.Selected())
		return a.focusPane.Update(msg)
	case PaneHabits:
		return a.habitsPane.Update(msg)
	case PaneCalendar:
		return a.calendarPane.Update(msg)
	case PaneStats:
		return a.statsPane.Update(msg)
	}
	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome {
		if msg.Action == tea.MouseActionPress {
			a.showWelcome = false
		}
		return nil
	}

	if a.confirmDel != nil {
		if msg.Action == tea.MouseActionPress {
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	// Any click closes help
	if a.showHelp {
		if msg.Action == tea.MouseActionPress {
			a.showHelp = false
		}
		return nil
	}

	if a.inInputMode() {
		return nil
	}

	// Tab bar
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == a.contentTop-1 {
		if pane, ok := a.tabAt(msg.X); ok {
			a.setActivePane(pane)
		}
		return nil
	}

	if msg.Y < a.contentTop {
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if clicked := a.paneAtPosition(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	// Forward with pane-local coordinates
	localMsg := msg
	localMsg.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PaneFocus:
			localMsg.X = msg.X - a.focusPaneStart
		case PaneHabits:
			localMsg.X = msg.X - a.habitsPaneStart
		}
	}
	return a.forward(tea.MouseMsg(localMsg))
}

// tabAt maps an x coordinate on the tab bar to a pane.
func (a *App) tabAt(x int) (PaneID, bool) {
	pos := a.tabBarOffset()
	for i, label := range paneLabels {
		w := lipgloss.Width(tabLabel(i, label, false))
		if x >= pos && x < pos+w {
			return PaneID(i), true
		}
		pos += w + len(tabSeparator)
	}
	return 0, false
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.taskPane.SetFocused(pane == PaneTasks)
	a.focusPane.SetFocused(pane == PaneFocus)
	a.habitsPane.SetFocused(pane == PaneHabits)
	a.calendarPane.SetFocused(pane == PaneCalendar)
	a.statsPane.SetFocused(pane == PaneStats)
	if pane == PaneFocus {
		a.focusPane.SetTask(a.taskPane.Selected())
	}
}

// showsColumns reports whether the three-column view is on screen.
func (a *App) showsColumns() bool {
	return a.layoutMode == LayoutWide && a.activePane <= PaneHabits
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if !a.showsColumns() {
		return a.activePane
	}

	if x >= a.tasksPaneStart && x < a.tasksPaneEnd {
		return PaneTasks
	}
	if x >= a.focusPaneStart && x < a.focusPaneEnd {
		return PaneFocus
	}
	if x >= a.habitsPaneStart && x < a.habitsPaneEnd {
		return PaneHabits
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Title bar, tab bar, help bar and pane borders
	contentHeight := a.height - 5
	if contentHeight < 10 {
		contentHeight = 10
	}

	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4
	fullWidth := max(20, totalWidth)

	// Calendar and stats always take the full width
	a.calendarPane.SetSize(fullWidth, contentHeight)
	a.statsPane.SetSize(fullWidth, contentHeight)

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 100
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		a.taskPane.SetSize(fullWidth, contentHeight)
		a.focusPane.SetSize(fullWidth, contentHeight)
		a.habitsPane.SetSize(fullWidth, contentHeight)

		// In narrow mode, all panes occupy the same space
		a.tasksPaneStart, a.tasksPaneEnd = 0, a.width
		a.focusPaneStart, a.focusPaneEnd = 0, a.width
		a.habitsPaneStart, a.habitsPaneEnd = 0, a.width
		return
	}

	a.layoutMode = LayoutWide

	var tasksWidth, focusWidth, habitsWidth int
	if totalWidth < 140 {
		tasksWidth = (totalWidth * 36) / 100
		focusWidth = (totalWidth * 26) / 100
		habitsWidth = totalWidth - tasksWidth - focusWidth - 2
	} else {
		tasksWidth = min((totalWidth*38)/100, 60)
		focusWidth = min((totalWidth*25)/100, 40)
		habitsWidth = min(totalWidth-tasksWidth-focusWidth-2, 60)
	}

	a.taskPane.SetSize(tasksWidth, contentHeight)
	a.focusPane.SetSize(focusWidth, contentHeight)
	a.habitsPane.SetSize(habitsWidth, contentHeight)

	// Rendered pane width includes the two border columns; panes are
	// joined with one space.
	a.tasksPaneStart = 0
	a.tasksPaneEnd = tasksWidth + 2
	a.focusPaneStart = a.tasksPaneEnd + 1
	a.focusPaneEnd = a.focusPaneStart + focusWidth + 2
	a.habitsPaneStart = a.focusPaneEnd + 1
	a.habitsPaneEnd = a.habitsPaneStart + habitsWidth + 2
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	if a.showsColumns() {
		b.WriteString(a.renderWideContent())
	} else {
		b.WriteString(a.activeView())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) activeView() string {
	switch a.activePane {
	case PaneFocus:
		return a.focusPane.View()
	case PaneHabits:
		return a.habitsPane.View()
	case PaneCalendar:
		return a.calendarPane.View()
	case PaneStats:
		return a.statsPane.View()
	default:
		return a.taskPane.View()
	}
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	q := QuoteFor(a.now())

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to dailyfocus"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Tab switches panes, 1-5 jump to one. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Add your first task with 'a', e.g. \"Write report !high @work\".\n"))
	b.WriteString(bodyStyle.Render("Start a focus session from the Focus pane with space.\n"))
	b.WriteString("\n")
	b.WriteString(a.styles.QuoteStyle.Render(fmt.Sprintf("\"%s\" - %s", q.Text, q.Author)))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders tasks, focus and habits side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.taskPane.View(), " ",
		a.focusPane.View(), " ",
		a.habitsPane.View(),
	)
}

const tabSeparator = "  "

func tabLabel(i int, label string, active bool) string {
	text := fmt.Sprintf("%d %s", i+1, label)
	if active {
		return "[" + text + "]"
	}
	return " " + text + " "
}

func (a *App) tabBarOffset() int {
	width := 0
	for i, label := range paneLabels {
		if i > 0 {
			width += len(tabSeparator)
		}
		width += lipgloss.Width(tabLabel(i, label, false))
	}
	return max(0, (a.width-width)/2)
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	parts := make([]string, len(paneLabels))
	for i, label := range paneLabels {
		if PaneID(i) == a.activePane {
			parts[i] = a.styles.TabActiveStyle.Render(tabLabel(i, label, true))
		} else {
			parts[i] = a.styles.TabInactiveStyle.Render(tabLabel(i, label, false))
		}
	}
	return strings.Repeat(" ", a.tabBarOffset()) + strings.Join(parts, tabSeparator)
}

// renderGoodbye shows a nice exit message with session summary.
func (a *App) renderGoodbye() string {
	tasksDone, tasksTotal := a.todayTasks()
	habitsDone, habitsTotal := a.habitsPane.CompletionOn(a.today)
	sessions, minutes := a.focusPane.todayTotals()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if tasksTotal > 0 || habitsTotal > 0 || sessions > 0 {
		b.WriteString("  Today's progress:\n")
		if tasksTotal > 0 {
			pct := (tasksDone * 100) / tasksTotal
			b.WriteString(fmt.Sprintf("     Tasks:  %d/%d (%d%%)\n", tasksDone, tasksTotal, pct))
		}
		if habitsTotal > 0 {
			pct := (habitsDone * 100) / habitsTotal
			b.WriteString(fmt.Sprintf("     Habits: %d/%d (%d%%)\n", habitsDone, habitsTotal, pct))
		}
		if sessions > 0 {
			b.WriteString(fmt.Sprintf("     Focus:  %d sessions, %dm\n", sessions, minutes))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// todayTasks counts tasks dated today.
func (a *App) todayTasks() (done, total int) {
	for _, t := range a.state.Tasks {
		if t.Date != a.today {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	return done, total
}

// renderTitleBar creates the top title bar with stats and timer status.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" dailyfocus ")

	tasksDone, tasksTotal := a.todayTasks()
	habitsDone, habitsTotal := a.habitsPane.CompletionOn(a.today)

	var statsItems []string
	if tasksTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Today: %d/%d", tasksDone, tasksTotal))
	}
	if habitsTotal > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Habits: %d/%d", habitsDone, habitsTotal))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))

	timerStatus := a.focusPane.StatusLine()

	date := a.styles.DateStyle.Render(a.now().Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(timerStatus) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 6
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	// The quote fills the spacer when there is room for it
	middle := timerStatus
	if middle == "" && spacerWidth > 40 {
		q := QuoteFor(a.now())
		middle = a.styles.QuoteStyle.Render(runewidth.Truncate(q.Text, spacerWidth-4, "..."))
		spacerWidth -= lipgloss.Width(middle)
	}

	var parts []string
	parts = append(parts, title)
	if stats != "" {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth/2))
	if middle != "" {
		parts = append(parts, middle)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth-spacerWidth/2))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// bindingHelp renders key bindings as a help line.
func (a *App) bindingHelp(bindings ...key.Binding) string {
	pairs := make([]string, 0, 2*len(bindings))
	for _, b := range bindings {
		h := b.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return a.styles.RenderHelp(pairs...)
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.inInputMode() {
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	}

	var help string
	switch a.activePane {
	case PaneTasks:
		k := a.taskPane.keys
		help = a.bindingHelp(k.Add, k.Toggle, k.Delete, k.Search, k.MoveUp, k.HideCompleted)
	case PaneFocus:
		k := a.focusPane.keys
		help = a.bindingHelp(k.Toggle, k.Complete, k.Reset, k.Switch)
	case PaneHabits:
		k := a.habitsPane.keys
		help = a.bindingHelp(k.Add, k.Toggle, k.EditTarget)
	case PaneCalendar:
		k := a.calendarPane.keys
		help = a.bindingHelp(k.PrevMonth, k.NextMonth, k.Today, k.Select)
	case PaneStats:
		k := a.statsPane.keys
		help = a.bindingHelp(k.Up, k.Down)
	}
	return help + "  " + a.bindingHelp(a.keys.Undo, a.keys.NextPane, a.keys.Help)
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Run starts the Bubble Tea program over ctrl.
func Run(ctrl *app.Controller, styles *Styles, cfg *AppConfig) error {
	p := tea.NewProgram(NewApp(ctrl, styles, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
