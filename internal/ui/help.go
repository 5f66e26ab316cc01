package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"dailyfocus/internal/config"
)

// HelpOverlay renders a help screen from the active key bindings.
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global   GlobalKeyMap
	tasks    TaskKeyMap
	focus    FocusKeyMap
	habits   HabitKeyMap
	calendar CalendarKeyMap
	input    InputKeyMap
}

// NewHelpOverlay creates a help overlay listing keyCfg's bindings.
func NewHelpOverlay(styles *Styles, keyCfg *config.KeysConfig) *HelpOverlay {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &HelpOverlay{
		styles:   styles,
		global:   NewGlobalKeyMap(keyCfg),
		tasks:    NewTaskKeyMap(keyCfg),
		focus:    NewFocusKeyMap(keyCfg),
		habits:   NewHabitKeyMap(keyCfg),
		calendar: NewCalendarKeyMap(keyCfg),
		input:    NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func flatten(groups [][]key.Binding) []key.Binding {
	var out []key.Binding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	left := []helpSection{
		{"Global", flatten(h.global.FullHelp())},
		{"Tasks", flatten(h.tasks.FullHelp())},
		{"Input Mode", []key.Binding{h.input.Confirm, h.input.Cancel}},
	}
	right := []helpSection{
		{"Focus", flatten(h.focus.FullHelp())},
		{"Habits", flatten(h.habits.FullHelp())},
		{"Calendar", flatten(h.calendar.FullHelp())},
	}

	twoColumns := h.width == 0 || h.width >= 90
	columnWidth := 38
	if !twoColumns {
		columnWidth = min(38, max(20, h.width-8))
	}

	var body string
	if twoColumns {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			h.renderColumn(left, columnWidth),
			"    ",
			h.renderColumn(right, columnWidth),
		)
	} else {
		body = h.renderColumn(append(left, right...), columnWidth)
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("📖 dailyfocus - Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("Quick add: text !high #tag @category ^YYYY-MM-DD"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2)

	content := overlayStyle.Render(b.String())

	// Center the overlay
	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

func (h *HelpOverlay) renderColumn(sections []helpSection, width int) string {
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent)

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		b.WriteString(h.RenderBindings(s.bindings, width))
	}
	return b.String()
}

// RenderBindings renders one "key  description" line per enabled binding.
func (h *HelpOverlay) RenderBindings(bindings []key.Binding, width int) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText).
		MaxWidth(max(8, width-12))

	var b strings.Builder
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		help := kb.Help()
		b.WriteString(keyStyle.Render(displayKey(help.Key)) + descStyle.Render(help.Desc) + "\n")
	}
	return b.String()
}

// displayKey spells out keys that render as blanks.
func displayKey(k string) string {
	switch k {
	case " ", "space":
		return "Space"
	case "enter":
		return "Enter"
	case "esc":
		return "Esc"
	case "tab":
		return "Tab"
	}
	return k
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
