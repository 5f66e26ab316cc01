// Package ui is the terminal dashboard. This file defines key bindings
// using the Bubble Tea key package for matching and help text.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"dailyfocus/internal/config"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// helpKey renders the first bound key for help text.
func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if keys[0] == " " {
		return "space"
	}
	return keys[0]
}

// binding builds a key binding whose help shows the first effective key.
func binding(custom, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey(keys), desc))
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
	Pane3    key.Binding
	Pane4    key.Binding
	Pane5    key.Binding
	Undo     key.Binding
	Redo     key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:     binding(cfg.Quit, "quit", "q", "ctrl+c"),
		Help:     binding(cfg.Help, "help", "?"),
		NextPane: binding(cfg.NextPane, "next pane", "tab"),
		Pane1:    binding(cfg.Pane1, "tasks", "1"),
		Pane2:    binding(cfg.Pane2, "focus", "2"),
		Pane3:    binding(cfg.Pane3, "habits", "3"),
		Pane4:    binding(cfg.Pane4, "calendar", "4"),
		Pane5:    binding(cfg.Pane5, "stats", "5"),
		Undo:     binding(cfg.Undo, "undo", "ctrl+z", "u"),
		Redo:     binding(cfg.Redo, "redo", "ctrl+y"),
	}
}

// ShortHelp implements help.KeyMap.
func (k GlobalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k GlobalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.Pane1, k.Pane2, k.Pane3, k.Pane4, k.Pane5},
		{k.Undo, k.Redo, k.Help, k.Quit},
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     binding(cfg.Up, "up", "k", "up"),
		Down:   binding(cfg.Down, "down", "j", "down"),
		Top:    binding(cfg.Top, "top", "g"),
		Bottom: binding(cfg.Bottom, "bottom", "G"),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: binding(cfg.Confirm, "confirm", "enter"),
		Cancel:  binding(cfg.Cancel, "cancel", "esc"),
	}
}

// =============================================================================
// Task Pane Keys
// =============================================================================

// TaskKeyMap defines keys for the task pane.
type TaskKeyMap struct {
	Add           key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	MoveUp        key.Binding
	MoveDown      key.Binding
	Search        key.Binding
	HideCompleted key.Binding
	ClearFilter   key.Binding
	NavigationKeyMap
}

// NewTaskKeyMap creates task key bindings from config.
func NewTaskKeyMap(cfg *config.KeysConfig) TaskKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TaskKeyMap{
		Add:              binding(cfg.AddTask, "add task", "a"),
		Toggle:           binding(cfg.ToggleTask, "toggle done", "d", "enter", " "),
		Delete:           binding(cfg.DeleteTask, "delete", "x"),
		MoveUp:           binding(cfg.MoveUp, "move up", "K", "shift+up"),
		MoveDown:         binding(cfg.MoveDown, "move down", "J", "shift+down"),
		Search:           binding(cfg.Search, "search", "/"),
		HideCompleted:    binding(cfg.HideCompleted, "hide done", "h"),
		ClearFilter:      binding(cfg.Cancel, "clear filters", "esc"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Search}
}

// FullHelp returns the full help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Delete},
		{k.MoveUp, k.MoveDown, k.Search, k.HideCompleted, k.ClearFilter},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Focus Pane Keys
// =============================================================================

// FocusKeyMap defines keys for the pomodoro pane.
type FocusKeyMap struct {
	Toggle   key.Binding
	Complete key.Binding
	Reset    key.Binding
	Switch   key.Binding
}

// NewFocusKeyMap creates pomodoro key bindings from config.
func NewFocusKeyMap(cfg *config.KeysConfig) FocusKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return FocusKeyMap{
		Toggle:   binding(cfg.ToggleTimer, "start/pause", " ", "enter"),
		Complete: binding(cfg.CompleteTimer, "finish now", "c"),
		Reset:    binding(cfg.ResetTimer, "reset", "r"),
		Switch:   binding(cfg.SwitchPhase, "next phase", "s"),
	}
}

// ShortHelp returns the short help for the focus pane (implements help.KeyMap).
func (k FocusKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Complete, k.Reset, k.Switch}
}

// FullHelp returns the full help for the focus pane (implements help.KeyMap).
func (k FocusKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Toggle, k.Complete, k.Reset, k.Switch}}
}

// =============================================================================
// Habits Pane Keys
// =============================================================================

// HabitKeyMap defines keys for the habits pane.
type HabitKeyMap struct {
	Add        key.Binding
	Toggle     key.Binding
	EditTarget key.Binding
	NavigationKeyMap
}

// NewHabitKeyMap creates habit key bindings from config.
func NewHabitKeyMap(cfg *config.KeysConfig) HabitKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HabitKeyMap{
		Add:              binding(cfg.AddHabit, "add habit", "a"),
		Toggle:           binding(cfg.ToggleHabit, "toggle", "d", "enter", " "),
		EditTarget:       binding(cfg.EditTarget, "set target", "t"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the habit pane (implements help.KeyMap).
func (k HabitKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.EditTarget}
}

// FullHelp returns the full help for the habit pane (implements help.KeyMap).
func (k HabitKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.EditTarget},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Calendar Pane Keys
// =============================================================================

// CalendarKeyMap defines keys for the calendar pane. Up and down move by a
// week, left and right by a day.
type CalendarKeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Left      key.Binding
	Right     key.Binding
	Select    key.Binding
	NavigationKeyMap
}

// NewCalendarKeyMap creates calendar key bindings from config.
func NewCalendarKeyMap(cfg *config.KeysConfig) CalendarKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CalendarKeyMap{
		PrevMonth:        binding(cfg.PrevMonth, "prev month", "[", "p"),
		NextMonth:        binding(cfg.NextMonth, "next month", "]", "n"),
		Today:            binding(cfg.Today, "today", "t"),
		Left:             key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "prev day")),
		Right:            key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next day")),
		Select:           binding(cfg.Confirm, "show day", "enter"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the calendar pane (implements help.KeyMap).
func (k CalendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Select}
}

// FullHelp returns the full help for the calendar pane (implements help.KeyMap).
func (k CalendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.Today, k.Select},
		{k.Left, k.Right, k.Up, k.Down},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
