// Package ui is the terminal dashboard.
// This file contains tea.Cmd factories that wrap controller operations so
// persistence runs off the event loop. Each command returns a message type
// defined in messages.go.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dailyfocus/internal/app"
	"dailyfocus/internal/notify"
	"dailyfocus/internal/storage"
)

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dispatchCmd applies an action through the controller.
func dispatchCmd(ctrl *app.Controller, a app.Action) tea.Cmd {
	return dispatchWithStatus(ctrl, a, "")
}

// dispatchWithStatus is dispatchCmd with a status line shown on success.
func dispatchWithStatus(ctrl *app.Controller, a app.Action, status string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Dispatch(a)
		return actionDoneMsg{label: a.Describe(), status: status, err: err}
	}
}

func undoCmd(ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		label, ok, err := ctrl.Undo()
		return historyMsg{label: label, ok: ok, err: err}
	}
}

func redoCmd(ctrl *app.Controller) tea.Cmd {
	return func() tea.Msg {
		label, ok, err := ctrl.Redo()
		return historyMsg{redo: true, label: label, ok: ok, err: err}
	}
}

// announceCmd sends the phase notification. It returns no message.
func announceCmd(a *notify.Announcer, phase storage.Phase) tea.Cmd {
	if a == nil || !a.Enabled() {
		return nil
	}
	return func() tea.Msg {
		a.PhaseFinished(phase)
		return nil
	}
}

// errCmd reports a failure found before anything was dispatched.
func errCmd(label string, err error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{label: label, err: err}
	}
}
