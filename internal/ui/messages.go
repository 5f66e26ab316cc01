// Package ui is the terminal dashboard.
// This file defines message types for async operations. Commands in
// commands.go return them so the event loop never blocks on storage.
package ui

import (
	"time"
)

// tickMsg is sent once a second for the pomodoro and status expiry.
type tickMsg time.Time

// actionDoneMsg reports a dispatched action. The controller has already
// applied it unless err is a validation error.
type actionDoneMsg struct {
	label  string
	status string // shown on success when set
	err    error
}

// historyMsg reports an undo or redo.
type historyMsg struct {
	redo  bool
	label string
	ok    bool // false when there was nothing to travel to
	err   error
}

// dateSelectedMsg is sent when a calendar day is chosen.
type dateSelectedMsg struct {
	date string
}
