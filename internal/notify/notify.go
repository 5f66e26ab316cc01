// Package notify provides cross-platform desktop notification support.
// It uses native notification mechanisms on macOS (osascript) and Linux (notify-send).
package notify

import (
	"go.uber.org/zap"

	"dailyfocus/internal/config"
	"dailyfocus/internal/pomodoro"
	"dailyfocus/internal/storage"
)

// AppName identifies the sender to the notification daemon.
const AppName = "dailyfocus"

// Message is one desktop notification.
type Message struct {
	Title string
	Body  string
	Sound bool
}

// Notifier delivers desktop notifications.
type Notifier interface {
	// Notify shows m. Sound is a request; the platform may ignore it.
	Notify(m Message) error

	// IsSupported returns true if notifications can be shown on this system.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Notify(Message) error { return nil }
func (noopNotifier) IsSupported() bool    { return false }

// New creates a platform-specific notifier.
// Returns a no-op notifier if the platform doesn't support notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// PhaseMessage returns the title and body announcing a finished phase.
func PhaseMessage(phase storage.Phase) (title, body string) {
	return "Pomodoro Complete!", pomodoro.Label(phase) + " session finished"
}

// Announcer sends pomodoro notifications according to the user's settings.
// Delivery is best effort: failures are logged, never returned.
type Announcer struct {
	n   Notifier
	cfg config.NotificationConfig
	log *zap.Logger
}

// NewAnnouncer wraps n. A nil logger discards output.
func NewAnnouncer(n Notifier, cfg config.NotificationConfig, log *zap.Logger) *Announcer {
	if n == nil {
		n = noopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Announcer{n: n, cfg: cfg, log: log}
}

// Enabled reports whether notifications will be attempted.
func (a *Announcer) Enabled() bool {
	return a.cfg.Enabled && a.n.IsSupported()
}

// PhaseFinished announces the end of a pomodoro phase.
func (a *Announcer) PhaseFinished(phase storage.Phase) {
	if !a.Enabled() {
		return
	}

	title, body := PhaseMessage(phase)
	if err := a.n.Notify(Message{Title: title, Body: body, Sound: a.cfg.Sound}); err != nil {
		a.log.Warn("send notification", zap.String("phase", string(phase)), zap.Error(err))
	}
}
