//go:build linux

package notify

// newPlatformNotifier uses notify-send from libnotify.
func newPlatformNotifier() Notifier {
	return &commandNotifier{tool: "notify-send", args: notifySendArgs}
}
