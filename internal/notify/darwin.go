//go:build darwin

package notify

// newPlatformNotifier uses AppleScript's display notification.
func newPlatformNotifier() Notifier {
	return &commandNotifier{tool: "osascript", args: osascriptArgs}
}
