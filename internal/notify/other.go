//go:build !darwin && !linux

package notify

// newPlatformNotifier has nothing to offer on this platform.
func newPlatformNotifier() Notifier {
	return noopNotifier{}
}
