package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// commandNotifier shows notifications by running a desktop tool.
type commandNotifier struct {
	tool string
	args func(Message) []string
}

func (c *commandNotifier) IsSupported() bool {
	_, err := exec.LookPath(c.tool)
	return err == nil
}

func (c *commandNotifier) Notify(m Message) error {
	out, err := exec.Command(c.tool, c.args(m)...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", c.tool, err, msg)
		}
		return fmt.Errorf("%s failed: %w", c.tool, err)
	}
	return nil
}

// notifySendArgs builds the notify-send command line. The sound request is
// a hint; whether it plays depends on the notification daemon.
func notifySendArgs(m Message) []string {
	args := []string{"--app-name=" + AppName, "--urgency=normal"}
	if m.Sound {
		args = append(args, "--hint=string:sound-name:complete")
	}
	return append(args, m.Title, m.Body)
}

// osascriptArgs builds the osascript command line.
func osascriptArgs(m Message) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(m.Body), escapeAppleScript(m.Title))
	if m.Sound {
		script += ` sound name "Glass"`
	}
	return []string{"-e", script}
}

// escapeAppleScript escapes special characters for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
