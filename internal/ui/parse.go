package ui

import (
	"fmt"
	"strings"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/tasks"
)

// QuickAdd is a parsed task entry line.
type QuickAdd struct {
	Task     tasks.NewTask
	Category string // category id or name, empty for the default
}

// ParseQuickAdd reads a task line with optional inline markers:
//
//	!urgent !high !medium !low   priority (or !u !h !m !l)
//	#tag                         tag (repeatable)
//	@category                    category id or name
//	^2024-03-15                  date
//
// Everything else is the task text.
func ParseQuickAdd(line string) (QuickAdd, error) {
	var (
		out  QuickAdd
		text []string
	)

	for _, word := range strings.Fields(line) {
		switch {
		case len(word) > 1 && word[0] == '!':
			p, err := tasks.ParsePriority(word[1:])
			if err != nil {
				// Not a marker, e.g. "!important".
				text = append(text, word)
				continue
			}
			out.Task.Priority = p

		case len(word) > 1 && word[0] == '#':
			out.Task.Tags = append(out.Task.Tags, word[1:])

		case len(word) > 1 && word[0] == '@':
			out.Category = word[1:]

		case len(word) > 1 && word[0] == '^':
			if !datekey.Valid(word[1:]) {
				return QuickAdd{}, fmt.Errorf("invalid date %q (want ^YYYY-MM-DD)", word[1:])
			}
			out.Task.Date = word[1:]

		default:
			text = append(text, word)
		}
	}

	out.Task.Text = strings.Join(text, " ")
	if out.Task.Text == "" {
		return QuickAdd{}, fmt.Errorf("task text is required")
	}
	return out, nil
}
