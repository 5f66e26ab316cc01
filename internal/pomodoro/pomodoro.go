// Package pomodoro is the focus timer state machine.
//
// Timer is a value type: every transition returns a new Timer and leaves the
// receiver untouched, so the UI can keep the previous value for rendering
// and tests can step through transitions without a clock.
package pomodoro

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dailyfocus/internal/datekey"
	"dailyfocus/internal/storage"
)

// State of the timer.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// ErrInvalidTransition is returned when an action is not allowed in the
// current state. The timer is left unchanged.
var ErrInvalidTransition = errors.New("invalid pomodoro transition")

// LongBreakEvery is the rotation length: every fourth completed work session
// is followed by a long break.
const LongBreakEvery = 4

// Duration returns the fixed length of a phase.
func Duration(p storage.Phase) time.Duration {
	switch p {
	case storage.PhaseShortBreak:
		return 5 * time.Minute
	case storage.PhaseLongBreak:
		return 15 * time.Minute
	default:
		return 25 * time.Minute
	}
}

// Label returns the display name of a phase.
func Label(p storage.Phase) string {
	switch p {
	case storage.PhaseShortBreak:
		return "Short Break"
	case storage.PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

// Phases lists the phases in display order.
var Phases = []storage.Phase{storage.PhaseWork, storage.PhaseShortBreak, storage.PhaseLongBreak}

// Timer is the pomodoro state machine.
type Timer struct {
	phase         storage.Phase
	state         State
	remaining     time.Duration
	completedWork int

	session    storage.PomodoroSession
	hasSession bool
}

// New returns an idle timer at the start of a work phase.
func New() Timer {
	return Timer{
		phase:     storage.PhaseWork,
		state:     StateIdle,
		remaining: Duration(storage.PhaseWork),
	}
}

// WithCompletedWork seeds the rotation counter, e.g. from today's sessions.
func (t Timer) WithCompletedWork(n int) Timer {
	if n < 0 {
		n = 0
	}
	t.completedWork = n
	return t
}

func (t Timer) Phase() storage.Phase { return t.phase }

func (t Timer) State() State { return t.state }

func (t Timer) Remaining() time.Duration { return t.remaining }

func (t Timer) CompletedWork() int { return t.completedWork }

func (t Timer) Label() string { return Label(t.phase) }

// Session returns the in-progress session record, if any.
func (t Timer) Session() (storage.PomodoroSession, bool) {
	return t.session, t.hasSession
}

// Progress returns elapsed time of the current phase in percent.
func (t Timer) Progress() float64 {
	total := Duration(t.phase)
	return float64(total-t.remaining) / float64(total) * 100
}

// Start begins a new session from idle, or resumes from paused. taskID may
// be empty; id names the new session record.
func (t Timer) Start(taskID, id string, now time.Time) (Timer, error) {
	switch t.state {
	case StatePaused:
		t.state = StateRunning
		return t, nil
	case StateIdle:
		t.state = StateRunning
		t.session = storage.PomodoroSession{
			ID:        id,
			TaskID:    taskID,
			StartTime: now,
			Duration:  int(Duration(t.phase) / time.Minute),
			Type:      t.phase,
		}
		t.hasSession = true
		return t, nil
	default:
		return t, fmt.Errorf("%w: start while %s", ErrInvalidTransition, t.state)
	}
}

// Pause halts a running countdown.
func (t Timer) Pause() (Timer, error) {
	if t.state != StateRunning {
		return t, fmt.Errorf("%w: pause while %s", ErrInvalidTransition, t.state)
	}
	t.state = StatePaused
	return t, nil
}

// Tick advances a running timer by one second. When the countdown reaches
// zero the finished session is returned with done=true and the timer has
// already moved on to the next phase, idle. Ticks in other states are
// ignored.
func (t Timer) Tick(now time.Time) (next Timer, finished storage.PomodoroSession, done bool) {
	if t.state != StateRunning {
		return t, storage.PomodoroSession{}, false
	}
	t.remaining -= time.Second
	if t.remaining > 0 {
		return t, storage.PomodoroSession{}, false
	}
	t.remaining = 0
	return t.finish(now, Duration(t.phase))
}

// Complete ends the current session early. The recorded duration is the
// time actually spent, rounded up to whole minutes and never below one.
func (t Timer) Complete(now time.Time) (Timer, storage.PomodoroSession, error) {
	if t.state != StateRunning && t.state != StatePaused {
		return t, storage.PomodoroSession{}, fmt.Errorf("%w: complete while %s", ErrInvalidTransition, t.state)
	}
	spent := Duration(t.phase) - t.remaining
	next, s, _ := t.finish(now, spent)
	s.Duration = max(1, int(math.Ceil(spent.Minutes())))
	return next, s, nil
}

func (t Timer) finish(now time.Time, spent time.Duration) (Timer, storage.PomodoroSession, bool) {
	t.state = StateCompleted

	s := t.session
	end := now
	s.EndTime = &end
	s.Completed = true
	s.Duration = int(math.Round(spent.Minutes()))

	if t.phase == storage.PhaseWork {
		if t.completedWork%LongBreakEvery == LongBreakEvery-1 {
			t.phase = storage.PhaseLongBreak
		} else {
			t.phase = storage.PhaseShortBreak
		}
		t.completedWork++
	} else {
		t.phase = storage.PhaseWork
	}

	t.state = StateIdle
	t.remaining = Duration(t.phase)
	t.session = storage.PomodoroSession{}
	t.hasSession = false
	return t, s, true
}

// Reset discards any in-progress session and rewinds the current phase.
func (t Timer) Reset() Timer {
	t.state = StateIdle
	t.remaining = Duration(t.phase)
	t.session = storage.PomodoroSession{}
	t.hasSession = false
	return t
}

// SwitchPhase selects a phase manually. Not allowed while running; any
// in-progress session is discarded.
func (t Timer) SwitchPhase(p storage.Phase) (Timer, error) {
	if t.state == StateRunning {
		return t, fmt.Errorf("%w: switch phase while running", ErrInvalidTransition)
	}
	switch p {
	case storage.PhaseWork, storage.PhaseShortBreak, storage.PhaseLongBreak:
	default:
		return t, fmt.Errorf("unknown phase %q", p)
	}
	t.phase = p
	return t.Reset(), nil
}

// FormatClock renders d as MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// CompletedWorkOn counts completed work sessions that started on dateKey.
func CompletedWorkOn(sessions []storage.PomodoroSession, dateKey string, loc *time.Location) int {
	n := 0
	for _, s := range sessions {
		if s.Completed && s.Type == storage.PhaseWork && datekey.In(s.StartTime, loc) == dateKey {
			n++
		}
	}
	return n
}
