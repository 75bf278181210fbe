// Package session implements the typing-test state machine and its metrics.
package session

import (
	"time"

	"github.com/verte-zerg/quicktype/internal/stats"
)

// State is the lifecycle stage of a Session.
type State int

const (
	// Idle sessions have not received a keystroke yet.
	Idle State = iota
	// Running sessions are timed and accept keystrokes.
	Running
	// Completed sessions reached the end of the target and are frozen.
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Status records how a target position was typed.
type Status uint8

const (
	// Untyped positions are at or after the cursor.
	Untyped Status = iota
	// Correct positions matched the target rune.
	Correct
	// Incorrect positions were mistyped and count as errors.
	Incorrect
)

// Metrics are derived from the cursor, error count and elapsed time.
type Metrics struct {
	Elapsed  time.Duration
	Typed    int
	Errors   int
	WPM      float64
	RawWPM   float64
	Accuracy float64
}

// Session tracks progress through a fixed target string. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Session struct {
	target []rune
	status []Status
	cursor int
	errors int

	state     State
	startedAt time.Time
	endedAt   time.Time
	metrics   Metrics
}

// New returns an Idle session for target. An empty target is Completed.
func New(target string) *Session {
	runes := []rune(target)
	s := &Session{
		target: runes,
		status: make([]Status, len(runes)),
	}
	if len(runes) == 0 {
		s.state = Completed
	}
	return s
}

// Type consumes one keystroke. The first keystroke starts the clock. Mistyped
// characters still advance the cursor and count as errors.
func (s *Session) Type(r rune, now time.Time) {
	switch s.state {
	case Completed:
		return
	case Idle:
		s.state = Running
		s.startedAt = now
	}

	if r == s.target[s.cursor] {
		s.status[s.cursor] = Correct
	} else {
		s.status[s.cursor] = Incorrect
		s.errors++
	}
	s.cursor++
	s.recompute(now)

	if s.cursor == len(s.target) {
		s.state = Completed
		s.endedAt = now
	}
}

// Backspace un-types the previous position while Running.
func (s *Session) Backspace(now time.Time) {
	if s.state != Running || s.cursor == 0 {
		return
	}
	s.cursor--
	if s.status[s.cursor] == Incorrect {
		s.errors--
	}
	s.status[s.cursor] = Untyped
	s.recompute(now)
}

// Tick refreshes metrics against the clock while Running.
func (s *Session) Tick(now time.Time) {
	if s.state != Running {
		return
	}
	s.recompute(now)
}

// WPM stays at its previous value until elapsed time is strictly positive.
func (s *Session) recompute(now time.Time) {
	s.metrics.Typed = s.cursor
	s.metrics.Errors = s.errors
	s.metrics.Accuracy = stats.Accuracy(s.cursor, s.errors)

	elapsed := now.Sub(s.startedAt)
	if elapsed <= 0 {
		return
	}
	s.metrics.Elapsed = elapsed
	if wpm, ok := stats.WPM(s.cursor, elapsed); ok {
		s.metrics.RawWPM = wpm
	}
	if wpm, ok := stats.WPM(s.cursor-s.errors, elapsed); ok {
		s.metrics.WPM = wpm
	}
}

// State returns the current lifecycle stage.
func (s *Session) State() State { return s.state }

// Cursor returns the index of the next position to type.
func (s *Session) Cursor() int { return s.cursor }

// Errors returns the number of incorrect positions not yet backspaced.
func (s *Session) Errors() int { return s.errors }

// Metrics returns the last computed metrics.
func (s *Session) Metrics() Metrics { return s.metrics }

// Target returns the runes to type.
func (s *Session) Target() []rune { return s.target }

// Len returns the target length in runes.
func (s *Session) Len() int { return len(s.target) }

// Status returns how position i was typed.
func (s *Session) Status(i int) Status {
	if i < 0 || i >= len(s.status) {
		return Untyped
	}
	return s.status[i]
}

// StartedAt returns the time of the first keystroke, or zero.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// EndedAt returns the completion time, or zero.
func (s *Session) EndedAt() time.Time { return s.endedAt }
