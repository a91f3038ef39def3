package contact

import (
	"errors"
	"sync"
	"time"
)

// ResetDelay is how long the form stays in its submitted state before it
// returns to empty input.
const ResetDelay = 3 * time.Second

var ErrAlreadySubmitted = errors.New("contact: form already submitted")

// State is the display state of the form.
type State int

const (
	StateInput State = iota
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateInput:
		return "input"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Lifecycle tracks one form. Submit moves it to StateSubmitted; after the
// delay it reverts to StateInput with empty fields and OnReset is called.
// Each submission reverts exactly once.
type Lifecycle struct {
	delay   time.Duration
	onReset func()

	mu     sync.Mutex
	state  State
	fields Submission
	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewLifecycle returns a lifecycle in StateInput. A delay <= 0 uses
// ResetDelay. onReset may be nil; it runs on the timer goroutine.
func NewLifecycle(delay time.Duration, onReset func()) *Lifecycle {
	if delay <= 0 {
		delay = ResetDelay
	}
	return &Lifecycle{delay: delay, onReset: onReset}
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Fields returns the values shown in the form.
func (l *Lifecycle) Fields() Submission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fields
}

// Submit records s and schedules the revert. It fails with
// ErrAlreadySubmitted until the previous submission has reverted.
func (l *Lifecycle) Submit(s Submission) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("contact: lifecycle closed")
	}
	if l.state == StateSubmitted {
		return ErrAlreadySubmitted
	}
	l.state = StateSubmitted
	l.fields = s

	l.gen++
	gen := l.gen
	l.timer = time.AfterFunc(l.delay, func() { l.reset(gen) })
	return nil
}

func (l *Lifecycle) reset(gen uint64) {
	l.mu.Lock()
	// A timer that lost a race with Close or a newer submission is stale.
	if l.closed || l.gen != gen || l.state != StateSubmitted {
		l.mu.Unlock()
		return
	}
	l.state = StateInput
	l.fields = Submission{}
	l.timer = nil
	onReset := l.onReset
	l.mu.Unlock()

	if onReset != nil {
		onReset()
	}
}

// Close cancels any pending revert. OnReset is not called afterwards.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
