package utils

import "time"

// Timer measures the wall-clock time of a tool call or a completion request.
// [NewTimer] starts it; [Timer.Stop] freezes the measurement.
type Timer struct {
	start   time.Time
	elapsed time.Duration
	stopped bool
}

// NewTimer returns a running timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Stop freezes the elapsed time and returns it. Later calls return the frozen
// value.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.elapsed = time.Since(t.start)
		t.stopped = true
	}
	return t.elapsed
}

// Elapsed returns the frozen duration once stopped, or the time since start
// while the timer is running.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.elapsed
	}
	return time.Since(t.start)
}
