// Package common holds small utilities shared across commands.
package common

import (
	"fmt"
	"time"
)

// Timer measures elapsed wall time for an operation.
type Timer struct {
	name     string
	start    time.Time
	duration time.Duration
}

// NewTimer starts an unnamed timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// NewNamedTimer starts a timer labelled with the given operation name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop records and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the duration recorded by Stop.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Elapsed returns the running time without stopping the timer.
func (t *Timer) Elapsed() time.Duration {
	if t.duration != 0 {
		return t.duration
	}
	return time.Since(t.start)
}

// Name returns the operation name, empty for unnamed timers.
func (t *Timer) Name() string {
	return t.name
}

func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.Elapsed())
	}
	return t.Elapsed().String()
}
