// Package testutil provides deterministic clocks for store and CLI tests.
package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start time of test clocks.
var Epoch = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// StepClock is a wall clock that advances by a fixed step on every call.
//
// The first call to Now() returns the start time; each later call returns the
// previous value plus step. This gives timestamps that are distinct, strictly
// increasing and identical across test runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at start and advancing by step.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// NewDefaultStepClock creates a clock starting at Epoch, advancing by one second.
func NewDefaultStepClock() *StepClock {
	return NewStepClock(Epoch, time.Second)
}

// Now returns the current reading and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// Peek returns the value the next Now() call will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// Set moves the clock so the next Now() returns t. Moving backwards is
// allowed, which lets tests simulate wall-clock corrections.
func (c *StepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = t
}
