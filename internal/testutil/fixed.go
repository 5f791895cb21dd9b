package testutil

import "time"

// FixedClock returns the same instant every time.
//
// Useful for asserting created == modified on insert and for checking that
// updates never produce modified < created.
//
// Thread-safety: FixedClock is immutable and safe for concurrent use.
type FixedClock struct {
	t time.Time
}

// NewFixedClock creates a clock frozen at t. A zero t freezes at Epoch.
func NewFixedClock(t time.Time) FixedClock {
	if t.IsZero() {
		t = Epoch
	}
	return FixedClock{t: t}
}

// Now returns the frozen instant.
func (c FixedClock) Now() time.Time {
	return c.t
}
