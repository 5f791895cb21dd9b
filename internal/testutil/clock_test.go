package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClock_StartsAtStart(t *testing.T) {
	clock := NewDefaultStepClock()
	assert.Equal(t, Epoch, clock.Peek())
	assert.Equal(t, Epoch, clock.Now())
}

func TestStepClock_AdvancesByStep(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewStepClock(start, time.Minute)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Minute), clock.Now())
	assert.Equal(t, start.Add(2*time.Minute), clock.Now())
	assert.Equal(t, start.Add(3*time.Minute), clock.Peek())
}

func TestStepClock_SetBackwards(t *testing.T) {
	clock := NewDefaultStepClock()
	clock.Now()
	clock.Now()

	earlier := Epoch.Add(-time.Hour)
	clock.Set(earlier)
	assert.Equal(t, earlier, clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewDefaultStepClock()
	const numGoroutines = 50
	const callsPerGoroutine = 20

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	var mu sync.Mutex
	seen := make(map[time.Time]bool)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				now := clock.Now()
				mu.Lock()
				seen[now] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Every reading is distinct.
	require.Len(t, seen, numGoroutines*callsPerGoroutine)
	assert.Equal(t, Epoch.Add(numGoroutines*callsPerGoroutine*time.Second), clock.Peek())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFixedClock(at)
	assert.Equal(t, at, clock.Now())
	assert.Equal(t, at, clock.Now())

	assert.Equal(t, Epoch, NewFixedClock(time.Time{}).Now())
}
