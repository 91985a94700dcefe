package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBudget(t *testing.T) {
	l := New(time.Second, 60)
	now := time.Unix(1000, 0)

	for i := range 60 {
		assert.True(t, l.Allow("conn", now), "message %d should pass", i+1)
	}
	// everything past the 60th in the same window is dropped
	assert.False(t, l.Allow("conn", now))
	assert.False(t, l.Allow("conn", now.Add(500*time.Millisecond)))
}

func TestWindowReset(t *testing.T) {
	l := New(time.Second, 2)
	now := time.Unix(1000, 0)

	assert.True(t, l.Allow("conn", now))
	assert.True(t, l.Allow("conn", now))
	assert.False(t, l.Allow("conn", now))

	later := now.Add(1100 * time.Millisecond)
	assert.True(t, l.Allow("conn", later), "fresh window grants fresh budget")
}

func TestRejectedMessagesStillCount(t *testing.T) {
	l := New(time.Second, 3)
	now := time.Unix(1000, 0)

	for range 10 {
		l.Allow("conn", now)
	}
	// Burst exhausted the window; the next window must start clean, not
	// carry debt.
	assert.True(t, l.Allow("conn", now.Add(2*time.Second)))
}

func TestConnectionsAreIndependent(t *testing.T) {
	l := New(time.Second, 1)
	now := time.Unix(1000, 0)

	assert.True(t, l.Allow("a", now))
	assert.False(t, l.Allow("a", now))
	assert.True(t, l.Allow("b", now))
}

func TestRemove(t *testing.T) {
	l := New(time.Second, 1)
	now := time.Unix(1000, 0)

	assert.True(t, l.Allow("conn", now))
	assert.False(t, l.Allow("conn", now))

	l.Remove("conn")
	assert.True(t, l.Allow("conn", now), "removed entry recreates lazily")
}

func TestSweep(t *testing.T) {
	l := New(time.Second, 60)
	now := time.Unix(1000, 0)

	l.Allow("gone", now)
	l.Allow("active", now.Add(900*time.Millisecond))
	assert.Equal(t, 2, l.Len())

	removed := l.Sweep(now.Add(1500 * time.Millisecond))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, l.Len())
}

func TestDefaults(t *testing.T) {
	l := New(0, 0)
	now := time.Unix(1000, 0)

	for range DefaultMaxPerWindow {
		assert.True(t, l.Allow("conn", now))
	}
	assert.False(t, l.Allow("conn", now))
}
