// Package ratelimit implements the per-connection sliding-window counter
// that guards every inbound message type.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is how long one counting window lasts.
	DefaultWindow = time.Second
	// DefaultMaxPerWindow is the message budget per connection per window.
	DefaultMaxPerWindow = 60
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts inbound messages per connection id. Every message consumes
// one unit regardless of validity; rejected messages still count, so a retry
// storm cannot buy extra budget.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	byID   map[string]*entry
}

// New builds a limiter. Non-positive arguments fall back to the defaults.
func New(window time.Duration, maxPerWindow int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxPerWindow <= 0 {
		maxPerWindow = DefaultMaxPerWindow
	}
	return &Limiter{
		window: window,
		max:    maxPerWindow,
		byID:   make(map[string]*entry),
	}
}

// Allow records one message for id at time now and reports whether it is
// within budget. The entry is created lazily on first use.
func (l *Limiter) Allow(id string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byID[id]
	if !ok || now.After(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.byID[id] = e
	}
	e.count++
	return e.count <= l.max
}

// Remove drops the entry for a disconnected connection.
func (l *Limiter) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.byID, id)
}

// Sweep removes every expired entry. It catches connections that sent
// traffic but disconnected before joining, so their entries were never
// removed through the session path.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, e := range l.byID {
		if now.After(e.resetAt) {
			delete(l.byID, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked connections.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byID)
}
