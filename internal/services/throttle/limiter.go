package throttle

import (
	"sync"
	"time"
)

// Limiter gates how often streamed frames are persisted. It owns its
// last-event timestamp instead of leaving it as ambient process state, so it
// can be injected and tested in isolation.
type Limiter struct {
	mu          sync.Mutex
	last        time.Time
	minInterval time.Duration
}

// New creates a limiter that allows at most one event per minInterval.
// A zero or negative interval allows everything.
func New(minInterval time.Duration) *Limiter {
	return &Limiter{minInterval: minInterval}
}

// Allow reports whether an event may be persisted at the given time, and
// records it as the last event when allowed.
func (l *Limiter) Allow(now time.Time) bool {
	if l.minInterval <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() && now.Sub(l.last) < l.minInterval {
		return false
	}
	l.last = now
	return true
}

// Reset clears the last-event timestamp.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = time.Time{}
}
