package dock

import "time"

// PointerThrottle is the minimum spacing between accepted pointer moves.
const PointerThrottle = 16 * time.Millisecond

// Throttle admits at most one event per interval. Rejected events are
// dropped, not queued, and do not extend the window.
type Throttle struct {
	interval time.Duration
	last     time.Time
	seen     bool
}

// NewThrottle returns a throttle with the given interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Allow reports whether an event at now is admitted and records it if so.
func (t *Throttle) Allow(now time.Time) bool {
	if t.seen && now.Sub(t.last) < t.interval {
		return false
	}
	t.last, t.seen = now, true
	return true
}
