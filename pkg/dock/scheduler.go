package dock

import (
	"sync"
	"time"
)

// FrameInterval is the nominal display refresh period.
const FrameInterval = time.Second / 60

// Scheduler arranges for fn to run on the next display refresh and returns a
// function that withdraws the request. Calling cancel after fn ran is a no-op.
type Scheduler interface {
	Schedule(fn func(now time.Time)) (cancel func())
}

// ManualScheduler holds at most one pending frame until Step is called.
// It drives the controller synthetically in tests and offline renderers.
type ManualScheduler struct {
	mu      sync.Mutex
	pending func(time.Time)
	seq     uint64
	now     time.Time
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Schedule implements Scheduler.
func (m *ManualScheduler) Schedule(fn func(time.Time)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	seq := m.seq
	m.pending = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.seq == seq {
			m.pending = nil
		}
	}
}

// Pending reports whether a frame is waiting.
func (m *ManualScheduler) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Now returns the scheduler's clock.
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward without running a frame.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Step advances the clock by FrameInterval and runs the pending frame, if
// any. It reports whether a frame ran.
func (m *ManualScheduler) Step() bool {
	m.mu.Lock()
	fn := m.pending
	m.pending = nil
	m.now = m.now.Add(FrameInterval)
	now := m.now
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(now)
	return true
}

// Run steps until no frame is pending or max frames ran, returning the
// number of frames executed.
func (m *ManualScheduler) Run(max int) int {
	n := 0
	for n < max && m.Step() {
		n++
	}
	return n
}
