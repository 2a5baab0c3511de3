package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/magdock/pkg/dock"
)

// frameTick is the terminal refresh period for dock frames.
const frameTick = 16 * time.Millisecond

// frameMsg delivers one scheduled frame to the model.
type frameMsg struct {
	seq int
	at  time.Time
}

// teaScheduler adapts the dock frame loop to bubbletea. Schedule only
// records the callback; the model turns it into a tea.Tick command after
// each Update, and the resulting frameMsg runs it. Everything happens on
// the bubbletea event loop, so no locking is needed.
type teaScheduler struct {
	seq      int
	fn       func(time.Time)
	inFlight bool
}

// Schedule implements dock.Scheduler.
func (s *teaScheduler) Schedule(fn func(time.Time)) func() {
	s.seq++
	seq := s.seq
	s.fn = fn
	return func() {
		if s.seq == seq {
			s.fn = nil
		}
	}
}

// cmd returns a tick for the pending frame, or nil when nothing is pending
// or a tick is already in flight.
func (s *teaScheduler) cmd() tea.Cmd {
	if s.fn == nil || s.inFlight {
		return nil
	}
	s.inFlight = true
	seq := s.seq
	return tea.Tick(frameTick, func(t time.Time) tea.Msg { return frameMsg{seq: seq, at: t} })
}

// fire runs the pending frame. A tick for a cancelled or replaced callback
// still clears inFlight so that the next cmd can arm a fresh tick.
func (s *teaScheduler) fire(msg frameMsg) {
	s.inFlight = false
	if s.fn == nil || msg.seq != s.seq {
		return
	}
	fn := s.fn
	s.fn = nil
	fn(msg.at)
}

var _ dock.Scheduler = (*teaScheduler)(nil)
