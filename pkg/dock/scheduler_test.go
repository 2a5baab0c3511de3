package dock

import (
	"testing"
	"time"
)

func TestManualSchedulerStep(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManualScheduler(start)

	if m.Step() {
		t.Fatal("Step ran with nothing pending")
	}

	var got time.Time
	m.Schedule(func(now time.Time) { got = now })
	if !m.Pending() {
		t.Fatal("Pending = false after Schedule")
	}
	if !m.Step() {
		t.Fatal("Step = false with a pending frame")
	}
	if want := start.Add(2 * FrameInterval); !got.Equal(want) {
		t.Errorf("frame time = %v, want %v", got, want)
	}
	if m.Pending() {
		t.Error("frame still pending after Step")
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	m := NewManualScheduler(time.Now())
	ran := false
	cancel := m.Schedule(func(time.Time) { ran = true })
	cancel()
	if m.Pending() || m.Step() || ran {
		t.Error("cancelled frame ran")
	}
}

func TestManualSchedulerStaleCancel(t *testing.T) {
	m := NewManualScheduler(time.Now())
	stale := m.Schedule(func(time.Time) {})
	m.Step()

	ran := false
	m.Schedule(func(time.Time) { ran = true })
	stale()
	if !m.Pending() {
		t.Fatal("stale cancel withdrew a newer frame")
	}
	m.Step()
	if !ran {
		t.Error("newer frame did not run")
	}
}

func TestManualSchedulerRun(t *testing.T) {
	m := NewManualScheduler(time.Now())
	remaining := 5
	var tick func(time.Time)
	tick = func(time.Time) {
		remaining--
		if remaining > 0 {
			m.Schedule(tick)
		}
	}
	m.Schedule(tick)

	if n := m.Run(100); n != 5 {
		t.Errorf("Run = %d, want 5", n)
	}
	if n := m.Run(100); n != 0 {
		t.Errorf("second Run = %d, want 0", n)
	}
}

func TestManualSchedulerRunLimit(t *testing.T) {
	m := NewManualScheduler(time.Now())
	var tick func(time.Time)
	tick = func(time.Time) { m.Schedule(tick) }
	m.Schedule(tick)
	if n := m.Run(10); n != 10 {
		t.Errorf("Run = %d, want 10", n)
	}
	if !m.Pending() {
		t.Error("self-rescheduling frame not pending after limit")
	}
}
