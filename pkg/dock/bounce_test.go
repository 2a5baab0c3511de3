package dock

import (
	"math"
	"testing"
	"time"
)

func TestTransformBounceHeight(t *testing.T) {
	if got := TransformBounceHeight(48); math.Abs(got-5.76) > 1e-9 {
		t.Errorf("TransformBounceHeight(48) = %v, want 5.76", got)
	}
	if got := TransformBounceHeight(100); got != 6 {
		t.Errorf("TransformBounceHeight(100) = %v, want 6", got)
	}
}

func TestTransformBounceCurve(t *testing.T) {
	b := NewTransformBounce()
	b.Start(2, 48, 1)
	h := TransformBounceHeight(48)

	steps := []struct {
		dt     time.Duration
		want   float64
		moving bool
	}{
		{100 * time.Millisecond, -h * 0.75, true},
		{100 * time.Millisecond, -h, true},
		{100 * time.Millisecond, -h * 0.25, true},
		{100 * time.Millisecond, 0, false},
	}
	for i, s := range steps {
		moving := b.Step(s.dt)
		if moving != s.moving {
			t.Errorf("step %d: moving = %v, want %v", i, moving, s.moving)
		}
		if got := b.Lift(2); math.Abs(got-s.want) > 1e-9 {
			t.Errorf("step %d: Lift = %v, want %v", i, got, s.want)
		}
	}
	if got := b.Lift(0); got != 0 {
		t.Errorf("idle slot Lift = %v", got)
	}
}

func TestTransformBounceRestart(t *testing.T) {
	b := NewTransformBounce()
	b.Start(0, 48, 1)
	b.Step(300 * time.Millisecond)
	b.Start(0, 48, 1)
	if !b.Step(100 * time.Millisecond) {
		t.Fatal("restarted bounce stopped early")
	}
	if got := b.Lift(0); got >= 0 {
		t.Errorf("restarted bounce Lift = %v, want upward", got)
	}
	b.Reset()
	if b.Step(FrameInterval) || b.Lift(0) != 0 {
		t.Error("Reset left a bounce running")
	}
}

func TestSpringBounceHeight(t *testing.T) {
	if got := SpringBounceHeight(48, 1.4); math.Abs(got-8.64) > 1e-9 {
		t.Errorf("magnified height = %v, want 8.64", got)
	}
	if got := SpringBounceHeight(48, 1.2); math.Abs(got-5.76) > 1e-9 {
		t.Errorf("rest height = %v, want 5.76", got)
	}
}

func TestSpringBounceRisesAndSettles(t *testing.T) {
	b := NewSpringBounce(60)
	b.Start(1, 48, 1.4)
	h := SpringBounceHeight(48, 1.4)

	peak := 0.0
	frames := 0
	for b.Step(FrameInterval) {
		frames++
		peak = math.Min(peak, b.Lift(1))
		if frames > 300 {
			t.Fatalf("spring still moving after %d frames, lift %v", frames, b.Lift(1))
		}
	}
	if peak > -h/2 {
		t.Errorf("peak lift = %v, want above %v", peak, -h/2)
	}
	if got := b.Lift(1); got != 0 {
		t.Errorf("settled Lift = %v, want 0", got)
	}
}

func TestSpringBounceSplitsLongSteps(t *testing.T) {
	a := NewSpringBounce(60)
	b := NewSpringBounce(60)
	a.Start(0, 48, 1)
	b.Start(0, 48, 1)

	a.Step(4 * FrameInterval)
	for n := 0; n < 4; n++ {
		b.Step(FrameInterval)
	}
	if math.Abs(a.Lift(0)-b.Lift(0)) > 1e-12 {
		t.Errorf("one long step = %v, four frames = %v", a.Lift(0), b.Lift(0))
	}
}

var (
	_ BounceEffect = (*TransformBounce)(nil)
	_ BounceEffect = (*SpringBounce)(nil)
)
