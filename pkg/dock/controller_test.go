package dock

import (
	"math"
	"testing"
	"time"

	derrors "github.com/matzehuels/magdock/pkg/errors"
	"github.com/matzehuels/magdock/pkg/observability"
)

var testEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// recordingScheduler keeps every scheduled callback and counts cancels.
type recordingScheduler struct {
	fns     []func(time.Time)
	cancels int
}

func (r *recordingScheduler) Schedule(fn func(time.Time)) func() {
	r.fns = append(r.fns, fn)
	return func() { r.cancels++ }
}

type dockRecorder struct {
	observability.NoopDockHooks
	frames, settles, reinits int
	activated                []string
}

func (d *dockRecorder) OnFrame(int)                 { d.frames++ }
func (d *dockRecorder) OnSettle(int, time.Duration) { d.settles++ }
func (d *dockRecorder) OnReinit(int)                { d.reinits++ }
func (d *dockRecorder) OnActivate(id string)        { d.activated = append(d.activated, id) }

func newTestController(t *testing.T, n int, opts ...Option) (*Controller, *ManualScheduler) {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	sched := NewManualScheduler(testEpoch)
	opts = append([]Option{WithScheduler(sched), WithClock(sched.Now)}, opts...)
	c := NewController(testSlots(ids...), DefaultConfig, opts...)
	t.Cleanup(c.Close)
	return c, sched
}

func TestControllerStartsSettled(t *testing.T) {
	c, sched := newTestController(t, 5)
	if c.Pending() || sched.Pending() {
		t.Error("new controller has a pending frame")
	}
	if !c.Frame().Settled {
		t.Error("new controller frame not settled")
	}
}

func TestControllerDefaultScheduler(t *testing.T) {
	c := NewController(testSlots("a"), DefaultConfig)
	defer c.Close()
	if _, ok := c.Scheduler().(*ManualScheduler); !ok {
		t.Errorf("default scheduler = %T, want *ManualScheduler", c.Scheduler())
	}
}

func TestControllerPointerMoveThrottled(t *testing.T) {
	now := testEpoch
	c := NewController(testSlots("a", "b", "c"), DefaultConfig, WithClock(func() time.Time { return now }))
	defer c.Close()

	if !c.PointerMove(100, 20) {
		t.Fatal("first move rejected")
	}
	// clientX - dockLeft - padding
	if x, ok := c.Pointer().X(); !ok || x != 74 {
		t.Errorf("pointer = %v, want at(74)", c.Pointer())
	}

	now = now.Add(5 * time.Millisecond)
	if c.PointerMove(200, 20) {
		t.Error("move 5ms later accepted")
	}
	if x, _ := c.Pointer().X(); x != 74 {
		t.Errorf("rejected move changed pointer to %v", x)
	}

	now = now.Add(11 * time.Millisecond)
	if !c.PointerMove(200, 20) {
		t.Error("move 16ms after the accepted one rejected")
	}
	if x, _ := c.Pointer().X(); x != 174 {
		t.Errorf("pointer = %v, want at(174)", c.Pointer())
	}
}

func TestControllerLeaveKeepsThrottleWindow(t *testing.T) {
	now := testEpoch
	c := NewController(testSlots("a", "b", "c"), DefaultConfig, WithClock(func() time.Time { return now }))
	defer c.Close()

	if !c.PointerMove(100, 0) {
		t.Fatal("first move rejected")
	}
	now = now.Add(2 * time.Millisecond)
	c.PointerLeave()
	if c.Pointer().Present() {
		t.Error("pointer still present after leave")
	}
	now = now.Add(2 * time.Millisecond)
	if c.PointerMove(120, 0) {
		t.Error("move inside the throttle window accepted after leave")
	}
	if c.Pointer().Present() {
		t.Error("rejected move placed the pointer")
	}
	now = testEpoch.Add(PointerThrottle)
	if !c.PointerMove(120, 0) {
		t.Error("move after the throttle window rejected")
	}
}

func TestControllerSingleInFlightFrame(t *testing.T) {
	rec := &recordingScheduler{}
	c := NewController(testSlots("a", "b"), DefaultConfig, WithScheduler(rec))
	defer c.Close()

	c.SetPointer(At(10))
	c.SetPointer(At(20))
	c.PointerLeave()
	if err := c.Activate("b"); err != nil {
		t.Fatal(err)
	}
	if len(rec.fns) != 1 {
		t.Fatalf("scheduled %d frames, want 1", len(rec.fns))
	}

	rec.fns[0](testEpoch.Add(FrameInterval))
	if len(rec.fns) != 2 {
		t.Errorf("moving frame did not reschedule exactly once (%d)", len(rec.fns))
	}
}

func TestControllerMagnifiesAndSettles(t *testing.T) {
	rec := &dockRecorder{}
	observability.SetDockHooks(rec)
	defer observability.Reset()

	c, sched := newTestController(t, 9)
	target := NormalCenter(4, DefaultConfig)
	c.SetPointer(At(target))

	if n := sched.Run(60); n != 60 {
		t.Fatalf("loop stopped after %d frames with pointer present", n)
	}
	if !sched.Pending() {
		t.Error("loop idle while pointer present")
	}
	f := c.Frame()
	if math.Abs(f.Slots[4].Scale-DefaultConfig.MaxScale) > ScaleEpsilon {
		t.Errorf("hovered scale = %v, want ~%v", f.Slots[4].Scale, DefaultConfig.MaxScale)
	}

	c.PointerLeave()
	n := sched.Run(500)
	if n == 500 {
		t.Fatal("loop did not settle after leave")
	}
	if c.Pending() || sched.Pending() {
		t.Error("frame pending after settle")
	}
	f = c.Frame()
	if !f.Settled {
		t.Error("frame not settled")
	}
	for _, g := range f.Slots {
		if math.Abs(g.Scale-1) > ScaleEpsilon {
			t.Errorf("slot %s scale = %v after settle", g.ID, g.Scale)
		}
	}
	if rec.settles != 1 {
		t.Errorf("settles = %d, want 1", rec.settles)
	}
	if rec.frames != 60+n {
		t.Errorf("frames = %d, want %d", rec.frames, 60+n)
	}
}

func TestControllerCloseCancelsPendingFrame(t *testing.T) {
	c, sched := newTestController(t, 3)
	c.SetPointer(At(50))
	if !sched.Pending() {
		t.Fatal("no frame pending after pointer")
	}

	before := c.State()
	c.Close()
	if sched.Pending() || c.Pending() {
		t.Error("frame still pending after Close")
	}
	if sched.Step() {
		t.Error("a frame ran after Close")
	}

	c.SetPointer(At(10))
	c.Resize(2000, 2000)
	if err := c.Activate("a"); err != nil {
		t.Errorf("Activate after Close = %v", err)
	}
	if sched.Pending() {
		t.Error("event after Close armed the loop")
	}
	if got := c.State(); got.Pointer != before.Pointer || got.Config != before.Config {
		t.Error("events after Close changed state")
	}
}

func TestControllerStrayFrameAfterClose(t *testing.T) {
	rec := &recordingScheduler{}
	c := NewController(testSlots("a", "b"), DefaultConfig, WithScheduler(rec))
	c.SetPointer(At(30))
	c.Close()
	if rec.cancels != 1 {
		t.Errorf("cancels = %d, want 1", rec.cancels)
	}

	before := c.State()
	rec.fns[0](testEpoch)
	after := c.State()
	for i := range before.Scales {
		if before.Scales[i] != after.Scales[i] {
			t.Fatal("stray frame advanced a closed controller")
		}
	}
	if len(rec.fns) != 1 {
		t.Error("stray frame rescheduled")
	}
}

func TestControllerActivate(t *testing.T) {
	var got []string
	c, sched := newTestController(t, 3, WithActivator(ActivatorFunc(func(id string) { got = append(got, id) })))

	err := c.Activate("nope")
	if !derrors.Is(err, derrors.ErrCodeSlotNotFound) {
		t.Fatalf("Activate(unknown) = %v, want SLOT_NOT_FOUND", err)
	}
	if len(got) != 0 {
		t.Errorf("activator called for unknown id")
	}

	if err := c.Activate("b"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("activator got %v", got)
	}

	for n := 0; n < 6; n++ {
		sched.Step()
	}
	if lift := c.Frame().Slots[1].Lift; lift >= 0 {
		t.Errorf("Lift mid-bounce = %v, want upward", lift)
	}
	if lift := c.Frame().Slots[0].Lift; lift != 0 {
		t.Errorf("neighbour Lift = %v", lift)
	}

	if n := sched.Run(100); n == 100 {
		t.Fatal("bounce never finished")
	}
	if lift := c.Frame().Slots[1].Lift; lift != 0 {
		t.Errorf("Lift after bounce = %v", lift)
	}
}

func TestControllerSpringBounce(t *testing.T) {
	c, sched := newTestController(t, 2, WithBounce(NewSpringBounce(60)))
	if err := c.Activate("a"); err != nil {
		t.Fatal(err)
	}
	sched.Step()
	sched.Step()
	if lift := c.Frame().Slots[0].Lift; lift >= 0 {
		t.Errorf("spring Lift = %v, want upward", lift)
	}
	if n := sched.Run(400); n == 400 {
		t.Error("spring bounce never settled")
	}
}

func TestControllerResizeAndOverrides(t *testing.T) {
	c, sched := newTestController(t, 4, WithOverrides(Overrides{MaxScale: 2}))
	if got := c.Config().MaxScale; got != 2 {
		t.Errorf("initial MaxScale = %v, want override 2", got)
	}

	c.Resize(1440, 900)
	cfg := c.Config()
	if cfg.IconBaseSize != 45 || cfg.EffectWidth != 225 || cfg.MaxScale != 2 {
		t.Errorf("Config after resize = %+v", cfg)
	}
	if !sched.Pending() {
		t.Error("resize did not arm the loop")
	}
	f := c.Frame()
	if f.Slots[0].Size != 45 {
		t.Errorf("rest size = %v, want 45", f.Slots[0].Size)
	}

	sched.Run(10)
	c.Resize(1440, 900)
	if sched.Pending() {
		t.Error("identical resize armed the loop")
	}
}

func TestControllerSetSlots(t *testing.T) {
	rec := &dockRecorder{}
	observability.SetDockHooks(rec)
	defer observability.Reset()

	c, sched := newTestController(t, 3)
	c.SetPointer(At(75))
	sched.Run(5)

	c.SetSlots(testSlots("x", "y", "z", "w", "v"))
	st := c.State()
	if !st.Aligned(5) {
		t.Fatalf("state not aligned to 5 slots: %d/%d", len(st.Scales), len(st.Positions))
	}
	for _, s := range st.Scales {
		if s != 1 {
			t.Errorf("reinit scale = %v, want 1", s)
		}
	}
	if rec.reinits != 1 {
		t.Errorf("reinits = %d, want 1", rec.reinits)
	}
	slots := c.Slots()
	if slots[4].ID != "v" || slots[4].Index != 4 {
		t.Errorf("slot 4 = %+v", slots[4])
	}

	c.SetSlots(testSlots("p", "q", "r", "s", "t"))
	if rec.reinits != 1 {
		t.Error("same-length slot swap rebuilt the vectors")
	}
}

func TestControllerStateIsCopy(t *testing.T) {
	c, _ := newTestController(t, 2)
	st := c.State()
	st.Scales[0] = 99
	if c.State().Scales[0] == 99 {
		t.Error("State exposed internal slice")
	}
}
