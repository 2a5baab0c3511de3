package dock

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	derrors "github.com/matzehuels/magdock/pkg/errors"
	"github.com/matzehuels/magdock/pkg/observability"
)

// Activator is told when a slot is activated. It decides what opening an
// app means.
type Activator interface {
	Activate(id string)
}

// ActivatorFunc adapts a function to Activator.
type ActivatorFunc func(id string)

// Activate implements Activator.
func (f ActivatorFunc) Activate(id string) { f(id) }

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler sets the frame scheduler. Without it the controller uses a
// ManualScheduler reachable through [Controller.Scheduler].
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithClock sets the clock used for pointer throttling.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithBounce sets the bounce effect played on activation.
func WithBounce(b BounceEffect) Option { return func(c *Controller) { c.bounce = b } }

// WithActivator sets the activation collaborator.
func WithActivator(a Activator) Option { return func(c *Controller) { c.activator = a } }

// WithOverrides fixes config values that would otherwise follow the viewport.
func WithOverrides(o Overrides) Option { return func(c *Controller) { c.overrides = o } }

// WithThrottle changes the pointer throttle interval.
func WithThrottle(d time.Duration) Option { return func(c *Controller) { c.throttle = NewThrottle(d) } }

// Controller owns one dock: its slots, pointer, config and runtime state,
// and the single pending frame that advances them.
//
// A Controller is not safe for concurrent use. All calls, including the
// frame callbacks the scheduler makes, must happen on one goroutine or be
// serialized by the caller.
type Controller struct {
	slots     []Slot
	state     State
	overrides Overrides

	sched  Scheduler
	cancel func()

	throttle  *Throttle
	now       func() time.Time
	bounce    BounceEffect
	activator Activator
	logger    *log.Logger

	lastFrame time.Time
	armedAt   time.Time
	frames    int
}

// NewController creates a controller for slots at cfg. The loop starts
// settled; the first pointer event, resize or activation arms it.
func NewController(slots []Slot, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		throttle: NewThrottle(PointerThrottle),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = NewManualScheduler(c.now())
	}
	if c.bounce == nil {
		c.bounce = NewTransformBounce()
	}
	if c.activator == nil {
		c.activator = ActivatorFunc(func(string) {})
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	c.slots = Reindex(slots)
	c.state = NewState(len(c.slots), c.overrides.Apply(cfg))
	return c
}

// Scheduler returns the frame scheduler in use.
func (c *Controller) Scheduler() Scheduler { return c.sched }

// Slots returns a copy of the slot list.
func (c *Controller) Slots() []Slot { return append([]Slot(nil), c.slots...) }

// Config returns the current config snapshot.
func (c *Controller) Config() Config { return c.state.Config }

// Pointer returns the current pointer state.
func (c *Controller) Pointer() Pointer { return c.state.Pointer }

// State returns a copy of the runtime state.
func (c *Controller) State() State {
	s := c.state
	s.Scales = append([]float64(nil), s.Scales...)
	s.Positions = append([]float64(nil), s.Positions...)
	return s
}

// Pending reports whether a frame is scheduled.
func (c *Controller) Pending() bool { return c.cancel != nil }

// Closed reports whether Close was called.
func (c *Controller) Closed() bool { return c.state.Closed }

// PointerMove handles a pointer at absolute x over a dock whose container
// starts at dockLeft. Moves within the throttle window of the previous
// accepted move are dropped. It reports whether the move was accepted.
func (c *Controller) PointerMove(clientX, dockLeft float64) bool {
	if c.state.Closed || !c.throttle.Allow(c.now()) {
		return false
	}
	c.state.Pointer = At(clientX - dockLeft - c.state.Config.Padding())
	c.arm()
	return true
}

// SetPointer replaces the pointer state directly, bypassing the throttle.
// Offline renderers use it to place the pointer in content-local pixels.
func (c *Controller) SetPointer(p Pointer) {
	if c.state.Closed {
		return
	}
	c.state.Pointer = p
	c.arm()
}

// PointerLeave marks the pointer absent. It is never throttled, and the
// time of the last accepted move survives it.
func (c *Controller) PointerLeave() {
	if c.state.Closed {
		return
	}
	c.state.Pointer = Absent()
	c.arm()
}

// Activate bounces the slot with the given id and notifies the activator.
func (c *Controller) Activate(id string) error {
	if c.state.Closed {
		return nil
	}
	i := IndexOf(c.slots, id)
	if i < 0 {
		return derrors.New(derrors.ErrCodeSlotNotFound, "no slot with id %q", id)
	}
	scale := MinScale
	if i < len(c.state.Scales) {
		scale = c.state.Scales[i]
	}
	c.bounce.Start(i, c.state.Config.IconBaseSize, scale)
	c.arm()

	c.logger.Debug("activate", "id", id, "index", i, "scale", scale)
	observability.Dock().OnActivate(id)
	c.activator.Activate(id)
	return nil
}

// Resize derives a new config from the viewport and replaces the current
// one.
func (c *Controller) Resize(width, height float64) {
	c.SetConfig(DeriveConfig(width, height))
}

// SetConfig replaces the config as a unit. Overrides given at construction
// still apply. The runtime vectors restart from the rest layout of the new
// config.
func (c *Controller) SetConfig(cfg Config) {
	if c.state.Closed {
		return
	}
	cfg = c.overrides.Apply(cfg)
	if cfg == c.state.Config {
		return
	}
	rest := NewState(len(c.slots), cfg)
	c.state.Config = cfg
	c.state.Scales, c.state.Positions = rest.Scales, rest.Positions

	c.logger.Debug("config", "icon", cfg.IconBaseSize, "max_scale", cfg.MaxScale, "effect", cfg.EffectWidth)
	observability.Dock().OnConfigChange(cfg.IconBaseSize, cfg.MaxScale, cfg.EffectWidth)
	c.arm()
}

// SetSlots replaces the slot list. A list of a different length rebuilds
// the runtime vectors at rest.
func (c *Controller) SetSlots(slots []Slot) {
	if c.state.Closed {
		return
	}
	c.slots = Reindex(slots)
	if !c.state.Aligned(len(c.slots)) {
		c.reinit()
	}
	c.bounce.Reset()
	c.arm()
}

// Frame returns the geometry of the current state.
func (c *Controller) Frame() Frame {
	return BuildFrame(c.slots, c.state, c.bounce.Lift)
}

// Close tears the controller down and withdraws any pending frame. Later
// calls, including stray frame callbacks, are no-ops.
func (c *Controller) Close() {
	if c.state.Closed {
		return
	}
	c.state.Closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.bounce.Reset()
}

func (c *Controller) reinit() {
	rest := NewState(len(c.slots), c.state.Config)
	c.state.Scales, c.state.Positions = rest.Scales, rest.Positions
	c.logger.Debug("reinit", "slots", len(c.slots))
	observability.Dock().OnReinit(len(c.slots))
}

// arm schedules a frame unless one is already pending.
func (c *Controller) arm() {
	if c.state.Closed || c.cancel != nil {
		return
	}
	c.cancel = c.sched.Schedule(c.frame)
}

// frame is the scheduled tick.
func (c *Controller) frame(now time.Time) {
	c.cancel = nil
	if c.state.Closed {
		return
	}

	dt := FrameInterval
	if !c.lastFrame.IsZero() && now.After(c.lastFrame) {
		dt = now.Sub(c.lastFrame)
	}
	c.lastFrame = now
	if c.frames == 0 {
		c.armedAt = now.Add(-dt)
	}

	n := len(c.slots)
	if !c.state.Aligned(n) {
		c.reinit()
	}
	scales, positions, cont := Advance(c.state, n)
	c.state.Scales, c.state.Positions = scales, positions
	moving := c.bounce.Step(dt)
	c.frames++
	observability.Dock().OnFrame(n)

	if cont || moving {
		c.cancel = c.sched.Schedule(c.frame)
		return
	}

	elapsed := now.Sub(c.armedAt)
	c.logger.Debug("settled", "frames", c.frames, "elapsed", elapsed)
	observability.Dock().OnSettle(c.frames, elapsed)
	c.frames = 0
	c.lastFrame = time.Time{}
}
