package dock

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// BounceEffect animates the one-shot hop played when a slot is activated.
// The controller only drives the effect; how the hop moves is up to the
// implementation.
type BounceEffect interface {
	// Start begins a bounce on slot index for an icon of the given base
	// size currently drawn at scale.
	Start(index int, base, scale float64)
	// Step advances every running bounce by dt and reports whether any is
	// still moving.
	Step(dt time.Duration) bool
	// Lift returns the vertical offset of slot index; negative is upward.
	Lift(index int) float64
	// Reset stops all bounces.
	Reset()
}

// BounceHalf is the duration of each leg of a bounce.
const BounceHalf = 200 * time.Millisecond

// TransformBounce is the built-in bounce: a 200ms ease-out rise followed by
// a 200ms ease-out return, like a CSS transform transition.
type TransformBounce struct {
	active map[int]*transformHop
}

type transformHop struct {
	height  float64
	elapsed time.Duration
}

// NewTransformBounce returns the built-in bounce effect.
func NewTransformBounce() *TransformBounce {
	return &TransformBounce{active: make(map[int]*transformHop)}
}

// TransformBounceHeight is the hop height for the built-in effect.
func TransformBounceHeight(base float64) float64 { return math.Min(6, base*0.12) }

// Start implements BounceEffect.
func (b *TransformBounce) Start(index int, base, scale float64) {
	b.active[index] = &transformHop{height: TransformBounceHeight(base)}
}

// Step implements BounceEffect.
func (b *TransformBounce) Step(dt time.Duration) bool {
	for i, hop := range b.active {
		hop.elapsed += dt
		if hop.elapsed >= 2*BounceHalf {
			delete(b.active, i)
		}
	}
	return len(b.active) > 0
}

// Lift implements BounceEffect.
func (b *TransformBounce) Lift(index int) float64 {
	hop, ok := b.active[index]
	if !ok {
		return 0
	}
	if hop.elapsed < BounceHalf {
		return -hop.height * easeOut(float64(hop.elapsed)/float64(BounceHalf))
	}
	p := float64(hop.elapsed-BounceHalf) / float64(BounceHalf)
	return -hop.height * (1 - easeOut(math.Min(p, 1)))
}

// Reset implements BounceEffect.
func (b *TransformBounce) Reset() { clear(b.active) }

func easeOut(p float64) float64 { return 1 - (1-p)*(1-p) }

// Spring parameters for SpringBounce.
const (
	springFrequency = 18.0
	springDamping   = 0.55
	springRestPos   = 0.05
	springRestVel   = 0.05
)

// SpringBounce is the pluggable external animator: a damped harmonica spring
// pulled up for one leg and released back to rest. Magnified icons hop
// higher.
type SpringBounce struct {
	spring harmonica.Spring
	active map[int]*springHop
}

type springHop struct {
	target  float64
	pos     float64
	vel     float64
	elapsed time.Duration
}

// NewSpringBounce returns a spring bounce stepping at fps.
func NewSpringBounce(fps int) *SpringBounce {
	if fps <= 0 {
		fps = 60
	}
	return &SpringBounce{
		spring: harmonica.NewSpring(harmonica.FPS(fps), springFrequency, springDamping),
		active: make(map[int]*springHop),
	}
}

// SpringBounceHeight is the hop height for the spring effect.
func SpringBounceHeight(base, scale float64) float64 {
	if scale > 1.3 {
		return base * 0.18
	}
	return base * 0.12
}

// Start implements BounceEffect.
func (b *SpringBounce) Start(index int, base, scale float64) {
	hop, ok := b.active[index]
	if !ok {
		hop = &springHop{}
		b.active[index] = hop
	}
	hop.target = -SpringBounceHeight(base, scale)
	hop.elapsed = 0
}

// Step implements BounceEffect. The spring integrates at a fixed rate, so dt
// is split into whole frames.
func (b *SpringBounce) Step(dt time.Duration) bool {
	steps := max(1, int(math.Round(float64(dt)/float64(FrameInterval))))
	for i, hop := range b.active {
		for s := 0; s < steps; s++ {
			hop.elapsed += FrameInterval
			if hop.elapsed >= BounceHalf {
				hop.target = 0
			}
			hop.pos, hop.vel = b.spring.Update(hop.pos, hop.vel, hop.target)
		}
		if hop.target == 0 && math.Abs(hop.pos) < springRestPos && math.Abs(hop.vel) < springRestVel {
			delete(b.active, i)
		}
	}
	return len(b.active) > 0
}

// Lift implements BounceEffect.
func (b *SpringBounce) Lift(index int) float64 {
	if hop, ok := b.active[index]; ok {
		return hop.pos
	}
	return 0
}

// Reset implements BounceEffect.
func (b *SpringBounce) Reset() { clear(b.active) }
