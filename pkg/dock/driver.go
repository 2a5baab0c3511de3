package dock

import "math"

// Smoothing factors and settle thresholds for the relaxation loop.
const (
	// LerpHover is applied while the pointer is over the dock.
	LerpHover = 0.20
	// LerpRelax is applied after the pointer leaves, so the dock eases back
	// more slowly than it magnifies.
	LerpRelax = 0.12

	// ScaleEpsilon and PositionEpsilon bound the distance to target below
	// which a slot counts as settled.
	ScaleEpsilon    = 0.002
	PositionEpsilon = 0.1
)

// State is the runtime state the driver advances. The controller owns it and
// passes it by value; Advance never retains the slices it is given.
type State struct {
	Scales    []float64
	Positions []float64
	Pointer   Pointer
	Config    Config
	Closed    bool
}

// NewState returns a rest state for n slots.
func NewState(n int, cfg Config) State {
	scales := TargetScales(Absent(), n, cfg)
	return State{
		Scales:    scales,
		Positions: Positions(scales, cfg),
		Config:    cfg,
	}
}

// Aligned reports whether both vectors have length n.
func (s State) Aligned(n int) bool {
	return len(s.Scales) == n && len(s.Positions) == n
}

// Lerp returns the smoothing factor for the current pointer state.
func (s State) Lerp() float64 {
	if s.Pointer.Present() {
		return LerpHover
	}
	return LerpRelax
}

// Advance performs one relaxation tick over n slots and reports whether
// another tick should be scheduled.
//
// Targets are recomputed from the pointer and config on every call. If the
// state vectors do not have length n they are replaced by a fresh rest state
// first. A closed state is returned unchanged with cont == false.
func Advance(s State, n int) (scales, positions []float64, cont bool) {
	if s.Closed {
		return s.Scales, s.Positions, false
	}
	cfg := s.Config.Sanitize()
	if !s.Aligned(n) {
		rest := NewState(n, cfg)
		s.Scales, s.Positions = rest.Scales, rest.Positions
	}

	targetScales := TargetScales(s.Pointer, n, cfg)
	targetPositions := Positions(targetScales, cfg)
	lerp := s.Lerp()

	scales = make([]float64, n)
	positions = make([]float64, n)
	cont = s.Pointer.Present()
	for i := 0; i < n; i++ {
		scales[i] = s.Scales[i] + (targetScales[i]-s.Scales[i])*lerp
		positions[i] = s.Positions[i] + (targetPositions[i]-s.Positions[i])*lerp

		if math.Abs(scales[i]-targetScales[i]) > ScaleEpsilon ||
			math.Abs(positions[i]-targetPositions[i]) > PositionEpsilon {
			cont = true
		}
	}
	return scales, positions, cont
}

// Settled reports whether s is within the settle thresholds of its targets
// with the pointer absent.
func Settled(s State, n int) bool {
	if s.Pointer.Present() || !s.Aligned(n) {
		return false
	}
	cfg := s.Config.Sanitize()
	targetScales := TargetScales(s.Pointer, n, cfg)
	targetPositions := Positions(targetScales, cfg)
	for i := 0; i < n; i++ {
		if math.Abs(s.Scales[i]-targetScales[i]) > ScaleEpsilon ||
			math.Abs(s.Positions[i]-targetPositions[i]) > PositionEpsilon {
			return false
		}
	}
	return true
}

// SettledState returns the state the driver converges to for a fixed
// pointer: every slot exactly at its target scale and position.
func SettledState(p Pointer, n int, cfg Config) State {
	cfg = cfg.Sanitize()
	scales := TargetScales(p, n, cfg)
	return State{
		Scales:    scales,
		Positions: Positions(scales, cfg),
		Pointer:   p,
		Config:    cfg,
	}
}
