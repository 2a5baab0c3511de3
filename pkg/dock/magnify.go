package dock

import (
	"fmt"
	"math"
)

// Pointer is the horizontal pointer offset relative to the dock's content
// origin, or its absence. The zero value is Absent.
type Pointer struct {
	x     float64
	valid bool
}

// Absent returns a Pointer that is not over the dock.
func Absent() Pointer { return Pointer{} }

// At returns a Pointer at local offset x.
func At(x float64) Pointer { return Pointer{x: x, valid: true} }

// X returns the offset and whether the pointer is present.
func (p Pointer) X() (float64, bool) { return p.x, p.valid }

// Present reports whether the pointer is over the dock.
func (p Pointer) Present() bool { return p.valid }

func (p Pointer) String() string {
	if !p.valid {
		return "absent"
	}
	return fmt.Sprintf("at(%.2f)", p.x)
}

// NormalCenter returns the center of slot i in the unmagnified layout.
func NormalCenter(i int, cfg Config) float64 {
	return float64(i)*(cfg.IconBaseSize+cfg.Spacing) + cfg.IconBaseSize/2
}

// TargetScales computes the magnification target for n slots.
//
// The falloff is a raised cosine over a window of cfg.EffectWidth centered on
// the pointer, evaluated against the unmagnified layout (see [NormalCenter])
// so the effect never feeds back on itself. Slots outside the window rest at
// [MinScale]. The result always has length n and values in
// [MinScale, cfg.MaxScale].
func TargetScales(p Pointer, n int, cfg Config) []float64 {
	if n < 0 {
		n = 0
	}
	scales := make([]float64, n)
	x, ok := p.X()
	if !ok || math.IsNaN(x) {
		for i := range scales {
			scales[i] = MinScale
		}
		return scales
	}

	cfg = cfg.Sanitize()
	minX := x - cfg.EffectWidth/2
	maxX := x + cfg.EffectWidth/2
	for i := range scales {
		scales[i] = scaleAt(NormalCenter(i, cfg), minX, maxX, cfg)
	}
	return scales
}

func scaleAt(center, minX, maxX float64, cfg Config) float64 {
	if center < minX || center > maxX {
		return MinScale
	}
	theta := (center - minX) / cfg.EffectWidth * 2 * math.Pi
	theta = math.Min(math.Max(theta, 0), 2*math.Pi)
	factor := (1 - math.Cos(theta)) / 2
	return MinScale + factor*(cfg.MaxScale-MinScale)
}
