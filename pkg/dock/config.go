package dock

import "math"

// MinScale is the resting scale of every slot.
const MinScale = 1.0

// Safe floors applied by [Config.Sanitize].
const (
	MinIconSize    = 1.0
	MinEffectWidth = 1.0
)

// Viewport breakpoints on the smaller viewport dimension, in pixels.
const (
	BreakpointPhone  = 480
	BreakpointTablet = 768
	BreakpointLaptop = 1024
)

// Config holds the size parameters shared by the profile and the packer.
// It is a value type: callers replace it as a whole and never mutate a
// Config that a running computation may observe.
type Config struct {
	IconBaseSize float64 `json:"icon_base_size"`
	MaxScale     float64 `json:"max_scale"`
	EffectWidth  float64 `json:"effect_width"`
	Spacing      float64 `json:"spacing"`
}

// DefaultConfig is the configuration used before any viewport is known.
var DefaultConfig = Config{
	IconBaseSize: 48,
	MaxScale:     1.4,
	EffectWidth:  180,
	Spacing:      SpacingFor(48),
}

// SpacingFor returns the gap between adjacent slots for a base icon size.
func SpacingFor(base float64) float64 { return math.Max(3, base*0.06) }

// PaddingFor returns the inner padding of the dock container.
func PaddingFor(base float64) float64 { return math.Max(6, base*0.1) }

// Padding returns the container padding for c.
func (c Config) Padding() float64 { return PaddingFor(c.IconBaseSize) }

// DeriveConfig computes the tiered configuration for a viewport. Only the
// smaller dimension matters. Degenerate viewports yield DefaultConfig.
func DeriveConfig(width, height float64) Config {
	d := math.Min(width, height)
	if !(d > 0) || math.IsInf(d, 0) {
		return DefaultConfig
	}

	var c Config
	switch {
	case d < BreakpointPhone:
		c = Config{IconBaseSize: math.Max(32, d*0.06), MaxScale: 1.3, EffectWidth: d * 0.35}
	case d < BreakpointTablet:
		c = Config{IconBaseSize: math.Max(40, d*0.055), MaxScale: 1.35, EffectWidth: d * 0.3}
	case d < BreakpointLaptop:
		c = Config{IconBaseSize: math.Max(44, d*0.05), MaxScale: 1.4, EffectWidth: d * 0.25}
	default:
		c = Config{IconBaseSize: math.Max(48, math.Min(60, d*0.04)), MaxScale: 1.5, EffectWidth: 200}
	}
	c.Spacing = SpacingFor(c.IconBaseSize)
	return c.Sanitize()
}

// Sanitize returns c with every field clamped into its valid range so that
// no zero or negative denominator reaches the profile or the packer.
func (c Config) Sanitize() Config {
	if !(c.IconBaseSize >= MinIconSize) || math.IsInf(c.IconBaseSize, 0) {
		c.IconBaseSize = MinIconSize
	}
	if !(c.EffectWidth >= MinEffectWidth) || math.IsInf(c.EffectWidth, 0) {
		c.EffectWidth = MinEffectWidth
	}
	if !(c.MaxScale >= MinScale) || math.IsInf(c.MaxScale, 0) {
		c.MaxScale = MinScale
	}
	if !(c.Spacing >= 0) || math.IsInf(c.Spacing, 0) {
		c.Spacing = 0
	}
	return c
}

// Valid reports whether c is already within range.
func (c Config) Valid() bool { return c == c.Sanitize() }

// Overrides replaces individual derived values. Zero fields keep the
// derived value.
type Overrides struct {
	IconBaseSize float64 `toml:"icon_size" yaml:"icon_size" json:"icon_size,omitempty"`
	MaxScale     float64 `toml:"max_scale" yaml:"max_scale" json:"max_scale,omitempty"`
	EffectWidth  float64 `toml:"effect_width" yaml:"effect_width" json:"effect_width,omitempty"`
}

// Apply returns c with the non-zero overrides applied. Spacing follows an
// overridden icon size.
func (o Overrides) Apply(c Config) Config {
	if o.IconBaseSize != 0 {
		c.IconBaseSize = o.IconBaseSize
		c.Spacing = SpacingFor(o.IconBaseSize)
	}
	if o.MaxScale != 0 {
		c.MaxScale = o.MaxScale
	}
	if o.EffectWidth != 0 {
		c.EffectWidth = o.EffectWidth
	}
	return c.Sanitize()
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool { return o == Overrides{} }
