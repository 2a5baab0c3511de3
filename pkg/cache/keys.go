package cache

import "math"

// Keyer builds cache keys. Every value that changes the rendered bytes must
// be part of the key.
type Keyer interface {
	// SnapshotKey identifies one rendered dock snapshot.
	SnapshotKey(opts SnapshotKeyOpts) string
	// ManifestKey identifies a parsed app manifest by content hash.
	ManifestKey(contentHash string) string
}

// SnapshotKeyOpts are the inputs of a snapshot render.
type SnapshotKeyOpts struct {
	Apps        string   `json:"apps"` // hash of the slot list
	Format      string   `json:"format"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Pointer     *float64 `json:"pointer,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	IconSize    float64  `json:"icon_size,omitempty"`
	MaxScale    float64  `json:"max_scale,omitempty"`
	EffectWidth float64  `json:"effect_width,omitempty"`
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SnapshotKey implements Keyer. The pointer is rounded to a tenth of a
// pixel, below the position settle threshold.
func (DefaultKeyer) SnapshotKey(opts SnapshotKeyOpts) string {
	if opts.Pointer != nil {
		p := math.Round(*opts.Pointer*10) / 10
		opts.Pointer = &p
	}
	return hashKey("snapshot", opts)
}

// ManifestKey implements Keyer.
func (DefaultKeyer) ManifestKey(contentHash string) string {
	return "manifest:" + contentHash
}

var _ Keyer = DefaultKeyer{}
