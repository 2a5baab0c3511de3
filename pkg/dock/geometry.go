package dock

import "math"

// SlotGeometry is the rendered placement of one slot in container-local
// pixels. Left is measured from the content origin (inside the padding);
// Bottom is always 0 and Lift holds the transient bounce offset, negative
// meaning upward.
type SlotGeometry struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Icon   string  `json:"icon,omitempty"`
	Index  int     `json:"index"`
	Center float64 `json:"center"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Lift   float64 `json:"lift,omitempty"`
	Size   float64 `json:"size"`
	Scale  float64 `json:"scale"`
	Z      int     `json:"z"`
	Open   bool    `json:"open,omitempty"`
}

// Right returns the right edge of the slot.
func (g SlotGeometry) Right() float64 { return g.Left + g.Size }

// Contains reports whether content-local x lies over the slot.
func (g SlotGeometry) Contains(x float64) bool { return x >= g.Left && x <= g.Right() }

// Frame is everything a renderer needs to draw the dock once.
type Frame struct {
	Slots   []SlotGeometry `json:"slots"`
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Padding float64        `json:"padding"`
	Config  Config         `json:"config"`
	Pointer *float64       `json:"pointer,omitempty"`
	Settled bool           `json:"settled"`
}

// BuildFrame assembles the geometry for slots from the given state. Missing
// or misaligned vectors fall back to the rest layout. lift may be nil.
func BuildFrame(slots []Slot, s State, lift func(int) float64) Frame {
	cfg := s.Config.Sanitize()
	if !s.Aligned(len(slots)) {
		rest := NewState(len(slots), cfg)
		s.Scales, s.Positions = rest.Scales, rest.Positions
	}

	pad := cfg.Padding()
	f := Frame{
		Slots:   make([]SlotGeometry, len(slots)),
		Width:   Extent(s.Positions, s.Scales, cfg) + 2*pad,
		Height:  cfg.IconBaseSize + 2*pad,
		Padding: pad,
		Config:  cfg,
		Settled: Settled(s, len(slots)),
	}
	if x, ok := s.Pointer.X(); ok {
		f.Pointer = &x
	}
	for i, slot := range slots {
		scale := s.Scales[i]
		size := cfg.IconBaseSize * scale
		g := SlotGeometry{
			ID:     slot.ID,
			Label:  slot.Label,
			Icon:   slot.Icon,
			Index:  i,
			Center: s.Positions[i],
			Left:   s.Positions[i] - size/2,
			Size:   size,
			Scale:  scale,
			Z:      int(math.Round(scale * 10)),
		}
		if lift != nil {
			g.Lift = lift(i)
		}
		f.Slots[i] = g
	}
	return f
}

// SlotAt returns the index of the topmost slot under content-local x, or -1.
func (f Frame) SlotAt(x float64) int {
	best, z := -1, math.MinInt
	for i, g := range f.Slots {
		if g.Contains(x) && g.Z > z {
			best, z = i, g.Z
		}
	}
	return best
}

// MarkOpen sets Open on every slot whose id is in open.
func (f *Frame) MarkOpen(open ...string) {
	for i := range f.Slots {
		f.Slots[i].Open = false
		for _, id := range open {
			if f.Slots[i].ID == id {
				f.Slots[i].Open = true
			}
		}
	}
}
