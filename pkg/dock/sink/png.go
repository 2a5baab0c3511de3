package sink

import (
	"bytes"
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/matzehuels/magdock/pkg/dock"
)

// PNGOption configures PNG rendering via [RenderPNG].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scene SceneOptions
	scale float64
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGPointerMarker draws a vertical line at the pointer.
func WithPNGPointerMarker() PNGOption { return func(r *pngRenderer) { r.scene.Pointer = true } }

// WithPNGLabels draws the hovered slot's label above it.
func WithPNGLabels() PNGOption { return func(r *pngRenderer) { r.scene.Labels = true } }

// RenderPNG rasterizes f. It fails only if encoding fails.
func RenderPNG(f dock.Frame, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if !(r.scale > 0) {
		r.scale = 1
	}
	sc := BuildScene(f, r.scene)

	w := max(1, int(math.Ceil(sc.Width*r.scale)))
	h := max(1, int(math.Ceil(sc.Height*r.scale)))
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	for _, s := range sc.Shapes {
		drawPNGShape(dc, s)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawPNGShape(dc *gg.Context, s Shape) {
	dc.SetRGBA(s.Fill.R, s.Fill.G, s.Fill.B, s.Alpha)
	switch s.Kind {
	case ShapeRect:
		dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, s.Radius)
		if s.Stroke {
			dc.SetLineWidth(1)
			dc.Stroke()
			return
		}
		dc.Fill()
	case ShapeCircle:
		dc.DrawCircle(s.X, s.Y, s.Radius)
		dc.Fill()
	case ShapeLine:
		dc.SetLineWidth(1)
		dc.DrawLine(s.X, s.Y, s.X+s.W, s.Y+s.H)
		dc.Stroke()
	case ShapeText:
		dc.DrawStringAnchored(s.Text, s.X, s.Y, 0.5, 0.5)
	}
}
