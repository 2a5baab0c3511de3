package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/magdock/pkg/dock"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scene SceneOptions
	title string
}

// WithPointerMarker draws a vertical line at the pointer.
func WithPointerMarker() SVGOption { return func(r *svgRenderer) { r.scene.Pointer = true } }

// WithLabels draws the hovered slot's label above it.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.scene.Labels = true } }

// WithTitle sets the document title.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws f as a standalone SVG document. Coordinates are rounded to
// whole pixels.
func RenderSVG(f dock.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{title: "magdock"}
	for _, opt := range opts {
		opt(&r)
	}
	sc := BuildScene(f, r.scene)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(sc.Width), px(sc.Height))
	canvas.Title(r.title)
	for _, s := range sc.Shapes {
		drawSVGShape(canvas, s)
	}
	canvas.End()
	return buf.Bytes()
}

func drawSVGShape(canvas *svg.SVG, s Shape) {
	id := fmt.Sprintf(`id="%s"`, s.ID)
	switch s.Kind {
	case ShapeRect:
		style := fillStyle(s)
		if s.Stroke {
			style = fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%.2f;stroke-width:1", s.Fill.Hex(), s.Alpha)
		}
		rad := px(s.Radius)
		if s.Tooltip == "" {
			canvas.Roundrect(px(s.X), px(s.Y), px(s.W), px(s.H), rad, rad, id, style)
			return
		}
		canvas.Group(id)
		canvas.Title(s.Tooltip)
		canvas.Roundrect(px(s.X), px(s.Y), px(s.W), px(s.H), rad, rad, style)
		canvas.Gend()
	case ShapeCircle:
		canvas.Circle(px(s.X), px(s.Y), max(1, px(s.Radius)), id, fillStyle(s))
	case ShapeLine:
		canvas.Line(px(s.X), px(s.Y), px(s.X+s.W), px(s.Y+s.H), id,
			fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:1", s.Fill.Hex(), s.Alpha))
	case ShapeText:
		canvas.Text(px(s.X), px(s.Y), s.Text, id,
			fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:sans-serif;font-size:%dpx;%s",
				max(1, px(s.Size)), fillStyle(s)))
	}
}

func fillStyle(s Shape) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.2f", s.Fill.Hex(), s.Alpha)
}

func px(v float64) int { return int(math.Round(v)) }
