package sink

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/magdock/pkg/dock"
)

// Color is an RGB color with components in [0, 1].
type Color struct{ R, G, B float64 }

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int { return int(math.Round(math.Min(math.Max(v, 0), 1) * 255)) }

// ParseHex parses #rgb or #rrggbb. ok is false for anything else.
func ParseHex(s string) (c Color, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255}, true
}

// Palette fills slots whose icon is not a hex color.
var Palette = []Color{
	{0.16, 0.55, 0.98},
	{0.35, 0.35, 0.37},
	{0.12, 0.12, 0.12},
	{0.20, 0.60, 0.98},
	{0.99, 0.84, 0.25},
	{0.20, 0.70, 0.95},
	{0.96, 0.45, 0.35},
	{0.98, 0.24, 0.36},
	{0.95, 0.95, 0.95},
}

var (
	containerFill   = Color{0.12, 0.12, 0.13}
	containerStroke = Color{1, 1, 1}
	indicatorFill   = Color{1, 1, 1}
	pointerStroke   = Color{0.98, 0.24, 0.36}
	labelFill       = Color{1, 1, 1}
)

// ShapeKind selects how a shape is drawn.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
	ShapeLine
	ShapeText
)

// Shape is one primitive in canvas coordinates (y grows downward).
// Circles use X, Y as the center and Radius. Lines run from (X, Y) to
// (X+W, Y+H).
type Shape struct {
	Kind    ShapeKind
	ID      string
	X, Y    float64
	W, H    float64
	Radius  float64
	Fill    Color
	Alpha   float64
	Stroke  bool
	Text    string
	Size    float64
	Tooltip string
}

// Scene is a frame laid out on a canvas.
type Scene struct {
	Width, Height float64
	Headroom      float64
	Shapes        []Shape
}

// Headroom returns the space reserved above the container for magnified and
// bouncing icons.
func Headroom(cfg dock.Config) float64 {
	return math.Ceil(cfg.IconBaseSize * (cfg.MaxScale - dock.MinScale + 0.18))
}

// CornerRadius is the container corner radius for an icon size.
func CornerRadius(base float64) float64 { return math.Max(10, base*0.35) }

// Shadow returns the vertical offset, blur radius and opacity of the drop
// shadow under a slot drawn at scale.
func Shadow(base, scale float64) (dy, blur, alpha float64) {
	alpha = 0.2 + (scale-1)*0.15
	if scale > 1.2 {
		return math.Max(1, base*0.04), math.Max(3, base*0.08), alpha
	}
	return math.Max(1, base*0.02), math.Max(2, base*0.05), alpha
}

// IndicatorSize is the diameter of the open-app dot.
func IndicatorSize(base float64) float64 { return math.Max(2, base*0.05) }

// SceneOptions toggles optional overlays.
type SceneOptions struct {
	// Pointer draws a vertical marker at the pointer.
	Pointer bool
	// Labels draws the label of the slot under the pointer above it.
	Labels bool
}

// BuildScene lays f out on a canvas. Slots are emitted in ascending Z so
// that magnified slots are drawn on top.
func BuildScene(f dock.Frame, o SceneOptions) Scene {
	cfg := f.Config
	base := cfg.IconBaseSize
	head := Headroom(cfg)
	sc := Scene{Width: math.Ceil(f.Width), Height: math.Ceil(head + f.Height), Headroom: head}

	sc.Shapes = append(sc.Shapes, Shape{
		Kind: ShapeRect, ID: "dock",
		X: 0, Y: head, W: f.Width, H: f.Height,
		Radius: CornerRadius(base), Fill: containerFill, Alpha: 0.8,
	}, Shape{
		Kind: ShapeRect, ID: "dock-border",
		X: 0, Y: head, W: f.Width, H: f.Height,
		Radius: CornerRadius(base), Fill: containerStroke, Alpha: 0.1, Stroke: true,
	})

	slots := slices.Clone(f.Slots)
	slices.SortStableFunc(slots, func(a, b dock.SlotGeometry) int { return cmp.Compare(a.Z, b.Z) })

	rowBottom := head + f.Padding + base
	for _, g := range slots {
		x := f.Padding + g.Left
		y := rowBottom + g.Lift - g.Size
		dy, blur, alpha := Shadow(base, g.Scale)

		sc.Shapes = append(sc.Shapes, Shape{
			Kind: ShapeRect, ID: "shadow-" + g.ID,
			X: x, Y: y + dy, W: g.Size, H: g.Size,
			Radius: g.Size*0.22 + blur/2, Fill: Color{}, Alpha: alpha,
		}, Shape{
			Kind: ShapeRect, ID: "slot-" + g.ID,
			X: x, Y: y, W: g.Size, H: g.Size,
			Radius: g.Size * 0.22, Fill: SlotColor(g), Alpha: 1,
			Tooltip: g.Label,
		}, Shape{
			Kind: ShapeText, ID: "glyph-" + g.ID,
			X: x + g.Size/2, Y: y + g.Size/2,
			Text: Glyph(g), Size: g.Size * 0.4, Fill: labelFill, Alpha: 0.9,
		})

		if g.Open {
			d := IndicatorSize(base)
			sc.Shapes = append(sc.Shapes, Shape{
				Kind: ShapeCircle, ID: "open-" + g.ID,
				X: f.Padding + g.Center, Y: rowBottom + math.Min(f.Padding/2, d*1.5),
				Radius: d / 2, Fill: indicatorFill, Alpha: 0.8,
			})
		}
	}

	if f.Pointer != nil && o.Pointer {
		px := f.Padding + *f.Pointer
		sc.Shapes = append(sc.Shapes, Shape{
			Kind: ShapeLine, ID: "pointer",
			X: px, Y: 0, W: 0, H: sc.Height,
			Fill: pointerStroke, Alpha: 0.6, Stroke: true,
		})
	}

	if f.Pointer != nil && o.Labels {
		if i := f.SlotAt(*f.Pointer); i >= 0 && f.Slots[i].Label != "" {
			g := f.Slots[i]
			sc.Shapes = append(sc.Shapes, Shape{
				Kind: ShapeText, ID: "label",
				X: f.Padding + g.Center, Y: math.Max(rowBottom+g.Lift-g.Size-6, 10),
				Text: g.Label, Size: math.Max(10, base*0.25), Fill: labelFill, Alpha: 1,
			})
		}
	}
	return sc
}

// SlotColor is the slot's hex icon color, or a palette color by index.
func SlotColor(g dock.SlotGeometry) Color {
	if !strings.HasPrefix(g.Icon, "#") {
		return Palette[g.Index%len(Palette)]
	}
	if c, ok := ParseHex(g.Icon); ok {
		return c
	}
	return Palette[g.Index%len(Palette)]
}

// Glyph is the first letter of the label, or of the id.
func Glyph(g dock.SlotGeometry) string {
	s := g.Label
	if s == "" {
		s = g.ID
	}
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}
