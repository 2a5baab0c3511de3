package sink

import (
	"strings"

	"github.com/matzehuels/magdock/pkg/dock"
	derrors "github.com/matzehuels/magdock/pkg/errors"
)

// Format is an output format name.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatJSON}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSVG, FormatPNG, FormatJSON:
		return f, nil
	}
	return "", derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q (want svg, png or json)", s)
}

// ParseFormats parses a comma-separated list, dropping duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, derrors.New(derrors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/json"
	}
}

// Options are the format-independent render settings.
type Options struct {
	Pointer bool    // draw the pointer marker
	Labels  bool    // draw the hovered label
	Scale   float64 // PNG scale; 0 means the default
	Title   string  // SVG document title

	// Viewport is recorded in JSON output when both are non-zero.
	ViewportWidth, ViewportHeight float64

	// Index is recorded in JSON output when non-negative.
	Index int
}

// Render draws f in the given format.
func Render(f dock.Frame, format Format, o Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		opts := []SVGOption{}
		if o.Pointer {
			opts = append(opts, WithPointerMarker())
		}
		if o.Labels {
			opts = append(opts, WithLabels())
		}
		if o.Title != "" {
			opts = append(opts, WithTitle(o.Title))
		}
		return RenderSVG(f, opts...), nil
	case FormatPNG:
		opts := []PNGOption{}
		if o.Pointer {
			opts = append(opts, WithPNGPointerMarker())
		}
		if o.Labels {
			opts = append(opts, WithPNGLabels())
		}
		if o.Scale > 0 {
			opts = append(opts, WithScale(o.Scale))
		}
		return RenderPNG(f, opts...)
	case FormatJSON:
		opts := []JSONOption{}
		if o.ViewportWidth > 0 && o.ViewportHeight > 0 {
			opts = append(opts, WithViewport(o.ViewportWidth, o.ViewportHeight))
		}
		if o.Index >= 0 {
			opts = append(opts, WithFrameIndex(o.Index))
		}
		return RenderJSON(f, opts...)
	}
	return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unknown format %q", format)
}
