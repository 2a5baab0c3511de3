package sink

import (
	"encoding/json"

	"github.com/matzehuels/magdock/pkg/dock"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	viewport *jsonViewport
	index    *int
	compact  bool
}

// WithViewport records the viewport the config was derived from.
func WithViewport(width, height float64) JSONOption {
	return func(r *jsonRenderer) { r.viewport = &jsonViewport{Width: width, Height: height} }
}

// WithFrameIndex records the frame's position in a sequence.
func WithFrameIndex(i int) JSONOption { return func(r *jsonRenderer) { r.index = &i } }

// WithCompact disables indentation.
func WithCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonViewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonOutput struct {
	Viewport *jsonViewport `json:"viewport,omitempty"`
	Index    *int          `json:"index,omitempty"`
	Headroom float64       `json:"headroom"`
	dock.Frame
}

// RenderJSON exports f as a JSON document. The frame fields are inlined at
// the top level next to the optional viewport and frame index.
func RenderJSON(f dock.Frame, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Viewport: r.viewport,
		Index:    r.index,
		Headroom: Headroom(f.Config),
		Frame:    f,
	}
	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeJSON reads a frame written by RenderJSON.
func DecodeJSON(data []byte) (dock.Frame, error) {
	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return dock.Frame{}, err
	}
	return out.Frame, nil
}
