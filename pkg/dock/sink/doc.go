// Package sink renders dock frames to output formats.
//
// # Overview
//
// A "sink" turns a computed [dock.Frame] into bytes. This package provides:
//
//   - SVG: vector snapshot drawn with github.com/ajstarks/svgo
//   - PNG: raster snapshot drawn with git.sr.ht/~sbinet/gg
//   - JSON: frame geometry export for external tools and caching
//
// SVG and PNG draw the same [Scene], so both formats agree on every
// rectangle. The scene places the dock container at the bottom of the canvas
// and reserves headroom above it for magnified and bouncing icons:
//
//	frame := controller.Frame()
//	svg := sink.RenderSVG(frame, sink.WithPointerMarker())
//	png, err := sink.RenderPNG(frame, sink.WithScale(2))
//	data, err := sink.RenderJSON(frame, sink.WithViewport(1440, 900))
//
// Renderers never modify the frame and are safe to call concurrently.
//
// [dock.Frame]: github.com/matzehuels/magdock/pkg/dock.Frame
package sink
