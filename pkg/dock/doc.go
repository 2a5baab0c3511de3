// Package dock implements a proximity-based magnification dock: a single row
// of icons that grow smoothly as a pointer approaches them.
//
// # Overview
//
// The package is split into pure functions and one stateful owner:
//
//   - [TargetScales] evaluates a raised-cosine falloff around the pointer and
//     returns the scale every slot should ease toward.
//   - [Positions] packs scaled slots left-to-right and returns their centers.
//   - [Advance] performs one relaxation tick, moving current scales and
//     positions a fixed fraction toward their targets, and decides whether
//     another tick is needed.
//   - [DeriveConfig] picks icon size, maximum scale and effect width from the
//     viewport.
//   - [Controller] owns a dock instance: slots, pointer, config, the pending
//     frame handle, pointer throttling, activation bounces.
//
// # Frame Loop
//
// The controller never runs its own timer. It asks a [Scheduler] for the
// next display refresh and keeps asking while [Advance] reports motion or a
// bounce is running. Once everything is within [ScaleEpsilon] and
// [PositionEpsilon] of its target and the pointer is gone, the loop settles
// and no frame is pending until the next event re-arms it.
//
// Tests and offline renderers use [ManualScheduler] to step frames
// synthetically:
//
//	sched := dock.NewManualScheduler(time.Now())
//	c := dock.NewController(slots, dock.DefaultConfig, dock.WithScheduler(sched))
//	c.SetPointer(dock.At(51))
//	sched.Run(120)
//	frame := c.Frame()
//
// # Falloff Stability
//
// The falloff is always evaluated against the unmagnified layout
// ([NormalCenter]), never against the animated positions. Using animated
// positions would make the magnification feed back on itself and change the
// falloff shape.
//
// # Concurrency
//
// The pure functions are safe for concurrent use. A [Controller] is not; the
// frame callbacks and all event methods must be serialized by the host.
package dock
