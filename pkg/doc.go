// Package pkg provides the libraries behind magdock, a proximity-magnified
// application dock.
//
// # Overview
//
// A dock is a single row of icons that grow smoothly as the pointer
// approaches them, push their neighbours aside, and relax back to rest when
// the pointer leaves. The pkg directory is organized into three areas:
//
//  1. [dock] - The engine (falloff, packing, relaxation, frame loop)
//  2. [dock/sink] - Output formats for frames (SVG, PNG, JSON)
//  3. Hosting (manifests, snapshot cache, live sessions, HTTP server)
//
// # Architecture
//
// The typical data flow:
//
//	App manifest (TOML/YAML)
//	         ↓
//	    [apps] package (load, validate, watch)
//	         ↓
//	    [dock] package (Controller + Scheduler → Frame)
//	         ↓
//	    [dock/sink] package (scene → SVG/PNG/JSON)
//	         ↓
//	    terminal, files, or HTTP responses
//
// # Quick Start
//
// Render the settled dock with the pointer over the third icon:
//
//	import (
//	    "github.com/matzehuels/magdock/pkg/apps"
//	    "github.com/matzehuels/magdock/pkg/dock"
//	    "github.com/matzehuels/magdock/pkg/dock/sink"
//	)
//
//	slots := apps.Slots(apps.Default())
//	cfg := dock.DeriveConfig(1440, 900)
//	p := dock.At(dock.NormalCenter(2, cfg))
//	f := dock.BuildFrame(slots, dock.SettledState(p, len(slots), cfg), nil)
//	svg := sink.RenderSVG(f)
//
// # Main Packages
//
// [dock] - Pure geometry ([dock.TargetScales], [dock.Positions],
// [dock.Advance]), viewport-derived config, and the [dock.Controller] that
// owns one live dock and drives it through a [dock.Scheduler].
//
// [dock/sink] - Turns a [dock.Frame] into a shape list and encodes it.
//
// [apps] - The app manifest: loading, validation, content hashing, and a
// file watcher that reloads it on change.
//
// [cache] - Snapshot cache with null, file and Redis backends.
//
// [session] - Live server-side docks driven by a manual scheduler.
//
// [server] - chi HTTP server exposing snapshots and sessions.
//
// [observability] - Hooks for frame, cache and request events.
//
// [errors] - Coded errors shared by the CLI and the server.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/dock/...               # Engine only
//	go test -run Example ./pkg/dock      # Examples only
//
// [dock]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/dock
// [dock/sink]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/dock/sink
// [apps]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/apps
// [cache]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/magdock/pkg/errors
package pkg
