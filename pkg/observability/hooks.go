// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about the animation loop, snapshot cache operations and
// preview server requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core dock package
// stays free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDockHooks(&myDockHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Dock().OnSettle(frames, elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Dock Hooks
// =============================================================================

// DockHooks receives events from the magnification controller. Calls happen
// on the controller's frame loop and must not block.
type DockHooks interface {
	// OnFrame records one animation tick over slots icons.
	OnFrame(slots int)

	// OnSettle records the loop going idle after frames ticks.
	OnSettle(frames int, elapsed time.Duration)

	// OnActivate records an icon activation.
	OnActivate(id string)

	// OnConfigChange records a config replacement.
	OnConfigChange(iconSize, maxScale, effectWidth float64)

	// OnReinit records the runtime vectors being rebuilt for slots icons.
	OnReinit(slots int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from snapshot cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDockHooks is a no-op implementation of DockHooks.
type NoopDockHooks struct{}

func (NoopDockHooks) OnFrame(int)                              {}
func (NoopDockHooks) OnSettle(int, time.Duration)              {}
func (NoopDockHooks) OnActivate(string)                        {}
func (NoopDockHooks) OnConfigChange(float64, float64, float64) {}
func (NoopDockHooks) OnReinit(int)                             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dockHooks  DockHooks  = NoopDockHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetDockHooks registers custom dock hooks.
// This should be called once at application startup.
func SetDockHooks(h DockHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dockHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Dock returns the registered dock hooks.
func Dock() DockHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dockHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dockHooks = NoopDockHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
