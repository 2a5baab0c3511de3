// Package cache stores rendered dock snapshots.
//
// Rendering a settled frame is cheap, but the preview server and the render
// command are asked for the same snapshot over and over. A cache entry is
// keyed by everything that determines the output bytes (see [Keyer]) so a
// hit can be served without running the controller at all.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: shared cache for the preview server
//
// [Instrument] wraps any backend and reports hits, misses and writes to the
// hooks registered in the observability package.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A ttl of zero means the
// entry does not expire. Get reports a miss with ok == false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
