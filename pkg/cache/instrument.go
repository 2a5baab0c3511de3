package cache

import (
	"context"
	"time"

	"github.com/matzehuels/magdock/pkg/observability"
)

type instrumented struct {
	Cache
}

// Instrument reports every Get and Set on c to the registered cache hooks.
// The key type passed to the hooks is [KeyType] of the key.
func Instrument(c Cache) Cache { return instrumented{c} }

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	}
	return err
}
