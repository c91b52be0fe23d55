package cache

import (
	"context"
	"time"
)

// WithTTL returns a cache that stores every entry with ttl, ignoring the
// lifetime requested by the caller. A zero ttl returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &ttlCache{Cache: c, ttl: ttl}
}

type ttlCache struct {
	Cache
	ttl time.Duration
}

func (c *ttlCache) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return c.Cache.Set(ctx, key, data, c.ttl)
}
