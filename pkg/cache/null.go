package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. It is the
// backend behind --no-cache and the default when no cache is configured.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache creates the disabled cache.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}
