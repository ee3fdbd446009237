package cache

import (
	"context"
	"time"
)

// LayeredCache keeps a short-lived in-process copy (L1) in front of a
// shared cache (L2). Writes go to L2 first.
type LayeredCache struct {
	l1    *TTLCache
	l2    BytesCache
	l1TTL time.Duration
}

// NewLayeredCache puts an in-memory layer in front of l2. Entries stay in
// memory for at most l1TTL.
func NewLayeredCache(l2 BytesCache, l1TTL time.Duration) *LayeredCache {
	if l1TTL <= 0 {
		l1TTL = 10 * time.Second
	}
	return &LayeredCache{l1: NewTTLCache(), l2: l2, l1TTL: l1TTL}
}

func (c *LayeredCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, _ := c.l1.GetBytes(ctx, key); ok {
		return b, true, nil
	}
	b, ok, err := c.l2.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.l1.SetBytes(ctx, key, b, c.l1TTL)
	return b, true, nil
}

func (c *LayeredCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.l2.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	l1 := c.l1TTL
	if ttl > 0 && ttl < l1 {
		l1 = ttl
	}
	return c.l1.SetBytes(ctx, key, value, l1)
}

// Sweep drops expired in-memory entries.
func (c *LayeredCache) Sweep() int { return c.l1.Sweep() }

func (c *LayeredCache) Close() error {
	_ = c.l1.Close()
	return c.l2.Close()
}
