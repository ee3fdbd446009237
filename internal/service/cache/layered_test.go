package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCache wraps a TTLCache and counts reads.
type countingCache struct {
	*TTLCache
	gets   int
	setErr error
}

func (c *countingCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	c.gets++
	return c.TTLCache.GetBytes(ctx, key)
}

func (c *countingCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	return c.TTLCache.SetBytes(ctx, key, value, ttl)
}

func TestLayeredCacheServesFromMemory(t *testing.T) {
	ctx := context.Background()
	l2 := &countingCache{TTLCache: NewTTLCache()}
	c := NewLayeredCache(l2, time.Minute)

	require.NoError(t, c.SetBytes(ctx, "k", []byte("v"), time.Hour))
	b, ok, err := c.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)
	assert.Zero(t, l2.gets)
}

func TestLayeredCacheBackfillsFromShared(t *testing.T) {
	ctx := context.Background()
	l2 := &countingCache{TTLCache: NewTTLCache()}
	require.NoError(t, l2.TTLCache.SetBytes(ctx, "k", []byte("v"), time.Hour))
	c := NewLayeredCache(l2, time.Minute)

	for i := 0; i < 3; i++ {
		_, ok, err := c.GetBytes(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, l2.gets)

	_, ok, err := c.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLayeredCacheWriteFailure(t *testing.T) {
	ctx := context.Background()
	l2 := &countingCache{TTLCache: NewTTLCache(), setErr: errors.New("redis down")}
	c := NewLayeredCache(l2, time.Minute)

	assert.Error(t, c.SetBytes(ctx, "k", []byte("v"), time.Hour))
	_, ok, _ := c.l1.GetBytes(ctx, "k")
	assert.False(t, ok, "memory layer must not hold values the shared layer rejected")
}
