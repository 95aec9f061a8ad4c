package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewCache(Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:health", []byte(`{"status":"healthy"}`), 0))

	val, err := c.Get(ctx, "stats:health")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"status":"healthy"}`), val)
}

func TestCache_GetMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	val, err := c.Get(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCache_SetUsesDefaultTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:perf", []byte("x"), 0))
	assert.Equal(t, time.Minute, mr.TTL("stats:perf"))
}

func TestCache_SetExplicitTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:perf", []byte("x"), 5*time.Second))
	assert.Equal(t, 5*time.Second, mr.TTL("stats:perf"))
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))

	deleted, err := c.Delete(ctx, "k")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = c.Delete(ctx, "k")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCache_DeletePattern(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:health", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "stats:perf", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "other", []byte("c"), 0))

	deleted, err := c.DeletePattern(ctx, "stats:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	val, err := c.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), val)
}

func TestCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)

	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
