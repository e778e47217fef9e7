package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewClient("redis://"+mr.Addr(), "development", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClientInvalidURL(t *testing.T) {
	client, err := NewClient("invalid://url", "development", zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)

	client, err = NewClient("", "development", zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestClientGetSet(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	_, err = client.Get(ctx, "missing")
	assert.Error(t, err)
}

func TestClientIncrAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	n, err := client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = client.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, client.Expire(ctx, "counter", time.Minute))

	ttl, err := client.TTL(ctx, "counter")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "counter")
	assert.Error(t, err, "counter should expire with its window")
}

func TestClientInvalidatePattern(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "staging:battles:list:all:20", "x", time.Minute))
	require.NoError(t, client.Set(ctx, "staging:battles:list:waiting:20", "y", time.Minute))
	require.NoError(t, client.Set(ctx, "staging:battles:battle:b1", "z", time.Minute))

	require.NoError(t, client.InvalidatePattern(ctx, "staging:battles:list:*"))

	_, err := client.Get(ctx, "staging:battles:list:all:20")
	assert.Error(t, err)

	val, err := client.Get(ctx, "staging:battles:battle:b1")
	require.NoError(t, err)
	assert.Equal(t, "z", val)
}
