package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Symbol string `json:"symbol"`
	USD    string `json:"usd"`
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "price:ETH", quote{Symbol: "ETH", USD: "3000"}, time.Minute))

	var got quote
	require.NoError(t, c.Get(ctx, "price:ETH", &got))
	assert.Equal(t, "3000", got.USD)

	// 读出的是副本
	got.USD = "1"
	var again quote
	require.NoError(t, c.Get(ctx, "price:ETH", &again))
	assert.Equal(t, "3000", again.USD)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	require.NoError(t, c.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	var v string
	err := c.Get(ctx, "k", &v)
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMultiLevelCache_FallsBackToRemote(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	ml := NewMultiLevelCache(local, remote)

	require.NoError(t, remote.Set(ctx, "k", "from-remote", time.Minute))

	var v string
	require.NoError(t, ml.Get(ctx, "k", &v))
	assert.Equal(t, "from-remote", v)

	// 已回写 L1
	var l1 string
	require.NoError(t, local.Get(ctx, "k", &l1))
	assert.Equal(t, "from-remote", l1)

	require.NoError(t, ml.Delete(ctx, "k"))
	assert.ErrorIs(t, ml.Get(ctx, "k", &v), ErrMiss)
}

func TestMultiLevelCache_BackfillNeverOutlivesRemote(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	ml := NewMultiLevelCache(local, remote)

	require.NoError(t, remote.Set(ctx, "price:ETH", "3000", 100*time.Millisecond))

	var v string
	require.NoError(t, ml.Get(ctx, "price:ETH", &v))
	assert.Equal(t, "3000", v)

	l1TTL, err := local.TTL(ctx, "price:ETH")
	require.NoError(t, err)
	assert.LessOrEqual(t, l1TTL, 100*time.Millisecond)

	time.Sleep(250 * time.Millisecond)
	assert.ErrorIs(t, ml.Get(ctx, "price:ETH", &v), ErrMiss)
}

func TestMultiLevelCache_BackfillCapped(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	ml := NewMultiLevelCache(local, remote)

	require.NoError(t, remote.Set(ctx, "k", "v", time.Hour))
	var v string
	require.NoError(t, ml.Get(ctx, "k", &v))

	l1TTL, err := local.TTL(ctx, "k")
	require.NoError(t, err)
	assert.LessOrEqual(t, l1TTL, backfillTTL)
	assert.Greater(t, l1TTL, time.Duration(0))
}

// noTTL 不支持查询剩余有效期的 L2
type noTTL struct{ Cache }

func TestMultiLevelCache_NoBackfillWithoutRemoteTTL(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote := NewMemoryCache(time.Minute, time.Minute)
	ml := NewMultiLevelCache(local, noTTL{remote})

	require.NoError(t, remote.Set(ctx, "k", "v", time.Minute))
	var v string
	require.NoError(t, ml.Get(ctx, "k", &v))
	assert.Equal(t, "v", v)

	assert.ErrorIs(t, local.Get(ctx, "k", &v), ErrMiss)
}
