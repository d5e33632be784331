package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCounter(client), mr
}

func TestRedisCounterSetIfAbsentExpires(t *testing.T) {
	ctx := context.Background()
	counter, mr := newTestRedis(t)
	key := VoteMarkerKey(7, "abc")

	ok, err := counter.SetIfAbsent(ctx, key, "1", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = counter.SetIfAbsent(ctx, key, "1", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second write inside the window must not succeed")
	assert.Equal(t, 5*time.Minute, mr.TTL(key))

	mr.FastForward(5*time.Minute + time.Second)

	exists, err := counter.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	ok, err = counter.SetIfAbsent(ctx, key, "1", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCounterIncrementAndGet(t *testing.T) {
	ctx := context.Background()
	counter, _ := newTestRedis(t)
	key := OptionCounterKey(3)

	_, found, err := counter.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	for i := 1; i <= 3; i++ {
		n, err := counter.Increment(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}

	value, found, err := counter.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "3", value)

	require.NoError(t, counter.SetWithExpiry(ctx, key, "10", 0))
	value, _, err = counter.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "10", value)

	require.NoError(t, counter.Delete(ctx, key))
	exists, err := counter.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCounterIncrementMalformedValue(t *testing.T) {
	ctx := context.Background()
	counter, _ := newTestRedis(t)
	key := OptionCounterKey(4)

	require.NoError(t, counter.SetWithExpiry(ctx, key, "garbage", 0))
	_, err := counter.Increment(ctx, key)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestRedisCounterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	counter, _ := newTestRedis(t)
	key := LoginLimitKey("10.0.0.1")

	for i := 0; i < 3; i++ {
		allowed, err := counter.SlidingWindowAllow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d", i)
	}

	allowed, err := counter.SlidingWindowAllow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisCounterUnavailable(t *testing.T) {
	ctx := context.Background()
	counter, mr := newTestRedis(t)
	mr.Close()

	_, err := counter.SetIfAbsent(ctx, "k", "1", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = counter.Increment(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = counter.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = counter.Exists(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
}
