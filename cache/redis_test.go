package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceowl/searchcache/logger"
	"github.com/priceowl/searchcache/store"
)

func newRedisCache(t *testing.T, opts ...Option) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, New(store.NewRedis(client), logger.NewTestLogger(), opts...)
}

func TestRedisBackedRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, c := newRedisCache(t)
	comps := Components{
		Query:   "espresso machine",
		Filters: map[string]any{"max_price": 300},
		Sources: []string{"idealo", "geizhals"},
	}

	in := []searchResult{{Title: "barista pro", Price: 279, Shop: "kitchenware"}}
	assert.True(t, SetAs(ctx, c, comps, in, time.Minute))

	out, ok := GetAs[[]searchResult](ctx, c, comps)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestRedisBackedNativeExpiry(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedisCache(t)
	comps := Components{Query: "espresso"}

	assert.True(t, c.Set(ctx, comps, []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, comps)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestRedisBackedCorruptionSelfHeal(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedisCache(t)
	key := KeyPrefix + "corrupt"
	require.NoError(t, mr.Set(key, "not an envelope"))

	_, ok := c.EntryInfo(ctx, key)
	assert.False(t, ok)

	removed, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NotContains(t, mr.Keys(), key)
}

func TestRedisBackedClear(t *testing.T) {
	ctx := context.Background()
	mr, c := newRedisCache(t)

	for _, q := range []string{"a", "b", "c"} {
		assert.True(t, c.Set(ctx, Components{Query: q}, []byte(q), time.Minute))
	}
	// A foreign key in the same store must survive Clear.
	require.NoError(t, mr.Set("session:user1", "data"))

	assert.True(t, c.Clear(ctx))

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, []string{"session:user1"}, mr.Keys())
}
