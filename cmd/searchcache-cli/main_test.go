package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceowl/searchcache/cache"
	"github.com/priceowl/searchcache/logger"
	"github.com/priceowl/searchcache/store"
)

func seedEntry(t *testing.T, addr string) string {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	c := cache.New(store.NewRedis(client), logger.NewTestLogger())
	comps := cache.Components{Query: "seeded"}
	require.True(t, c.Set(context.Background(), comps, []byte("v"), time.Minute))
	return cache.DeriveKey(comps)
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestCLIKeysInfoClear(t *testing.T) {
	mr := miniredis.RunT(t)
	url := "redis://" + mr.Addr()
	key := seedEntry(t, mr.Addr())

	assert.NoError(t, runCLI(t, "keys", "--redis-url", url))
	assert.NoError(t, runCLI(t, "info", key, "--redis-url", url))
	assert.NoError(t, runCLI(t, "sweep", "--redis-url", url))
	assert.NoError(t, runCLI(t, "clear", "--redis-url", url))
	assert.Empty(t, mr.Keys())
}

func TestCLIInfoMissingKey(t *testing.T) {
	mr := miniredis.RunT(t)
	err := runCLI(t, "info", "search:nope", "--redis-url", "redis://"+mr.Addr())
	assert.Error(t, err)
}

func TestCLIBadRedisURL(t *testing.T) {
	err := runCLI(t, "keys", "--redis-url", "not a url")
	assert.Error(t, err)
}
