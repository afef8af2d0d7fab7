package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priceowl/searchcache/logger"
	"github.com/priceowl/searchcache/store"
)

func plantExpired(t *testing.T, st store.Store, key string) {
	t.Helper()
	env := &envelope{
		Payload:        []byte("stale"),
		CreatedAt:      time.Now().Add(-time.Hour),
		TTL:            time.Minute,
		AccessCount:    1,
		LastAccessedAt: time.Now().Add(-time.Hour),
		Size:           5,
	}
	raw, err := encodeEnvelope(env)
	require.NoError(t, err)
	require.NoError(t, st.SetTTL(context.Background(), key, raw, time.Hour))
}

func TestSweepRemovesExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, st := newTestCache(t)

	plantExpired(t, st, KeyPrefix+"expired")
	require.NoError(t, st.SetTTL(ctx, KeyPrefix+"corrupt", []byte("junk"), time.Hour))
	assert.True(t, c.Set(ctx, Components{Query: "fresh"}, []byte("v"), time.Hour))

	removed, err := c.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{DeriveKey(Components{Query: "fresh"})}, keys)
}

func TestSweepEmptyNamespace(t *testing.T) {
	c, _ := newTestCache(t)
	removed, err := c.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestBackgroundSweeper(t *testing.T) {
	ctx := context.Background()
	c, st := newTestCache(t, WithSweepInterval(20*time.Millisecond))

	plantExpired(t, st, KeyPrefix+"expired")
	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool {
		keys, err := c.Keys(ctx, "")
		return err == nil && len(keys) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSweeperSurvivesStoreFailures(t *testing.T) {
	c := New(failingStore{}, logger.NewTestLogger(), WithSweepInterval(10*time.Millisecond))
	c.Start()
	// Several ticks fail; the scheduler keeps going and Stop still works.
	time.Sleep(60 * time.Millisecond)
	c.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	c, _ := newTestCache(t)
	c.Stop()
}

func TestStartStopIdempotent(t *testing.T) {
	c, _ := newTestCache(t, WithSweepInterval(10*time.Millisecond))
	c.Start()
	c.Start()
	c.Stop()
	c.Stop()
}
