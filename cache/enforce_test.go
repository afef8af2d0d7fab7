package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeLimitEnforced(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, WithMaxEntries(5))

	for i := 0; i < 8; i++ {
		comps := Components{Query: fmt.Sprintf("query-%d", i)}
		assert.True(t, c.Set(ctx, comps, []byte("v"), time.Minute))
	}

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(keys), 5)
	assert.GreaterOrEqual(t, c.Stats().Evictions, int64(3))
}

func TestEvictionPrefersRecentlyAccessed(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, WithMaxEntries(5))

	queries := []string{"q0", "q1", "q2", "q3", "q4"}
	for _, q := range queries {
		assert.True(t, c.Set(ctx, Components{Query: q}, []byte(q), time.Minute))
		// Keep last-access timestamps strictly ordered.
		time.Sleep(2 * time.Millisecond)
	}

	// Touch q0 and q1 so their last access is newer than q2..q4.
	for _, q := range []string{"q0", "q1"} {
		_, ok := c.Get(ctx, Components{Query: q})
		require.True(t, ok)
	}

	assert.True(t, c.Set(ctx, Components{Query: "q5"}, []byte("q5"), time.Minute))
	assert.True(t, c.Set(ctx, Components{Query: "q6"}, []byte("q6"), time.Minute))

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, keys, DeriveKey(Components{Query: "q0"}))
	assert.Contains(t, keys, DeriveKey(Components{Query: "q1"}))
	assert.NotContains(t, keys, DeriveKey(Components{Query: "q2"}))
}

func TestEnforcementDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	c, st := newTestCache(t, WithMaxEntries(3))

	for _, q := range []string{"a", "b"} {
		assert.True(t, c.Set(ctx, Components{Query: q}, []byte(q), time.Minute))
	}
	require.NoError(t, st.SetTTL(ctx, KeyPrefix+"corrupt", []byte("junk"), time.Hour))

	// The next write scans the full namespace and removes the entry that
	// fails to parse.
	assert.True(t, c.Set(ctx, Components{Query: "c"}, []byte("c"), time.Minute))

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.NotContains(t, keys, KeyPrefix+"corrupt")
}

func TestNoEvictionBelowCeiling(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, WithMaxEntries(100))

	for i := 0; i < 10; i++ {
		assert.True(t, c.Set(ctx, Components{Query: fmt.Sprintf("q%d", i)}, []byte("v"), time.Minute))
	}
	assert.Equal(t, int64(0), c.Stats().Evictions)
}

func TestEnforcementDisabled(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, WithMaxEntries(0))

	for i := 0; i < 50; i++ {
		assert.True(t, c.Set(ctx, Components{Query: fmt.Sprintf("q%d", i)}, []byte("v"), time.Minute))
	}

	keys, err := c.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 50)
	assert.Equal(t, int64(0), c.Stats().Evictions)
}
