package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	col := NewCollector(c)

	comps := Components{Query: "toaster"}
	_, _ = c.Get(ctx, comps)
	assert.True(t, c.Set(ctx, comps, []byte("v"), time.Minute))
	_, _ = c.Get(ctx, comps)

	expected := `
# HELP searchcache_evictions_total Number of live entries removed to satisfy the size ceiling
# TYPE searchcache_evictions_total counter
searchcache_evictions_total 0
# HELP searchcache_hits_total Number of cache reads that returned a usable payload
# TYPE searchcache_hits_total counter
searchcache_hits_total 1
# HELP searchcache_misses_total Number of cache reads that found nothing usable
# TYPE searchcache_misses_total counter
searchcache_misses_total 1
`
	assert.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected)))
}

func TestCollectorMetricCount(t *testing.T) {
	c, _ := newTestCache(t)
	assert.Equal(t, 3, testutil.CollectAndCount(NewCollector(c)))
}
