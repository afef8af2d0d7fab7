package cache

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/priceowl/searchcache/store"
)

// evictionHeadroomPct sizes the eviction batch past the strict overshoot,
// so the very next write does not re-trigger a full scan.
const evictionHeadroomPct = 10

// enforceLimit keeps the live entry count under the configured ceiling.
// Invoked before every write. This is a best-effort full scan ranked by
// last access, not a true LRU structure; fine at a few thousand entries.
func (c *Cache) enforceLimit(ctx context.Context) {
	if c.cfg.maxEntries <= 0 {
		return
	}

	keys, err := c.store.Keys(ctx, c.cfg.prefix)
	if err != nil {
		c.log.Warn("size enforcement skipped, key scan failed: %s", err)
		return
	}
	if len(keys) < c.cfg.maxEntries {
		return
	}

	type candidate struct {
		key        string
		lastAccess time.Time
	}
	candidates := make([]candidate, 0, len(keys))
	for _, key := range keys {
		data, err := c.store.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			// Expired between the scan and the fetch.
			continue
		}
		if err != nil {
			c.log.Debug("size enforcement read of %s failed: %s", key, err)
			continue
		}
		env, err := decodeEnvelope(data)
		if err != nil {
			if derr := c.store.Delete(ctx, key); derr != nil {
				c.log.Debug("delete of unparseable entry %s failed: %s", key, derr)
			}
			continue
		}
		candidates = append(candidates, candidate{key: key, lastAccess: env.LastAccessedAt})
	}

	headroom := c.cfg.maxEntries * evictionHeadroomPct / 100
	if headroom < 1 {
		headroom = 1
	}
	evict := len(candidates) - (c.cfg.maxEntries - headroom)
	if evict <= 0 {
		return
	}
	if evict > len(candidates) {
		evict = len(candidates)
	}

	// Oldest access first — approximate LRU.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastAccess.Before(candidates[j].lastAccess)
	})

	batch := make([]string, evict)
	for i := range batch {
		batch[i] = candidates[i].key
	}
	if err := c.store.DeleteMany(ctx, batch); err != nil {
		c.log.Warn("eviction batch failed: %s", err)
		return
	}
	c.stats.evicted(len(batch))
	c.log.Debug("evicted %d entries to stay under %d", len(batch), c.cfg.maxEntries)
}
