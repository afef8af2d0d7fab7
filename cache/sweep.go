package cache

import (
	"context"
	"errors"
	"time"

	"github.com/priceowl/searchcache/store"
)

// Start launches the background expiry sweeper. Safe to call once; later
// calls are no-ops. The sweeper is a second layer of defense over the
// store's native per-key expiry, which may be disabled or lagging.
func (c *Cache) Start() {
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(1)
		go c.run(ctx)
	})
}

// Stop signals the sweeper and waits for an in-flight sweep to finish.
// Safe to call multiple times and without a prior Start.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			c.wg.Wait()
		}
	})
}

func (c *Cache) run(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := c.Sweep(ctx)
			if err != nil {
				// Next tick proceeds regardless.
				c.log.Warn("sweep failed: %s", err)
				continue
			}
			if removed > 0 {
				c.log.Debug("sweep removed %d entries", removed)
			}
		}
	}
}

// Sweep scans the namespace once and deletes every entry that is past its
// TTL or fails to decode. Returns the number of entries removed.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, c.cfg.prefix)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var stale []string
	for _, key := range keys {
		data, err := c.store.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			c.log.Debug("sweep read of %s failed: %s", key, err)
			continue
		}
		env, err := decodeEnvelope(data)
		if err != nil {
			stale = append(stale, key)
			continue
		}
		if env.expired(now) {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := c.store.DeleteMany(ctx, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}
