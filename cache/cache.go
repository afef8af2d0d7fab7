package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/priceowl/searchcache/logger"
	"github.com/priceowl/searchcache/store"
)

// DefaultTTL is the TTL used when Set is called with ttl <= 0.
const DefaultTTL = 15 * time.Minute

// DefaultMaxEntries is the live-entry ceiling enforced before each write.
const DefaultMaxEntries = 1000

// DefaultSweepInterval is how often the background sweeper runs.
const DefaultSweepInterval = 5 * time.Minute

type config struct {
	defaultTTL    time.Duration
	maxEntries    int
	sweepInterval time.Duration
	prefix        string
}

// Option configures a Cache.
type Option func(*config)

// WithDefaultTTL sets the TTL used when Set is called with ttl <= 0.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *config) { c.defaultTTL = d }
}

// WithMaxEntries sets the live-entry ceiling. A value <= 0 disables size
// enforcement.
func WithMaxEntries(n int) Option {
	return func(c *config) { c.maxEntries = n }
}

// WithSweepInterval sets how often the background sweeper runs.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.sweepInterval = d }
}

// WithPrefix overrides the key namespace prefix. Defaults to KeyPrefix.
func WithPrefix(p string) Option {
	return func(c *config) { c.prefix = p }
}

// Cache is the search-result cache. It sits between the aggregation
// producer and the routing consumer: Get on miss returns nothing and the
// caller computes the real result and calls Set.
//
// A Cache never surfaces store errors to callers. The primary search path
// must stay correct with the store down, so every failure degrades to a
// miss (Get) or a dropped write (Set).
type Cache struct {
	store store.Store
	log   logger.Logger
	cfg   config
	stats statsTracker

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// New returns a Cache over the given store. The sweeper does not run
// until Start is called.
func New(s store.Store, log logger.Logger, opts ...Option) *Cache {
	cfg := config{
		defaultTTL:    DefaultTTL,
		maxEntries:    DefaultMaxEntries,
		sweepInterval: DefaultSweepInterval,
		prefix:        KeyPrefix,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cache{
		store: s,
		log:   log.WithPrefix("[cache]"),
		cfg:   cfg,
	}
}

func (c *Cache) key(comps Components) string {
	return c.cfg.prefix + fingerprint(comps)
}

// Get returns the cached payload for comps, or false on a miss. Absent,
// expired, and corrupt entries all count as misses; corrupt entries are
// deleted so they cannot recur.
func (c *Cache) Get(ctx context.Context, comps Components) ([]byte, bool) {
	key := c.key(comps)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn("read failed for %s: %s", key, err)
		}
		c.stats.miss()
		return nil, false
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		c.log.Warn("dropping unparseable entry %s: %s", key, err)
		if derr := c.store.Delete(ctx, key); derr != nil {
			c.log.Warn("delete of unparseable entry %s failed: %s", key, derr)
		}
		c.stats.miss()
		return nil, false
	}

	now := time.Now()
	if env.expired(now) {
		if derr := c.store.Delete(ctx, key); derr != nil {
			c.log.Debug("delete of expired entry %s failed: %s", key, derr)
		}
		c.stats.miss()
		return nil, false
	}

	env.AccessCount++
	env.LastAccessedAt = now
	c.refreshAccess(ctx, key, env, now)

	c.stats.hit()
	return env.Payload, true
}

// refreshAccess re-persists updated access metadata with the remaining
// TTL so a hit never extends expiry. Losing this write costs a stale
// access count, not correctness. A hit landing exactly on the TTL
// boundary has no remaining TTL to re-persist; the entry is served one
// last time and left to expire.
func (c *Cache) refreshAccess(ctx context.Context, key string, env *envelope, now time.Time) {
	rem := env.remaining(now)
	if rem <= 0 {
		return
	}
	raw, err := encodeEnvelope(env)
	if err != nil {
		return
	}
	if serr := c.store.SetTTL(ctx, key, raw, rem); serr != nil {
		c.log.Debug("metadata refresh for %s failed: %s", key, serr)
	}
}

// Set stores payload under the key derived from comps. A ttl <= 0 uses
// the configured default. Returns false when the write did not happen;
// the error is logged, never propagated.
func (c *Cache) Set(ctx context.Context, comps Components, payload []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = c.cfg.defaultTTL
	}

	c.enforceLimit(ctx)

	now := time.Now()
	env := &envelope{
		Payload:        payload,
		CreatedAt:      now,
		TTL:            ttl,
		AccessCount:    1,
		LastAccessedAt: now,
		Size:           len(payload),
	}
	raw, err := encodeEnvelope(env)
	if err != nil {
		c.log.Warn("encode failed: %s", err)
		return false
	}

	key := c.key(comps)
	if err := c.store.SetTTL(ctx, key, raw, ttl); err != nil {
		c.log.Warn("write failed for %s: %s", key, err)
		return false
	}
	return true
}

// Invalidate removes the entry for comps. Idempotent.
func (c *Cache) Invalidate(ctx context.Context, comps Components) bool {
	key := c.key(comps)
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.Warn("invalidate of %s failed: %s", key, err)
		return false
	}
	return true
}

// Clear removes every entry under the cache's namespace prefix.
func (c *Cache) Clear(ctx context.Context) bool {
	keys, err := c.store.Keys(ctx, c.cfg.prefix)
	if err != nil {
		c.log.Warn("clear enumeration failed: %s", err)
		return false
	}
	if len(keys) == 0 {
		return true
	}
	if err := c.store.DeleteMany(ctx, keys); err != nil {
		c.log.Warn("clear delete failed: %s", err)
		return false
	}
	c.log.Info("cleared %d entries", len(keys))
	return true
}

// Keys lists live keys. An empty prefix means the cache's own namespace.
func (c *Cache) Keys(ctx context.Context, prefix string) ([]string, error) {
	if prefix == "" {
		prefix = c.cfg.prefix
	}
	return c.store.Keys(ctx, prefix)
}

// EntryInfo returns the metadata for a raw cache key, or false when the
// key is absent, expired, or unparseable.
func (c *Cache) EntryInfo(ctx context.Context, key string) (EntryInfo, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return EntryInfo{}, false
	}
	env, err := decodeEnvelope(data)
	if err != nil {
		return EntryInfo{}, false
	}
	if env.expired(time.Now()) {
		return EntryInfo{}, false
	}
	return EntryInfo{
		Key:            key,
		CreatedAt:      env.CreatedAt,
		TTL:            env.TTL,
		AccessCount:    env.AccessCount,
		LastAccessedAt: env.LastAccessedAt,
		Size:           env.Size,
	}, true
}

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot()
}
