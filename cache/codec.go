package cache

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// GetAs retrieves and msgpack-decodes a typed payload. A payload that no
// longer decodes into T (format drift) is invalidated and reported as a
// miss.
func GetAs[T any](ctx context.Context, c *Cache, comps Components) (T, bool) {
	var zero T
	data, ok := c.Get(ctx, comps)
	if !ok {
		return zero, false
	}
	var out T
	if err := msgpack.Unmarshal(data, &out); err != nil {
		c.log.Warn("payload decode failed, invalidating: %s", err)
		c.Invalidate(ctx, comps)
		return zero, false
	}
	return out, true
}

// SetAs msgpack-encodes val and stores it. Returns false when the value
// could not be encoded or the write failed.
func SetAs[T any](ctx context.Context, c *Cache, comps Components, val T, ttl time.Duration) bool {
	data, err := msgpack.Marshal(val)
	if err != nil {
		c.log.Warn("payload encode failed: %s", err)
		return false
	}
	return c.Set(ctx, comps, data, ttl)
}

// Producer computes the real search result on a cache miss.
type Producer[T any] func(ctx context.Context) (T, error)

// Fetch is the cache-aside loop in one call: return the cached value if
// present, otherwise invoke produce, cache its result, and return it.
// A failed cache write never fails the call; producer errors propagate.
func Fetch[T any](ctx context.Context, c *Cache, comps Components, ttl time.Duration, produce Producer[T]) (T, error) {
	if v, ok := GetAs[T](ctx, c, comps); ok {
		return v, nil
	}
	v, err := produce(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	SetAs(ctx, c, comps, v, ttl)
	return v, nil
}
