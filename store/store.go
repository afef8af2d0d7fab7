// Package store provides the key/value backends the cache persists to.
//
// The cache never assumes anything about a backend beyond the Store
// contract: a key written with a TTL disappears eventually. Logical expiry
// is re-checked by the cache layer itself, so a backend with coarse or
// unreliable native expiry is still usable.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key is absent or already expired.
var ErrNotFound = errors.New("store: key not found")

// Store is the minimal surface the cache depends on. Implementations must
// be safe for concurrent use.
type Store interface {
	// Get returns the raw bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetTTL stores value under key with a time-to-live. A ttl <= 0 is
	// rejected by implementations; the cache layer always supplies one.
	SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMany removes a batch of keys in one round trip where the
	// backend supports it.
	DeleteMany(ctx context.Context, keys []string) error

	// Keys returns all live keys starting with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
