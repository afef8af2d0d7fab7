package cache

import (
	"errors"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

var errMalformedEnvelope = errors.New("cache: malformed envelope")

// envelope is the record persisted per cache key. The payload is opaque;
// typed access goes through GetAs/SetAs.
type envelope struct {
	Payload        []byte        `msgpack:"p"`
	CreatedAt      time.Time     `msgpack:"c"`
	TTL            time.Duration `msgpack:"t"`
	AccessCount    int64         `msgpack:"a"`
	LastAccessedAt time.Time     `msgpack:"l"`
	Size           int           `msgpack:"s"`
}

// expired reports logical expiry, independent of whether the backing
// store has already dropped the key.
func (e *envelope) expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// remaining returns what is left of the original TTL. Re-persisting
// access metadata uses this so a hit never extends expiry.
func (e *envelope) remaining(now time.Time) time.Duration {
	return e.TTL - now.Sub(e.CreatedAt)
}

func encodeEnvelope(e *envelope) ([]byte, error) {
	return msgpack.Marshal(e)
}

func decodeEnvelope(data []byte) (*envelope, error) {
	var e envelope
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	// A zero creation time or non-positive TTL means format drift.
	if e.CreatedAt.IsZero() || e.TTL <= 0 {
		return nil, errMalformedEnvelope
	}
	return &e, nil
}

// EntryInfo is the metadata view of a cached entry, exposed for
// administration and debugging.
type EntryInfo struct {
	Key            string
	CreatedAt      time.Time
	TTL            time.Duration
	AccessCount    int64
	LastAccessedAt time.Time
	Size           int
}
