// Package cache implements the search-result cache that sits between the
// multi-source search aggregation and its callers.
//
// # Keys
//
// Every distinct search — query string, optional filters, optional sort,
// optional source list — maps to one deterministic key via [DeriveKey].
// The query is trimmed and case-folded, sources are sorted, and filters
// are canonically serialized, so equivalent searches collide on purpose
// and nothing else does (the fingerprint is a full SHA-256 digest).
//
// # Lifecycle
//
// Entries are created by [Cache.Set], refreshed (access metadata only) by
// a hit on [Cache.Get], and removed by native store expiry, the
// background sweeper, size-ceiling eviction, or an explicit
// [Cache.Invalidate]/[Cache.Clear]. A hit never extends an entry's
// expiry: metadata is re-persisted with the remaining TTL.
//
// # Failure policy
//
// The cache is a performance layer over a primary computation that must
// stay correct with the cache gone. No store error ever reaches a caller:
// Get degrades to a miss, Set to a dropped write, both logged. Entries
// whose bytes no longer parse are deleted on sight.
//
// # Eviction
//
// Before each write the size enforcer counts live keys; at or above the
// ceiling it loads every envelope, ranks by last access, and deletes an
// oldest-first batch with headroom. This is an O(n) scan by design —
// simple and adequate at a few thousand cached searches.
//
// # Typical wiring
//
//	st := store.NewRedis(client)
//	c := cache.New(st, log, cache.WithMaxEntries(5000))
//	c.Start()
//	defer c.Stop()
//
//	results, err := cache.Fetch(ctx, c, comps, 0, runSearch)
package cache
