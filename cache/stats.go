package cache

import "sync/atomic"

// statsTracker holds the process-lifetime counters. Updated atomically
// since Get and Set run concurrently across request handlers.
type statsTracker struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func (s *statsTracker) hit()  { s.hits.Add(1) }
func (s *statsTracker) miss() { s.misses.Add(1) }

func (s *statsTracker) evicted(n int) { s.evictions.Add(int64(n)) }

// Stats is an immutable point-in-time snapshot of the cache counters.
// Counters reset only on process restart.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
	MissRate  float64
}

func (s *statsTracker) snapshot() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()
	out := Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: s.evictions.Load(),
	}
	if total := hits + misses; total > 0 {
		out.HitRate = float64(hits) / float64(total)
		out.MissRate = 1 - out.HitRate
	}
	return out
}
