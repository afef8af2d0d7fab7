package cache

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes the cache counters to Prometheus. Register it with
// the application's registry:
//
//	prometheus.MustRegister(cache.NewCollector(c))
type Collector struct {
	cache     *Cache
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a prometheus.Collector reading from c's stats.
func NewCollector(c *Cache) *Collector {
	return &Collector{
		cache: c,
		hits: prometheus.NewDesc(
			"searchcache_hits_total",
			"Number of cache reads that returned a usable payload",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"searchcache_misses_total",
			"Number of cache reads that found nothing usable",
			nil, nil,
		),
		evictions: prometheus.NewDesc(
			"searchcache_evictions_total",
			"Number of live entries removed to satisfy the size ceiling",
			nil, nil,
		),
	}
}

func (col *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- col.hits
	ch <- col.misses
	ch <- col.evictions
}

func (col *Collector) Collect(ch chan<- prometheus.Metric) {
	s := col.cache.Stats()
	ch <- prometheus.MustNewConstMetric(col.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(col.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(col.evictions, prometheus.CounterValue, float64(s.Evictions))
}
