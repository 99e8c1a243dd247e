package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the preference cache.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	CacheEvictions prometheus.Counter
	CacheResident  prometheus.Gauge
	StoreDuration  *prometheus.HistogramVec
}

// New registers the preference metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonetags_preference_cache_hits_total",
			Help: "Preference lookups served from the in-memory cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonetags_preference_cache_misses_total",
			Help: "Preference lookups that went to the durable store",
		}),
		CacheEvictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonetags_preference_cache_evictions_total",
			Help: "Residents evicted to stay within the cache capacity",
		}),
		CacheResident: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tonetags_preference_cache_resident_users",
			Help: "Users currently resident in the preference cache",
		}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tonetags_preference_store_duration_ms",
			Help:    "Latency of durable preference store calls in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementHits() {
	m.CacheHits.Inc()
}

func (m *Metrics) IncrementMisses() {
	m.CacheMisses.Inc()
}

func (m *Metrics) IncrementEvictions() {
	m.CacheEvictions.Inc()
}

func (m *Metrics) SetResident(count int) {
	m.CacheResident.Set(float64(count))
}

func (m *Metrics) ObserveStore(operation string, ms float64) {
	m.StoreDuration.WithLabelValues(operation).Observe(ms)
}
