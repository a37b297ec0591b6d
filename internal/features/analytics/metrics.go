package analytics

import (
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector exposes analytics request metrics to Prometheus.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recordsScanned  prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	snapshotsTotal  *prometheus.CounterVec
}

// NewCollector registers the analytics collectors on reg.
func NewCollector(reg prometheus.Registerer, prefix string) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_analytics_requests_total",
				Help: "Total number of analytics aggregations",
			},
			[]string{"granularity", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_analytics_duration_seconds",
				Help:    "Time spent loading and aggregating forms",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"granularity"},
		),
		recordsScanned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_analytics_records_scanned",
				Help:    "Number of form records read per aggregation",
				Buckets: prometheus.ExponentialBuckets(10, 4, 8),
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_analytics_cache_lookups_total",
				Help: "Analytics result cache lookups by result",
			},
			[]string{"result"},
		),
		snapshotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_analytics_snapshots_total",
				Help: "Scheduled analytics snapshots by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// NewDefaultCollector registers on the process-wide Prometheus registry.
func NewDefaultCollector(cfg *config.Config) *Collector {
	return NewCollector(prometheus.DefaultRegisterer, cfg.MetricsPrefix)
}

func (c *Collector) ObserveRequest(granularity Granularity, outcome string, elapsed time.Duration) {
	c.requestsTotal.WithLabelValues(string(granularity), outcome).Inc()
	c.requestDuration.WithLabelValues(string(granularity)).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveRecords(n int) {
	c.recordsScanned.Observe(float64(n))
}

func (c *Collector) ObserveCache(result string) {
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveSnapshot(outcome string) {
	c.snapshotsTotal.WithLabelValues(outcome).Inc()
}
