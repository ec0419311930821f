// Package metrics collects and exposes Prometheus metrics for the
// matchmaking engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the services and workers record through.
type Recorder interface {
	RecordJoin(activityType string)
	RecordLeave()
	RecordScanLatency(d time.Duration)
	RecordClaimCommitted()
	RecordClaimAborted()
	RecordIntentsSwept(count int)
	SessionStarted()
	SessionEnded()
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	joins           *prometheus.CounterVec
	leaves          prometheus.Counter
	scanLatency     prometheus.Histogram
	claimsCommitted prometheus.Counter
	claimsAborted   prometheus.Counter
	intentsSwept    prometheus.Counter
	activeSessions  prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		joins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchq_joins_total",
			Help: "Pool joins by activity type",
		}, []string{"activity_type"}),
		leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchq_leaves_total",
			Help: "Explicit pool leaves",
		}),
		scanLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchq_scan_latency_seconds",
			Help:    "Candidate scan latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		claimsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchq_claims_committed_total",
			Help: "Pairing transactions that committed",
		}),
		claimsAborted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchq_claims_aborted_total",
			Help: "Pairing transactions aborted by a lost race",
		}),
		intentsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchq_intents_swept_total",
			Help: "Stale searching intents deleted by the sweeper",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matchq_active_sessions",
			Help: "Matchmaking sessions currently running",
		}),
	}

	reg.MustRegister(
		c.joins,
		c.leaves,
		c.scanLatency,
		c.claimsCommitted,
		c.claimsAborted,
		c.intentsSwept,
		c.activeSessions,
	)

	return c
}

func (c *Collector) RecordJoin(activityType string) {
	c.joins.WithLabelValues(activityType).Inc()
}

func (c *Collector) RecordLeave() {
	c.leaves.Inc()
}

func (c *Collector) RecordScanLatency(d time.Duration) {
	c.scanLatency.Observe(d.Seconds())
}

func (c *Collector) RecordClaimCommitted() {
	c.claimsCommitted.Inc()
}

func (c *Collector) RecordClaimAborted() {
	c.claimsAborted.Inc()
}

func (c *Collector) RecordIntentsSwept(count int) {
	c.intentsSwept.Add(float64(count))
}

func (c *Collector) SessionStarted() {
	c.activeSessions.Inc()
}

func (c *Collector) SessionEnded() {
	c.activeSessions.Dec()
}

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
