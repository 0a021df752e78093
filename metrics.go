package offmeta

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// PrometheusCollector is provided for Prometheus.
type MetricsCollector interface {
	// RecordRetrieval is called after each paginated search.
	// pages is the number of page requests made, cards the number of records kept.
	RecordRetrieval(pages, cards int, duration time.Duration, err error)

	// RecordRank is called after each ranking pass with the input and output sizes.
	RecordRank(in, out int)

	// RecordDetail is called after each single-card fetch. kind is one of
	// "card", "rulings", "prices" or "related".
	RecordDetail(kind string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRetrieval(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRank(int, int)                             {}
func (NoopMetricsCollector) RecordDetail(string, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	RetrievalCount  atomic.Int64
	RetrievalErrors atomic.Int64
	PagesFetched    atomic.Int64
	CardsRetrieved  atomic.Int64
	RankCount       atomic.Int64
	CardsRanked     atomic.Int64
	DetailCount     atomic.Int64
	DetailErrors    atomic.Int64
}

// RecordRetrieval implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetrieval(pages, cards int, _ time.Duration, err error) {
	b.RetrievalCount.Add(1)
	b.PagesFetched.Add(int64(pages))
	if err != nil {
		b.RetrievalErrors.Add(1)
		return
	}
	b.CardsRetrieved.Add(int64(cards))
}

// RecordRank implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRank(_, out int) {
	b.RankCount.Add(1)
	b.CardsRanked.Add(int64(out))
}

// RecordDetail implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDetail(_ string, _ time.Duration, err error) {
	b.DetailCount.Add(1)
	if err != nil {
		b.DetailErrors.Add(1)
	}
}

// PrometheusCollector implements MetricsCollector with Prometheus metrics.
type PrometheusCollector struct {
	retrievals *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	pages      prometheus.Histogram
	ranked     prometheus.Histogram
	details    *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &PrometheusCollector{
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offmeta_retrievals_total",
			Help: "Paginated card searches by outcome",
		}, []string{"status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "offmeta_request_duration_seconds",
			Help:    "Latency of card service operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		pages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "offmeta_retrieval_pages",
			Help:    "Page requests made per search",
			Buckets: []float64{1, 2, 3, 4, 5},
		}),
		ranked: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "offmeta_ranked_cards",
			Help:    "Cards left after the percentile cut",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		details: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "offmeta_card_fetches_total",
			Help: "Single-card fetches by kind and outcome",
		}, []string{"kind", "status"}),
	}

	for _, c := range []prometheus.Collector{p.retrievals, p.latency, p.pages, p.ranked, p.details} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRetrieval implements MetricsCollector.
func (p *PrometheusCollector) RecordRetrieval(pages, _ int, duration time.Duration, err error) {
	p.retrievals.WithLabelValues(status(err)).Inc()
	p.latency.WithLabelValues("search", status(err)).Observe(duration.Seconds())
	p.pages.Observe(float64(pages))
}

// RecordRank implements MetricsCollector.
func (p *PrometheusCollector) RecordRank(_, out int) {
	p.ranked.Observe(float64(out))
}

// RecordDetail implements MetricsCollector.
func (p *PrometheusCollector) RecordDetail(kind string, duration time.Duration, err error) {
	p.details.WithLabelValues(kind, status(err)).Inc()
	p.latency.WithLabelValues(kind, status(err)).Observe(duration.Seconds())
}
