package endpoint

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded by Metrics.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
)

// Metrics holds Prometheus metrics for endpoint execution.
// A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetrics creates and registers endpoint metrics. Returns nil when reg is
// nil, which disables recording.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sparqlq",
				Subsystem: "endpoint",
				Name:      "requests_total",
				Help:      "Total number of endpoint requests by outcome",
			},
			[]string{"outcome"},
		),
		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "sparqlq",
				Subsystem: "endpoint",
				Name:      "request_duration_seconds",
				Help:      "Duration of endpoint requests",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sparqlq",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of result cache hits",
			},
		),
		cacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sparqlq",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of result cache misses",
			},
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) recordRequest(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(outcome).Inc()
	m.requestDuration.Observe(elapsed.Seconds())
}

// recordDecodeFailure counts a response that arrived but did not decode.
// The request itself was already counted as ok.
func (m *Metrics) recordDecodeFailure() {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(OutcomeDecode).Inc()
}

func (m *Metrics) recordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
