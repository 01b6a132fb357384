package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	decisionsTotal *prometheus.CounterVec
	conviction     *prometheus.GaugeVec
	pillarFailures *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pillarsight_decisions_total",
				Help: "Total number of decisions produced",
			},
			[]string{"symbol", "bias"},
		),
		conviction: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pillarsight_conviction",
				Help: "Last conviction score for a symbol",
			},
			[]string{"symbol"},
		),
		pillarFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pillarsight_pillar_failures_total",
				Help: "Total number of pillar evaluation failures",
			},
			[]string{"pillar"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pillarsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pillarsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordDecision records one resolved decision per symbol and bias.
func (r *Recorder) RecordDecision(symbol, bias string) {
	r.decisionsTotal.WithLabelValues(symbol, bias).Inc()
}

// RecordConviction records the last conviction score for a symbol.
func (r *Recorder) RecordConviction(symbol string, conviction float64) {
	r.conviction.WithLabelValues(symbol).Set(conviction)
}

// RecordPillarFailure records a failed pillar evaluation.
func (r *Recorder) RecordPillarFailure(pillar string) {
	r.pillarFailures.WithLabelValues(pillar).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
