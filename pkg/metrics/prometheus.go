package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal    *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	scanSize      *prometheus.HistogramVec
	fetchesTotal  *prometheus.CounterVec
	fetchErrors   *prometheus.CounterVec
	signalsSeen   *prometheus.GaugeVec
	combinedScore *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalscan_scans_total",
				Help: "Total number of scan invocations",
			},
			[]string{"horizon"},
		),
		scanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalscan_scan_duration_seconds",
				Help:    "Wall-clock duration of a full scan",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"horizon"},
		),
		scanSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalscan_scan_instruments",
				Help:    "Number of instruments requested per scan",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
			[]string{"horizon"},
		),
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalscan_fetches_total",
				Help: "Series fetches by source and cache outcome",
			},
			[]string{"source", "cache"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalscan_fetch_errors_total",
				Help: "Failed series fetches by source",
			},
			[]string{"source"},
		),
		signalsSeen: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalscan_signals_detected",
				Help: "Signals detected for a symbol in the latest scan",
			},
			[]string{"symbol"},
		),
		combinedScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalscan_combined_score",
				Help: "Combined signal-strength score for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordScan records one completed scan invocation.
func (r *Recorder) RecordScan(horizon string, instruments int, seconds float64) {
	r.scansTotal.WithLabelValues(horizon).Inc()
	r.scanDuration.WithLabelValues(horizon).Observe(seconds)
	r.scanSize.WithLabelValues(horizon).Observe(float64(instruments))
}

// RecordFetch records a series fetch, distinguishing cache hits.
func (r *Recorder) RecordFetch(source string, cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	r.fetchesTotal.WithLabelValues(source, outcome).Inc()
}

// RecordFetchError records a failed series fetch.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordSignals records how many signals a symbol produced.
func (r *Recorder) RecordSignals(symbol string, count int) {
	r.signalsSeen.WithLabelValues(symbol).Set(float64(count))
}

// RecordScore records a symbol's latest combined score.
func (r *Recorder) RecordScore(symbol string, score int) {
	r.combinedScore.WithLabelValues(symbol).Set(float64(score))
}
