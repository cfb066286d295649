package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline Prometheus metrics.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
	OCRFallbacks    *prometheus.CounterVec
	PlaceholderRate prometheus.Histogram
	MirrorFailures  prometheus.Counter
	LedgerFailures  prometheus.Counter
}

// NewMetrics registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dmpart_runs_total",
			Help: "Pipeline runs by source format and outcome (ok or error kind)",
		}, []string{"format", "outcome"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dmpart_run_duration_seconds",
			Help:    "Wall time of one pipeline run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"format"}),
		OCRFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dmpart_ocr_fallbacks_total",
			Help: "Garbled text layers by OCR outcome (used, unavailable)",
		}, []string{"state"}),
		PlaceholderRate: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dmpart_placeholder_slots",
			Help:    "Slots left unanswered per stored artifact",
			Buckets: prometheus.LinearBuckets(0, 2, 8),
		}),
		MirrorFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "dmpart_mirror_failures_total",
			Help: "Artifacts that could not be copied to object storage",
		}),
		LedgerFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "dmpart_ledger_failures_total",
			Help: "Run ledger writes that failed",
		}),
	}
}

func (m *Metrics) observeRun(format, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(format, outcome).Inc()
	m.RunDuration.WithLabelValues(format).Observe(took.Seconds())
}

func (m *Metrics) observeArtifact(ocr string, placeholders int) {
	if m == nil {
		return
	}
	if ocr != "" {
		m.OCRFallbacks.WithLabelValues(ocr).Inc()
	}
	m.PlaceholderRate.Observe(float64(placeholders))
}

func (m *Metrics) mirrorFailed() {
	if m != nil {
		m.MirrorFailures.Inc()
	}
}

func (m *Metrics) ledgerFailed() {
	if m != nil {
		m.LedgerFailures.Inc()
	}
}
