// Package metrics exposes Prometheus metrics for extraction runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the extraction counters and histograms.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	ItemsExtracted     *prometheus.CounterVec
	ItemsDiscarded     *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	TranscriptMessages *prometheus.CounterVec
	Redactions         *prometheus.CounterVec
}

// NewMetrics returns the process-wide metrics, registering them with the
// default registry on first use.
//
// Metrics:
//   - holidaze_extraction_runs_total{result} - runs by outcome ("ok", "error")
//   - holidaze_items_extracted_total{category,status} - items kept by a run
//   - holidaze_items_discarded_total{reason} - candidates dropped by a run
//   - holidaze_extraction_duration_seconds - wall time of a run
//   - holidaze_transcript_messages_total{kind} - "user", "system" or "skipped" records
//   - holidaze_redactions_total{rule} - personal data redacted from evidence
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_extraction_runs_total",
					Help: "Total number of extraction runs",
				},
				[]string{"result"},
			),
			ItemsExtracted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_items_extracted_total",
					Help: "Total number of travel items produced",
				},
				[]string{"category", "status"},
			),
			ItemsDiscarded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_items_discarded_total",
					Help: "Total number of candidate items discarded",
				},
				[]string{"reason"},
			),
			ExtractionDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "holidaze_extraction_duration_seconds",
					Help:    "Duration of extraction runs in seconds",
					Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
				},
			),
			TranscriptMessages: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_transcript_messages_total",
					Help: "Total number of transcript records read",
				},
				[]string{"kind"},
			),
			Redactions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "holidaze_redactions_total",
					Help: "Total number of values redacted from evidence messages",
				},
				[]string{"rule"},
			),
		}
	})
	return globalMetrics
}

// RecordRun records the outcome and duration of one run.
func (m *Metrics) RecordRun(err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RunsTotal.WithLabelValues(result).Inc()
	m.ExtractionDuration.Observe(d.Seconds())
}

// RecordItem counts one extracted item.
func (m *Metrics) RecordItem(category, status string) {
	m.ItemsExtracted.WithLabelValues(category, status).Inc()
}

// RecordDiscards adds per-reason discard counts.
func (m *Metrics) RecordDiscards(byReason map[string]int) {
	for reason, n := range byReason {
		m.ItemsDiscarded.WithLabelValues(reason).Add(float64(n))
	}
}

// RecordTranscript counts parsed and skipped transcript records.
func (m *Metrics) RecordTranscript(user, system, skipped int) {
	m.TranscriptMessages.WithLabelValues("user").Add(float64(user))
	m.TranscriptMessages.WithLabelValues("system").Add(float64(system))
	m.TranscriptMessages.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordRedactions adds per-rule redaction counts.
func (m *Metrics) RecordRedactions(byRule map[string]int) {
	for rule, n := range byRule {
		m.Redactions.WithLabelValues(rule).Add(float64(n))
	}
}
