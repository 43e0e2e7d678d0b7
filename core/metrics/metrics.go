// Package metrics provides Prometheus metrics for content imports.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal tracks import runs by outcome
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gyrinx",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Total number of content import runs by status",
		},
		[]string{"ruleset", "status", "dry_run"},
	)

	// ImportDuration tracks import run duration in seconds
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gyrinx",
			Subsystem: "import",
			Name:      "run_duration_seconds",
			Help:      "Duration of content import runs in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"ruleset"},
	)

	// RecordsTotal tracks imported records by entity type and action
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gyrinx",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Total number of records processed by entity type and action",
		},
		[]string{"type", "action", "dry_run"},
	)

	// FileFailuresTotal tracks content files skipped because they could not be parsed
	FileFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gyrinx",
			Subsystem: "loader",
			Name:      "file_failures_total",
			Help:      "Total number of content files skipped due to parse errors",
		},
	)

	// PreviewsShared tracks preview requests that joined an in-flight preview
	PreviewsShared = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gyrinx",
			Subsystem: "preview",
			Name:      "shared_total",
			Help:      "Total number of preview requests served by an in-flight preview",
		},
	)
)

// RecordImport records an import run metric
func RecordImport(ruleset, status string, dryRun bool, durationSeconds float64) {
	ImportsTotal.WithLabelValues(ruleset, status, strconv.FormatBool(dryRun)).Inc()
	ImportDuration.WithLabelValues(ruleset).Observe(durationSeconds)
}

// RecordRecords adds count processed records of one type and action
func RecordRecords(entityType, action string, dryRun bool, count int) {
	if count <= 0 {
		return
	}
	RecordsTotal.WithLabelValues(entityType, action, strconv.FormatBool(dryRun)).Add(float64(count))
}

// RecordFileFailures adds skipped content files
func RecordFileFailures(count int) {
	if count <= 0 {
		return
	}
	FileFailuresTotal.Add(float64(count))
}
