// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Scrub is a batch process, so scrape-style exposition makes no sense; the
// run's counters are collected locally and pushed once at exit. All
// Prometheus-specific dependencies live here so the rest of the program can
// swap backends without changes.
package prompush

import (
	"fmt"

	"scrub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	rowCounter  *prometheus.CounterVec // "scrub_rows_total"
	byteCounter prometheus.Counter     // "scrub_bytes_read_total"
	runDuration prometheus.Summary     // "scrub_run_duration_seconds"
}

// NewBackend constructs a Pushgateway backend. jobName defaults to "scrub".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "scrub"
	}

	reg := prometheus.NewRegistry()

	rowCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrub_rows_total",
			Help: "Rows seen by the run, partitioned by kind (total, bad, duplicate).",
		},
		[]string{"kind"},
	)
	byteCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrub_bytes_read_total",
		Help: "Raw input bytes consumed by the run.",
	})
	runDuration := prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "scrub_run_duration_seconds",
		Help: "Wall time of the run in seconds.",
	})

	reg.MustRegister(rowCounter, byteCounter, runDuration)

	return &Backend{
		gatewayURL:  gatewayURL,
		jobName:     jobName,
		reg:         reg,
		rowCounter:  rowCounter,
		byteCounter: byteCounter,
		runDuration: runDuration,
	}, nil
}

// IncCounter implements metrics.Backend.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case "scrub_rows_total":
		b.rowCounter.WithLabelValues(labels["kind"]).Add(delta)
	case "scrub_bytes_read_total":
		b.byteCounter.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == "scrub_run_duration_seconds" {
		b.runDuration.Observe(value)
	}
}

// Flush pushes the collected metrics to the Pushgateway.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
