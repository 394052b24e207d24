// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from a scrub run.
//
// The package is intentionally minimal:
//
//   - It exposes a narrow interface (Backend) focused on counters and
//     duration observations.
//   - It provides a global, pluggable backend that defaults to a no-op
//     implementation, so metrics are always safe to call even when no real
//     backend is configured.
//   - Concrete metric systems stay isolated in subpackages; the rest of the
//     codebase depends only on this interface.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordRows increments the row counter for the given kind.
//
// Kinds mirror the run summary fields:
//   - "total"
//   - "bad"
//   - "duplicate"
func RecordRows(kind string, delta uint64) {
	if delta == 0 {
		return
	}
	backend.IncCounter("scrub_rows_total", float64(delta), Labels{
		"kind": kind,
	})
}

// RecordRun records run-level figures: wall time and raw input consumed.
func RecordRun(elapsed time.Duration, bytesRead uint64) {
	backend.ObserveHistogram("scrub_run_duration_seconds", elapsed.Seconds(), nil)
	backend.IncCounter("scrub_bytes_read_total", float64(bytesRead), nil)
}
