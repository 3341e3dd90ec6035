// Package metrics exposes Prometheus collectors for scans and keystrokes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pschichtel/VirtualScanner/internal/ir"
)

// Metrics holds the collectors on a private registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	scans      *prometheus.CounterVec
	keystrokes prometheus.Counter
	unresolved prometheus.Counter
	compile    *prometheus.HistogramVec
}

// New registers the collectors on a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vscan",
				Name:      "scans_total",
				Help:      "Processed detections by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		keystrokes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vscan",
			Name:      "key_events_total",
			Help:      "Key press and release events sent to the injector.",
		}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vscan",
			Name:      "unresolved_keys_total",
			Help:      "Keys dropped because no table could resolve them.",
		}),
		compile: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "vscan",
				Name:      "compile_duration_seconds",
				Help:      "Time spent compiling macros.",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"path"},
		),
	}
	m.registry.MustRegister(m.scans, m.keystrokes, m.unresolved, m.compile)
	return m
}

// ObserveScan counts a processed detection.
func (m *Metrics) ObserveScan(rec ir.ScanRecord) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(rec.Source, string(rec.Outcome)).Inc()
	if rec.Outcome == ir.OutcomeTyped {
		m.keystrokes.Add(float64(rec.EventCount))
	}
	m.unresolved.Add(float64(len(rec.Unresolved)))
}

// ObserveCompile records how long compiling took on path ("macro",
// "direct" or "http").
func (m *Metrics) ObserveCompile(path string, d time.Duration) {
	if m == nil {
		return
	}
	m.compile.WithLabelValues(path).Observe(d.Seconds())
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
