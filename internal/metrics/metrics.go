// Package metrics collects Prometheus metrics for dispatch runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/grouprequest/internal/models"
)

const namespace = "grouprequest"

// Metrics holds the collectors for one process. Each instance owns its registry.
type Metrics struct {
	registry        *prometheus.Registry
	recipients      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	runs            prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipients_total",
			Help:      "Recipients processed, by outcome.",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_request_duration_seconds",
			Help:      "Latency of calls to the payment service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Dispatch runs started after confirmation.",
		}),
	}

	m.registry.MustRegister(m.recipients, m.requestDuration, m.runs)
	for _, outcome := range models.Outcomes {
		m.recipients.WithLabelValues(string(outcome))
	}
	return m
}

// Registry returns the registry holding all collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RunStarted counts a confirmed run.
func (m *Metrics) RunStarted() {
	m.runs.Inc()
}

// ObserveOutcome counts one classified recipient.
func (m *Metrics) ObserveOutcome(outcome models.Outcome) {
	m.recipients.WithLabelValues(string(outcome)).Inc()
}

// ObserveRequest records the latency of one payment call.
func (m *Metrics) ObserveRequest(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.requestDuration.WithLabelValues(result).Observe(d.Seconds())
}

// WriteTextfile writes all metrics in the text exposition format to path,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
