package cmd

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/retry-sim/sim/experiment"
)

// SweepMetrics holds the Prometheus collectors describing one sweep.
//
// Every per-combination gauge carries the labels
// depth, failure_rate, max_retries, backoff_base, strategy.
type SweepMetrics struct {
	SuccessRate *prometheus.GaugeVec
	AvgLatency  *prometheus.GaugeVec
	P99Latency  *prometheus.GaugeVec
	BottomLoad  *prometheus.GaugeVec
	Trials      *prometheus.CounterVec
}

var combinationLabels = []string{"depth", "failure_rate", "max_retries", "backoff_base", "strategy"}

// NewSweepMetrics creates the collectors and registers them with registry.
func NewSweepMetrics(registry prometheus.Registerer, runID string) *SweepMetrics {
	constLabels := prometheus.Labels{"run_id": runID}
	m := &SweepMetrics{
		SuccessRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrysim_success_rate", Help: "Fraction of top-level requests that succeeded.", ConstLabels: constLabels,
		}, combinationLabels),
		AvgLatency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrysim_latency_avg_ms", Help: "Mean end-to-end latency in milliseconds.", ConstLabels: constLabels,
		}, combinationLabels),
		P99Latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrysim_latency_p99_ms", Help: "Nearest-rank 99th percentile latency in milliseconds.", ConstLabels: constLabels,
		}, combinationLabels),
		BottomLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "retrysim_bottom_load", Help: "Requests served by the bottom node, retries included.", ConstLabels: constLabels,
		}, combinationLabels),
		Trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrysim_trials_total", Help: "Top-level requests simulated.", ConstLabels: constLabels,
		}, []string{"depth"}),
	}
	registry.MustRegister(m.SuccessRate, m.AvgLatency, m.P99Latency, m.BottomLoad, m.Trials)
	return m
}

// Observe records one summary.
func (m *SweepMetrics) Observe(s experiment.Summary) {
	labels := prometheus.Labels{
		"depth":        strconv.Itoa(s.CallDepth),
		"failure_rate": strconv.FormatFloat(s.FailureRate, 'g', -1, 64),
		"max_retries":  strconv.Itoa(s.MaxRetries),
		"backoff_base": strconv.FormatFloat(s.BackoffBaseMs, 'g', -1, 64),
		"strategy":     string(s.RetryStrategy),
	}
	m.SuccessRate.With(labels).Set(s.SuccessRate)
	m.AvgLatency.With(labels).Set(s.AvgLatencyMs)
	m.P99Latency.With(labels).Set(s.P99LatencyMs)
	m.BottomLoad.With(labels).Set(float64(s.Load))
	m.Trials.WithLabelValues(strconv.Itoa(s.CallDepth)).Add(float64(s.Trials))
}

// WriteMetricsSnapshot writes the report's summaries as a Prometheus
// textfile (node_exporter textfile collector format) at path.
func WriteMetricsSnapshot(path string, report *experiment.Report) error {
	registry := prometheus.NewRegistry()
	m := NewSweepMetrics(registry, report.RunID)
	for _, s := range report.Summaries {
		m.Observe(s)
	}
	return prometheus.WriteToTextfile(path, registry)
}
