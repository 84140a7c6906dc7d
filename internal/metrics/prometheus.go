package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics of the analysis pipeline.
type Metrics struct {
	// Runs by terminal state (done, failed)
	Runs *prometheus.CounterVec
	// Failures by error kind
	Failures *prometheus.CounterVec
	// Stage latency: transcribing, extracting, assembling, persisting
	StageDuration *prometheus.HistogramVec
	// Recording size at pipeline entry
	RecordingBytes prometheus.Histogram
}

// New registers the pipeline metrics on reg. Pass prometheus.DefaultRegisterer
// in binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "call_analysis_runs_total",
			Help: "Total number of pipeline runs by terminal state",
		}, []string{"state"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "call_analysis_failures_total",
			Help: "Total number of failed pipeline runs by error kind",
		}, []string{"kind"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "call_analysis_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		RecordingBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "call_analysis_recording_bytes",
			Help:    "Size of recordings entering the pipeline",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		}),
	}
}

// ObserveStage records how long a stage took. Safe on a nil receiver.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RunFinished counts a terminal state and, for failures, the error kind.
func (m *Metrics) RunFinished(state, kind string) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(state).Inc()
	if kind != "" {
		m.Failures.WithLabelValues(kind).Inc()
	}
}

// RecordingReceived observes the size of an incoming recording.
func (m *Metrics) RecordingReceived(n int) {
	if m == nil {
		return
	}
	m.RecordingBytes.Observe(float64(n))
}
