package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Action names used in logs and metrics.
const (
	ActionConfigure   = "configure"
	ActionUpload      = "upload"
	ActionTranscribe  = "transcribe"
	ActionSummarize   = "summarize"
	ActionResummarize = "resummarize"
	ActionClear       = "clear"
	ActionSettings    = "settings"
)

// Outcomes of an action.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Metrics records the outcome and duration of session actions.
type Metrics interface {
	ObserveAction(action, outcome string, elapsed time.Duration)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) ObserveAction(string, string, time.Duration) {}

// PrometheusMetrics exports action counters and remote-call latency.
type PrometheusMetrics struct {
	actions *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vtp",
			Name:      "session_actions_total",
			Help:      "Session actions by action and outcome.",
		}, []string{"action", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vtp",
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of transcription and summarization calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(m.actions, m.latency)
	return m
}

func (m *PrometheusMetrics) ObserveAction(action, outcome string, elapsed time.Duration) {
	m.actions.WithLabelValues(action, outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	switch action {
	case ActionTranscribe, ActionSummarize, ActionResummarize:
		m.latency.WithLabelValues(action, outcome).Observe(elapsed.Seconds())
	}
}
