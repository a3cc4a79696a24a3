package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"TripPlanner-App/internal/domain/model"
	"TripPlanner-App/internal/domain/service"
)

const namespace = "tripplanner"

// WorkflowMetrics はワークフローのPrometheusメトリクス
type WorkflowMetrics struct {
	turns         *prometheus.CounterVec
	turnDuration  *prometheus.HistogramVec
	fallbacks     *prometheus.CounterVec
	collaborators *prometheus.HistogramVec
	collabErrors  *prometheus.CounterVec
}

var _ service.WorkflowObserver = (*WorkflowMetrics)(nil)

// NewWorkflowMetrics はメトリクスを作成して登録する
func NewWorkflowMetrics(reg prometheus.Registerer) (*WorkflowMetrics, error) {
	m := &WorkflowMetrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "turns_total",
			Help:      "Number of completed workflow turns by intent.",
		}, []string{"intent"}),
		turnDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "turn_duration_seconds",
			Help:      "Duration of workflow turns by intent.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"intent"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "fallbacks_total",
			Help:      "Number of turns answered with a fixed fallback message.",
		}, []string{"intent", "reason"}),
		collaborators: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "collaborator",
			Name:      "call_duration_seconds",
			Help:      "Duration of external collaborator calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collaborator"}),
		collabErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "collaborator",
			Name:      "errors_total",
			Help:      "Number of failed external collaborator calls.",
		}, []string{"collaborator"}),
	}

	for _, c := range []prometheus.Collector{m.turns, m.turnDuration, m.fallbacks, m.collaborators, m.collabErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *WorkflowMetrics) ObserveTurn(intent model.Intent, duration time.Duration) {
	m.turns.WithLabelValues(string(intent)).Inc()
	m.turnDuration.WithLabelValues(string(intent)).Observe(duration.Seconds())
}

func (m *WorkflowMetrics) ObserveFallback(intent model.Intent, reason string) {
	m.fallbacks.WithLabelValues(string(intent), reason).Inc()
}

func (m *WorkflowMetrics) ObserveCollaborator(name string, duration time.Duration, err error) {
	m.collaborators.WithLabelValues(name).Observe(duration.Seconds())
	if err != nil {
		m.collabErrors.WithLabelValues(name).Inc()
	}
}
