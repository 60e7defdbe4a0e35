package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "advisor"

// Metrics groups the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Trainings   *prometheus.CounterVec
	Probability prometheus.Gauge
	ModelReady  prometheus.Gauge
	Accuracy    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Chat decisions by action, risk profile and whether the model was in fallback.",
		}, []string{"action", "risk", "fallback"}),
		Trainings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainings_total",
			Help:      "Model training runs by result.",
		}, []string{"result"}),
		Probability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_probability",
			Help:      "Probability of rise for the most recent bar.",
		}),
		ModelReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_ready",
			Help:      "1 when a trained model is loaded, 0 in fallback mode.",
		}),
		Accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "test_accuracy",
			Help:      "Accuracy of the current model on its chronological test split.",
		}),
	}
	reg.MustRegister(m.Decisions, m.Trainings, m.Probability, m.ModelReady, m.Accuracy)
	return m
}

// ObserveDecision counts one chat decision.
func (m *Metrics) ObserveDecision(action, risk string, fallback bool) {
	if m == nil {
		return
	}
	fb := "false"
	if fallback {
		fb = "true"
	}
	m.Decisions.WithLabelValues(action, risk, fb).Inc()
}

// ObserveTraining records a training result.
func (m *Metrics) ObserveTraining(accuracy, probability float64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Trainings.WithLabelValues("failure").Inc()
		return
	}
	m.Trainings.WithLabelValues("success").Inc()
	m.Accuracy.Set(accuracy)
	m.Probability.Set(probability)
	m.ModelReady.Set(1)
}
