// Package metrics holds the Prometheus collectors of the scheduling service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "timely"
)

// Metrics reports scheduling and feedback activity. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	passes        *prometheus.CounterVec
	passDuration  prometheus.Histogram
	placements    prometheus.Counter
	skips         *prometheus.CounterVec
	outcomes      *prometheus.CounterVec
	policyUpdates prometheus.Counter
}

// New registers the collectors on reg. A nil reg uses a private registry,
// which keeps tests from colliding on the global one.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "passes_total",
			Help:      "Scheduling passes by final status.",
		}, []string{"status"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a scheduling pass.",
			Buckets:   prometheus.DefBuckets,
		}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "placements_total",
			Help:      "Task slices placed on calendars.",
		}),
		skips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "skips_total",
			Help:      "Tasks left unscheduled in a pass, by reason.",
		}, []string{"reason"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "outcomes_total",
			Help:      "Invite outcomes received, by handling result.",
		}, []string{"outcome"}),
		policyUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "updates_total",
			Help:      "Policy training steps applied from feedback.",
		}),
	}

	for _, c := range []prometheus.Collector{m.passes, m.passDuration, m.placements, m.skips, m.outcomes, m.policyUpdates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObservePass records one finished pass.
func (m *Metrics) ObservePass(status string, took time.Duration, placed int, skipReasons []string) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(status).Inc()
	m.passDuration.Observe(took.Seconds())
	m.placements.Add(float64(placed))
	for _, r := range skipReasons {
		m.skips.WithLabelValues(r).Inc()
	}
}

// IncOutcome counts one handled invite outcome.
func (m *Metrics) IncOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// IncPolicyUpdate counts one applied policy update.
func (m *Metrics) IncPolicyUpdate() {
	if m == nil {
		return
	}
	m.policyUpdates.Inc()
}
