package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the lead intake pipeline.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	honeypotTotal    prometheus.Counter
	notifyTotal      *prometheus.CounterVec
	intakeLatency    prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridlight",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		honeypotTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gridlight",
			Subsystem: "intake",
			Name:      "honeypot_total",
			Help:      "Submissions silently discarded by the honeypot check",
		}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gridlight",
			Subsystem: "intake",
			Name:      "notifications_total",
			Help:      "Lead notification attempts by result",
		}, []string{"result"}),
		intakeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gridlight",
			Subsystem: "intake",
			Name:      "latency_seconds",
			Help:      "Latency of intake request handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.honeypotTotal, m.notifyTotal, m.intakeLatency)
	return m
}

// ObserveSubmission records a submission outcome: accepted, invalid,
// rate_limited, or store_error.
func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHoneypot records a silently discarded bot submission.
func (m *IntakeMetrics) ObserveHoneypot() {
	if m == nil {
		return
	}
	m.honeypotTotal.Inc()
}

// ObserveNotification records a notification result: delivered, skipped,
// or failed.
func (m *IntakeMetrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(result).Inc()
}

// ObserveLatency records how long intake handling took.
func (m *IntakeMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.intakeLatency.Observe(seconds)
}
