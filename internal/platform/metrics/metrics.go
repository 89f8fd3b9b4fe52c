package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// valid and records nothing, which keeps unit tests free of registries.
type Metrics struct {
	WizardTransitions  *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	Submissions        *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	ReviewerActions    *prometheus.CounterVec
	NotificationsDrop  prometheus.Counter
	ActiveSessions     prometheus.Gauge
	RequestDuration    *prometheus.HistogramVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WizardTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_wizard_transitions_total",
			Help: "Wizard step transitions by wizard, direction and result",
		}, []string{"wizard", "direction", "result"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_wizard_validation_failures_total",
			Help: "Refused forward transitions by wizard and step",
		}, []string{"wizard", "step"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_submissions_total",
			Help: "Simulated submissions by wizard and outcome",
		}, []string{"wizard", "outcome"}),
		SubmissionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civreg_submission_duration_seconds",
			Help:    "Time from submission to resolution",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 3, 5, 10},
		}, []string{"wizard"}),
		ReviewerActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "civreg_reviewer_actions_total",
			Help: "Town hall and hospital reviewer actions by role and action",
		}, []string{"role", "action"}),
		NotificationsDrop: f.NewCounter(prometheus.CounterOpts{
			Name: "civreg_notifications_dropped_total",
			Help: "Notifications dropped because the worker inbox was full",
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "civreg_active_sessions",
			Help: "Sessions currently held by the in-memory store",
		}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civreg_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

func (m *Metrics) ObserveTransition(wizard, direction string, moved bool) {
	if m == nil {
		return
	}
	result := "moved"
	if !moved {
		result = "stayed"
	}
	m.WizardTransitions.WithLabelValues(wizard, direction, result).Inc()
}

func (m *Metrics) IncrementValidationFailures(wizard, step string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(wizard, step).Inc()
}

func (m *Metrics) ObserveSubmission(wizard, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(wizard, outcome).Inc()
	m.SubmissionDuration.WithLabelValues(wizard).Observe(d.Seconds())
}

func (m *Metrics) IncrementReviewerActions(role, action string) {
	if m == nil {
		return
	}
	m.ReviewerActions.WithLabelValues(role, action).Inc()
}

func (m *Metrics) IncrementNotificationsDropped() {
	if m == nil {
		return
	}
	m.NotificationsDrop.Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.ActiveSessions.Set(float64(n))
}

func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}
