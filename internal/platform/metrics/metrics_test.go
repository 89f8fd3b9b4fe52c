package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransition("birth-declaration", "next", false)
	m.ObserveTransition("birth-declaration", "next", true)
	m.IncrementValidationFailures("birth-declaration", "pere")
	m.ObserveSubmission("birth-declaration", "succeeded", 2*time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WizardTransitions.WithLabelValues("birth-declaration", "next", "stayed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("birth-declaration", "pere")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("birth-declaration", "succeeded")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("w", "next", true)
		m.IncrementValidationFailures("w", "s")
		m.ObserveSubmission("w", "failed", time.Second)
		m.IncrementReviewerActions("mairie", "approve")
		m.IncrementNotificationsDropped()
		m.SetActiveSessions(3)
		m.ObserveRequest("/", "2xx", time.Millisecond)
	})
}
