package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
)

func TestAdmission_ObserveVerdict(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdmission(reg)

	m.ObserveVerdict(access.Allow(), "employee")
	m.ObserveVerdict(access.Allow(), "employee")
	m.ObserveVerdict(access.DenyNotAuthenticated(), "")

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.verdicts.WithLabelValues("allow", "employee")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.verdicts.WithLabelValues("deny_not_authenticated", "")))
}

func TestAdmission_ObserveSessionEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAdmission(reg)

	m.ObserveSessionEvent("established")
	m.ObserveSessionEvent("cleared")
	m.ObserveSessionEvent("established")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.sessions.WithLabelValues("established")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sessions.WithLabelValues("cleared")))
}

func TestAdmission_NilIsNoop(t *testing.T) {
	var m *Admission
	assert.NotPanics(t, func() {
		m.ObserveVerdict(access.Allow(), "employee")
		m.ObserveSessionEvent("established")
		m.ObserveDenialOutcome(DenialOutcomeOpened)
	})
}
