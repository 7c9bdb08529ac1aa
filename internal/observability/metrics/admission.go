// Package metrics exposes Prometheus instrumentation for the admission
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
)

// Admission counts verdicts and session lifecycle events. A nil
// *Admission is a valid no-op recorder.
type Admission struct {
	verdicts *prometheus.CounterVec
	sessions *prometheus.CounterVec
	denials  *prometheus.CounterVec
}

// NewAdmission creates and registers the admission metrics on reg.
func NewAdmission(reg prometheus.Registerer) *Admission {
	m := &Admission{
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrm",
			Subsystem: "admission",
			Name:      "verdicts_total",
			Help:      "Admission verdicts by kind and dispatched portal.",
		}, []string{"verdict", "portal"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrm",
			Subsystem: "session",
			Name:      "events_total",
			Help:      "Session lifecycle events by kind.",
		}, []string{"event"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrm",
			Subsystem: "admission",
			Name:      "denial_modal_total",
			Help:      "Denial modal outcomes.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.verdicts, m.sessions, m.denials)
	return m
}

// ObserveVerdict records one admission decision.
func (m *Admission) ObserveVerdict(verdict access.Verdict, portal access.PortalID) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(string(verdict.Kind), string(portal)).Inc()
}

// ObserveSessionEvent records a session lifecycle event such as
// "established" or "cleared".
func (m *Admission) ObserveSessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

// Denial modal outcomes.
const (
	DenialOutcomeOpened    = "opened"
	DenialOutcomeDismissed = "dismissed"
	DenialOutcomeLogout    = "logout"
	DenialOutcomeResumed   = "resumed"
)

// ObserveDenialOutcome records a denial modal transition.
func (m *Admission) ObserveDenialOutcome(outcome string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(outcome).Inc()
}
