package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/peopledesk/hrm-ui-api/internal/observability/metrics"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// DenialHandlers exposes the denial modal to the dashboard shell.
type DenialHandlers struct {
	Clients *service.ClientRegistry
	Audit   ports.AuditRecorder
	Metrics *metrics.Admission
	Logger  *slog.Logger
}

func (h *DenialHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *DenialHandlers) client(r *http.Request) (*service.Client, bool) {
	clientID := GetClientIDFromContext(r.Context())
	if clientID == "" {
		return nil, false
	}
	return h.Clients.Client(r.Context(), clientID), true
}

// Modal returns the current denial modal state.
// GET /api/denial.
func (h *DenialHandlers) Modal(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(r)
	if !ok {
		WriteJSON(w, http.StatusOK, modalPayload{IsOpen: false})
		return
	}
	WriteJSON(w, http.StatusOK, newModalPayload(client.Denial.Modal()))
}

// Dismiss closes the modal without changing the session. The blocked
// navigation stays blocked.
// POST /api/denial/dismiss.
func (h *DenialHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(r)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_client",
			Err:     errors.New("client identity is required"),
		})
		return
	}

	client.Denial.Dismiss()
	h.Metrics.ObserveDenialOutcome(metrics.DenialOutcomeDismissed)
	WriteJSON(w, http.StatusOK, newModalPayload(client.Denial.Modal()))
}

// Logout ends the session from a wrong-role denial modal.
// POST /api/denial/logout.
func (h *DenialHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	client, ok := h.client(r)
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_client",
			Err:     errors.New("client identity is required"),
		})
		return
	}

	session, had := client.Sessions.Current()
	if err := client.Denial.Logout(r.Context()); err != nil {
		WriteAppError(w, err)
		return
	}

	h.Metrics.ObserveDenialOutcome(metrics.DenialOutcomeLogout)
	h.Metrics.ObserveSessionEvent("cleared")
	if h.Audit != nil && had {
		event := ports.AuditEvent{
			Kind:        ports.AuditSessionCleared,
			PrincipalID: session.Principal.ID,
			Role:        session.Principal.Role,
			OccurredAt:  time.Now().UTC(),
		}
		if err := h.Audit.Record(r.Context(), event); err != nil {
			h.logger().WarnContext(r.Context(), "audit record failed", "error", err)
		}
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"redirect_to": "/auth/login",
	})
}
