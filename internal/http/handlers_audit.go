package httpx

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// AuditReader lists recent audit trail entries.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]ports.AuditEvent, error)
}

// AuditHandlers serves the audit trail to the auditor portal. Routes
// are registered under the auditor prefix, so the guard has already
// admitted the caller.
type AuditHandlers struct {
	Reader AuditReader
}

// Recent returns the newest audit events.
// GET /audit-portal/api/events?limit=<n>.
func (h *AuditHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 500 {
		limit = 500
	}

	events, err := h.Reader.Recent(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	out := make([]auditEventPayload, 0, len(events))
	for _, event := range events {
		out = append(out, auditEventPayload{
			Kind:        string(event.Kind),
			Path:        event.Path,
			Verdict:     string(event.Verdict),
			PortalID:    string(event.PortalID),
			PrincipalID: event.PrincipalID,
			Role:        string(event.Role),
			OccurredAt:  event.OccurredAt,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": out})
}

type auditEventPayload struct {
	Kind        string    `json:"kind"`
	Path        string    `json:"path"`
	Verdict     string    `json:"verdict,omitempty"`
	PortalID    string    `json:"portalId,omitempty"`
	PrincipalID string    `json:"principalId,omitempty"`
	Role        string    `json:"role,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
