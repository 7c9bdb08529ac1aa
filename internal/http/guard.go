package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	"github.com/peopledesk/hrm-ui-api/internal/observability/metrics"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// GuardConfig groups the collaborators of the admission guard.
type GuardConfig struct {
	Clients *service.ClientRegistry
	Catalog *access.Catalog
	Audit   ports.AuditRecorder
	Metrics *metrics.Admission
	Logger  *slog.Logger
}

// Guard returns the middleware that runs an admission check on every
// request before any handler. An allow verdict dispatches the request's
// portal and attaches it, together with the session, to the context.
// Deny verdicts open the client's denial flow and never reach the
// wrapped handler. Must run after ClientID.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := GetClientIDFromContext(r.Context())
			if clientID == "" {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "missing_client",
					Err:     errors.New("client identity middleware did not run"),
				})
				return
			}

			client := cfg.Clients.Client(r.Context(), clientID)
			path := r.URL.Path
			verdict := client.Admission.Admit(path)

			if verdict.Allowed() {
				portal := cfg.Catalog.Dispatch(path)
				cfg.Metrics.ObserveVerdict(verdict, portal)

				ctx := SetPortalInContext(r.Context(), portal)
				if session, ok := client.Sessions.Current(); ok {
					ctx = SetSessionInContext(ctx, &session)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			client.Denial.Report(path, verdict)
			cfg.Metrics.ObserveVerdict(verdict, access.PortalNone)
			cfg.Metrics.ObserveDenialOutcome(metrics.DenialOutcomeOpened)
			recordDenial(r, cfg, client, verdict, logger)

			if IsBrowserRequest(r) && verdict.Kind == access.VerdictDenyNotAuthenticated {
				loginURL := "/auth/login?redirect_uri=" + url.QueryEscape(safeRedirectPath(r.URL.RequestURI()))
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			writeDenied(w, client.Denial.Modal())
		})
	}
}

// recordDenial appends the denial to the audit trail; failures are
// logged and swallowed so auditing never blocks navigation.
func recordDenial(r *http.Request, cfg GuardConfig, client *service.Client, verdict access.Verdict, logger *slog.Logger) {
	if cfg.Audit == nil {
		return
	}

	event := ports.AuditEvent{
		Kind:       ports.AuditAdmissionDenied,
		Path:       r.URL.Path,
		Verdict:    verdict.Kind,
		OccurredAt: time.Now().UTC(),
	}
	if session, ok := client.Sessions.Current(); ok {
		event.PrincipalID = session.Principal.ID
		event.Role = session.Principal.Role
	}
	if err := cfg.Audit.Record(r.Context(), event); err != nil {
		logger.WarnContext(r.Context(), "audit record failed", "path", r.URL.Path, "error", err)
	}
}

// writeDenied renders the denial modal contract as JSON with the status
// matching the verdict.
func writeDenied(w http.ResponseWriter, modal service.ModalState) {
	status := http.StatusUnauthorized
	errCode := "authentication_required"
	if modal.VerdictKind == access.VerdictDenyWrongRole {
		status = http.StatusForbidden
		errCode = "insufficient_role"
	}

	WriteJSON(w, status, deniedResponse{
		Error: errCode,
		Modal: newModalPayload(modal),
	})
}

type deniedResponse struct {
	Error string       `json:"error"`
	Modal modalPayload `json:"modal"`
}

// modalPayload is the wire form of the denial modal state.
type modalPayload struct {
	IsOpen        bool     `json:"isOpen"`
	VerdictKind   string   `json:"verdictKind,omitempty"`
	RequiredRoles []string `json:"requiredRoles,omitempty"`
	ShowLogout    bool     `json:"showLogout"`
	Path          string   `json:"path,omitempty"`
}

func newModalPayload(modal service.ModalState) modalPayload {
	roles := make([]string, 0, len(modal.RequiredRoles))
	for _, role := range modal.RequiredRoles {
		roles = append(roles, string(role))
	}
	return modalPayload{
		IsOpen:        modal.IsOpen,
		VerdictKind:   string(modal.VerdictKind),
		RequiredRoles: roles,
		ShowLogout:    modal.ShowLogout,
		Path:          modal.Path,
	}
}
