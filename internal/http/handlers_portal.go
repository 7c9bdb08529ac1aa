package httpx

import (
	"net/http"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// PortalDescriptor describes the shell the dashboard mounts for a
// portal: its title and navigation entries.
type PortalDescriptor struct {
	ID       access.PortalID `json:"id"`
	Title    string          `json:"title"`
	NavItems []NavItem       `json:"navItems,omitempty"`
}

// NavItem is one navigation entry in a portal shell.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// PortalHandlers resolves which portal shell to mount for a path.
type PortalHandlers struct {
	Clients *service.ClientRegistry
	Catalog *access.Catalog
	Portals map[access.PortalID]PortalDescriptor
}

// Resolve answers "which portal serves this path, and may this client
// enter it". Dispatch only runs on an allow verdict; a denied path
// reports the verdict and no portal.
// GET /api/portal?path=<navigation target>.
func (h *PortalHandlers) Resolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	clientID := GetClientIDFromContext(r.Context())
	client := h.Clients.Client(r.Context(), clientID)
	verdict := client.Admission.Admit(path)

	if !verdict.Allowed() {
		WriteJSON(w, http.StatusOK, portalResolution{
			Allowed: false,
			Verdict: string(verdict.Kind),
		})
		return
	}

	portal := h.Catalog.Dispatch(path)
	resolution := portalResolution{
		Allowed: true,
		Verdict: string(verdict.Kind),
	}
	if portal != access.PortalNone {
		if descriptor, ok := h.Portals[portal]; ok {
			resolution.Portal = &descriptor
		} else {
			resolution.Portal = &PortalDescriptor{ID: portal}
		}
	}
	WriteJSON(w, http.StatusOK, resolution)
}

// Shell serves the dashboard entry point for any admitted navigation.
// The guard has already dispatched the portal; the shell reports it so
// the client mounts the right surface.
func (h *PortalHandlers) Shell(w http.ResponseWriter, r *http.Request) {
	shell := map[string]any{
		"path": r.URL.Path,
	}

	if portal := GetPortalFromContext(r.Context()); portal != access.PortalNone {
		if descriptor, ok := h.Portals[portal]; ok {
			shell["portal"] = descriptor
		} else {
			shell["portal"] = PortalDescriptor{ID: portal}
		}
	}
	if session, ok := GetSessionFromContext(r.Context()); ok {
		shell["role"] = session.Principal.Role
	}

	WriteJSON(w, http.StatusOK, shell)
}

type portalResolution struct {
	Allowed bool              `json:"allowed"`
	Verdict string            `json:"verdict"`
	Portal  *PortalDescriptor `json:"portal,omitempty"`
}
