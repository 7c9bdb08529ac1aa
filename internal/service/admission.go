package service

import (
	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// SessionSource is the read side of a session store.
type SessionSource interface {
	Current() (domainauth.Session, bool)
}

// AdmissionController decides, for a navigation request, whether the
// caller may reach the target path. The decision is a pure function of
// (path, current session, catalog): no caching, no I/O. It is
// re-evaluated on every navigation because the session can change
// between navigations without a reload.
type AdmissionController struct {
	catalog  *access.Catalog
	sessions SessionSource
}

// NewAdmissionController constructs an AdmissionController.
func NewAdmissionController(catalog *access.Catalog, sessions SessionSource) *AdmissionController {
	return &AdmissionController{catalog: catalog, sessions: sessions}
}

// Admit checks the path against the role catalog and the current session.
func (a *AdmissionController) Admit(path string) access.Verdict {
	rule, found := a.catalog.Resolve(path)
	if !found {
		// No rule means the path is implicitly public.
		return access.Allow()
	}

	sess, ok := a.sessions.Current()
	if !ok {
		return access.DenyNotAuthenticated()
	}

	// An out-of-set role never satisfies any rule, so a corrupted role
	// value fails closed here.
	if !rule.Allows(sess.Principal.Role) {
		return access.DenyWrongRole(rule.AllowedRoles)
	}

	return access.Allow()
}
