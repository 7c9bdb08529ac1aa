package service

import (
	"context"
	"sync"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	apperrors "github.com/peopledesk/hrm-ui-api/internal/errors"
)

// DenialState names the two states of the denial flow.
type DenialState string

const (
	// DenialIdle means no blocked navigation is pending.
	DenialIdle DenialState = "idle"
	// DenialOpen means a denial modal is being presented.
	DenialOpen DenialState = "open"
)

// ModalState is the presentation contract consumed by whatever layer
// renders the denial. ShowLogout is true only for wrong-role denials:
// the only recovery for a wrong-role principal is ending the session and
// re-authenticating as someone else, while an unauthenticated caller is
// just asked to sign in.
type ModalState struct {
	IsOpen        bool
	VerdictKind   access.VerdictKind
	RequiredRoles []domainauth.Role
	ShowLogout    bool
	Path          string
}

// SessionEnder is the clear side of a session store.
type SessionEnder interface {
	Clear(ctx context.Context) error
}

// Admitter re-evaluates admission for a path.
type Admitter interface {
	Admit(path string) access.Verdict
}

// DenialFlow is the state machine that turns a deny verdict into a
// user-facing modal and resolves back to idle. The state is derived from
// the verdict that produced it: it is re-derived when the session
// changes, so it can never show "wrong role" once the session satisfies
// the pending rule.
type DenialFlow struct {
	mu       sync.Mutex
	admitter Admitter
	sessions SessionEnder

	verdict *access.Verdict
	path    string
}

// NewDenialFlow constructs an idle flow.
func NewDenialFlow(admitter Admitter, sessions SessionEnder) *DenialFlow {
	return &DenialFlow{admitter: admitter, sessions: sessions}
}

// State reports the current state.
func (f *DenialFlow) State() DenialState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verdict == nil {
		return DenialIdle
	}
	return DenialOpen
}

// Report records the verdict of a navigation. Deny verdicts open the
// modal for that path; an allow verdict resolves any pending denial,
// keeping the state derived from the latest admission outcome.
func (f *DenialFlow) Report(path string, verdict access.Verdict) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if verdict.Allowed() {
		f.verdict = nil
		f.path = ""
		return
	}
	v := verdict
	f.verdict = &v
	f.path = path
}

// Modal returns the presentation contract for the current state.
func (f *DenialFlow) Modal() ModalState {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.verdict == nil {
		return ModalState{IsOpen: false}
	}
	return ModalState{
		IsOpen:        true,
		VerdictKind:   f.verdict.Kind,
		RequiredRoles: append([]domainauth.Role(nil), f.verdict.RequiredRoles...),
		ShowLogout:    f.verdict.Kind == access.VerdictDenyWrongRole,
		Path:          f.path,
	}
}

// Dismiss closes the modal. The original navigation remains blocked; the
// caller must navigate elsewhere.
func (f *DenialFlow) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verdict = nil
	f.path = ""
}

// Logout ends the session in response to a wrong-role denial and
// resolves the flow to idle. It is only offered (ShowLogout) for
// wrong-role denials; calling it in any other state is a caller error.
func (f *DenialFlow) Logout(ctx context.Context) error {
	f.mu.Lock()
	if f.verdict == nil || f.verdict.Kind != access.VerdictDenyWrongRole {
		f.mu.Unlock()
		return apperrors.Validation("logout is not offered for the current denial state")
	}
	f.verdict = nil
	f.path = ""
	f.mu.Unlock()

	return f.sessions.Clear(ctx)
}

// SessionEstablished re-evaluates the pending navigation after a new
// session was established. When the fresh admission check allows it, the
// flow resolves to idle and returns the path so the caller can resume
// the original navigation; a stale verdict is never trusted. When the
// new session still does not satisfy the rule, the modal stays open with
// the re-derived verdict.
func (f *DenialFlow) SessionEstablished() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.verdict == nil {
		return "", false
	}

	verdict := f.admitter.Admit(f.path)
	if verdict.Allowed() {
		path := f.path
		f.verdict = nil
		f.path = ""
		return path, true
	}

	v := verdict
	f.verdict = &v
	return "", false
}
