package access

import (
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// VerdictKind identifies the outcome of an admission check.
// The string values are part of the presentation contract (they appear
// in denial payloads and audit records).
type VerdictKind string

const (
	// VerdictAllow admits the navigation.
	VerdictAllow VerdictKind = "allow"
	// VerdictDenyNotAuthenticated blocks the navigation because no
	// session exists; recovery is signing in.
	VerdictDenyNotAuthenticated VerdictKind = "deny_not_authenticated"
	// VerdictDenyWrongRole blocks the navigation because the session's
	// role is not in the rule's allowed set; recovery is ending the
	// session and re-authenticating as someone else.
	VerdictDenyWrongRole VerdictKind = "deny_wrong_role"
)

// Verdict is the outcome of checking a navigation request against the
// current session and the role catalog. RequiredRoles is populated only
// for VerdictDenyWrongRole.
type Verdict struct {
	Kind          VerdictKind
	RequiredRoles []domainauth.Role
}

// Allow returns an admitting verdict.
func Allow() Verdict {
	return Verdict{Kind: VerdictAllow}
}

// DenyNotAuthenticated returns the verdict for a missing session.
func DenyNotAuthenticated() Verdict {
	return Verdict{Kind: VerdictDenyNotAuthenticated}
}

// DenyWrongRole returns the verdict for an authenticated principal whose
// role is outside the rule's allowed set.
func DenyWrongRole(required []domainauth.Role) Verdict {
	return Verdict{
		Kind:          VerdictDenyWrongRole,
		RequiredRoles: append([]domainauth.Role(nil), required...),
	}
}

// Allowed reports whether the verdict admits the navigation.
func (v Verdict) Allowed() bool { return v.Kind == VerdictAllow }

// Denied reports whether the verdict blocks the navigation.
func (v Verdict) Denied() bool { return !v.Allowed() }
