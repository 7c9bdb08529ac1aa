package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// Credential is the result of a completed auth flow: the authenticated
// identity plus the opaque token the session will carry. Token may be
// empty, in which case the auth service mints one.
type Credential struct {
	Identity  domainauth.Identity
	Token     string
	ExpiresAt time.Time
}

// CredentialProvider initiates and completes an authentication flow
// against an external credential issuer. The core never inspects the
// token it returns.
type CredentialProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce.
	Exchange(ctx context.Context, in ExchangeInput) (Credential, error)
}

// SessionStorage is the external key-value collaborator a session store
// persists to. The token and the serialized principal record are written
// together and removed together; a read that finds one without the other
// must report absent.
type SessionStorage interface {
	// Write persists the token and the serialized session record as a unit.
	Write(ctx context.Context, token string, record []byte) error

	// Read returns the persisted pair. ok is false when nothing (or only
	// a partial pair) is persisted.
	Read(ctx context.Context) (token string, record []byte, ok bool, err error)

	// Clear removes both keys. Clearing an empty storage is not an error.
	Clear(ctx context.Context) error
}

// RoleMapper maps provider groups to an application role. ok is false
// when no group maps to any role; callers must fail closed.
type RoleMapper interface {
	Map(groups []string) (domainauth.Role, bool)
}

// AuditRecorder persists admission and session lifecycle events for the
// auditor portal. Recording failures must never cross the navigation
// boundary; callers log and continue.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent) error
}

// AuditEventKind categorizes audit trail entries.
type AuditEventKind string

const (
	AuditAdmissionDenied    AuditEventKind = "admission_denied"
	AuditSessionEstablished AuditEventKind = "session_established"
	AuditSessionCleared     AuditEventKind = "session_cleared"
)

// AuditEvent is one audit trail entry.
type AuditEvent struct {
	Kind        AuditEventKind
	Path        string
	Verdict     access.VerdictKind
	PortalID    access.PortalID
	PrincipalID string
	Role        domainauth.Role
	OccurredAt  time.Time
}
