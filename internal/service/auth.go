package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	apperrors "github.com/peopledesk/hrm-ui-api/internal/errors"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.CredentialProvider
	Roles    ports.RoleMapper
	Clients  *ClientRegistry
	Audit    ports.AuditRecorder
	Logger   *slog.Logger
}

// AuthService orchestrates authentication flows by coordinating the
// credential provider, role mapping, and per-client session stores. The
// admission core itself never talks to the provider; it only sees the
// principal this service establishes.
type AuthService struct {
	provider ports.CredentialProvider
	roles    ports.RoleMapper
	clients  *ClientRegistry
	audit    ports.AuditRecorder
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		roles:    opts.Roles,
		clients:  opts.Clients,
		audit:    opts.Audit,
		logger:   opts.Logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	ClientID string
	Code     string
	State    string
	Nonce    string
}

// CompleteLoginResult contains the result of completing a login flow.
// ResumePath is non-empty when a previously blocked navigation became
// admissible under the new session and should be resumed.
type CompleteLoginResult struct {
	Session    domainauth.Session
	ResumePath string
}

// CompleteLogin completes an authentication flow: it exchanges the code
// for a credential, maps the identity's groups to an application role,
// and establishes the session for the calling client. Principals whose
// groups map to no role fail closed.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	cred, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role, ok := s.roles.Map(cred.Identity.Groups)
	if !ok {
		return nil, apperrors.Forbidden("principal has no application role")
	}

	principal := domainauth.Principal{
		ID:          cred.Identity.UserID,
		DisplayName: cred.Identity.DisplayName,
		Email:       cred.Identity.Email,
		Role:        role,
		Department:  cred.Identity.Department,
	}

	token := cred.Token
	if token == "" {
		token = uuid.NewString()
	}

	client := s.clients.Client(ctx, input.ClientID)
	session, err := client.Sessions.Establish(ctx, token, principal)
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	// A pending denial is re-evaluated against the fresh session rather
	// than trusting the stale verdict.
	resumePath, _ := client.Denial.SessionEstablished()

	s.record(ctx, ports.AuditEvent{
		Kind:        ports.AuditSessionEstablished,
		PrincipalID: principal.ID,
		Role:        principal.Role,
		OccurredAt:  time.Now().UTC(),
	})

	return &CompleteLoginResult{Session: session, ResumePath: resumePath}, nil
}

// GetSession returns the calling client's session.
func (s *AuthService) GetSession(ctx context.Context, clientID string) (*domainauth.Session, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}

	session, ok := s.clients.Client(ctx, clientID).Sessions.Current()
	if !ok {
		return nil, apperrors.Unauthorized("no active session")
	}
	return &session, nil
}

// Logout clears the calling client's session.
func (s *AuthService) Logout(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil // Nothing to log out
	}

	client := s.clients.Client(ctx, clientID)
	session, had := client.Sessions.Current()
	if err := client.Sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	if had {
		s.record(ctx, ports.AuditEvent{
			Kind:        ports.AuditSessionCleared,
			PrincipalID: session.Principal.ID,
			Role:        session.Principal.Role,
			OccurredAt:  time.Now().UTC(),
		})
	}
	return nil
}

// record writes an audit event; failures are logged and never block the
// caller.
func (s *AuthService) record(ctx context.Context, event ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.log().WarnContext(ctx, "audit record failed", "kind", string(event.Kind), "error", err)
	}
}

func (s *AuthService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
