package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialProvider = (*MockCredentialProvider)(nil)
	_ ports.SessionStorage     = (*MemorySessionStorage)(nil)
	_ ports.RoleMapper         = (*StaticRoleMapper)(nil)
	_ ports.AuditRecorder      = (*RecorderSpy)(nil)
)

// MockCredentialProvider simulates a credential issuer for tests with
// deterministic state/nonce handling.
type MockCredentialProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (ports.Credential, error)

	// Deterministic values for predictable testing
	AuthURL         string
	DefaultIdentity domainauth.Identity
	DefaultToken    string

	callCount int
}

// NewMockCredentialProvider creates a MockCredentialProvider with sensible defaults.
func NewMockCredentialProvider() *MockCredentialProvider {
	return &MockCredentialProvider{
		AuthURL:      "https://mock-idp/auth",
		DefaultToken: "mock-token-1",
		DefaultIdentity: domainauth.Identity{
			UserID:      "mock-user-1",
			DisplayName: "Mock User",
			Email:       "mock.user@example.com",
			Groups:      []string{"hr-employees"},
		},
	}
}

func (m *MockCredentialProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	state := fmt.Sprintf("state-%d", m.callCount)
	nonce := fmt.Sprintf("nonce-%d", m.callCount)
	return m.AuthURL, state, nonce, nil
}

func (m *MockCredentialProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (ports.Credential, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	return ports.Credential{
		Identity:  m.DefaultIdentity,
		Token:     m.DefaultToken,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// MemorySessionStorage is an in-memory session storage collaborator for
// unit tests. It models the two-key persisted layout, including partial
// presence, so corruption scenarios are testable.
type MemorySessionStorage struct {
	mu sync.Mutex

	HasToken  bool
	Token     string
	HasRecord bool
	Record    []byte

	WriteErr error
	ReadErr  error
	ClearErr error
}

// NewMemorySessionStorage creates an empty in-memory storage.
func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{}
}

func (m *MemorySessionStorage) Write(_ context.Context, token string, record []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Token, m.HasToken = token, true
	m.Record, m.HasRecord = append([]byte(nil), record...), true
	return nil
}

func (m *MemorySessionStorage) Read(_ context.Context) (string, []byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", nil, false, m.ReadErr
	}
	// One key without the other reads as absent.
	if !m.HasToken || !m.HasRecord {
		return "", nil, false, nil
	}
	return m.Token, append([]byte(nil), m.Record...), true, nil
}

func (m *MemorySessionStorage) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Token, m.HasToken = "", false
	m.Record, m.HasRecord = nil, false
	return nil
}

// Corrupt overwrites the persisted record with an unparsable payload.
func (m *MemorySessionStorage) Corrupt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Record = []byte("{not json")
}

// DropToken removes only the token key, leaving the record behind.
func (m *MemorySessionStorage) DropToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Token, m.HasToken = "", false
}

// StaticRoleMapper maps groups by simple string membership rules.
// The zero value maps nothing, so every principal fails closed.
type StaticRoleMapper struct {
	Groups map[string]domainauth.Role
}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	for _, g := range groups {
		if role, ok := m.Groups[g]; ok {
			return role, true
		}
	}
	return "", false
}

// RecorderSpy captures audit events for assertions.
type RecorderSpy struct {
	mu     sync.Mutex
	Err    error
	events []ports.AuditEvent
}

func (r *RecorderSpy) Record(_ context.Context, event ports.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *RecorderSpy) Events() []ports.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.AuditEvent(nil), r.events...)
}
