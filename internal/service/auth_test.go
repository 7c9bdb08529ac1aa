package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	apperrors "github.com/peopledesk/hrm-ui-api/internal/errors"
	mockauth "github.com/peopledesk/hrm-ui-api/internal/mocks/auth"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

type authFixture struct {
	provider *mockauth.MockCredentialProvider
	registry *ClientRegistry
	audit    *mockauth.RecorderSpy
	svc      *AuthService
	storages map[string]*mockauth.MemorySessionStorage
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	storages := make(map[string]*mockauth.MemorySessionStorage)
	factory := func(clientID string) ports.SessionStorage {
		if s, ok := storages[clientID]; ok {
			return s
		}
		s := mockauth.NewMemorySessionStorage()
		storages[clientID] = s
		return s
	}

	provider := mockauth.NewMockCredentialProvider()
	registry := NewClientRegistry(factory, testCatalog(t), nil)
	audit := &mockauth.RecorderSpy{}
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Roles: mockauth.StaticRoleMapper{Groups: map[string]domainauth.Role{
			"hr-employees": domainauth.RoleEmployee,
			"hr-admins":    domainauth.RoleAdmin,
		}},
		Clients: registry,
		Audit:   audit,
	})
	return &authFixture{provider: provider, registry: registry, audit: audit, svc: svc, storages: storages}
}

func completeInput(clientID string) CompleteLoginInput {
	return CompleteLoginInput{ClientID: clientID, Code: "code", State: "state-1", Nonce: "nonce-1"}
}

func TestAuthService_BeginLogin(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.BeginLogin(context.Background(), "/employee-portal")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.NotEmpty(t, result.State)
	assert.NotEmpty(t, result.Nonce)

	_, err = f.svc.BeginLogin(context.Background(), "")
	assert.Error(t, err)
}

func TestAuthService_CompleteLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	result, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)
	assert.Equal(t, "mock-token-1", result.Session.Token)
	assert.Equal(t, domainauth.RoleEmployee, result.Session.Principal.Role)
	assert.Empty(t, result.ResumePath)

	got, err := f.svc.GetSession(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, result.Session, *got)

	events := f.audit.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ports.AuditSessionEstablished, events[0].Kind)
	assert.Equal(t, "mock-user-1", events[0].PrincipalID)
}

func TestAuthService_CompleteLoginMintsTokenWhenProviderOmitsOne(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.DefaultToken = ""

	result, err := f.svc.CompleteLogin(context.Background(), completeInput("client-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Session.Token)
}

func TestAuthService_CompleteLoginFailsClosedWithoutRole(t *testing.T) {
	f := newAuthFixture(t)
	f.provider.DefaultIdentity.Groups = []string{"unmapped-group"}

	_, err := f.svc.CompleteLogin(context.Background(), completeInput("client-1"))
	assert.True(t, apperrors.IsForbidden(err))

	_, err = f.svc.GetSession(context.Background(), "client-1")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_CompleteLoginValidatesInput(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for _, input := range []CompleteLoginInput{
		{Code: "c", State: "s", Nonce: "n"},
		{ClientID: "client-1", State: "s", Nonce: "n"},
		{ClientID: "client-1", Code: "c", Nonce: "n"},
		{ClientID: "client-1", Code: "c", State: "s"},
	} {
		_, err := f.svc.CompleteLogin(ctx, input)
		assert.Error(t, err)
	}
}

func TestAuthService_CompleteLoginResumesPendingNavigation(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	// A blocked navigation leaves the client's denial flow open.
	client := f.registry.Client(ctx, "client-1")
	client.Denial.Report("/employee-portal/profile", client.Admission.Admit("/employee-portal/profile"))
	require.Equal(t, DenialOpen, client.Denial.State())

	result, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)
	assert.Equal(t, "/employee-portal/profile", result.ResumePath)
	assert.Equal(t, DenialIdle, client.Denial.State())
}

func TestAuthService_LogoutClearsAndAudits(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, "client-1"))
	_, err = f.svc.GetSession(ctx, "client-1")
	assert.True(t, apperrors.IsUnauthorized(err))

	events := f.audit.Events()
	require.Len(t, events, 2)
	assert.Equal(t, ports.AuditSessionCleared, events[1].Kind)
}

func TestAuthService_LogoutWithoutClientIsNoop(t *testing.T) {
	f := newAuthFixture(t)
	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}

func TestAuthService_AuditFailureDoesNotBlockLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.audit.Err = assert.AnError

	_, err := f.svc.CompleteLogin(context.Background(), completeInput("client-1"))
	assert.NoError(t, err)
}

func TestClientRegistry_IsolatesClients(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)

	_, err = f.svc.GetSession(ctx, "client-2")
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestClientRegistry_RestoresPersistedSessionAfterEvict(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	result, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)

	// Evict the in-memory state; the persisted session must survive.
	f.registry.Evict("client-1")
	got, err := f.svc.GetSession(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, result.Session.Token, got.Token)
	assert.Equal(t, result.Session.Principal, got.Principal)
}

func TestClientRegistry_AdmissionSeesRestoredSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.CompleteLogin(ctx, completeInput("client-1"))
	require.NoError(t, err)
	f.registry.Evict("client-1")

	client := f.registry.Client(ctx, "client-1")
	assert.Equal(t, access.VerdictAllow, client.Admission.Admit("/employee-portal").Kind)
}
