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
)

// denialFixture wires a real store, controller, and flow over the test
// catalog so transitions are exercised end to end.
type denialFixture struct {
	store *SessionStore
	ctrl  *AdmissionController
	flow  *DenialFlow
}

func newDenialFixture(t *testing.T) *denialFixture {
	t.Helper()
	store := NewSessionStore(context.Background(), mockauth.NewMemorySessionStorage(), nil)
	ctrl := NewAdmissionController(testCatalog(t), store)
	return &denialFixture{store: store, ctrl: ctrl, flow: NewDenialFlow(ctrl, store)}
}

func TestDenialFlow_StartsIdle(t *testing.T) {
	f := newDenialFixture(t)
	assert.Equal(t, DenialIdle, f.flow.State())
	assert.False(t, f.flow.Modal().IsOpen)
}

func TestDenialFlow_NotAuthenticatedOpensWithoutLogout(t *testing.T) {
	// No session; /employee-portal is rule-protected for employees.
	f := newDenialFixture(t)

	verdict := f.ctrl.Admit("/employee-portal")
	require.Equal(t, access.VerdictDenyNotAuthenticated, verdict.Kind)
	f.flow.Report("/employee-portal", verdict)

	assert.Equal(t, DenialOpen, f.flow.State())
	modal := f.flow.Modal()
	assert.True(t, modal.IsOpen)
	assert.Equal(t, access.VerdictDenyNotAuthenticated, modal.VerdictKind)
	assert.False(t, modal.ShowLogout, "sign-in prompt carries no logout affordance")
	assert.Equal(t, "/employee-portal", modal.Path)
}

func TestDenialFlow_WrongRoleOffersLogout(t *testing.T) {
	f := newDenialFixture(t)
	sessionWithRole(t, f.store, domainauth.RoleManager)

	verdict := f.ctrl.Admit("/admin-portal/users")
	require.Equal(t, access.VerdictDenyWrongRole, verdict.Kind)
	f.flow.Report("/admin-portal/users", verdict)

	modal := f.flow.Modal()
	assert.True(t, modal.ShowLogout)
	assert.Equal(t, []domainauth.Role{domainauth.RoleAdmin}, modal.RequiredRoles)
}

func TestDenialFlow_DismissClosesButKeepsNavigationBlocked(t *testing.T) {
	f := newDenialFixture(t)
	f.flow.Report("/employee-portal", f.ctrl.Admit("/employee-portal"))
	require.Equal(t, DenialOpen, f.flow.State())

	f.flow.Dismiss()
	assert.Equal(t, DenialIdle, f.flow.State())

	// The navigation itself stays blocked on re-check.
	assert.Equal(t, access.VerdictDenyNotAuthenticated, f.ctrl.Admit("/employee-portal").Kind)
}

func TestDenialFlow_LogoutClearsSessionAndResolves(t *testing.T) {
	ctx := context.Background()
	f := newDenialFixture(t)
	sessionWithRole(t, f.store, domainauth.RoleManager)

	f.flow.Report("/admin-portal", f.ctrl.Admit("/admin-portal"))
	require.Equal(t, DenialOpen, f.flow.State())

	require.NoError(t, f.flow.Logout(ctx))
	assert.Equal(t, DenialIdle, f.flow.State())
	_, ok := f.store.Current()
	assert.False(t, ok)
}

func TestDenialFlow_LogoutNotOfferedWhenIdleOrNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	f := newDenialFixture(t)

	err := f.flow.Logout(ctx)
	assert.True(t, apperrors.IsValidation(err))

	f.flow.Report("/employee-portal", f.ctrl.Admit("/employee-portal"))
	err = f.flow.Logout(ctx)
	assert.True(t, apperrors.IsValidation(err), "logout is only offered for wrong-role denials")
}

func TestDenialFlow_SessionEstablishedResumesWhenSatisfied(t *testing.T) {
	f := newDenialFixture(t)

	f.flow.Report("/employee-portal/profile", f.ctrl.Admit("/employee-portal/profile"))
	require.Equal(t, DenialOpen, f.flow.State())

	sessionWithRole(t, f.store, domainauth.RoleEmployee)
	path, resumed := f.flow.SessionEstablished()
	assert.True(t, resumed)
	assert.Equal(t, "/employee-portal/profile", path)
	assert.Equal(t, DenialIdle, f.flow.State())
}

func TestDenialFlow_SessionEstablishedReDerivesWhenStillDenied(t *testing.T) {
	f := newDenialFixture(t)

	f.flow.Report("/admin-portal", f.ctrl.Admit("/admin-portal"))
	require.Equal(t, access.VerdictDenyNotAuthenticated, f.flow.Modal().VerdictKind)

	// Signing in as an employee does not satisfy the admin rule; the
	// verdict is re-derived, not trusted stale.
	sessionWithRole(t, f.store, domainauth.RoleEmployee)
	_, resumed := f.flow.SessionEstablished()
	assert.False(t, resumed)

	modal := f.flow.Modal()
	assert.True(t, modal.IsOpen)
	assert.Equal(t, access.VerdictDenyWrongRole, modal.VerdictKind)
	assert.True(t, modal.ShowLogout)
}

func TestDenialFlow_SessionEstablishedWhileIdleIsNoop(t *testing.T) {
	f := newDenialFixture(t)
	sessionWithRole(t, f.store, domainauth.RoleEmployee)

	path, resumed := f.flow.SessionEstablished()
	assert.False(t, resumed)
	assert.Empty(t, path)
}

func TestDenialFlow_AllowReportResolvesPendingDenial(t *testing.T) {
	f := newDenialFixture(t)
	f.flow.Report("/employee-portal", f.ctrl.Admit("/employee-portal"))
	require.Equal(t, DenialOpen, f.flow.State())

	sessionWithRole(t, f.store, domainauth.RoleEmployee)
	f.flow.Report("/employee-portal", f.ctrl.Admit("/employee-portal"))
	assert.Equal(t, DenialIdle, f.flow.State(), "state is derived; it cannot stay open once admission allows")
}
