package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortalHandlers_ResolveDeniedWithoutSession(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/portal?path=/employee-portal", jsonAccept())
	require.Equal(t, http.StatusOK, rec.Code)

	var res portalResolution
	decodeBody(t, rec, &res)
	assert.False(t, res.Allowed)
	assert.Equal(t, "deny_not_authenticated", res.Verdict)
	assert.Nil(t, res.Portal)
}

func TestPortalHandlers_ResolveAllowedReturnsDescriptor(t *testing.T) {
	f := newRouterFixture(t)
	f.login(t, "/")

	rec := f.do(t, http.MethodGet, "/api/portal?path=/employee-portal/profile", jsonAccept())
	require.Equal(t, http.StatusOK, rec.Code)

	var res portalResolution
	decodeBody(t, rec, &res)
	assert.True(t, res.Allowed)
	require.NotNil(t, res.Portal)
	assert.Equal(t, "employee", string(res.Portal.ID))
	assert.Equal(t, "Employee Portal", res.Portal.Title)
	require.Len(t, res.Portal.NavItems, 1)
	assert.Equal(t, "/employee-portal/profile", res.Portal.NavItems[0].Path)
}

func TestPortalHandlers_ResolvePublicPathHasNoPortal(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/portal?path=/about", jsonAccept())
	require.Equal(t, http.StatusOK, rec.Code)

	var res portalResolution
	decodeBody(t, rec, &res)
	assert.True(t, res.Allowed)
	assert.Nil(t, res.Portal)
}
