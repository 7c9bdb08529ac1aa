package httpx

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	mockauth "github.com/peopledesk/hrm-ui-api/internal/mocks/auth"
	"github.com/peopledesk/hrm-ui-api/internal/observability/metrics"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// routerFixture wires a full router over in-memory collaborators.
type routerFixture struct {
	handler  http.Handler
	provider *mockauth.MockCredentialProvider
	registry *service.ClientRegistry
	audit    *mockauth.RecorderSpy
	cookies  []*http.Cookie
}

func testCatalog(t *testing.T) *access.Catalog {
	t.Helper()
	cat, err := access.NewCatalog([]access.Entry{
		{
			PathPrefix:   "/admin-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleAdmin},
			PortalID:     "admin",
		},
		{
			PathPrefix:   "/employee-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleEmployee},
			PortalID:     "employee",
		},
		{
			PathPrefix:   "/audit-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleAuditor},
			PortalID:     "audit",
		},
	})
	require.NoError(t, err)
	return cat
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	catalog := testCatalog(t)
	provider := mockauth.NewMockCredentialProvider()
	registry := service.NewClientRegistry(func(string) ports.SessionStorage {
		return mockauth.NewMemorySessionStorage()
	}, catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))
	audit := &mockauth.RecorderSpy{}

	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Roles: mockauth.StaticRoleMapper{Groups: map[string]domainauth.Role{
			"hr-employees": domainauth.RoleEmployee,
			"hr-admins":    domainauth.RoleAdmin,
			"hr-auditors":  domainauth.RoleAuditor,
		}},
		Clients: registry,
		Audit:   audit,
	})

	promReg := prometheus.NewRegistry()
	handler := NewRouter(RouterServices{
		Auth:        authSvc,
		Clients:     registry,
		Catalog:     catalog,
		Audit:       audit,
		Metrics:     metrics.NewAdmission(promReg),
		Registry:    promReg,
		Portals: map[access.PortalID]PortalDescriptor{
			"employee": {
				ID:    "employee",
				Title: "Employee Portal",
				NavItems: []NavItem{
					{Label: "Profile", Path: "/employee-portal/profile"},
				},
			},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &routerFixture{handler: handler, provider: provider, registry: registry, audit: audit}
}

// do performs a request, carrying cookies across calls like a browser.
func (f *routerFixture) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	f.storeCookies(rec)
	return rec
}

func (f *routerFixture) storeCookies(rec *httptest.ResponseRecorder) {
	for _, c := range rec.Result().Cookies() {
		replaced := false
		for i, existing := range f.cookies {
			if existing.Name == c.Name {
				f.cookies[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			f.cookies = append(f.cookies, c)
		}
	}
	// Drop cleared cookies.
	kept := f.cookies[:0]
	for _, c := range f.cookies {
		if c.MaxAge >= 0 && c.Value != "" {
			kept = append(kept, c)
		}
	}
	f.cookies = kept
}

func (f *routerFixture) cookie(name string) string {
	for _, c := range f.cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login walks the full flow: begin, then callback with the issued
// state and nonce cookies.
func (f *routerFixture) login(t *testing.T, redirectURI string) *httptest.ResponseRecorder {
	t.Helper()

	rec := f.do(t, http.MethodGet, "/auth/login?redirect_uri="+redirectURI, nil)
	require.Equal(t, http.StatusFound, rec.Code)

	state := f.cookie("oauth_state")
	require.NotEmpty(t, state)
	return f.do(t, http.MethodGet, "/auth/callback?code=mock&state="+state, nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func jsonAccept() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	return h
}

func htmlAccept() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html")
	return h
}
