package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("ADMIN_GROUP", "cn=hr-admins,ou=groups,dc=example,dc=org")
	t.Setenv("EMPLOYEE_GROUP", "cn=hr-staff,ou=groups,dc=example,dc=org")
	t.Setenv("MANAGER_GROUP", "cn=hr-managers,ou=groups,dc=example,dc=org")
	t.Setenv("OAUTH_CLIENT_ID", "hrm-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://hrm.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("OAUTH_GROUPS_EXPR", "realm_access.roles")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_GROUPS", "hr-admins;hr-staff")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "hrm-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://hrm.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
			GroupsExpr:   "realm_access.roles",
		},
		DevAuth: DevAuthConfig{
			UserID:      "dev-user",
			DisplayName: "Dev User",
			Email:       "dev@example.com",
			Department:  "Engineering",
			Groups:      []string{"hr-admins", "hr-staff"},
			SigningKey:  "local-dev-secret",
		},
		Roles: RoleGroupsConfig{
			AdminGroup:    "cn=hr-admins,ou=groups,dc=example,dc=org",
			ManagerGroup:  "cn=hr-managers,ou=groups,dc=example,dc=org",
			EmployeeGroup: "cn=hr-staff,ou=groups,dc=example,dc=org",
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_RequiresRoleGroups(t *testing.T) {
	t.Setenv("EMPLOYEE_GROUP", "hr-staff")
	// ADMIN_GROUP intentionally unset.

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected parse to fail without ADMIN_GROUP")
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input       string
		expected    AuthMode
		expectError bool
	}{
		{"oauth", AuthModeOAuth, false},
		{"OAuth", AuthModeOAuth, false},
		{"mock", AuthModeMock, false},
		{"ldap", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mode != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAccessConfig_Entries(t *testing.T) {
	cfg := AccessConfig{Rules: []string{
		"/admin-portal|admin|admin",
		" /employee-portal/messages | employee , manager | messaging ",
	}}

	entries, err := cfg.Entries()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []access.Entry{
		{
			PathPrefix:   "/admin-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleAdmin},
			PortalID:     "admin",
		},
		{
			PathPrefix: "/employee-portal/messages",
			AllowedRoles: []domainauth.Role{
				domainauth.RoleEmployee, domainauth.RoleManager,
			},
			PortalID: "messaging",
		},
	}

	if !reflect.DeepEqual(entries, expected) {
		t.Fatalf("unexpected entries:\nexpected: %#v\ngot:      %#v", expected, entries)
	}
}

func TestAccessConfig_EntriesErrors(t *testing.T) {
	tests := []struct {
		name string
		rule string
	}{
		{"missing portal", "/admin-portal|admin"},
		{"too many fields", "/admin-portal|admin|admin|extra"},
		{"unknown role", "/admin-portal|superuser|admin"},
		{"empty role list entry", "/admin-portal|admin,|admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AccessConfig{Rules: []string{tt.rule}}
			if _, err := cfg.Entries(); err == nil {
				t.Fatalf("expected error for rule %q", tt.rule)
			}
		})
	}
}

func TestAccessConfig_EmptyFallsBackToDefaults(t *testing.T) {
	entries, err := AccessConfig{}.Entries()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(entries, DefaultEntries()) {
		t.Fatal("expected default entries when no rules are configured")
	}

	// Blank rule strings are skipped, not errors.
	entries, err = AccessConfig{Rules: []string{" ", ""}}.Entries()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries from blank rules, got %d", len(entries))
	}
}

func TestRedisConfig_Sanitize(t *testing.T) {
	cfg := RedisConfig{KeyPrefix: "", SessionTTL: -time.Hour}
	cfg.Sanitize()

	if cfg.KeyPrefix != "hrm:session:" {
		t.Fatalf("expected default key prefix, got %q", cfg.KeyPrefix)
	}
	if cfg.SessionTTL != 0 {
		t.Fatalf("expected negative TTL to clamp to zero, got %v", cfg.SessionTTL)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{ShutdownTimeout: 0}
	cfg.Sanitize()

	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected shutdown timeout default, got %v", cfg.ShutdownTimeout)
	}
}
