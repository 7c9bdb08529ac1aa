package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"hrm-dashboard"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"hrm-dashboard"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`

	// GroupsExpr is a JMESPath expression extracting the group list
	// from the token claims. Identity providers differ here:
	// "groups", "memberof", or "realm_access.roles".
	GroupsExpr string `env:"GROUPS_EXPR" envDefault:"groups"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string   `env:"USER_ID"      envDefault:"dev-user"`
	DisplayName string   `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Email       string   `env:"EMAIL"        envDefault:"dev@example.com"`
	Department  string   `env:"DEPARTMENT"   envDefault:"Engineering"`
	Groups      []string `env:"GROUPS"       envDefault:"hr-admins"        envSeparator:";"`
	SigningKey  string   `env:"SIGNING_KEY"  envDefault:"local-dev-secret"`
}

// RoleGroupsConfig maps directory groups to the application roles.
// A role with an empty group is simply never granted.
type RoleGroupsConfig struct {
	AdminGroup     string `env:"ADMIN_GROUP,required"`
	ManagerGroup   string `env:"MANAGER_GROUP"`
	EmployeeGroup  string `env:"EMPLOYEE_GROUP,required"`
	RecruiterGroup string `env:"RECRUITER_GROUP"`
	TrainerGroup   string `env:"TRAINER_GROUP"`
	AuditorGroup   string `env:"AUDITOR_GROUP"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// Roles maps directory groups to application roles.
	Roles RoleGroupsConfig
}
