package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/peopledesk/hrm-ui-api/config"
	"github.com/peopledesk/hrm-ui-api/internal/adapters/authroles"
	"github.com/peopledesk/hrm-ui-api/internal/adapters/devauth"
	"github.com/peopledesk/hrm-ui-api/internal/adapters/oidc"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// BuildCredentialProvider creates the credential provider for the
// configured auth mode.
//
//nolint:ireturn // the provider port hides which mode is active from callers.
func BuildCredentialProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.CredentialProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if logger != nil {
			logger.Warn("mock auth mode enabled; do not use in production",
				"user_id", cfg.DevAuth.UserID,
			)
		}
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:      cfg.DevAuth.UserID,
			DisplayName: cfg.DevAuth.DisplayName,
			Email:       cfg.DevAuth.Email,
			Department:  cfg.DevAuth.Department,
			Groups:      cfg.DevAuth.Groups,
			SigningKey:  cfg.DevAuth.SigningKey,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
			LogoutURL:    cfg.OAuth.LogoutURL,
			GroupsExpr:   cfg.OAuth.GroupsExpr,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

// BuildRoleMapper creates the group-to-role mapper from configuration.
func BuildRoleMapper(cfg config.RoleGroupsConfig) authroles.StaticRoleMapper {
	return authroles.StaticRoleMapper{
		AdminGroup:     cfg.AdminGroup,
		ManagerGroup:   cfg.ManagerGroup,
		EmployeeGroup:  cfg.EmployeeGroup,
		RecruiterGroup: cfg.RecruiterGroup,
		TrainerGroup:   cfg.TrainerGroup,
		AuditorGroup:   cfg.AuditorGroup,
	}
}
