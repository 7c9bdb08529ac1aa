package config

import (
	"fmt"
	"strings"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// AccessConfig declares the route rule catalog. Each rule is a triple
// "prefix|role1,role2|portal"; rules are separated by semicolons.
//
//	ACCESS_RULES="/admin-portal|admin|admin;/employee-portal|employee|employee"
//
// An empty ACCESS_RULES falls back to the built-in portal layout.
type AccessConfig struct {
	Rules []string `env:"ACCESS_RULES" envSeparator:";"`
}

// Entries parses the configured rules into catalog entries, or returns
// the default layout when none are configured. Parse errors here are
// fatal at startup: a malformed catalog must never guard traffic.
func (c AccessConfig) Entries() ([]access.Entry, error) {
	if len(c.Rules) == 0 {
		return DefaultEntries(), nil
	}

	entries := make([]access.Entry, 0, len(c.Rules))
	for _, rule := range c.Rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		entry, err := parseRule(rule)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRule(rule string) (access.Entry, error) {
	parts := strings.Split(rule, "|")
	if len(parts) != 3 {
		return access.Entry{}, fmt.Errorf("access rule %q: want prefix|roles|portal", rule)
	}

	roleNames := strings.Split(parts[1], ",")
	roles := make([]domainauth.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := domainauth.ParseRole(strings.TrimSpace(name))
		if err != nil {
			return access.Entry{}, fmt.Errorf("access rule %q: %w", rule, err)
		}
		roles = append(roles, role)
	}

	return access.Entry{
		PathPrefix:   strings.TrimSpace(parts[0]),
		AllowedRoles: roles,
		PortalID:     access.PortalID(strings.TrimSpace(parts[2])),
	}, nil
}

// DefaultEntries is the built-in portal layout: one portal per role,
// plus the shared messaging area under the employee portal.
func DefaultEntries() []access.Entry {
	return []access.Entry{
		{
			PathPrefix:   "/admin-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleAdmin},
			PortalID:     "admin",
		},
		{
			PathPrefix:   "/manager-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleManager},
			PortalID:     "manager",
		},
		{
			PathPrefix:   "/employee-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleEmployee},
			PortalID:     "employee",
		},
		{
			PathPrefix: "/employee-portal/messages",
			AllowedRoles: []domainauth.Role{
				domainauth.RoleEmployee, domainauth.RoleManager,
			},
			PortalID: "messaging",
		},
		{
			PathPrefix:   "/recruiting-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleRecruiter},
			PortalID:     "recruiting",
		},
		{
			PathPrefix:   "/training-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleTrainer, domainauth.RoleEmployee},
			PortalID:     "training",
		},
		{
			PathPrefix:   "/audit-portal",
			AllowedRoles: []domainauth.Role{domainauth.RoleAuditor},
			PortalID:     "audit",
		},
	}
}
