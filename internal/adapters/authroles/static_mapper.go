// Package authroles maps directory group memberships to application
// roles.
package authroles

import (
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// StaticRoleMapper resolves a role from configured group names. Roles
// are checked from most to least privileged so a principal in several
// groups lands on the strongest one. Principals matching no configured
// group get no role at all.
type StaticRoleMapper struct {
	AdminGroup     string
	ManagerGroup   string
	RecruiterGroup string
	TrainerGroup   string
	AuditorGroup   string
	EmployeeGroup  string
}

var _ ports.RoleMapper = StaticRoleMapper{}

func (m StaticRoleMapper) Map(groups []string) (domainauth.Role, bool) {
	ordered := []struct {
		group string
		role  domainauth.Role
	}{
		{m.AdminGroup, domainauth.RoleAdmin},
		{m.ManagerGroup, domainauth.RoleManager},
		{m.RecruiterGroup, domainauth.RoleRecruiter},
		{m.TrainerGroup, domainauth.RoleTrainer},
		{m.AuditorGroup, domainauth.RoleAuditor},
		{m.EmployeeGroup, domainauth.RoleEmployee},
	}

	for _, candidate := range ordered {
		if candidate.group == "" {
			continue
		}
		for _, g := range groups {
			if g == candidate.group {
				return candidate.role, true
			}
		}
	}
	return "", false
}
