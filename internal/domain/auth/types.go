package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below; anything else is rejected
// at the session boundary by ParseRole.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleEmployee  Role = "employee"
	RoleRecruiter Role = "recruiter"
	RoleTrainer   Role = "trainer"
	RoleAuditor   Role = "auditor"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleEmployee, RoleRecruiter, RoleTrainer, RoleAuditor}
}

// ParseRole validates a role string against the closed role set.
// Unknown values are an error, never silently accepted.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee, RoleRecruiter, RoleTrainer, RoleAuditor:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid reports whether the role belongs to the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Identity represents the authenticated actor returned by a credential
// provider. Adapters map provider-specific claims into this shape; the
// role mapper turns Groups into an application Role.
type Identity struct {
	UserID      string // stable user identifier (e.g., samAccountName or sub)
	DisplayName string
	Email       string
	Department  string
	Groups      []string
}

// Principal identifies the authenticated actor bound to a session.
// Role is immutable for the lifetime of the session.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Department  string `json:"department,omitempty"`
}

// Validate performs the structural validation applied at the session
// store boundary. A principal that fails here must never be exposed.
func (p Principal) Validate() error {
	if p.ID == "" {
		return errors.New("principal: id is required")
	}
	if p.DisplayName == "" {
		return errors.New("principal: display name is required")
	}
	if p.Email == "" {
		return errors.New("principal: email is required")
	}
	if !p.Role.Valid() {
		return fmt.Errorf("principal: unknown role %q", string(p.Role))
	}
	return nil
}

// Session is the record we hold for an authenticated principal.
// Token is an opaque string issued by the credential provider.
type Session struct {
	Token         string    `json:"token"`
	Principal     Principal `json:"principal"`
	EstablishedAt time.Time `json:"established_at"`
}
