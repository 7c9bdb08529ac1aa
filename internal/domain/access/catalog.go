package access

// Package access contains the admission policy domain: route rules,
// portal mappings, and the verdict type. It is pure and deterministic;
// the catalog is built once at boot and never mutated afterwards.

import (
	"fmt"
	"strings"

	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// RouteRule maps a path prefix to the set of roles allowed to enter it.
type RouteRule struct {
	PathPrefix   string
	AllowedRoles []domainauth.Role
}

// Allows reports whether the given role may enter the rule's prefix.
func (r RouteRule) Allows(role domainauth.Role) bool {
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// PortalMapping maps a path prefix to the portal shell that renders it.
// Kept separate from RouteRule so a role can be admitted to a prefix
// whose portal differs from its home portal (e.g. a shared messaging
// area reachable from every portal).
type PortalMapping struct {
	PathPrefix string
	PortalID   PortalID
}

// Entry is one (pathPrefix, allowedRoles, portalID) triple from the
// configuration surface. Entries with an empty role set contribute only
// a portal mapping; entries with PortalNone contribute only a rule.
type Entry struct {
	PathPrefix   string
	AllowedRoles []domainauth.Role
	PortalID     PortalID
}

// Catalog is the static admission policy table. Lookups use
// longest-prefix matching on path segment boundaries.
type Catalog struct {
	rules   []RouteRule
	portals []PortalMapping
}

// NewCatalog validates the configured entries and builds the catalog.
// Duplicate prefixes are the only way two rules of identical prefix
// length could both match a path, so they are rejected here rather than
// resolved silently at lookup time.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{}
	seenRule := make(map[string]bool)
	seenPortal := make(map[string]bool)

	for _, e := range entries {
		if err := validatePrefix(e.PathPrefix); err != nil {
			return nil, err
		}
		for _, role := range e.AllowedRoles {
			if !role.Valid() {
				return nil, fmt.Errorf("catalog: rule %q references unknown role %q", e.PathPrefix, string(role))
			}
		}

		if len(e.AllowedRoles) > 0 {
			if seenRule[e.PathPrefix] {
				return nil, fmt.Errorf("catalog: ambiguous route rules for prefix %q", e.PathPrefix)
			}
			seenRule[e.PathPrefix] = true
			c.rules = append(c.rules, RouteRule{
				PathPrefix:   e.PathPrefix,
				AllowedRoles: append([]domainauth.Role(nil), e.AllowedRoles...),
			})
		}

		if e.PortalID != PortalNone {
			if seenPortal[e.PathPrefix] {
				return nil, fmt.Errorf("catalog: ambiguous portal mappings for prefix %q", e.PathPrefix)
			}
			seenPortal[e.PathPrefix] = true
			c.portals = append(c.portals, PortalMapping{PathPrefix: e.PathPrefix, PortalID: e.PortalID})
		}
	}

	return c, nil
}

// Resolve picks the rule whose prefix is the longest prefix match of
// path. The second return is false when no rule matches, which means
// the path is implicitly public.
func (c *Catalog) Resolve(path string) (RouteRule, bool) {
	var best RouteRule
	found := false
	for _, rule := range c.rules {
		if !matchesPrefix(path, rule.PathPrefix) {
			continue
		}
		if !found || len(rule.PathPrefix) > len(best.PathPrefix) {
			best = rule
			found = true
		}
	}
	return best, found
}

// Rules returns a copy of the configured route rules.
func (c *Catalog) Rules() []RouteRule {
	return append([]RouteRule(nil), c.rules...)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("catalog: empty path prefix")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("catalog: path prefix %q must start with /", prefix)
	}
	if strings.HasSuffix(prefix, "/") && prefix != "/" {
		return fmt.Errorf("catalog: path prefix %q must not end with /", prefix)
	}
	return nil
}

// matchesPrefix reports whether prefix is a path prefix of path on a
// segment boundary: "/admin-portal" matches "/admin-portal" and
// "/admin-portal/users" but not "/admin-portal-archive".
func matchesPrefix(path, prefix string) bool {
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
