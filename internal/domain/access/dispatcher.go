package access

// PortalID names a role-scoped application shell (layout + navigation).
type PortalID string

// PortalNone is the sentinel for paths that render without any
// role-scoped shell (fully public pages).
const PortalNone PortalID = ""

// Dispatch selects the portal shell for an already-admitted path using
// longest-prefix matching over the portal mappings. Callers must only
// invoke it after the admission check returned Allow; a denied path must
// never trigger a portal shell's side effects, so Dispatch does not
// re-validate.
func (c *Catalog) Dispatch(path string) PortalID {
	var (
		best      PortalID
		bestLen   int
		havePrior bool
	)
	for _, m := range c.portals {
		if !matchesPrefix(path, m.PathPrefix) {
			continue
		}
		if !havePrior || len(m.PathPrefix) > bestLen {
			best = m.PortalID
			bestLen = len(m.PathPrefix)
			havePrior = true
		}
	}
	if !havePrior {
		return PortalNone
	}
	return best
}
