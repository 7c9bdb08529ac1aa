package bootstrap

import (
	"fmt"

	"github.com/peopledesk/hrm-ui-api/config"
	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
)

// BuildCatalog constructs the role catalog from configured rules. A
// malformed catalog is a startup failure, never a degraded runtime.
func BuildCatalog(cfg config.AccessConfig) (*access.Catalog, error) {
	entries, err := cfg.Entries()
	if err != nil {
		return nil, fmt.Errorf("parse access rules: %w", err)
	}

	catalog, err := access.NewCatalog(entries)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return catalog, nil
}
