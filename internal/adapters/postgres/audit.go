// Package postgres persists the admission audit trail.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
	apperrors "github.com/peopledesk/hrm-ui-api/internal/errors"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
)

// AuditRecorder writes admission and session events to the audit_events
// table.
type AuditRecorder struct {
	db *sql.DB
}

var _ ports.AuditRecorder = (*AuditRecorder)(nil)

// NewAuditRecorder creates an audit recorder over an open database
// handle.
func NewAuditRecorder(db *sql.DB) *AuditRecorder {
	return &AuditRecorder{db: db}
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id           BIGSERIAL PRIMARY KEY,
	kind         TEXT NOT NULL,
	path         TEXT NOT NULL DEFAULT '',
	verdict      TEXT NOT NULL DEFAULT '',
	portal_id    TEXT NOT NULL DEFAULT '',
	principal_id TEXT NOT NULL DEFAULT '',
	role         TEXT NOT NULL DEFAULT '',
	occurred_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at ON audit_events (occurred_at DESC);
`

// EnsureSchema creates the audit table when it does not exist.
func (r *AuditRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, auditSchema); err != nil {
		return apperrors.MapDBError(fmt.Errorf("ensure audit schema: %w", err))
	}
	return nil
}

// Record appends one event. OccurredAt defaults to now when unset.
func (r *AuditRecorder) Record(ctx context.Context, event ports.AuditEvent) error {
	if event.Kind == "" {
		return apperrors.Validation("audit event kind is required")
	}
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO audit_events (kind, path, verdict, portal_id, principal_id, role, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		string(event.Kind), event.Path, string(event.Verdict), string(event.PortalID),
		event.PrincipalID, string(event.Role), occurredAt,
	)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("record audit event: %w", err))
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (r *AuditRecorder) Recent(ctx context.Context, limit int) ([]ports.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT kind, path, verdict, portal_id, principal_id, role, occurred_at
		FROM audit_events
		ORDER BY occurred_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list audit events: %w", err))
	}
	defer rows.Close()

	var events []ports.AuditEvent
	for rows.Next() {
		var (
			event   ports.AuditEvent
			kind    string
			verdict string
			portal  string
			role    string
		)
		if err := rows.Scan(&kind, &event.Path, &verdict, &portal, &event.PrincipalID, &role, &event.OccurredAt); err != nil {
			return nil, apperrors.MapDBError(fmt.Errorf("scan audit event: %w", err))
		}
		event.Kind = ports.AuditEventKind(kind)
		event.Verdict = access.VerdictKind(verdict)
		event.PortalID = access.PortalID(portal)
		event.Role = domainauth.Role(role)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("iterate audit events: %w", err))
	}
	return events, nil
}
