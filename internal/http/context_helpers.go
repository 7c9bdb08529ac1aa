package httpx

import (
	"context"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	domainauth "github.com/peopledesk/hrm-ui-api/internal/domain/auth"
)

// Unexported context key types to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same keys.
type (
	clientIDKey struct{}
	sessionKey  struct{}
	portalKey   struct{}
)

// SetClientIDInContext returns a child context carrying the client ID.
func SetClientIDInContext(ctx context.Context, clientID string) context.Context {
	if clientID == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// GetClientIDFromContext returns the client ID placed by the ClientID
// middleware, or "" when absent.
func GetClientIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok {
		return id
	}
	return ""
}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session from context and a boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// SetPortalInContext returns a child context carrying the dispatched portal.
func SetPortalInContext(ctx context.Context, portal access.PortalID) context.Context {
	if portal == access.PortalNone {
		return ctx
	}
	return context.WithValue(ctx, portalKey{}, portal)
}

// GetPortalFromContext returns the portal the guard dispatched the
// request to, or PortalNone when the path maps to no portal.
func GetPortalFromContext(ctx context.Context) access.PortalID {
	if portal, ok := ctx.Value(portalKey{}).(access.PortalID); ok {
		return portal
	}
	return access.PortalNone
}
