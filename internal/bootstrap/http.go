package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/peopledesk/hrm-ui-api/config"
	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	httpx "github.com/peopledesk/hrm-ui-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// BuildHTTPServer assembles the router, middleware chain, and server.
// The caller owns the server lifecycle.
func BuildHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Clients:      cfg.Services.Clients,
		Catalog:      cfg.Services.Catalog,
		Audit:        cfg.Services.Audit,
		Metrics:      cfg.Services.Metrics,
		Portals:      DefaultPortals(),
		Registry:     cfg.Services.Registry,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	}
	if cfg.Services.AuditReader != nil {
		services.AuditReader = cfg.Services.AuditReader
	}

	// Order: Recover -> Logging -> Router
	handler := httpx.NewRouter(services)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	// Guard against empty addr to avoid listening on Go default
	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// DefaultPortals describes the dashboard portals the shell can mount.
// The catalog decides who reaches them; this map only supplies display
// metadata.
func DefaultPortals() map[access.PortalID]httpx.PortalDescriptor {
	return map[access.PortalID]httpx.PortalDescriptor{
		"admin": {
			ID:    "admin",
			Title: "Administration",
			NavItems: []httpx.NavItem{
				{Label: "Users", Path: "/admin-portal/users"},
				{Label: "Settings", Path: "/admin-portal/settings"},
			},
		},
		"manager": {
			ID:    "manager",
			Title: "Team Management",
			NavItems: []httpx.NavItem{
				{Label: "Team", Path: "/manager-portal/team"},
				{Label: "Approvals", Path: "/manager-portal/approvals"},
			},
		},
		"employee": {
			ID:    "employee",
			Title: "Employee Portal",
			NavItems: []httpx.NavItem{
				{Label: "Profile", Path: "/employee-portal/profile"},
				{Label: "Timesheet", Path: "/employee-portal/timesheet"},
			},
		},
		"messaging": {
			ID:    "messaging",
			Title: "Messages",
			NavItems: []httpx.NavItem{
				{Label: "Inbox", Path: "/employee-portal/messages"},
			},
		},
		"recruiting": {
			ID:    "recruiting",
			Title: "Recruiting",
			NavItems: []httpx.NavItem{
				{Label: "Openings", Path: "/recruiting-portal/openings"},
				{Label: "Candidates", Path: "/recruiting-portal/candidates"},
			},
		},
		"training": {
			ID:    "training",
			Title: "Training",
			NavItems: []httpx.NavItem{
				{Label: "Courses", Path: "/training-portal/courses"},
			},
		},
		"audit": {
			ID:    "audit",
			Title: "Audit Trail",
			NavItems: []httpx.NavItem{
				{Label: "Events", Path: "/audit-portal/events"},
			},
		},
	}
}
