package httpx

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	"github.com/peopledesk/hrm-ui-api/internal/observability/metrics"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Clients      *service.ClientRegistry
	Catalog      *access.Catalog
	Audit        ports.AuditRecorder
	AuditReader  AuditReader
	Metrics      *metrics.Admission
	Portals      map[access.PortalID]PortalDescriptor
	Registry     *prometheus.Registry
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every route except
// health and metrics passes through the admission guard; the route
// catalog decides which paths are public.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	denialHandlers := &DenialHandlers{
		Clients: services.Clients,
		Audit:   services.Audit,
		Metrics: services.Metrics,
		Logger:  services.Logger,
	}
	portalHandlers := &PortalHandlers{
		Clients: services.Clients,
		Catalog: services.Catalog,
		Portals: services.Portals,
	}

	mux.HandleFunc("GET /auth/login", authHandlers.Login)
	mux.HandleFunc("GET /auth/callback", authHandlers.Callback)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)

	mux.HandleFunc("GET /api/denial", denialHandlers.Modal)
	mux.HandleFunc("POST /api/denial/dismiss", denialHandlers.Dismiss)
	mux.HandleFunc("POST /api/denial/logout", denialHandlers.Logout)

	mux.HandleFunc("GET /api/portal", portalHandlers.Resolve)
	mux.HandleFunc("GET /", portalHandlers.Shell)

	if services.AuditReader != nil {
		auditHandlers := &AuditHandlers{Reader: services.AuditReader}
		mux.HandleFunc("GET /audit-portal/api/events", auditHandlers.Recent)
	}

	guarded := Guard(GuardConfig{
		Clients: services.Clients,
		Catalog: services.Catalog,
		Audit:   services.Audit,
		Metrics: services.Metrics,
		Logger:  services.Logger,
	})(mux)

	outer := http.NewServeMux()
	outer.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	outer.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.Registry != nil {
		outer.Handle("GET /metrics", promhttp.HandlerFor(services.Registry, promhttp.HandlerOpts{}))
	}
	outer.Handle("/", guarded)

	handler := BrowserDetection()(outer)
	return ClientID()(handler)
}
