package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/peopledesk/hrm-ui-api/config"
	"github.com/peopledesk/hrm-ui-api/internal/adapters/postgres"
	redisadapter "github.com/peopledesk/hrm-ui-api/internal/adapters/redis"
	"github.com/peopledesk/hrm-ui-api/internal/domain/access"
	"github.com/peopledesk/hrm-ui-api/internal/observability/metrics"
	"github.com/peopledesk/hrm-ui-api/internal/ports"
	"github.com/peopledesk/hrm-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Clients     *service.ClientRegistry
	Catalog     *access.Catalog
	Audit       ports.AuditRecorder
	AuditReader *postgres.AuditRecorder
	Metrics     *metrics.Admission
	Registry    *prometheus.Registry
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	AuditDB     *sql.DB // nil when the audit trail is disabled
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires the admission core: catalog, per-client registry,
// auth service, audit trail, and metrics.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	catalog, err := BuildCatalog(cfg.Access)
	if err != nil {
		return ServiceContainer{}, err
	}

	provider, err := BuildCredentialProvider(cfg.Auth, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	registry := service.NewClientRegistry(
		newStorageFactory(deps.RedisClient, cfg.Redis),
		catalog,
		logger,
	)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	admissionMetrics := metrics.NewAdmission(promRegistry)

	var (
		audit       ports.AuditRecorder
		auditReader *postgres.AuditRecorder
	)
	if deps.AuditDB != nil {
		recorder := postgres.NewAuditRecorder(deps.AuditDB)
		if err = recorder.EnsureSchema(ctx); err != nil {
			return ServiceContainer{}, fmt.Errorf("ensure audit schema: %w", err)
		}
		audit = recorder
		auditReader = recorder
	}

	authService := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Roles:    BuildRoleMapper(cfg.Auth.Roles),
		Clients:  registry,
		Audit:    audit,
		Logger:   logger,
	})

	return ServiceContainer{
		Auth:        authService,
		Clients:     registry,
		Catalog:     catalog,
		Audit:       audit,
		AuditReader: auditReader,
		Metrics:     admissionMetrics,
		Registry:    promRegistry,
	}, nil
}

// newStorageFactory scopes each client to its own Redis key space.
func newStorageFactory(client redis.UniversalClient, cfg config.RedisConfig) service.StorageFactory {
	return func(clientID string) ports.SessionStorage {
		return redisadapter.NewSessionStorage(client, cfg.KeyPrefix+clientID+":", cfg.SessionTTL)
	}
}

// RunServicesWithShutdown starts the HTTP server and blocks until a
// shutdown signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := BuildHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Config.HTTP.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return group.Wait()
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}
