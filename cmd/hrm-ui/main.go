package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/peopledesk/hrm-ui-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting hrm-ui service",
		"auth_mode", string(cfg.Auth.Mode),
		"redis_addr", cfg.Redis.Addr,
		"audit_enabled", cfg.AuditDB.Enabled,
		"dev", cfg.IsDev,
	)

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	auditDB, err := bootstrap.ConnectAuditDB(cfg.AuditDB, logger)
	if err != nil {
		return fmt.Errorf("connect audit database: %w", err)
	}
	if auditDB != nil {
		defer func() {
			if cerr := auditDB.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close audit database failed", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{
		Config:      &cfg,
		AuditDB:     auditDB,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}
