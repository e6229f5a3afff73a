package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/config"
	"github.com/ersonp/roster-core/internal/infrastructure/logging"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
	"github.com/ersonp/roster-core/internal/infrastructure/relationaldb/postgres"
	"github.com/ersonp/roster-core/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and stores are internal.
type Deps struct {
	Config          *config.Config
	Logger          zerolog.Logger
	Metrics         *metrics.Metrics
	CompanyHandler  *handlers.CompanyHandler
	EmployeeHandler *handlers.EmployeeHandler
	ImportHandler   *handlers.ImportHandler
	AuditHandler    *handlers.AuditHandler
}

// projectDir returns the --dir flag as an absolute path, or the working directory.
func projectDir() (string, error) {
	if globalDir != "" {
		dir, err := filepath.Abs(globalDir)
		if err != nil {
			return "", fmt.Errorf("resolving project directory: %w", err)
		}
		return dir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.Setup(cfg.Log)

	store, audit, err := storeOpener(dir, logger)(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	defer audit.Close()

	// Ensure schemas exist
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring entity schema: %w", err)
	}
	if err := audit.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring audit schema: %w", err)
	}

	m := metrics.New()
	companyHandler := handlers.NewCompanyHandler(services.NewCompanyService(store, logger), m)
	employeeHandler := handlers.NewEmployeeHandler(services.NewEmployeeService(store, logger), m)
	importService := services.NewImportService(services.CompanyCreatorFunc(companyHandler.Handle))

	deps := &Deps{
		Config:          cfg,
		Logger:          logger,
		Metrics:         m,
		CompanyHandler:  companyHandler,
		EmployeeHandler: employeeHandler,
		ImportHandler:   handlers.NewImportHandler(importService),
		AuditHandler:    handlers.NewAuditHandler(audit),
	}

	return fn(deps)
}

// storeOpener opens the audit store first, then the entity store with a
// change capture interceptor writing to it. Relative SQLite paths resolve
// against basePath.
func storeOpener(basePath string, logger zerolog.Logger) handlers.StoreOpener {
	return func(ctx context.Context, cfg *config.Config) (ports.EntityStore, ports.AuditStore, error) {
		audit, err := openAuditStore(ctx, basePath, cfg, logger)
		if err != nil {
			return nil, nil, err
		}

		capture := services.NewChangeCaptureInterceptor(audit, logger)

		store, err := openEntityStore(ctx, basePath, cfg, capture, logger)
		if err != nil {
			audit.Close()
			return nil, nil, err
		}

		return store, audit, nil
	}
}

func openAuditStore(ctx context.Context, basePath string, cfg *config.Config, logger zerolog.Logger) (ports.AuditStore, error) {
	switch cfg.Audit.Driver {
	case config.DriverSQLite:
		audit, err := sqlite.NewAuditStore(config.SQLiteConfig{Path: config.ResolvePath(basePath, cfg.Audit.SQLitePath)})
		if err != nil {
			return nil, fmt.Errorf("creating sqlite audit store: %w", err)
		}
		return audit, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting audit store to postgres: %w", err)
		}
		return postgres.NewAuditStore(pool, logger), nil
	default:
		return nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
}

func openEntityStore(ctx context.Context, basePath string, cfg *config.Config, capture ports.ChangeCapture, logger zerolog.Logger) (ports.EntityStore, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.NewStore(config.SQLiteConfig{Path: config.ResolvePath(basePath, cfg.SQLite.Path)}, capture, logger)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting store to postgres: %w", err)
		}
		return postgres.NewStore(pool, capture, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
