package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/recordsheet/internal/core/services"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/importer"
	"github.com/SscSPs/recordsheet/internal/metrics"
	prommetrics "github.com/SscSPs/recordsheet/internal/metrics/prometheus"
	"github.com/SscSPs/recordsheet/internal/platform/config"
	"github.com/SscSPs/recordsheet/internal/platform/dbmigrate"
	"github.com/SscSPs/recordsheet/internal/repositories/database/pgsql"
	"github.com/SscSPs/recordsheet/internal/repositories/database/sqlite"
	"github.com/SscSPs/recordsheet/internal/resilience"
	"github.com/SscSPs/recordsheet/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
)

// app is the wired ledger shared by the commands that touch the store.
type app struct {
	services *portssvc.ServiceContainer
	registry *prometheus.Registry // nil when metrics are disabled
	close    func()
}

// openApp migrates the store to the latest schema, opens it and builds the services.
func openApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := dbmigrate.Run(cfg.DBDriver, migrationDSN(cfg), dbmigrate.Up, logger); err != nil {
		return nil, err
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var collector metrics.Collector = metrics.NoOpCollector{}
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		pc := prommetrics.NewPrometheusCollector("recordsheet")
		registry = prometheus.NewRegistry()
		if err := pc.Register(registry); err != nil {
			repos.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		collector = pc
	}

	repos.TxManager = resilience.NewResilientTxManager(repos.TxManager, resilience.BreakerConfig{
		Name:        cfg.DBDriver,
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}, collector)

	importRegistry, err := newImportRegistry(cfg)
	if err != nil {
		repos.Close()
		return nil, err
	}

	return &app{
		services: services.NewServiceContainer(cfg, repos, importRegistry, services.WithMetrics(collector)),
		registry: registry,
		close:    repos.Close,
	}, nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (portsrepo.RepositoryProvider, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath, true)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return sqlite.NewRepositoryProvider(db), nil
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return pgsql.NewRepositoryProvider(pool), nil
	}
}

func migrationDSN(cfg *config.Config) string {
	if cfg.DBDriver == config.DriverSQLite {
		return database.SQLiteDSN(cfg.SQLitePath)
	}
	return cfg.DatabaseURL
}

// newImportRegistry returns the built-in parsers plus the CSV profiles configured in
// IMPORT_PROFILES_PATH.
func newImportRegistry(cfg *config.Config) (*importer.Registry, error) {
	registry := importer.DefaultRegistry()
	if cfg.ImportProfilesPath == "" {
		return registry, nil
	}
	if err := importer.RegisterProfiles(registry, cfg.ImportProfilesPath); err != nil {
		return nil, fmt.Errorf("failed to load import profiles from %s: %w", cfg.ImportProfilesPath, err)
	}
	return registry, nil
}
