// Package dbmigrate applies the embedded schema migrations with golang-migrate.
package dbmigrate

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/recordsheet/internal/platform/config"
	"github.com/SscSPs/recordsheet/migrations"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Direction selects which way to migrate.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Run opens a dedicated connection for driverName/dsn, applies the migrations in dir and closes it.
// Having nothing to apply is not an error.
func Run(driverName, dsn string, dir Direction, logger *slog.Logger) error {
	m, err := newMigrate(driverName, dsn)
	if err != nil {
		return err
	}

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		err = fmt.Errorf("unknown migration direction %q", dir)
	}

	// Closing also closes the underlying *sql.DB.
	sourceErr, dbErr := m.Close()

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations %s: %w", dir, err)
	}
	if sourceErr != nil {
		return fmt.Errorf("migration source error: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database error: %w", dbErr)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("driver", driverName))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("driver", driverName), slog.String("direction", string(dir)))
	}
	return nil
}

func newMigrate(driverName, dsn string) (*migrate.Migrate, error) {
	var (
		sqlDriver  string
		dbName     string
		sourceDir  string
		openDriver func(*sql.DB) (database.Driver, error)
	)

	switch driverName {
	case config.DriverPostgres:
		// pgx stdlib keeps migrations on the same driver as the main pool
		sqlDriver, dbName, sourceDir = "pgx", "postgres", "postgres"
		openDriver = func(db *sql.DB) (database.Driver, error) {
			return postgres.WithInstance(db, &postgres.Config{})
		}
	case config.DriverSQLite:
		sqlDriver, dbName, sourceDir = "sqlite3", "sqlite3", "sqlite"
		openDriver = func(db *sql.DB) (database.Driver, error) {
			return sqlite3.WithInstance(db, &sqlite3.Config{})
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection for migrations: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database for migrations: %w", err)
	}

	driver, err := openDriver(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not create %s driver instance for migrations: %w", dbName, err)
	}

	fs := migrations.Postgres
	if driverName == config.DriverSQLite {
		fs = migrations.SQLite
	}
	source, err := iofs.New(fs, sourceDir)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("could not read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}
