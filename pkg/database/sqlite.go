package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDSN builds the DSN used for both the application and migrations.
// Write transactions take the lock at BEGIN so that concurrent units of work serialize
// instead of failing on lock upgrade.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_txlock=immediate&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// NewSQLiteDB opens the SQLite database at path.
func NewSQLiteDB(ctx context.Context, path string, ping bool) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	db, err := sql.Open("sqlite3", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if ping {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
		}
	}

	slog.InfoContext(ctx, "Opened SQLite database.", slog.String("path", path))
	return db, nil
}
