// Package migrations embeds the schema migrations for each supported database.
package migrations

import "embed"

// Postgres holds the migrations for the pgx driver, under the "postgres" directory.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the migrations for the sqlite3 driver, under the "sqlite" directory.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
