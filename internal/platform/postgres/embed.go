package postgres

import (
	"embed"

	"github.com/pressly/goose/v3"
)

// Migrations holds the goose SQL migrations for the schema the stores in this
// package expect. Files live under the "migrations" directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const (
	// MigrationsDir is the directory inside Migrations that holds the SQL files.
	MigrationsDir = "migrations"

	// MigrationTable records which migrations have been applied.
	MigrationTable = "schema_migrations"
)

// ConfigureMigrations points goose's package-level state at the embedded
// migrations, the postgres dialect and MigrationTable.
func ConfigureMigrations() error {
	goose.SetBaseFS(Migrations)
	goose.SetTableName(MigrationTable)
	return goose.SetDialect("postgres")
}
