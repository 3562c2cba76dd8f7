package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"pathways-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

func useEmbeddedMigrations() error {
	goose.SetBaseFS(migrationFiles)
	return goose.SetDialect("postgres")
}

// RunMigrations applies the embedded goose migrations. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := useEmbeddedMigrations(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, migrationsDir); err != nil {
		return err
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err == nil {
		telemetry.Info("db.migrated", map[string]any{"version": version})
	}
	return nil
}

// SchemaVersion returns the applied goose version.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if err := useEmbeddedMigrations(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}

// LatestVersion returns the newest embedded migration version.
func LatestVersion() (int64, error) {
	if err := useEmbeddedMigrations(); err != nil {
		return 0, err
	}
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, err
	}
	last, err := migrations.Last()
	if err != nil {
		return 0, err
	}
	return last.Version, nil
}

// RollbackMigration reverts the most recent migration.
func RollbackMigration(ctx context.Context, database *sql.DB) error {
	if err := useEmbeddedMigrations(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, database, migrationsDir); err != nil {
		return err
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err == nil {
		telemetry.Info("db.rolled_back", map[string]any{"version": version})
	}
	return nil
}

// MigrationStatus prints applied and pending migrations through goose's logger.
func MigrationStatus(ctx context.Context, database *sql.DB) error {
	if err := useEmbeddedMigrations(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, database, migrationsDir)
}
