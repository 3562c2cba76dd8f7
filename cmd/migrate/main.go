package main

// Apply, roll back or list the embedded migrations:
//   go run ./cmd/migrate [up|down|status]

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pathways-backend/internal/shared/config"
	"pathways-backend/internal/shared/storage/db"
	"pathways-backend/internal/shared/telemetry"
)

func main() {
	action := "up"
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch action {
	case "up":
		err = db.RunMigrations(ctx, sqlDB)
	case "down":
		err = db.RollbackMigration(ctx, sqlDB)
	case "status":
		err = db.MigrationStatus(ctx, sqlDB)
	default:
		telemetry.Error("migrate.unknown_action", map[string]any{"action": action})
		sqlDB.Close()
		os.Exit(2)
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"action": action, "error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}

	latest, err := db.LatestVersion()
	if err == nil {
		telemetry.Info("migrate.done", map[string]any{"action": action, "latest_version": latest})
	}
}
