package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"legalsim-backend/internal/bootstrap"
	"legalsim-backend/internal/shared/config"
	"legalsim-backend/internal/shared/storage/db"
	"legalsim-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, bootstrap.PoolOptions(db.RoleMigrate, cfg))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
