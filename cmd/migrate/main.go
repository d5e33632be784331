package main

import (
	"context"
	"log"
	"log/slog"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database migration...")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	slog.Info("Running GORM auto-migration...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}
	slog.Info("Database migration completed successfully!")

	// Rebuild the fast counters from the vote rows
	store, closeStore, err := database.NewCacheStore(cfg)
	if err != nil {
		slog.Warn("Cache unavailable, skipping counter rebuild", "error", err)
		return
	}
	defer closeStore()

	reconciler := services.NewCounterReconciler(postgres.NewVoteRepository(db), store, 0)
	updated, err := reconciler.ReconcileOnce(context.Background())
	if err != nil {
		slog.Warn("Counter rebuild failed", "error", err)
		return
	}
	slog.Info("Option counters rebuilt", "options", updated)
}
