package database

import (
	"fmt"
	"log/slog"
	"time"

	"poll-service/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the durable store for the configured driver.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	gormConfig := &gorm.Config{
		PrepareStmt:       false,
		AllowGlobalUpdate: false, // Safety measure
		Logger:            logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}

	attempts := max(cfg.ConnectRetries, 1)
	var db *gorm.DB
	var err error
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, gormConfig)
		if err == nil {
			break
		}
		slog.Warn("Failed to connect to database", "attempt", i+1, "max_attempts", attempts, "error", err)
		if i < attempts-1 {
			time.Sleep(cfg.ConnectRetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	// Get underlying *sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	slog.Info("Database connection established", "driver", cfg.Driver, "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
