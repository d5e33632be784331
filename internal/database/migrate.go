package database

import (
	"fmt"

	"poll-service/internal/models"

	"gorm.io/gorm"
)

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Poll{},
		&models.Question{},
		&models.Option{},
		&models.Vote{},
		&models.AdminUser{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	return addIndexes(db)
}

func addIndexes(db *gorm.DB) error {
	// Ordering indexes for nested reads
	indexes := []struct {
		table   string
		columns []string
	}{
		{"questions", []string{"poll_id", "position"}},
		{"options", []string{"question_id", "position"}},
	}

	for _, idx := range indexes {
		indexName := fmt.Sprintf("idx_%s_%s_%s", idx.table, idx.columns[0], idx.columns[1])
		if db.Migrator().HasIndex(idx.table, indexName) {
			continue
		}
		if err := db.Exec(fmt.Sprintf("CREATE INDEX %s ON %s (%s, %s)",
			indexName, idx.table, idx.columns[0], idx.columns[1])).Error; err != nil {
			return fmt.Errorf("failed to add index %s: %w", indexName, err)
		}
	}

	return nil
}
