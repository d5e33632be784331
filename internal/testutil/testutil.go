// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"testing"
	"time"

	"poll-service/internal/database"
	"poll-service/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory database with the full schema.
// A single connection keeps every goroutine on the same memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// SeedQuestion describes one question of a seeded poll.
type SeedQuestion struct {
	Text    string
	Options []string
}

// SeedPoll creates a poll with the given questions and options, in order.
func SeedPoll(t *testing.T, db *gorm.DB, title string, questions ...SeedQuestion) *models.Poll {
	t.Helper()

	poll := &models.Poll{Title: title}
	if err := db.Create(poll).Error; err != nil {
		t.Fatalf("Failed to seed poll: %v", err)
	}

	for qi, seed := range questions {
		question := models.Question{PollID: poll.ID, Text: seed.Text, Position: qi}
		if err := db.Create(&question).Error; err != nil {
			t.Fatalf("Failed to seed question: %v", err)
		}
		for oi, text := range seed.Options {
			option := models.Option{QuestionID: question.ID, Text: text, Position: oi}
			if err := db.Create(&option).Error; err != nil {
				t.Fatalf("Failed to seed option: %v", err)
			}
			question.Options = append(question.Options, option)
		}
		poll.Questions = append(poll.Questions, question)
	}
	return poll
}

// SeedVotes inserts n vote rows for an option.
func SeedVotes(t *testing.T, db *gorm.DB, option models.Option, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		vote := models.Vote{OptionID: option.ID, QuestionID: option.QuestionID, ClientHash: "seed", CreatedAt: time.Now().UTC()}
		if err := db.Create(&vote).Error; err != nil {
			t.Fatalf("Failed to seed vote: %v", err)
		}
	}
}
