package main

import (
	"context"
	"log"
	"log/slog"

	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/models"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/services"
)

var demoPolls = []models.UpsertPollRequest{
	{
		Title:       "Team lunch",
		Description: "Friday lunch planning",
		Questions: []models.UpsertQuestionRequest{
			{Text: "Which cuisine?", Options: []models.UpsertOptionRequest{{Text: "Thai"}, {Text: "Pizza"}, {Text: "Sushi"}}},
			{Text: "What time?", Options: []models.UpsertOptionRequest{{Text: "12:00"}, {Text: "13:00"}}},
		},
	},
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.Admin.Password == "" {
		log.Fatal("ADMIN_PASSWORD must be set to seed the admin account")
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	store, closeStore, err := database.NewCacheStore(cfg)
	if err != nil {
		log.Fatal("Failed to connect to cache:", err)
	}
	defer closeStore()

	ctx := context.Background()
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)

	// Admin account
	auth := services.NewAuthService(postgres.NewAdminRepository(db), store, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
	if err := auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}

	// Demo polls, only into an empty database
	polls := services.NewPollService(pollRepo, voteRepo, store)
	existing, err := polls.List(ctx)
	if err != nil {
		log.Fatal("Failed to list polls:", err)
	}
	if len(existing) > 0 {
		slog.Info("Polls already present, skipping demo data", "count", len(existing))
		return
	}

	created, err := polls.BulkUpsert(ctx, &models.BulkUpsertPollsRequest{Polls: demoPolls})
	if err != nil {
		log.Fatal("Failed to seed polls:", err)
	}
	for _, poll := range created {
		slog.Info("Created poll", "id", poll.ID, "title", poll.Title, "questions", len(poll.Questions))
	}

	slog.Info("Database seeding completed successfully!")
}
