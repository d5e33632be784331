package main

// @title           CleverPoll API
// @version         1.0
// @description     Polls, rate-limited anonymous voting and tallies
// @BasePath        /
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poll-service/internal/adapters/kafka"
	"poll-service/internal/api/routes"
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

	slog.Info("Starting poll server")

	// Initialize database connection
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize fast counter
	store, closeStore, err := database.NewCacheStore(cfg)
	if err != nil {
		slog.Error("Failed to connect to cache", "driver", cfg.Cache.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Bootstrap admin account
	if cfg.Admin.Password != "" {
		auth := services.NewAuthService(postgres.NewAdminRepository(db), store, cfg.JWT.Secret, cfg.JWT.ExpirationTime)
		if err := auth.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			slog.Error("Failed to bootstrap admin", "error", err)
			os.Exit(1)
		}
	}

	// Vote events
	var voteProducer *kafka.VoteProducer
	if len(cfg.Kafka.Brokers) > 0 {
		topicCtx, cancelTopic := context.WithTimeout(ctx, 10*time.Second)
		if err := kafka.EnsureTopic(topicCtx, cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions); err != nil {
			slog.Warn("Could not provision Kafka topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		cancelTopic()
		producer, err := kafka.InitKafkaProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		voteProducer = kafka.NewVoteProducer(producer, cfg.Kafka.Topic)
	}

	var publisher services.VotePublisher = services.NopPublisher{}
	if voteProducer != nil {
		publisher = voteProducer
	}
	events := services.NewEventQueue(publisher, cfg.Kafka.QueueSize, cfg.Kafka.PublishTimeout)

	// Counter reconciler
	reconciler := services.NewCounterReconciler(postgres.NewVoteRepository(db), store, cfg.Voting.CounterReconcileInterval)
	go reconciler.Run(ctx)

	// Initialize router with all dependencies
	router, err := routes.NewRouter(db, store, events, cfg)
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}
	router.SetupRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// No request can enqueue any more; flush events before the producer goes.
	if err := events.Close(shutdownCtx); err != nil {
		slog.Warn("Vote events dropped at shutdown", "error", err)
	}
	if voteProducer != nil {
		if err := voteProducer.Close(); err != nil {
			slog.Error("Failed to close Kafka producer", "error", err)
		}
	}

	slog.Info("Server stopped")
}
