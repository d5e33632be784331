package routes

import (
	"fmt"
	"net/http"

	"poll-service/docs"
	"poll-service/internal/api/handlers"
	"poll-service/internal/api/middleware"
	"poll-service/internal/cache"
	"poll-service/internal/config"
	"poll-service/internal/repositories/postgres"
	"poll-service/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const aliveMessage = "CleverPoll backend is alive!"

type Router struct {
	engine        *gin.Engine
	voteHandler   *handlers.VoteHandler
	resultHandler *handlers.ResultHandler
	pollHandler   *handlers.PollHandler
	authHandler   *handlers.AuthHandler
	rateLimitMW   *middleware.RateLimitMiddleware
	authMW        *middleware.AuthMiddleware
	voting        config.VotingConfig
}

func NewRouter(
	db *gorm.DB,
	store cache.Store,
	publisher services.VotePublisher,
	cfg *config.Config,
) (*Router, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()

	// Client identity drives the vote and login limits, so forwarding
	// headers are only read from configured proxies.
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.LogApi())

	// Initialize repositories
	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	adminRepo := postgres.NewAdminRepository(db)

	// Initialize services
	voteService := services.NewVoteService(voteRepo, store, publisher, cfg.Voting.Window)
	resultService := services.NewResultService(pollRepo, voteRepo, store)
	pollService := services.NewPollService(pollRepo, voteRepo, store)
	authService := services.NewAuthService(adminRepo, store, cfg.JWT.Secret, cfg.JWT.ExpirationTime)

	return &Router{
		engine:        engine,
		voteHandler:   handlers.NewVoteHandler(voteService),
		resultHandler: handlers.NewResultHandler(resultService),
		pollHandler:   handlers.NewPollHandler(pollService),
		authHandler:   handlers.NewAuthHandler(authService),
		rateLimitMW:   middleware.NewRateLimitMiddleware(store),
		authMW:        middleware.NewAuthMiddleware(authService),
		voting:        cfg.Voting,
	}, nil
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, aliveMessage)
	})
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))

	// Public routes (no authentication required)
	public := r.engine.Group("/")
	{
		public.GET("/polls", r.pollHandler.ListPolls)
		public.GET("/polls/:poll_id", r.pollHandler.GetPoll)
		public.POST("/options/:option_id/vote", r.voteHandler.CastVote)
		public.GET("/questions/:question_id/results", r.resultHandler.GetResults)
		public.GET("/questions/:question_id/live", r.resultHandler.GetLiveResults)

		public.POST("/auth/login",
			r.rateLimitMW.RateLimitIP(r.voting.LoginRateLimit, r.voting.LoginRateWindow),
			r.authHandler.Login,
		)
	}

	// Admin routes
	admin := r.engine.Group("/")
	admin.Use(r.authMW.RequireAdmin())
	{
		admin.POST("/auth/logout", r.authHandler.Logout)
		admin.POST("/polls", r.pollHandler.CreatePoll)
		admin.POST("/polls/bulk", r.pollHandler.BulkUpsertPolls)
		admin.DELETE("/polls/:poll_id", r.pollHandler.DeletePoll)
		admin.POST("/polls/:poll_id/questions", r.pollHandler.AddQuestion)
		admin.POST("/questions/:question_id/options", r.pollHandler.AddOption)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
