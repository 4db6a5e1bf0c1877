package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"wanderlist/internal/config"
	"wanderlist/internal/handler"
	"wanderlist/internal/middleware"
	"wanderlist/internal/models"
	"wanderlist/internal/observability"
	"wanderlist/internal/repository"
	"wanderlist/internal/service"
	"wanderlist/internal/token"
	"wanderlist/internal/uploads"
)

type Server struct {
	router  *gin.Engine
	db      *sqlx.DB
	cfg     *config.Config
	log     *logrus.Logger
	logger  *zap.Logger
	tokens  *token.Service
	metrics *observability.Metrics

	presigner   *uploads.Presigner
	redisClient *redis.Client
}

func NewServer(db *sqlx.DB, cfg *config.Config, tokens *token.Service, presigner *uploads.Presigner, redisClient *redis.Client, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:      router,
		db:          db,
		cfg:         cfg,
		log:         log,
		logger:      logger,
		tokens:      tokens,
		metrics:     observability.NewMetrics(),
		presigner:   presigner,
		redisClient: redisClient,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	locationRepo := repository.NewLocationRepository(s.db, s.logger)
	categoryRepo := repository.NewCategoryRepository(s.db, s.logger)
	reviewRepo := repository.NewReviewRepository(s.db, s.logger)
	reportRepo := repository.NewReportRepository(s.db, s.logger)
	notificationRepo := repository.NewNotificationRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, s.tokens, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.log)
	userHandler := handler.NewUserHandler(userRepo, s.log)
	locationHandler := handler.NewLocationHandler(locationRepo, s.log)
	categoryHandler := handler.NewCategoryHandler(categoryRepo, s.log)
	reviewHandler := handler.NewReviewHandler(reviewRepo, s.log)
	reportHandler := handler.NewReportHandler(reportRepo, s.log)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, s.log)

	s.router.Use(s.metrics.Middleware())

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	s.router.GET("/metrics", s.metrics.Handler())

	// Credential exchange, throttled per IP when Redis is configured.
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)

	loginHandlers := []gin.HandlerFunc{}
	if s.redisClient != nil {
		limiter := middleware.NewLoginLimiter(s.redisClient,
			s.cfg.Redis.LoginLimit, time.Duration(s.cfg.Redis.LoginWindowSec)*time.Second, s.logger)
		loginHandlers = append(loginHandlers, limiter.Handler())
	}
	loginHandlers = append(loginHandlers, s.countLoginOutcome(), authHandler.Login)
	authGroup.POST("/login", loginHandlers...)

	// Public browsing
	public := s.router.Group("/api")
	public.GET("/locations", locationHandler.ListLocations)
	public.GET("/locations/:id", locationHandler.GetLocation)
	public.GET("/locations/:id/reviews", reviewHandler.ListReviews)
	public.GET("/categories", categoryHandler.ListCategories)

	// Authenticated contribution and account routes
	authed := s.router.Group("/api")
	authed.Use(middleware.Authenticate(s.tokens, s.logger))
	{
		authed.GET("/profile", userHandler.GetProfile)
		authed.PUT("/profile", userHandler.UpdateProfile)
		authed.POST("/locations", locationHandler.CreateLocation)
		authed.POST("/locations/:id/reviews", reviewHandler.PostReview)
		authed.DELETE("/reviews/:id", reviewHandler.DeleteReview)
		authed.POST("/reports", reportHandler.CreateReport)
		authed.GET("/notifications", notificationHandler.ListNotifications)
		authed.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		if s.presigner != nil {
			uploadHandler := handler.NewUploadHandler(s.presigner, s.log)
			authed.POST("/uploads/presign", uploadHandler.Presign)
		}
	}

	// Admin back-office
	admin := s.router.Group("/api/admin")
	admin.Use(middleware.Authenticate(s.tokens, s.logger), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/locations", locationHandler.ListLocations)
		admin.PUT("/locations/:id", locationHandler.UpdateLocation)
		admin.PATCH("/locations/:id/status", locationHandler.UpdateLocationStatus)
		admin.DELETE("/locations/:id", locationHandler.DeleteLocation)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.GET("/reports", reportHandler.ListReports)
		admin.PATCH("/reports/:id", reportHandler.ResolveReport)

		admin.POST("/notifications/broadcast", notificationHandler.Broadcast)

		admin.GET("/users", userHandler.ListUsers)
		admin.PATCH("/users/:id/role", userHandler.UpdateUserRole)
		admin.PATCH("/users/:id/status", userHandler.UpdateUserStatus)
	}
}

// countLoginOutcome feeds the login attempt counter from the response status.
func (s *Server) countLoginOutcome() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		outcome := "failure"
		if c.Writer.Status() < 400 {
			outcome = "success"
		}
		s.metrics.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
