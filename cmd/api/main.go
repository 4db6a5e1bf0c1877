package main

import (
	"context"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"wanderlist/internal/config"
	"wanderlist/internal/repository"
	"wanderlist/internal/server"
	"wanderlist/internal/token"
	"wanderlist/internal/uploads"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.ValidateAPI(); err != nil {
		// No signing secret means tokens could never be verified; refusing to
		// start beats silently issuing unverifiable tokens.
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	tokens, err := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token service", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Login throttling is optional; without Redis the endpoint is unthrottled.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		logger.Info("Login rate limiting enabled", zap.String("redis", cfg.Redis.Addr))
	}

	// Object-storage presigning is optional; without a bucket the upload
	// routes are simply not registered.
	var presigner *uploads.Presigner
	if cfg.Storage.Bucket != "" {
		presigner, err = uploads.New(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to initialize upload presigner", zap.Error(err))
		}
		logger.Info("Upload presigning enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	srv := server.NewServer(db, cfg, tokens, presigner, redisClient, logger, log)
	srv.Run(cfg.Server.Port)
}
