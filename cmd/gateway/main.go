package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"wanderlist/internal/config"
	"wanderlist/internal/gateway"
	"wanderlist/internal/guard"
	"wanderlist/internal/session"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/gateway.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.ValidateGateway(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	sessionKey, err := cfg.SessionKey()
	if err != nil {
		logger.Fatal("Invalid session key", zap.Error(err))
	}

	store := session.NewStore(sessionKey, cfg.Gateway.SecureCookies, cfg.Auth.TokenTTL, logger)
	client := session.NewClient(cfg.Gateway.BackendURL, logger)
	bridge := session.NewBridge(store, client, logger)

	guardCfg := guard.DefaultConfig()
	guardCfg.RedirectAnonymous = cfg.Gateway.RedirectToLogin

	srv, err := gateway.NewServer(cfg, bridge, guard.New(guardCfg), logger, log)
	if err != nil {
		logger.Fatal("Failed to initialize gateway", zap.Error(err))
	}
	srv.Run(cfg.Gateway.Port)
}
