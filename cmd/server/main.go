package main

import (
	"os"

	"github.com/juliusmarkwei/swift-send/internal/config"
	"github.com/juliusmarkwei/swift-send/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			panic(err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	// Setup and start server
	srv, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}

	if err := StartServer(srv); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
