// Package main implements the entry point for the TradingAgents API
// server, which accepts asynchronous multi-agent stock analysis tasks
// and exposes their lifecycle for polling.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/Authcult/tradingagents-api/internal/config"
	"github.com/Authcult/tradingagents-api/internal/platform/logger"
)

func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"max_concurrent_tasks", cfg.Task.MaxConcurrent,
		"engine_key_present", cfg.Engine.GeminiAPIKey != "")

	return cfg, appLogger, nil
}
