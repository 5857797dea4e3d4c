package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Authcult/tradingagents-api/internal/config"
	"github.com/Authcult/tradingagents-api/internal/platform/engine"
	"github.com/Authcult/tradingagents-api/internal/task"
)

// Service identity reported by the metadata and health endpoints.
const (
	appName    = "TradingAgents API"
	appVersion = "1.0.0"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	registry      task.Registry
	engineFactory *engine.Factory
	executor      *task.Executor
	queryService  *task.QueryService
}

// newApplication creates an application instance with all dependencies
// initialized. State is in-memory only; there is nothing to connect to.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.registry = task.NewMemoryRegistry()

	app.engineFactory = engine.NewFactory(cfg.Engine, logger)
	if avail := app.engineFactory.Availability(); avail.Available {
		logger.Info("analysis engine ready", "model", cfg.Engine.ModelName)
	} else {
		logger.Warn("analysis engine unavailable, tasks will use simulated results",
			"reason", avail.Reason)
	}

	app.executor = task.NewExecutor(
		app.registry,
		app.engineFactory,
		task.ExecutorConfig{
			MaxConcurrent:    cfg.Task.MaxConcurrent,
			ExecutionTimeout: cfg.Task.ExecutionTimeout,
			MaxFinished:      cfg.Task.MaxFinished,
		},
		logger,
	)

	app.queryService = task.NewQueryService(app.registry)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources: in-flight
// analyses get a bounded window to finish reporting into the registry.
func (app *application) cleanup() {
	if app.executor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := app.executor.Shutdown(ctx); err != nil {
			app.logger.Warn("task executor did not drain before shutdown", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
