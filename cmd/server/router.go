package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Authcult/tradingagents-api/internal/api"
	apiMiddleware "github.com/Authcult/tradingagents-api/internal/api/middleware"
	"github.com/Authcult/tradingagents-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	analysisHandler := api.NewAnalysisHandler(app.executor, app.queryService, app.logger)
	healthHandler := api.NewHealthHandler(appName, appVersion, app.engineFactory.Availability, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", app.apiRoot)

		r.Route("/analysis", func(r chi.Router) {
			r.Post("/single", analysisHandler.Submit)
			r.Post("/batch", analysisHandler.SubmitBatch)
			r.Get("/analysts", analysisHandler.GetAnalysts)
			r.Get("/tasks", analysisHandler.ListTasks)
			r.Get("/tasks/{id}/status", analysisHandler.GetStatus)
			r.Get("/tasks/{id}/result", analysisHandler.GetResult)
			r.Delete("/tasks/{id}", analysisHandler.DeleteTask)
		})

		r.Route("/health", func(r chi.Router) {
			r.Get("/", healthHandler.Check)
			r.Get("/status", healthHandler.DetailedStatus)
			r.Get("/ping", healthHandler.Ping)
		})
	})

	r.Get("/", app.root)

	return r
}

// root handles GET / with service metadata.
func (app *application) root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"name":      appName,
		"version":   appVersion,
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// apiRoot handles GET /api with an endpoint directory.
func (app *application) apiRoot(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"message": "Welcome to TradingAgents API",
		"version": appVersion,
		"endpoints": map[string]string{
			"health":   "/api/health",
			"analysis": "/api/analysis",
		},
	})
}
