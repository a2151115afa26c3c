package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/arcana-api/internal/api"
	apiMiddleware "github.com/phrazzld/arcana-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	readingHandler := api.NewReadingHandler(app.readingService, app.logger)
	catalogHandler := api.NewCatalogHandler(app.cardCatalog, app.spreadCatalog, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/cards", catalogHandler.ListCards)
		r.Get("/cards/{id}", catalogHandler.GetCard)
		r.Get("/spreads", catalogHandler.ListSpreads)
		r.Get("/spreads/{id}", catalogHandler.GetSpread)

		// Reading session endpoints
		r.Post("/readings", readingHandler.CreateReading)
		r.Get("/readings", readingHandler.GetHistory)
		r.Get("/readings/{id}", readingHandler.GetReading)
		r.Delete("/readings/{id}", readingHandler.Abort)
		r.Post("/readings/{id}/deal", readingHandler.Deal)
		r.Post("/readings/{id}/cards", readingHandler.SelectCard)
		r.Post("/readings/{id}/retry", readingHandler.Retry)
		r.Post("/readings/{id}/reset", readingHandler.Reset)
		r.Post("/readings/{id}/save", readingHandler.SaveReading)
	})

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
