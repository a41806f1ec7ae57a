package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/catalog"
	"github.com/marcelsud/webhook-relay/relay"
)

// Handlers sets up the relay admin and producer API routes
func Handlers(ctx context.Context, engine relay.UseCase, cat *catalog.Loader, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-relay", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Relay API routes
	r.Route("/v1", func(r chi.Router) {
		// Producer ingestion
		r.Post("/events/{event_type}", postEvent(engine, cat).ServeHTTP)

		// Queue and history reads
		r.Get("/status", getStatus(engine).ServeHTTP)
		r.Get("/logs", getLogs(engine).ServeHTTP)
		r.Get("/logs/stats", getStats(engine).ServeHTTP)
		r.Get("/errors", getErrors(engine).ServeHTTP)

		// Operator actions
		r.Post("/errors/{id}/resolve", postResolve(engine).ServeHTTP)
		r.Post("/retry", postRetry(engine).ServeHTTP)
		r.Post("/probe", postProbe(engine).ServeHTTP)
		r.Post("/sync", postSync(engine).ServeHTTP)

		// Known event types
		r.Get("/catalog", getCatalog(cat).ServeHTTP)
	})

	return r
}
