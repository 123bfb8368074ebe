package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/imagehost"
	"storefront/internal/middleware"
	"storefront/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	images http.Handler,
	metrics *telemetry.Metrics,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Order: RequestID -> Logging -> Metrics -> Recovery -> CORS
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusFound)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListPage)
		r.Get("/{id}", productHandler.DetailPage)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.ListAPI)
		r.Get("/{id}", productHandler.DetailAPI)
	})

	r.Handle(imagehost.ProxyPath, images)

	return r
}
