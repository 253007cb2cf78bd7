package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommw "bookpulse/internal/middleware"
	"bookpulse/internal/services"
)

// NewRouter assembles the full HTTP surface: the analytics API under /api
// and the prometheus scrape endpoint at /metrics.
func NewRouter(service *services.AnalyticsService, logger *slog.Logger, registry *prometheus.Registry) http.Handler {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	httpMetrics := custommw.NewHTTPMetrics(registry)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))
	r.Use(httpMetrics.Handler)
	r.Use(custommw.Compress(5))

	handler := NewAnalyticsHandler(service, logger)
	r.Mount("/api", handler.Routes())

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}
