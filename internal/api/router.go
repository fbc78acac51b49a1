package api

import (
	"encoding/json"
	"net/http"

	"github.com/eventbook/server/internal/api/middleware"
	"github.com/eventbook/server/internal/config"
	"github.com/eventbook/server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter assembles the HTTP surface: the GraphQL endpoint behind the
// middleware chain, plus health and metrics.
func NewRouter(cfg config.Config, logger zerolog.Logger, graphqlHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", Healthz())
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/graphql", graphqlHandler)

	var h http.Handler = mux
	h = metrics.HTTPMiddleware(h)
	h = middleware.RateLimit(cfg.RateLimit)(h)
	h = middleware.RequestLogging(logger)(h)
	h = middleware.CorrelationID(logger)(h)
	return h
}

// Healthz reports process liveness
func Healthz() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
