package web

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the page, API and operational routes
func NewRouter(h *Handlers, exposeMetrics bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /estimate", h.Submit)
	mux.HandleFunc("POST /estimate", h.Submit)

	mux.HandleFunc("POST /api/estimate", h.APIEstimate)
	mux.HandleFunc("GET /api/policies", h.Policies)
	mux.HandleFunc("GET /api/history", h.History)

	mux.HandleFunc("GET /healthz", h.Health)
	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return mux
}
