package handlers

import (
	"net/http"

	"media-preview/internal/startup"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register adds every route to router. /metrics is only served when
// withMetrics is set.
func (h *Handlers) Register(router *mux.Router, withMetrics bool) {
	router.HandleFunc("/healthz", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("liveness")
	router.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet).Name("readiness")

	// Registered on the root router so a wrong method answers 405, not 404
	router.HandleFunc("/api/process", h.Process).Methods(http.MethodPost).Name("process")
	router.HandleFunc("/api/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	if withMetrics {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("metrics")
	}
}

// GetVersion writes the build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, startup.GetBuildInfo())
}
