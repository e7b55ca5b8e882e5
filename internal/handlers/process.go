package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"media-preview/internal/logging"
	"media-preview/internal/pipeline"
)

// maxRequestBytes bounds the job envelope.
const maxRequestBytes = 1 << 20

// Process runs one job from a JSON envelope and returns its result.
//
// 400 for malformed or invalid jobs, 503 when the client gives up while
// waiting for a slot, 500 when processing fails.
func (h *Handlers) Process(w http.ResponseWriter, r *http.Request) {
	var job pipeline.Job
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&job); err != nil {
		writeJSONError(w, "malformed job: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := job.Validate(); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	release, err := h.slots.Acquire(r.Context())
	if err != nil {
		logging.Debug("Gave up waiting for a job slot: %v", err)
		writeJSONError(w, "no processing slot available", http.StatusServiceUnavailable)
		return
	}
	defer release()

	result, err := h.processor.Process(r.Context(), job)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidJob) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, result)
}
