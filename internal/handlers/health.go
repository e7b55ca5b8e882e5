package handlers

import (
	"net/http"
	"runtime"
	"sort"
	"time"

	"media-preview/internal/startup"
)

const (
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Checks       map[string]string `json:"checks"`
	SlotsInUse   int               `json:"slotsInUse"`
	SlotsTotal   int               `json:"slotsTotal"`
	MemoryUsage  float64           `json:"memoryUsage"`
	MemoryPaused bool              `json:"memoryPaused"`
	NumGoroutine int               `json:"numGoroutine"`
}

// LivenessCheck always returns 200 while the server is running.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// HEAD gets headers only
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{"status": "alive"})
	}
}

// ReadinessCheck returns 200 when every dependency check passes.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	resp := ReadinessResponse{
		Status:       statusReady,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Checks:       make(map[string]string, len(h.checks)),
		SlotsInUse:   h.slots.InUse(),
		SlotsTotal:   h.slots.Size(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	if h.memory != nil {
		resp.MemoryUsage = h.memory.Usage()
		resp.MemoryPaused = h.memory.Paused()
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name](); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = statusNotReady
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != statusReady {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	writeJSON(w, resp)
}
