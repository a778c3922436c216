package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler runs every registered check and reports 503 if any fails.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.HealthChecks))
	for name := range h.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	response := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	for _, name := range names {
		if err := h.HealthChecks[name](ctx); err != nil {
			response.Checks[name] = err.Error()
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Checks[name] = "ok"
	}

	WriteSuccess(w, response, status)
}
