package handlers

import (
	"net/http"

	"github.com/markdave123-py/joba/internal/services"
)

type HealthHandler struct {
	health *services.HealthService
}

func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Check reports component health; any degraded component turns the whole
// response into a 503.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
