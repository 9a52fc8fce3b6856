package handlers

import (
	"net/http"
	"time"
)

const serviceName = "support-chat-backend"

type HealthHandler struct {
	primaryModel string
}

// NewHealthHandler reports the first candidate model as the service's
// nominal model.
func NewHealthHandler(primaryModel string) *HealthHandler {
	return &HealthHandler{primaryModel: primaryModel}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"model":     h.primaryModel,
	})
}
