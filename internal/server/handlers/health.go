package handlers

import (
	"net/http"
)

// HealthHandler отвечает на пробы живости
type HealthHandler struct {
	appName string
}

// NewHealthHandler создает health handler
func NewHealthHandler(appName string) *HealthHandler {
	return &HealthHandler{appName: appName}
}

// Health обрабатывает GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	respond(w, http.StatusOK, "healthy", map[string]string{
		"app":    h.appName,
		"status": "ok",
	})
	return nil
}
