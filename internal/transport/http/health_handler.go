package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"visacli/internal/services"
)

// HealthHandler serves the health endpoint.
type HealthHandler struct {
	health *services.HealthService
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(health *services.HealthService, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		health: health,
		logger: logger.With(slog.String("component", "health_handler")),
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health. A degraded server still answers 200
// so orchestration keeps it alive while it waits for its first dataset.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.health.Check(r.Context())
	render.Status(r, http.StatusOK)
	render.JSON(w, r, status)
}
