package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// StorePinger reports identity store connectivity.
type StorePinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	store StorePinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Live processes GET /health.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready processes GET /health/ready and pings the identity store.
func (h *HealthHandler) Ready(c echo.Context) error {
	if err := h.store.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  "database connection failed",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
