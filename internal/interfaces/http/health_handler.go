package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulfillment-planner/internal/application/dto"
)

// Pinger dependencia externa que se puede sondear (pool de PostgreSQL, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio y de sus dependencias.
type HealthHandler struct {
	storeKind string
	store     Pinger
	lockKind  string
	lock      Pinger
}

// NewHealthHandler construye el handler. Un Pinger nil se reporta como siempre disponible
// (store en memoria, lock en proceso).
func NewHealthHandler(storeKind string, store Pinger, lockKind string, lock Pinger) *HealthHandler {
	return &HealthHandler{storeKind: storeKind, store: store, lockKind: lockKind, lock: lock}
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	out := dto.HealthResponse{Status: "ok", Store: h.storeKind, Lock: h.lockKind}
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			out.Status, out.Store = "degraded", h.storeKind+": "+err.Error()
		}
	}
	if h.lock != nil {
		if err := h.lock.Ping(ctx); err != nil {
			out.Status, out.Lock = "degraded", h.lockKind+": "+err.Error()
		}
	}
	if out.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}
