package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/service"
)

type StatusHandler struct {
	svc *service.QueryService
}

func NewStatusHandler(svc *service.QueryService) *StatusHandler {
	return &StatusHandler{svc: svc}
}

// Get handles GET /api/status. Always answers, even before the first
// reload, so dashboards can poll it from startup.
func (h *StatusHandler) Get(c fiber.Ctx) error {
	return c.JSON(h.svc.Status())
}
