package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/dataset"
)

type HealthHandler struct {
	store   *dataset.Store
	startAt time.Time
}

func NewHealthHandler(store *dataset.Store) *HealthHandler {
	return &HealthHandler{
		store:   store,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live — liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready — readiness probe. The server is
// ready once a snapshot is published; before that queries would only
// return 503s, so load balancers should not route here yet.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	snap := h.store.Current()

	checks := fiber.Map{}
	overallStatus := "healthy"
	if snap == nil {
		checks["snapshot"] = fiber.Map{"status": "absent"}
		overallStatus = "starting"
	} else {
		checks["snapshot"] = fiber.Map{
			"status":       "up",
			"last_updated": snap.LastUpdated.UnixMilli(),
			"titles":       len(snap.Data.Titles),
			"thumbnails":   len(snap.Data.Thumbnails),
		}
	}
	if h.store.Updating() {
		checks["reload"] = fiber.Map{"status": "running"}
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        Version,
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
