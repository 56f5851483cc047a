package handler

import (
	"crypto/sha256"
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/middleware"
)

type ReloadHandler struct {
	store     *dataset.Store
	mirrorDir string
	secret    string
}

func NewReloadHandler(store *dataset.Store, mirrorDir, secret string) *ReloadHandler {
	return &ReloadHandler{store: store, mirrorDir: mirrorDir, secret: secret}
}

// Trigger handles POST /api/reload?auth=SECRET. With no secret
// configured, or no auth parameter offered, the route plays dead with
// a 404 so scanners cannot tell it exists; a wrong secret is a 403.
func (h *ReloadHandler) Trigger(c fiber.Ctx) error {
	if h.secret == "" || !c.RequestCtx().QueryArgs().Has("auth") {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Not found")
	}
	given := fiber.Query[string](c, "auth")
	want := sha256.Sum256([]byte(h.secret))
	got := sha256.Sum256([]byte(given))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Invalid auth")
	}

	start := time.Now()
	stats, err := h.store.Reload(h.mirrorDir)
	reloadOutcome(err, time.Since(start))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stats)
}
