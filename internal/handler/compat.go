package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/service"
)

// CompatHandler serves the third-party branding protocol under
// /sbserver. It is read-only: submission endpoints of the emulated
// server answer 404 with an explanation instead of accepting writes.
type CompatHandler struct {
	svc *service.BrandingService
}

func NewCompatHandler(svc *service.BrandingService) *CompatHandler {
	return &CompatHandler{svc: svc}
}

// GetBranding handles GET /sbserver/api/branding?videoID=X
func (h *CompatHandler) GetBranding(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(fiber.Query[string](c, "videoID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}
	fetchAll := fiber.Query[bool](c, "fetchAll")
	returnUserID := fiber.Query[bool](c, "returnUserID")
	serviceName := fiber.Query[string](c, "service")

	branding, found, err := h.svc.VideoBranding(videoID, fetchAll, returnUserID, serviceName)
	if err != nil {
		return serviceError(c, err)
	}
	if !found {
		// Clients read the status, not the body, to detect "no
		// branding"; the payload still carries the random time.
		return c.Status(fiber.StatusNotFound).JSON(branding)
	}
	return c.JSON(branding)
}

// GetBrandingChunk handles GET /sbserver/api/branding/:hashPrefix —
// the k-anonymous bulk variant keyed by a fixed 4-character prefix.
func (h *CompatHandler) GetBrandingChunk(c fiber.Ctx) error {
	prefix := c.Params("hashPrefix")
	fetchAll := fiber.Query[bool](c, "fetchAll")
	returnUserID := fiber.Query[bool](c, "returnUserID")
	serviceName := fiber.Query[string](c, "service")

	chunk, found, err := h.svc.ChunkBranding(prefix, fetchAll, returnUserID, serviceName)
	if err != nil {
		return serviceError(c, err)
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(chunk)
	}
	return c.JSON(chunk)
}

// GetUserInfo handles GET /sbserver/api/userInfo?publicUserID=X
func (h *CompatHandler) GetUserInfo(c fiber.Ctx) error {
	userID := fiber.Query[string](c, "publicUserID")
	if userID == "" {
		userID = fiber.Query[string](c, "userID")
	}
	userID, errMsg := middleware.ValidateUserID(userID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_USER_ID", errMsg)
	}

	info, err := h.svc.UserInfo(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(info)
}

// SubmitNotSupported handles POST /sbserver/api/branding. This server
// is a read-only mirror; submissions belong upstream.
func (h *CompatHandler) SubmitNotSupported(c fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusNotFound,
		"NOT_SUPPORTED", "This is a read-only mirror. Submit to the upstream server instead.")
}

// NotEmulated is the catch-all for /sbserver routes the mirror does
// not implement.
func (h *CompatHandler) NotEmulated(c fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusNotFound,
		"NOT_EMULATED", "This endpoint of the upstream server is not emulated here.")
}
