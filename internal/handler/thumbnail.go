package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/service"
)

type ThumbnailHandler struct {
	svc *service.QueryService
}

func NewThumbnailHandler(svc *service.QueryService) *ThumbnailHandler {
	return &ThumbnailHandler{svc: svc}
}

// GetByUUID handles GET /api/thumbnails/:uuid
func (h *ThumbnailHandler) GetByUUID(c fiber.Ctx) error {
	uuid, errMsg := middleware.ValidateUUID(c.Params("uuid"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_UUID", errMsg)
	}

	thumb, err := h.svc.ThumbnailByUUID(uuid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thumb)
}

// GetByVideo handles GET /api/thumbnails/video_id/:videoId
func (h *ThumbnailHandler) GetByVideo(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	thumbs, err := h.svc.ThumbnailsByVideo(videoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thumbs)
}

// GetByUser handles GET /api/thumbnails/user_id/:userId
func (h *ThumbnailHandler) GetByUser(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_USER_ID", errMsg)
	}
	page, pageSize := pageFromQuery(c)

	thumbs, err := h.svc.ThumbnailsByUser(userID, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thumbs)
}

// List handles GET /api/thumbnails with the same filter parameters as
// the title listing.
func (h *ThumbnailHandler) List(c fiber.Ctx) error {
	f, errMsg := filterFromQuery(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}
	page, pageSize := pageFromQuery(c)

	thumbs, err := h.svc.ListThumbnails(f, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(thumbs)
}
