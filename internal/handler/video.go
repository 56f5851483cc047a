package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/service"
)

type VideoHandler struct {
	svc *service.QueryService
}

func NewVideoHandler(svc *service.QueryService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Get handles GET /api/videos/:videoId
func (h *VideoHandler) Get(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	video, err := h.svc.Video(videoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(video)
}

// GetRandomSample handles GET /api/videos/:videoId/random — one
// uniformly-picked visible submission plus the random playback time.
func (h *VideoHandler) GetRandomSample(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	sample, err := h.svc.RandomSampleForVideo(videoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(sample)
}

// Search handles GET /api/search/:hashPrefix — k-anonymous lookup by
// a prefix of the sha256 video hash.
func (h *VideoHandler) Search(c fiber.Ctx) error {
	prefix, errMsg := middleware.ValidateHashPrefix(c.Params("hashPrefix"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PREFIX", errMsg)
	}

	videos, err := h.svc.SearchByHashPrefix(prefix)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"prefix": prefix,
		"videos": videos,
	})
}
