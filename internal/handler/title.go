package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/service"
)

type TitleHandler struct {
	svc *service.QueryService
}

func NewTitleHandler(svc *service.QueryService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

// GetByUUID handles GET /api/titles/:uuid
func (h *TitleHandler) GetByUUID(c fiber.Ctx) error {
	uuid, errMsg := middleware.ValidateUUID(c.Params("uuid"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_UUID", errMsg)
	}

	title, err := h.svc.TitleByUUID(uuid)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(title)
}

// GetByVideo handles GET /api/titles/video_id/:videoId — the audit
// view: every title for the video, removed ones included.
func (h *TitleHandler) GetByVideo(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	titles, err := h.svc.TitlesByVideo(videoID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(titles)
}

// GetByUser handles GET /api/titles/user_id/:userId
func (h *TitleHandler) GetByUser(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_USER_ID", errMsg)
	}
	page, pageSize := pageFromQuery(c)

	titles, err := h.svc.TitlesByUser(userID, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(titles)
}

// List handles GET /api/titles with filter, sort, and pagination
// query parameters.
func (h *TitleHandler) List(c fiber.Ctx) error {
	f, errMsg := filterFromQuery(c)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PARAM", errMsg)
	}
	page, pageSize := pageFromQuery(c)

	titles, err := h.svc.ListTitles(f, page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(titles)
}

// filterFromQuery decodes the shared listing filter parameters.
func filterFromQuery(c fiber.Ctx) (service.Filter, string) {
	var f service.Filter

	if videoID := fiber.Query[string](c, "videoId"); videoID != "" {
		id, errMsg := middleware.ValidateVideoID(videoID)
		if errMsg != "" {
			return f, errMsg
		}
		f.VideoID = id
	}
	if userID := fiber.Query[string](c, "userId"); userID != "" {
		id, errMsg := middleware.ValidateUserID(userID)
		if errMsg != "" {
			return f, errMsg
		}
		f.UserID = id
	}
	if raw := fiber.Query[string](c, "minScore"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return f, "minScore must be an integer"
		}
		min := int32(v)
		f.MinScore = &min
	}
	if raw := fiber.Query[string](c, "original"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "original must be a boolean"
		}
		f.Original = &v
	}
	if raw := fiber.Query[string](c, "locked"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "locked must be a boolean"
		}
		f.Locked = &v
	}
	if raw := fiber.Query[string](c, "visible"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, "visible must be a boolean"
		}
		f.VisibleOnly = v
	}

	switch fiber.Query[string](c, "sort") {
	case "", "newest":
		f.Sort = service.SortNewest
	case "score":
		f.Sort = service.SortScore
	default:
		return f, "sort must be one of: newest, score"
	}
	return f, ""
}

func pageFromQuery(c fiber.Ctx) (int, int) {
	page := fiber.Query[int](c, "page", 1)
	pageSize := fiber.Query[int](c, "pageSize", 20)
	return page, pageSize
}
