package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/middleware"
	"github.com/m-curtis/altmeta/internal/service"
)

type UserHandler struct {
	svc *service.QueryService
}

func NewUserHandler(svc *service.QueryService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Get handles GET /api/users/user_id/:userId. Unknown users are not a
// 404: the profile echoes the id with zero counts, since the dataset
// cannot distinguish "never submitted" from "does not exist".
func (h *UserHandler) Get(c fiber.Ctx) error {
	userID, errMsg := middleware.ValidateUserID(c.Params("userId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_USER_ID", errMsg)
	}

	user, err := h.svc.User(userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}
