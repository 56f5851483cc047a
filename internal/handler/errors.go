package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/m-curtis/altmeta/internal/dataset"
	"github.com/m-curtis/altmeta/internal/middleware"
)

// serviceError maps dataset sentinel errors onto the API error
// envelope. Anything unrecognized is a 500.
func serviceError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dataset.ErrNoSnapshot):
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable,
			"NO_SNAPSHOT", "Dataset not loaded yet")
	case errors.Is(err, dataset.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound,
			"NOT_FOUND", "Not found")
	case errors.Is(err, dataset.ErrInvalidParameter):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest,
			"INVALID_PARAM", "Invalid query parameter")
	case errors.Is(err, dataset.ErrReloadInProgress):
		return middleware.ErrorResponse(c, fiber.StatusConflict,
			"RELOAD_IN_PROGRESS", "A reload is already running")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError,
			"INTERNAL_ERROR", "Internal error")
	}
}
