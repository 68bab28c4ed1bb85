package handlers

import (
	"errors"
	"strings"

	"food-recognizer/domain"
	"food-recognizer/internal/api/presenters"
	"food-recognizer/pkg/foodlog"

	"github.com/gofiber/fiber/v2"
)

type (
	FoodLogHandler interface {
		GetFoodLogs(c *fiber.Ctx) error
	}

	foodLogHandler struct {
		foodLogService foodlog.FoodLogService
	}
)

func NewFoodLogHandler(foodLogService foodlog.FoodLogService) FoodLogHandler {
	return &foodLogHandler{foodLogService: foodLogService}
}

func (h *foodLogHandler) GetFoodLogs(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("userId"))

	logs, err := h.foodLogService.QueryRecent(c.UserContext(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserIDRequired):
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedUserIDRequired, err)
		case errors.Is(err, domain.ErrValidationFailure):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetFoodLogs, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetFoodLogs, err)
	}

	return presenters.SuccessResponse(c, logs, fiber.StatusOK, domain.MessageSuccessGetFoodLogs)
}
