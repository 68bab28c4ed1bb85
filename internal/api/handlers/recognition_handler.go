package handlers

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"food-recognizer/domain"
	"food-recognizer/internal/api/presenters"
	"food-recognizer/pkg/recognition"

	"github.com/gofiber/fiber/v2"
)

type (
	RecognitionHandler interface {
		Recognize(c *fiber.Ctx) error
	}

	recognitionHandler struct {
		recognitionService recognition.RecognitionService
	}
)

func NewRecognitionHandler(recognitionService recognition.RecognitionService) RecognitionHandler {
	return &recognitionHandler{recognitionService: recognitionService}
}

func (h *recognitionHandler) Recognize(c *fiber.Ctx) error {
	req := domain.RecognizeRequest{
		UserID: strings.TrimSpace(c.FormValue("userId")),
		Weight: recognition.DefaultWeight,
	}

	if raw := strings.TrimSpace(c.FormValue("weight")); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecognizeFood, domain.ErrInvalidWeight)
		}
		req.Weight = weight
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImageProcessing, err)
		}
		defer file.Close()

		req.Image, err = io.ReadAll(file)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImageProcessing, err)
		}
		req.ImageName = fileHeader.Filename
		req.ContentType = fileHeader.Header.Get(fiber.HeaderContentType)
	}

	res, err := h.recognitionService.Recognize(c.UserContext(), req)
	if err != nil {
		status, message := recognitionErrorStatus(err)
		return presenters.ErrorResponse(c, status, message, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRecognizeFood)
}

func recognitionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserIDRequired):
		return fiber.StatusUnauthorized, domain.MessageFailedUserIDRequired
	case errors.Is(err, domain.ErrImageRequired):
		return fiber.StatusBadRequest, domain.MessageFailedImageRequired
	case errors.Is(err, domain.ErrInvalidImage):
		return fiber.StatusBadRequest, domain.MessageFailedImageProcessing
	case errors.Is(err, domain.ErrValidationFailure):
		return fiber.StatusBadRequest, domain.MessageFailedRecognizeFood
	case errors.Is(err, domain.ErrInitializationFailure):
		return fiber.StatusInternalServerError, domain.MessageFailedModelInit
	case errors.Is(err, domain.ErrClassificationFailure):
		return fiber.StatusInternalServerError, domain.MessageFailedPredictFood
	case errors.Is(err, domain.ErrPersistenceFailure):
		return fiber.StatusInternalServerError, domain.MessageFailedSaveFoodLog
	default:
		return fiber.StatusInternalServerError, domain.MessageFailedRecognizeFood
	}
}
