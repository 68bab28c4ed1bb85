package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	MessageSuccessRecognizeFood = "food recognized successfully"
	MessageSuccessGetFoodLogs   = "food logs retrieved successfully"

	MessageFailedRecognizeFood   = "failed to recognize food"
	MessageFailedModelInit       = "model initialization failed"
	MessageFailedPredictFood     = "food prediction failed"
	MessageFailedSaveFoodLog     = "failed to save food log"
	MessageFailedGetFoodLogs     = "failed to retrieve food logs"
	MessageFailedUserIDRequired  = "user id required"
	MessageFailedImageRequired   = "no image provided"
	MessageFailedImageProcessing = "image processing failed"

	// ErrInitializationFailure means the classifier or the nutrition table
	// could not be loaded at startup. It is returned for every recognition
	// request for the rest of the process lifetime.
	ErrInitializationFailure = errors.New("model initialization failed")

	// ErrValidationFailure is the parent of every request validation error.
	// No side effects have happened when it is returned.
	ErrValidationFailure = errors.New("validation failed")
	ErrUserIDRequired    = fmt.Errorf("%w: user id required", ErrValidationFailure)
	ErrInvalidUserID     = fmt.Errorf("%w: user id must be a valid uuid", ErrValidationFailure)
	ErrImageRequired     = fmt.Errorf("%w: no image provided", ErrValidationFailure)
	ErrInvalidImage      = fmt.Errorf("%w: image could not be decoded", ErrValidationFailure)
	ErrInvalidWeight     = fmt.Errorf("%w: weight must be a positive number", ErrValidationFailure)

	ErrClassificationFailure = errors.New("food prediction failed")

	// Recovered locally, never surfaced to HTTP callers.
	ErrLookupMiss              = errors.New("no nutrition match")
	ErrNutritionTableMalformed = errors.New("nutrition table malformed")
	ErrSummaryUnavailable      = errors.New("summary unavailable")

	ErrPersistenceFailure = errors.New("failed to persist food log")
)

type (
	// Nutrition is an estimate for one serving. Field names match the
	// payload the dashboard renders.
	Nutrition struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	}

	RecognizeRequest struct {
		UserID      string  `validate:"required,uuid"`
		Image       []byte  `validate:"required,min=1"`
		Weight      float64 `validate:"gt=0"`
		ImageName   string
		ContentType string
	}

	RecognitionResponse struct {
		FoodName   string    `json:"foodName"`
		Confidence float64   `json:"confidence"`
		Weight     float64   `json:"weight"`
		Nutrition  Nutrition `json:"nutrition"`
		Summary    string    `json:"summary"`
		ImageURL   string    `json:"imageUrl,omitempty"`
	}

	FoodLogResponse struct {
		ID         string    `json:"id"`
		Timestamp  time.Time `json:"timestamp"`
		FoodName   string    `json:"foodName"`
		Confidence float64   `json:"confidence"`
		Weight     float64   `json:"weight"`
		Nutrition  Nutrition `json:"nutrition"`
		ImageURL   string    `json:"imageUrl,omitempty"`
	}
)
