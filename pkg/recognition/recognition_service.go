package recognition

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"food-recognizer/domain"
	"food-recognizer/internal/utils/storage"
	"food-recognizer/pkg/foodlog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	DefaultWeight = 100.0
	archiveFolder = "food-logs"
)

type (
	Summarizer interface {
		Summarize(ctx context.Context, label string) string
	}

	RecognitionService interface {
		Recognize(ctx context.Context, req domain.RecognizeRequest) (domain.RecognitionResponse, error)
	}

	recognitionService struct {
		engine     *Engine
		summarizer Summarizer
		foodLogs   foodlog.FoodLogService
		s3         storage.AwsS3
		validator  *validator.Validate
		now        func() time.Time
	}
)

// NewRecognitionService wires the pipeline. s3 may be nil, in which case
// images are not archived.
func NewRecognitionService(engine *Engine, summarizer Summarizer, foodLogs foodlog.FoodLogService, s3 storage.AwsS3, validate *validator.Validate) RecognitionService {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &recognitionService{
		engine:     engine,
		summarizer: summarizer,
		foodLogs:   foodLogs,
		s3:         s3,
		validator:  validate,
		now:        time.Now,
	}
}

func (s *recognitionService) Recognize(ctx context.Context, req domain.RecognizeRequest) (domain.RecognitionResponse, error) {
	if err := s.validate(req); err != nil {
		return domain.RecognitionResponse{}, err
	}

	if err := s.engine.Ready(); err != nil {
		return domain.RecognitionResponse{}, err
	}

	prediction, err := s.engine.Classify(ctx, req.Image)
	if err != nil {
		if errors.Is(err, domain.ErrValidationFailure) {
			return domain.RecognitionResponse{}, err
		}
		if !errors.Is(err, domain.ErrClassificationFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrClassificationFailure, err)
		}
		return domain.RecognitionResponse{}, err
	}
	if prediction.Label == "" {
		return domain.RecognitionResponse{}, fmt.Errorf("%w: empty label", domain.ErrClassificationFailure)
	}

	nutrition := s.engine.Estimate(prediction.Label, req.Weight)

	summary := ""
	if s.summarizer != nil {
		summary = s.summarizer.Summarize(ctx, prediction.Label)
	}

	objectKey, imageURL := s.archive(ctx, req)

	_, err = s.foodLogs.Append(ctx, foodlog.Entry{
		UserID:     req.UserID,
		LoggedAt:   s.now(),
		FoodName:   prediction.Label,
		Confidence: prediction.Confidence,
		Weight:     req.Weight,
		Nutrition:  nutrition,
		ImageURL:   imageURL,
	})
	if err != nil {
		if objectKey != "" {
			if delErr := s.s3.DeleteFile(ctx, objectKey); delErr != nil {
				log.Warnf("removing archived image %s: %v", objectKey, delErr)
			}
		}
		return domain.RecognitionResponse{}, err
	}

	return domain.RecognitionResponse{
		FoodName:   prediction.Label,
		Confidence: prediction.Confidence,
		Weight:     req.Weight,
		Nutrition:  nutrition,
		Summary:    summary,
		ImageURL:   imageURL,
	}, nil
}

func (s *recognitionService) validate(req domain.RecognizeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return fmt.Errorf("%w: %v", domain.ErrValidationFailure, err)
		}
		switch fe := verrs[0]; fe.Field() {
		case "UserID":
			if fe.Tag() == "required" {
				return domain.ErrUserIDRequired
			}
			return domain.ErrInvalidUserID
		case "Image":
			return domain.ErrImageRequired
		case "Weight":
			return domain.ErrInvalidWeight
		default:
			return fmt.Errorf("%w: %s", domain.ErrValidationFailure, fe.Error())
		}
	}
	if math.IsInf(req.Weight, 0) {
		return domain.ErrInvalidWeight
	}
	return nil
}

// archive uploads the image when an S3 bucket is configured. Failures are
// logged and the log entry is written without a URL.
func (s *recognitionService) archive(ctx context.Context, req domain.RecognizeRequest) (string, string) {
	if s.s3 == nil {
		return "", ""
	}
	fileName := fmt.Sprintf("%s-%s", req.UserID, uuid.NewString())
	key, err := s.s3.UploadFile(ctx, fileName, req.Image, archiveFolder, storage.AllowImage...)
	if err != nil {
		log.Warnf("archiving image for %s: %v", req.UserID, err)
		return "", ""
	}
	return key, s.s3.GetPublicLinkKey(key)
}
