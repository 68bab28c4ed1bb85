package foodlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-recognizer/domain"
	"food-recognizer/entities"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecentLogLimit caps how many entries a history query returns.
const RecentLogLimit = 15

type (
	Entry struct {
		UserID     string
		LoggedAt   time.Time
		FoodName   string
		Confidence float64
		Weight     float64
		Nutrition  domain.Nutrition
		ImageURL   string
	}

	FoodLogService interface {
		Append(ctx context.Context, entry Entry) (domain.FoodLogResponse, error)
		QueryRecent(ctx context.Context, userID string) ([]domain.FoodLogResponse, error)
	}

	foodLogService struct {
		foodLogRepository FoodLogRepository
	}
)

func NewFoodLogService(foodLogRepository FoodLogRepository) FoodLogService {
	return &foodLogService{foodLogRepository: foodLogRepository}
}

// Append stores one entry. Every failure, including bad input, is reported as
// domain.ErrPersistenceFailure.
func (s *foodLogService) Append(ctx context.Context, entry Entry) (domain.FoodLogResponse, error) {
	userID, err := uuid.Parse(entry.UserID)
	if err != nil {
		return domain.FoodLogResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, domain.ErrParseUUID)
	}

	nutrition, err := json.Marshal(entry.Nutrition)
	if err != nil {
		return domain.FoodLogResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	loggedAt := entry.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	row := &entities.FoodLog{
		ID:         uuid.New(),
		UserID:     userID,
		LoggedAt:   loggedAt.UTC(),
		FoodName:   entry.FoodName,
		Confidence: entry.Confidence,
		Weight:     entry.Weight,
		Nutrition:  datatypes.JSON(nutrition),
		ImageURL:   entry.ImageURL,
	}
	if err := s.foodLogRepository.AppendFoodLog(ctx, row); err != nil {
		return domain.FoodLogResponse{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}

	return toResponse(row), nil
}

func (s *foodLogService) QueryRecent(ctx context.Context, userID string) ([]domain.FoodLogResponse, error) {
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrInvalidUserID
	}

	rows, err := s.foodLogRepository.GetRecentFoodLogs(ctx, userID, RecentLogLimit)
	if err != nil {
		return nil, err
	}

	res := make([]domain.FoodLogResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, toResponse(row))
	}
	return res, nil
}

func toResponse(row *entities.FoodLog) domain.FoodLogResponse {
	var nutrition domain.Nutrition
	if err := json.Unmarshal(row.Nutrition, &nutrition); err != nil {
		log.Warnf("food log %s has unreadable nutrition: %v", row.ID, err)
	}
	return domain.FoodLogResponse{
		ID:         row.ID.String(),
		Timestamp:  row.LoggedAt.UTC(),
		FoodName:   row.FoodName,
		Confidence: row.Confidence,
		Weight:     row.Weight,
		Nutrition:  nutrition,
		ImageURL:   row.ImageURL,
	}
}
