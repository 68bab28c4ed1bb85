package foodlog

import (
	"context"

	"food-recognizer/entities"

	"gorm.io/gorm"
)

type (
	FoodLogRepository interface {
		AppendFoodLog(ctx context.Context, entry *entities.FoodLog) error
		GetRecentFoodLogs(ctx context.Context, userID string, limit int) ([]*entities.FoodLog, error)
	}

	foodLogRepository struct {
		db *gorm.DB
	}
)

func NewFoodLogRepository(db *gorm.DB) FoodLogRepository {
	return &foodLogRepository{db: db}
}

func (r *foodLogRepository) AppendFoodLog(ctx context.Context, entry *entities.FoodLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(entry).Error
}

func (r *foodLogRepository) GetRecentFoodLogs(ctx context.Context, userID string, limit int) ([]*entities.FoodLog, error) {
	var logs []*entities.FoodLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
