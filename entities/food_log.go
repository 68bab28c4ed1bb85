package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FoodLog is one recognition event. Rows are only ever inserted.
type FoodLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index:idx_food_logs_user_logged_at,priority:1" json:"user_id"`
	LoggedAt   time.Time      `gorm:"index:idx_food_logs_user_logged_at,priority:2,sort:desc" json:"timestamp"`
	FoodName   string         `json:"food_name"`
	Confidence float64        `json:"confidence"`
	Weight     float64        `json:"weight"`
	Nutrition  datatypes.JSON `json:"nutrition"`
	ImageURL   string         `json:"image_url,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
}
