package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"uniqueIndex;not null" json:"username"`
	Email    string    `json:"email,omitempty"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `json:"role"`

	FoodLogs []*FoodLog `gorm:"foreignKey:UserID"`
	Timestamp
}
