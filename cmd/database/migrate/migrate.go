package migration

import (
	"fmt"

	"food-recognizer/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Warnf("uuid-ossp extension: %v", err)
		}
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("migrating user table: %w", err)
	}
	if err := db.AutoMigrate(&entities.FoodLog{}); err != nil {
		return fmt.Errorf("migrating food log table: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
