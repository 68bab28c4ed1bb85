package migration

import (
	"path/filepath"
	"testing"

	"food-recognizer/entities"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&entities.User{}))
	assert.True(t, db.Migrator().HasTable(&entities.FoodLog{}))
	assert.True(t, db.Migrator().HasIndex(&entities.FoodLog{}, "idx_food_logs_user_logged_at"))
}
