package foodlog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	migration "food-recognizer/cmd/database/migrate"
	"food-recognizer/domain"
	"food-recognizer/entities"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	u := &entities.User{ID: uuid.New(), Username: name, Password: "x", Role: domain.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u.ID.String()
}

func TestAppendAndQueryRecent(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(NewFoodLogRepository(db))
	ctx := context.Background()
	userID := seedUser(t, db, "alice")

	n := domain.Nutrition{Calories: 532, Protein: 22, Carbs: 66, Fat: 20}
	saved, err := svc.Append(ctx, Entry{
		UserID:     userID,
		LoggedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		FoodName:   "pizza",
		Confidence: 0.93,
		Weight:     200,
		Nutrition:  n,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	logs, err := svc.QueryRecent(ctx, userID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "pizza", logs[0].FoodName)
	assert.Equal(t, n, logs[0].Nutrition)
	assert.Equal(t, 200.0, logs[0].Weight)
	assert.InDelta(t, 0.93, logs[0].Confidence, 1e-9)
	assert.True(t, logs[0].Timestamp.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestQueryRecent_NewestFirstCappedAt15(t *testing.T) {
	db := newTestDB(t)
	svc := NewFoodLogService(NewFoodLogRepository(db))
	ctx := context.Background()
	userID := seedUser(t, db, "bob")
	otherID := seedUser(t, db, "carol")

	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		_, err := svc.Append(ctx, Entry{
			UserID:    userID,
			LoggedAt:  start.Add(time.Duration(i) * time.Minute),
			FoodName:  "meal",
			Weight:    float64(i + 1),
			Nutrition: domain.Nutrition{Calories: float64(i)},
		})
		require.NoError(t, err)
	}
	_, err := svc.Append(ctx, Entry{UserID: otherID, LoggedAt: start.Add(time.Hour), FoodName: "sushi", Weight: 100})
	require.NoError(t, err)

	logs, err := svc.QueryRecent(ctx, userID)
	require.NoError(t, err)
	require.Len(t, logs, RecentLogLimit)

	assert.Equal(t, 20.0, logs[0].Weight)
	assert.Equal(t, 6.0, logs[RecentLogLimit-1].Weight)
	for i := 1; i < len(logs); i++ {
		assert.True(t, logs[i-1].Timestamp.After(logs[i].Timestamp))
		assert.NotEqual(t, "sushi", logs[i].FoodName)
	}
}

func TestQueryRecent_Validation(t *testing.T) {
	svc := NewFoodLogService(NewFoodLogRepository(newTestDB(t)))

	_, err := svc.QueryRecent(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUserIDRequired)

	_, err = svc.QueryRecent(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
	assert.ErrorIs(t, err, domain.ErrValidationFailure)

	logs, err := svc.QueryRecent(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, logs)
}

type failingRepository struct{}

func (failingRepository) AppendFoodLog(ctx context.Context, entry *entities.FoodLog) error {
	return errors.New("disk full")
}

func (failingRepository) GetRecentFoodLogs(ctx context.Context, userID string, limit int) ([]*entities.FoodLog, error) {
	return nil, errors.New("disk full")
}

func TestAppend_PersistenceFailure(t *testing.T) {
	svc := NewFoodLogService(failingRepository{})

	_, err := svc.Append(context.Background(), Entry{UserID: uuid.NewString(), FoodName: "pizza"})
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)

	_, err = svc.Append(context.Background(), Entry{UserID: "nope", FoodName: "pizza"})
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}
