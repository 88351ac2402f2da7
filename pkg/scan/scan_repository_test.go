package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Item{}, &entities.QRScanLog{}))
	return db
}

func seedUserAndItem(t *testing.T, db *gorm.DB) (*entities.User, *entities.Item) {
	t.Helper()

	u := &entities.User{
		ID:       uuid.New(),
		Username: "inspector1",
		Password: "hashed",
		Role:     domain.RoleWorker,
	}
	require.NoError(t, db.Create(u).Error)

	it := &entities.Item{
		ID:          uuid.New(),
		UUIDToken:   "a3bb189e-8bf9-4888-9912-ace4e6543002",
		ItemType:    "Elastic Rail Clip",
		DynamicData: datatypes.JSONMap{},
		CreatedByID: u.ID,
	}
	require.NoError(t, db.Create(it).Error)

	return u, it
}

func TestScanRepository_CreateAndListByItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewScanRepository(db)
	user, item := seedUserAndItem(t, db)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		log := &entities.QRScanLog{
			ID:          uuid.New(),
			ItemID:      item.ID,
			ScannedByID: user.ID,
			Location:    fmt.Sprintf("KM 42+%d00", i),
			ScannedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.CreateScanLog(ctx, log))
	}

	logs, err := repo.GetScanLogsByItem(ctx, item.ID.String())
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Newest first.
	for i := 0; i < len(logs)-1; i++ {
		assert.True(t, !logs[i].ScannedAt.Before(logs[i+1].ScannedAt),
			"scan logs must be ordered newest first")
	}

	require.NotNil(t, logs[0].ScannedBy)
	assert.Equal(t, "inspector1", logs[0].ScannedBy.Username)
}

func TestScanRepository_ListIsScopedToItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewScanRepository(db)
	user, item := seedUserAndItem(t, db)
	ctx := context.Background()

	other := &entities.Item{
		ID:          uuid.New(),
		UUIDToken:   "b3bb189e-8bf9-4888-9912-ace4e6543002",
		ItemType:    "Rail Pad",
		DynamicData: datatypes.JSONMap{},
		CreatedByID: user.ID,
	}
	require.NoError(t, db.Create(other).Error)

	for _, target := range []*entities.Item{item, item, other} {
		require.NoError(t, repo.CreateScanLog(ctx, &entities.QRScanLog{
			ID:          uuid.New(),
			ItemID:      target.ID,
			ScannedByID: user.ID,
			ScannedAt:   time.Now(),
		}))
	}

	logs, err := repo.GetScanLogsByItem(ctx, item.ID.String())
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	logs, err = repo.GetScanLogsByItem(ctx, other.ID.String())
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestScanRepository_EmptyHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewScanRepository(db)
	_, item := seedUserAndItem(t, db)

	logs, err := repo.GetScanLogsByItem(context.Background(), item.ID.String())
	require.NoError(t, err)
	assert.Empty(t, logs)
}
