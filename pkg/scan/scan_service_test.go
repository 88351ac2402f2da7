package scan

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"
	"rail-qr-backend/pkg/item"
	"rail-qr-backend/pkg/qr"
	"rail-qr-backend/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubS3 struct{}

func (stubS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	return dir + "/" + fileName, nil
}
func (stubS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}
func (stubS3) DeleteFile(string) error             { return nil }
func (stubS3) DownloadFile(string) ([]byte, error) { return nil, gorm.ErrRecordNotFound }
func (stubS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}
func (stubS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://bucket.s3.test.amazonaws.com/")
}

func newScanStack(t *testing.T) (ScanService, item.ItemService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	itemService := item.NewItemService(
		item.NewItemRepository(db),
		token.NewGenerator(),
		qr.NewEncoder(filepath.Join(t.TempDir(), "qrcodes")),
		stubS3{},
		"http://localhost:5173",
		false,
	)
	scanService := NewScanService(NewScanRepository(db), itemService)
	return scanService, itemService, db
}

func TestScanService_ScanToken(t *testing.T) {
	scanService, itemService, db := newScanStack(t)
	ctx := context.Background()

	worker := &entities.User{ID: uuid.New(), Username: "worker1", Password: "hashed", Role: domain.RoleWorker}
	require.NoError(t, db.Create(worker).Error)

	created, err := itemService.CreateItem(ctx, domain.CreateItemRequest{ItemType: "Elastic Rail Clip"}, worker.ID.String())
	require.NoError(t, err)

	res, err := scanService.ScanToken(ctx, created.Item.UUIDToken, domain.ScanRequest{Location: "KM 42+300"}, worker.ID.String())
	require.NoError(t, err)

	assert.Equal(t, created.Item.ID, res.Item.ID)
	assert.Equal(t, created.Item.ID, res.ScanLog.ItemID)
	assert.Equal(t, "KM 42+300", res.ScanLog.Location)
	assert.False(t, res.ScanLog.ScannedAt.IsZero())

	history, err := scanService.GetScanHistory(ctx, created.Item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.ScanLog.ID, history[0].ID)
	assert.Equal(t, "worker1", history[0].ScannedBy)
}

func TestScanService_ScanTokenMalformed(t *testing.T) {
	scanService, _, _ := newScanStack(t)

	_, err := scanService.ScanToken(context.Background(), "not-a-token", domain.ScanRequest{}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInvalidTokenFormat)
}

func TestScanService_ScanTokenUnknown(t *testing.T) {
	scanService, _, _ := newScanStack(t)

	_, err := scanService.ScanToken(context.Background(), "a3bb189e-8bf9-4888-9912-ace4e6543002", domain.ScanRequest{}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestScanService_ScansAccumulate(t *testing.T) {
	scanService, itemService, db := newScanStack(t)
	ctx := context.Background()

	worker := &entities.User{ID: uuid.New(), Username: "worker1", Password: "hashed", Role: domain.RoleWorker}
	require.NoError(t, db.Create(worker).Error)

	created, err := itemService.CreateItem(ctx, domain.CreateItemRequest{ItemType: "Rail Pad"}, worker.ID.String())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		_, err := scanService.ScanToken(ctx, created.Item.UUIDToken, domain.ScanRequest{}, worker.ID.String())
		require.NoError(t, err)
	}

	history, err := scanService.GetScanHistory(ctx, created.Item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4, "every scan appends a new log entry")
}

func TestScanService_ResolveDynamic(t *testing.T) {
	scanService, itemService, db := newScanStack(t)
	ctx := context.Background()

	worker := &entities.User{ID: uuid.New(), Username: "worker1", Password: "hashed", Role: domain.RoleWorker}
	require.NoError(t, db.Create(worker).Error)

	created, err := itemService.CreateItem(ctx, domain.CreateItemRequest{ItemType: "Rail Pad"}, worker.ID.String())
	require.NoError(t, err)

	_, err = itemService.AppendMaintenance(ctx, created.Item.UUIDToken, domain.MaintenanceRequest{
		MaintenanceType: "inspection",
		Status:          "completed",
	}, worker.ID.String())
	require.NoError(t, err)

	resolved, err := scanService.ResolveDynamic(ctx, created.Item.UUIDToken)
	require.NoError(t, err)

	assert.Equal(t, created.Item.ID, resolved.ID)
	assert.Equal(t, true, resolved.DynamicData["isDynamic"])
	history, ok := resolved.DynamicData["maintenanceHistory"].([]interface{})
	require.True(t, ok)
	assert.Len(t, history, 1)
}
