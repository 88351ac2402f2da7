package item

import (
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"
	"rail-qr-backend/pkg/qr"
	"rail-qr-backend/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeItemRepository keeps items in memory so service behaviour can be tested
// without a database.
type fakeItemRepository struct {
	mu           sync.Mutex
	items        map[string]*entities.Item
	failCreates  int
	createCalls  int
	getTokenHits int
}

func newFakeItemRepository() *fakeItemRepository {
	return &fakeItemRepository{items: make(map[string]*entities.Item)}
}

func (f *fakeItemRepository) CreateItem(_ context.Context, item *entities.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failCreates > 0 {
		f.failCreates--
		return domain.ErrDuplicateToken
	}
	for _, existing := range f.items {
		if existing.UUIDToken == item.UUIDToken {
			return domain.ErrDuplicateToken
		}
	}
	copied := *item
	f.items[item.ID.String()] = &copied
	return nil
}

func (f *fakeItemRepository) GetItemByID(_ context.Context, id string) (*entities.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepository) GetItemByToken(_ context.Context, uuidToken string) (*entities.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getTokenHits++
	for _, item := range f.items {
		if item.UUIDToken == uuidToken {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepository) GetItems(_ context.Context, _ string, _, _ int) ([]*entities.Item, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]*entities.Item, 0, len(f.items))
	for _, item := range f.items {
		copied := *item
		items = append(items, &copied)
	}
	return items, int64(len(items)), nil
}

func (f *fakeItemRepository) UpdateItem(_ context.Context, item *entities.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[item.ID.String()]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *item
	f.items[item.ID.String()] = &copied
	return nil
}

func (f *fakeItemRepository) DeleteItem(_ context.Context, id string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeItemRepository) AppendDynamicData(_ context.Context, id string, mutate func(item *entities.Item) error) (*entities.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if err := mutate(item); err != nil {
		return nil, err
	}
	item.Version++
	copied := *item
	return &copied, nil
}

// fakeS3 satisfies the storage interface without network access.
type fakeS3 struct{}

func (fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	return dir + "/" + fileName, nil
}
func (fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}
func (fakeS3) DeleteFile(string) error            { return nil }
func (fakeS3) DownloadFile(string) ([]byte, error) { return nil, os.ErrNotExist }
func (fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}
func (fakeS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://bucket.s3.test.amazonaws.com/")
}

func newTestItemService(t *testing.T, repo ItemRepository) ItemService {
	t.Helper()
	return NewItemService(
		repo,
		token.NewGenerator(),
		qr.NewEncoder(filepath.Join(t.TempDir(), "qrcodes")),
		fakeS3{},
		"http://localhost:5173",
		false,
	)
}

func TestItemService_CreateItem(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestItemService(t, repo)

	res, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{
		ItemType:     "Elastic Rail Clip",
		Vendor:       "Acme Rail",
		LotNumber:    "LOT-77",
		DateOfSupply: "2025-03-14",
	}, uuid.NewString())
	require.NoError(t, err)

	assert.True(t, token.IsValid(res.Item.UUIDToken))
	assert.Equal(t, res.Item.UUIDToken+".png", res.QRCode.Filename)
	assert.Equal(t, "http://localhost:5173/scan/"+res.Item.UUIDToken, res.QRCode.URL)
	require.NotNil(t, res.Item.DateOfSupply)
	assert.Equal(t, "2025-03-14", res.Item.DateOfSupply.Format("2006-01-02"))
	assert.NotNil(t, res.Item.DynamicData, "dynamic data defaults to an empty blob")
}

func TestItemService_CreateItemValidation(t *testing.T) {
	badLat := 95.0
	badLng := -181.0
	negWarranty := -1

	testCases := []struct {
		name string
		req  domain.CreateItemRequest
		want error
	}{
		{"missing item type", domain.CreateItemRequest{ItemType: "   "}, domain.ErrItemTypeRequired},
		{"latitude out of range", domain.CreateItemRequest{ItemType: "Clip", GeoLat: &badLat}, domain.ErrInvalidLatitude},
		{"longitude out of range", domain.CreateItemRequest{ItemType: "Clip", GeoLng: &badLng}, domain.ErrInvalidLongitude},
		{"negative warranty", domain.CreateItemRequest{ItemType: "Clip", WarrantyMonths: &negWarranty}, domain.ErrInvalidWarranty},
		{"malformed date", domain.CreateItemRequest{ItemType: "Clip", DateOfSupply: "14-03-2025"}, domain.ErrInvalidDate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeItemRepository()
			svc := newTestItemService(t, repo)

			_, err := svc.CreateItem(context.Background(), tc.req, uuid.NewString())
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, repo.createCalls, "validation failures must not reach the store")
		})
	}
}

func TestItemService_CreateItemRetriesOnTokenCollision(t *testing.T) {
	repo := newFakeItemRepository()
	repo.failCreates = 1
	svc := newTestItemService(t, repo)

	res, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{ItemType: "Clip"}, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.createCalls)
	assert.True(t, token.IsValid(res.Item.UUIDToken))
}

func TestItemService_CreateItemGivesUpAfterSecondCollision(t *testing.T) {
	repo := newFakeItemRepository()
	repo.failCreates = 2
	svc := newTestItemService(t, repo)

	_, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{ItemType: "Clip"}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)
	assert.Equal(t, 2, repo.createCalls)
}

func TestItemService_GetItemByTokenRejectsMalformedToken(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestItemService(t, repo)

	_, err := svc.GetItemByToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidTokenFormat)
	assert.Zero(t, repo.getTokenHits, "format check must run before any store access")
}

func TestItemService_GetItemByTokenNotFound(t *testing.T) {
	svc := newTestItemService(t, newFakeItemRepository())

	_, err := svc.GetItemByToken(context.Background(), "a3bb189e-8bf9-4888-9912-ace4e6543002")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemService_UpdateItemNotFound(t *testing.T) {
	svc := newTestItemService(t, newFakeItemRepository())

	_, err := svc.UpdateItem(context.Background(), uuid.NewString(), domain.UpdateItemRequest{Vendor: "VendorB"})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestItemService_AppendMaintenanceConcurrent(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestItemService(t, repo)

	created, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{ItemType: "Clip"}, uuid.NewString())
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AppendMaintenance(context.Background(), created.Item.UUIDToken, domain.MaintenanceRequest{
				MaintenanceType: "inspection",
				Status:          "completed",
			}, uuid.NewString())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	resolved, err := svc.GetItemByToken(context.Background(), created.Item.UUIDToken)
	require.NoError(t, err)

	history, ok := resolved.DynamicData["maintenanceHistory"].([]interface{})
	require.True(t, ok)
	assert.Len(t, history, workers, "no concurrent append may be lost")

	ids := make(map[string]struct{})
	for _, entry := range history {
		rec := entry.(map[string]interface{})
		ids[rec["id"].(string)] = struct{}{}
	}
	assert.Len(t, ids, workers, "record ids must be unique")
}

func TestItemService_AppendMaintenanceRejectsMalformedToken(t *testing.T) {
	svc := newTestItemService(t, newFakeItemRepository())

	_, err := svc.AppendMaintenance(context.Background(), "nope", domain.MaintenanceRequest{MaintenanceType: "inspection"}, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInvalidTokenFormat)
}

func TestItemService_RegenerateQR(t *testing.T) {
	repo := newFakeItemRepository()
	dir := filepath.Join(t.TempDir(), "qrcodes")
	svc := NewItemService(repo, token.NewGenerator(), qr.NewEncoder(dir), fakeS3{}, "http://localhost:5173", false)

	created, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{ItemType: "Clip"}, uuid.NewString())
	require.NoError(t, err)

	// Simulate the image going missing from disk.
	require.NoError(t, os.Remove(filepath.Join(dir, created.Item.UUIDToken+".png")))

	res, err := svc.RegenerateQR(context.Background(), created.Item.UUIDToken)
	require.NoError(t, err)
	assert.Equal(t, created.Item.UUIDToken+".png", res.Filename)

	_, err = os.Stat(filepath.Join(dir, created.Item.UUIDToken+".png"))
	assert.NoError(t, err)
}

func TestItemService_QRDataURL(t *testing.T) {
	repo := newFakeItemRepository()
	svc := newTestItemService(t, repo)

	created, err := svc.CreateItem(context.Background(), domain.CreateItemRequest{ItemType: "Clip"}, uuid.NewString())
	require.NoError(t, err)

	dataURL, err := svc.QRDataURL(context.Background(), created.Item.UUIDToken)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
}

func TestItemService_DeleteItemNotFound(t *testing.T) {
	svc := newTestItemService(t, newFakeItemRepository())

	err := svc.DeleteItem(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
