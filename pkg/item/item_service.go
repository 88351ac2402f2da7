package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"
	"rail-qr-backend/internal/utils/storage"
	"rail-qr-backend/pkg/qr"
	"rail-qr-backend/pkg/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type (
	ItemService interface {
		CreateItem(ctx context.Context, req domain.CreateItemRequest, userID string) (domain.CreateItemResponse, error)
		GetItemByToken(ctx context.Context, uuidToken string) (domain.ItemResponse, error)
		GetItems(ctx context.Context, search string, page, limit int) ([]domain.ItemResponse, int64, error)
		UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, id string) error
		AppendMaintenance(ctx context.Context, uuidToken string, req domain.MaintenanceRequest, userID string) (domain.AddMaintenanceResponse, error)
		UploadProductImage(ctx context.Context, req domain.UploadProductImageRequest) (string, error)
		RegenerateQR(ctx context.Context, uuidToken string) (domain.QRCodeResponse, error)
		QRDataURL(ctx context.Context, uuidToken string) (string, error)
	}

	itemService struct {
		itemRepository ItemRepository
		tokens         token.Generator
		encoder        qr.Encoder
		s3             storage.AwsS3
		baseURL        string
		cascadeScans   bool
		now            func() time.Time
	}
)

func NewItemService(itemRepository ItemRepository, tokens token.Generator, encoder qr.Encoder, s3 storage.AwsS3, baseURL string, cascadeScans bool) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		tokens:         tokens,
		encoder:        encoder,
		s3:             s3,
		baseURL:        baseURL,
		cascadeScans:   cascadeScans,
		now:            time.Now,
	}
}

func (s *itemService) CreateItem(ctx context.Context, req domain.CreateItemRequest, userID string) (domain.CreateItemResponse, error) {
	if strings.TrimSpace(req.ItemType) == "" {
		return domain.CreateItemResponse{}, domain.ErrItemTypeRequired
	}
	if err := validateGeo(req.GeoLat, req.GeoLng); err != nil {
		return domain.CreateItemResponse{}, err
	}
	if req.WarrantyMonths != nil && *req.WarrantyMonths < 0 {
		return domain.CreateItemResponse{}, domain.ErrInvalidWarranty
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.CreateItemResponse{}, domain.ErrParseUUID
	}

	dateOfSupply, err := parseOptionalDate(req.DateOfSupply)
	if err != nil {
		return domain.CreateItemResponse{}, err
	}
	manufactureDate, err := parseOptionalDate(req.ManufactureDate)
	if err != nil {
		return domain.CreateItemResponse{}, err
	}
	warrantyStart, err := parseOptionalDate(req.WarrantyStartDate)
	if err != nil {
		return domain.CreateItemResponse{}, err
	}
	warrantyEnd, err := parseOptionalDate(req.WarrantyEndDate)
	if err != nil {
		return domain.CreateItemResponse{}, err
	}

	newItem := &entities.Item{
		ID:                uuid.New(),
		ItemType:          strings.TrimSpace(req.ItemType),
		Vendor:            strings.TrimSpace(req.Vendor),
		LotNumber:         strings.TrimSpace(req.LotNumber),
		DateOfSupply:      dateOfSupply,
		ManufactureDate:   manufactureDate,
		WarrantyMonths:    req.WarrantyMonths,
		WarrantyStartDate: warrantyStart,
		WarrantyEndDate:   warrantyEnd,
		GeoLat:            req.GeoLat,
		GeoLng:            req.GeoLng,
		Location:          strings.TrimSpace(req.Location),
		Geotag:            strings.TrimSpace(req.Geotag),
		QRAccessPassword:  strings.TrimSpace(req.QRAccessPassword),
		DynamicData:       req.DynamicData,
		CreatedByID:       userUUID,
	}
	if newItem.DynamicData == nil {
		newItem.DynamicData = map[string]interface{}{}
	}

	if req.ProductImage != nil {
		fileName := fmt.Sprintf("product-image-%s", newItem.ID.String())
		objectKey, uploadErr := s.s3.UploadFile(fileName, req.ProductImage, "product-images", storage.AllowImage...)
		if uploadErr != nil {
			return domain.CreateItemResponse{}, uploadErr
		}
		newItem.ProductImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	// Collisions are overwhelmingly unlikely but the unique index has the
	// final word; regenerate once before surfacing the conflict.
	for attempt := 0; ; attempt++ {
		uuidToken, genErr := s.tokens.Generate()
		if genErr != nil {
			return domain.CreateItemResponse{}, genErr
		}
		newItem.UUIDToken = uuidToken

		createErr := s.itemRepository.CreateItem(ctx, newItem)
		if createErr == nil {
			break
		}
		if errors.Is(createErr, domain.ErrDuplicateToken) && attempt == 0 {
			continue
		}
		return domain.CreateItemResponse{}, createErr
	}

	qrResult, err := s.encoder.EncodeToFile(newItem.UUIDToken, s.baseURL)
	if err != nil {
		// The item exists and its QR is regenerable on demand; surface the
		// encoding failure without rolling the record back.
		return domain.CreateItemResponse{}, err
	}

	return domain.CreateItemResponse{
		Item: toItemResponse(newItem),
		QRCode: domain.QRCodeResponse{
			Filename: qrResult.Filename,
			URL:      qrResult.URL,
		},
	}, nil
}

func (s *itemService) GetItemByToken(ctx context.Context, uuidToken string) (domain.ItemResponse, error) {
	if !token.IsValid(uuidToken) {
		return domain.ItemResponse{}, domain.ErrInvalidTokenFormat
	}

	found, err := s.itemRepository.GetItemByToken(ctx, uuidToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrItemNotFound
		}
		return domain.ItemResponse{}, err
	}

	return toItemResponse(found), nil
}

func (s *itemService) GetItems(ctx context.Context, search string, page, limit int) ([]domain.ItemResponse, int64, error) {
	items, count, err := s.itemRepository.GetItems(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, toItemResponse(it))
	}

	return response, count, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req domain.UpdateItemRequest) (domain.ItemResponse, error) {
	existing, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrItemNotFound
		}
		return domain.ItemResponse{}, err
	}

	if err := validateGeo(req.GeoLat, req.GeoLng); err != nil {
		return domain.ItemResponse{}, err
	}

	if req.ItemType != "" {
		existing.ItemType = strings.TrimSpace(req.ItemType)
	}
	if req.Vendor != "" {
		existing.Vendor = strings.TrimSpace(req.Vendor)
	}
	if req.LotNumber != "" {
		existing.LotNumber = strings.TrimSpace(req.LotNumber)
	}
	if req.DateOfSupply != "" {
		dateOfSupply, parseErr := parseOptionalDate(req.DateOfSupply)
		if parseErr != nil {
			return domain.ItemResponse{}, parseErr
		}
		existing.DateOfSupply = dateOfSupply
	}
	if req.WarrantyMonths != nil {
		if *req.WarrantyMonths < 0 {
			return domain.ItemResponse{}, domain.ErrInvalidWarranty
		}
		existing.WarrantyMonths = req.WarrantyMonths
	}
	if req.GeoLat != nil {
		existing.GeoLat = req.GeoLat
	}
	if req.GeoLng != nil {
		existing.GeoLng = req.GeoLng
	}
	if req.Location != "" {
		existing.Location = strings.TrimSpace(req.Location)
	}
	if req.Geotag != "" {
		existing.Geotag = strings.TrimSpace(req.Geotag)
	}
	if req.DynamicData != nil {
		existing.DynamicData = req.DynamicData
	}
	// UUIDToken is never touched here; it is immutable for the item's lifetime.

	if err := s.itemRepository.UpdateItem(ctx, existing); err != nil {
		return domain.ItemResponse{}, err
	}

	return toItemResponse(existing), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	existing, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}

	if existing.ProductImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(existing.ProductImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	if err := s.itemRepository.DeleteItem(ctx, id, s.cascadeScans); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrItemNotFound
		}
		return err
	}
	return nil
}

func (s *itemService) AppendMaintenance(ctx context.Context, uuidToken string, req domain.MaintenanceRequest, userID string) (domain.AddMaintenanceResponse, error) {
	if !token.IsValid(uuidToken) {
		return domain.AddMaintenanceResponse{}, domain.ErrInvalidTokenFormat
	}

	existing, err := s.itemRepository.GetItemByToken(ctx, uuidToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AddMaintenanceResponse{}, domain.ErrItemNotFound
		}
		return domain.AddMaintenanceResponse{}, err
	}

	// Record IDs come from the same generator family as item tokens; the
	// millisecond-clock scheme collides under concurrent appends.
	recordID, err := s.tokens.Generate()
	if err != nil {
		return domain.AddMaintenanceResponse{}, err
	}

	performedAt := s.now()
	record := domain.MaintenanceRecordResponse{
		ID:              recordID,
		MaintenanceType: req.MaintenanceType,
		Description:     req.Description,
		Status:          req.Status,
		Notes:           req.Notes,
		PerformedBy:     userID,
		PerformedAt:     performedAt,
		Timestamp:       performedAt.UTC().Format(time.RFC3339),
	}

	updated, err := s.itemRepository.AppendDynamicData(ctx, existing.ID.String(), func(it *entities.Item) error {
		it.DynamicData = appendMaintenanceRecord(it.DynamicData, record, s.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AddMaintenanceResponse{}, domain.ErrItemNotFound
		}
		return domain.AddMaintenanceResponse{}, err
	}

	return domain.AddMaintenanceResponse{
		MaintenanceRecord: record,
		Item:              toItemResponse(updated),
	}, nil
}

func (s *itemService) UploadProductImage(ctx context.Context, req domain.UploadProductImageRequest) (string, error) {
	existing, err := s.itemRepository.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrItemNotFound
		}
		return "", err
	}

	fileName := fmt.Sprintf("product-image-%s", existing.ID.String())
	var objectKey string
	var uploadErr error

	if existing.ProductImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(existing.ProductImageURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "product-images", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Image, "product-images", storage.AllowImage...)
	}
	if uploadErr != nil {
		return "", uploadErr
	}

	existing.ProductImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.itemRepository.UpdateItem(ctx, existing); err != nil {
		return "", err
	}

	return existing.ProductImageURL, nil
}

// RegenerateQR rebuilds and persists the QR image for an existing token. A
// missing image on disk is not an error; the stored token is all that is
// needed to reproduce it exactly.
func (s *itemService) RegenerateQR(ctx context.Context, uuidToken string) (domain.QRCodeResponse, error) {
	if !token.IsValid(uuidToken) {
		return domain.QRCodeResponse{}, domain.ErrInvalidTokenFormat
	}
	if _, err := s.itemRepository.GetItemByToken(ctx, uuidToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.QRCodeResponse{}, domain.ErrItemNotFound
		}
		return domain.QRCodeResponse{}, err
	}

	result, err := s.encoder.EncodeToFile(uuidToken, s.baseURL)
	if err != nil {
		return domain.QRCodeResponse{}, err
	}
	return domain.QRCodeResponse{Filename: result.Filename, URL: result.URL}, nil
}

func (s *itemService) QRDataURL(ctx context.Context, uuidToken string) (string, error) {
	if !token.IsValid(uuidToken) {
		return "", domain.ErrInvalidTokenFormat
	}
	if _, err := s.itemRepository.GetItemByToken(ctx, uuidToken); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrItemNotFound
		}
		return "", err
	}
	return s.encoder.EncodeDataURL(uuidToken, s.baseURL)
}

func toItemResponse(it *entities.Item) domain.ItemResponse {
	createdBy := it.CreatedByID.String()
	if it.CreatedBy != nil {
		createdBy = it.CreatedBy.Username
	}

	return domain.ItemResponse{
		ID:                it.ID.String(),
		UUIDToken:         it.UUIDToken,
		ItemType:          it.ItemType,
		Vendor:            it.Vendor,
		LotNumber:         it.LotNumber,
		DateOfSupply:      it.DateOfSupply,
		ManufactureDate:   it.ManufactureDate,
		WarrantyMonths:    it.WarrantyMonths,
		WarrantyStartDate: it.WarrantyStartDate,
		WarrantyEndDate:   it.WarrantyEndDate,
		GeoLat:            it.GeoLat,
		GeoLng:            it.GeoLng,
		Location:          it.Location,
		Geotag:            it.Geotag,
		ProductImageURL:   it.ProductImageURL,
		DynamicData:       it.DynamicData,
		CreatedBy:         createdBy,
		CreatedAt:         it.CreatedAt,
		UpdatedAt:         it.UpdatedAt,
	}
}

func parseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}
	return &parsed, nil
}

func validateGeo(lat, lng *float64) error {
	if lat != nil && (*lat < -90 || *lat > 90) {
		return domain.ErrInvalidLatitude
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return domain.ErrInvalidLongitude
	}
	return nil
}
