package scan

import (
	"context"
	"errors"
	"time"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"
	"rail-qr-backend/pkg/item"
	"rail-qr-backend/pkg/token"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScanService interface {
		ScanToken(ctx context.Context, uuidToken string, req domain.ScanRequest, userID string) (domain.ScanResponse, error)
		GetScanHistory(ctx context.Context, itemID string) ([]domain.ScanLogResponse, error)
		ResolveDynamic(ctx context.Context, uuidToken string) (domain.ItemResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		itemService    item.ItemService
		now            func() time.Time
	}
)

func NewScanService(scanRepository ScanRepository, itemService item.ItemService) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		itemService:    itemService,
		now:            time.Now,
	}
}

// ScanToken resolves a scanned token to its item and appends an immutable
// scan log entry attributing the scan to the acting user. The format check
// runs before any store access.
func (s *scanService) ScanToken(ctx context.Context, uuidToken string, req domain.ScanRequest, userID string) (domain.ScanResponse, error) {
	if !token.IsValid(uuidToken) {
		return domain.ScanResponse{}, domain.ErrInvalidTokenFormat
	}

	resolved, err := s.itemService.GetItemByToken(ctx, uuidToken)
	if err != nil {
		return domain.ScanResponse{}, err
	}

	itemUUID, err := uuid.Parse(resolved.ID)
	if err != nil {
		return domain.ScanResponse{}, domain.ErrParseUUID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanResponse{}, domain.ErrParseUUID
	}

	scanLog := &entities.QRScanLog{
		ID:          uuid.New(),
		ItemID:      itemUUID,
		ScannedByID: userUUID,
		Location:    req.Location,
		ScannedAt:   s.now(),
	}

	if err := s.scanRepository.CreateScanLog(ctx, scanLog); err != nil {
		return domain.ScanResponse{}, err
	}

	return domain.ScanResponse{
		ScanLog: toScanLogResponse(scanLog),
		Item:    resolved,
	}, nil
}

func (s *scanService) GetScanHistory(ctx context.Context, itemID string) ([]domain.ScanLogResponse, error) {
	scanLogs, err := s.scanRepository.GetScanLogsByItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	response := make([]domain.ScanLogResponse, 0, len(scanLogs))
	for _, scanLog := range scanLogs {
		response = append(response, toScanLogResponse(scanLog))
	}
	return response, nil
}

// ResolveDynamic is the unauthenticated lookup behind printed QR codes.
func (s *scanService) ResolveDynamic(ctx context.Context, uuidToken string) (domain.ItemResponse, error) {
	return s.itemService.GetItemByToken(ctx, uuidToken)
}

func toScanLogResponse(scanLog *entities.QRScanLog) domain.ScanLogResponse {
	scannedBy := scanLog.ScannedByID.String()
	if scanLog.ScannedBy != nil {
		scannedBy = scanLog.ScannedBy.Username
	}
	return domain.ScanLogResponse{
		ID:        scanLog.ID.String(),
		ItemID:    scanLog.ItemID.String(),
		ScannedBy: scannedBy,
		Location:  scanLog.Location,
		ScannedAt: scanLog.ScannedAt,
	}
}
