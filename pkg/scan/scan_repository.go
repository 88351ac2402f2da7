package scan

import (
	"context"

	"rail-qr-backend/entities"

	"gorm.io/gorm"
)

type (
	// ScanRepository is append-only: scan logs are audit records and no
	// update or delete operation is exposed.
	ScanRepository interface {
		CreateScanLog(ctx context.Context, scanLog *entities.QRScanLog) error
		GetScanLogsByItem(ctx context.Context, itemID string) ([]*entities.QRScanLog, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScanLog(ctx context.Context, scanLog *entities.QRScanLog) error {
	return r.db.WithContext(ctx).Create(scanLog).Error
}

func (r *scanRepository) GetScanLogsByItem(ctx context.Context, itemID string) ([]*entities.QRScanLog, error) {
	var scanLogs []*entities.QRScanLog
	if err := r.db.WithContext(ctx).
		Preload("ScannedBy").
		Where("item_id = ?", itemID).
		Order("scanned_at desc").
		Find(&scanLogs).Error; err != nil {
		return nil, err
	}
	return scanLogs, nil
}
