package item

import (
	"context"
	"errors"
	"strings"

	"rail-qr-backend/domain"
	"rail-qr-backend/entities"

	"gorm.io/gorm"
)

// Stale dynamic-data writes are retried this many times before giving up.
const maxAppendAttempts = 5

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.Item) error
		GetItemByID(ctx context.Context, id string) (*entities.Item, error)
		GetItemByToken(ctx context.Context, uuidToken string) (*entities.Item, error)
		GetItems(ctx context.Context, search string, page, limit int) ([]*entities.Item, int64, error)
		UpdateItem(ctx context.Context, item *entities.Item) error
		DeleteItem(ctx context.Context, id string, cascadeScans bool) error
		AppendDynamicData(ctx context.Context, id string, mutate func(item *entities.Item) error) (*entities.Item, error)
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateToken
		}
		return err
	}
	return nil
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItemByToken(ctx context.Context, uuidToken string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Preload("CreatedBy").Where("uuid_token = ?", uuidToken).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItems(ctx context.Context, search string, page, limit int) ([]*entities.Item, int64, error) {
	var items []*entities.Item
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Item{})
	if search != "" {
		// LOWER/LIKE instead of ILIKE keeps the filter portable between
		// postgres and the sqlite test driver.
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(item_type) LIKE ? OR LOWER(vendor) LIKE ? OR LOWER(lot_number) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("CreatedBy").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) DeleteItem(ctx context.Context, id string, cascadeScans bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cascadeScans {
			if err := tx.Where("item_id = ?", id).Delete(&entities.QRScanLog{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&entities.Item{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AppendDynamicData performs an optimistic-concurrency read-modify-write of an
// item's dynamic data blob. The mutate callback sees the freshest row; the
// write only lands if the version it read is still current, otherwise the
// whole cycle retries. Concurrent appends to the same item therefore never
// overwrite each other's entries.
func (r *itemRepository) AppendDynamicData(ctx context.Context, id string, mutate func(item *entities.Item) error) (*entities.Item, error) {
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		var item entities.Item
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
			return nil, err
		}

		if err := mutate(&item); err != nil {
			return nil, err
		}

		res := r.db.WithContext(ctx).Model(&entities.Item{}).
			Where("id = ? AND version = ?", item.ID, item.Version).
			Updates(map[string]interface{}{
				"dynamic_data": item.DynamicData,
				"version":      item.Version + 1,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			item.Version++
			return &item, nil
		}
	}
	return nil, domain.ErrConcurrentUpdate
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
