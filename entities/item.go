package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Item struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UUIDToken         string     `gorm:"column:uuid_token;uniqueIndex;size:36" json:"uuid_token"`
	ItemType          string     `json:"item_type"`
	Vendor            string     `json:"vendor,omitempty"`
	LotNumber         string     `json:"lot_number,omitempty"`
	DateOfSupply      *time.Time `json:"date_of_supply,omitempty"`
	ManufactureDate   *time.Time `json:"manufacture_date,omitempty"`
	WarrantyMonths    *int       `json:"warranty_months,omitempty"`
	WarrantyStartDate *time.Time `json:"warranty_start_date,omitempty"`
	WarrantyEndDate   *time.Time `json:"warranty_end_date,omitempty"`
	GeoLat            *float64   `json:"geo_lat,omitempty"`
	GeoLng            *float64   `json:"geo_lng,omitempty"`
	Location          string     `json:"location,omitempty"`
	Geotag            string     `json:"geotag,omitempty"`
	QRAccessPassword  string     `json:"qr_access_password,omitempty"`
	ProductImageURL   string     `json:"product_image_url,omitempty"`

	// Open-ended maintenance/inspection blob. Unknown keys must round-trip
	// unchanged; only pkg/item's merger may touch maintenanceHistory.
	DynamicData datatypes.JSONMap `json:"dynamic_data"`

	// Bumped on every dynamic data write; stale writers retry.
	Version int `gorm:"default:0" json:"-"`

	CreatedByID uuid.UUID `json:"created_by_id"`

	CreatedBy *User        `gorm:"foreignKey:CreatedByID"`
	ScanLogs  []*QRScanLog `gorm:"foreignKey:ItemID"`
	Timestamp
}
