package entities

import (
	"time"

	"github.com/google/uuid"
)

// QRScanLog rows are append-only audit records; nothing in the codebase
// updates or deletes them outside the configurable item-delete cascade.
type QRScanLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ItemID      uuid.UUID `gorm:"index" json:"item_id"`
	ScannedByID uuid.UUID `json:"scanned_by_id"`
	Location    string    `json:"location,omitempty"`
	ScannedAt   time.Time `json:"scanned_at"`

	Item      *Item `gorm:"foreignKey:ItemID"`
	ScannedBy *User `gorm:"foreignKey:ScannedByID"`
	Timestamp
}
