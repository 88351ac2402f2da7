package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"uniqueIndex;size:30" json:"username"`
	Email    string    `gorm:"uniqueIndex;size:100" json:"email"`
	Password string    `json:"-"`
	FullName string    `json:"full_name,omitempty"`
	Role     string    `json:"role"` // "worker", "admin"

	Items    []*Item      `gorm:"foreignKey:CreatedByID"`
	ScanLogs []*QRScanLog `gorm:"foreignKey:ScannedByID"`
	Timestamp
}
