package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCreateItem        = "item created successfully"
	MessageSuccessGetItem           = "item retrieved successfully"
	MessageSuccessGetItems          = "items retrieved successfully"
	MessageSuccessUpdateItem        = "item updated successfully"
	MessageSuccessDeleteItem        = "item deleted successfully"
	MessageSuccessUploadImage       = "product image uploaded successfully"
	MessageSuccessGenerateQR        = "QR code generated successfully"
	MessageSuccessAddMaintenance    = "maintenance record updated successfully"

	MessageFailedCreateItem     = "failed to create item"
	MessageFailedGetItem        = "failed to retrieve item"
	MessageFailedGetItems       = "failed to retrieve items"
	MessageFailedUpdateItem     = "failed to update item"
	MessageFailedDeleteItem     = "failed to delete item"
	MessageFailedUploadImage    = "failed to upload product image"
	MessageFailedGenerateQR     = "failed to generate QR code"
	MessageFailedAddMaintenance = "failed to update maintenance record"

	ErrItemNotFound       = errors.New("item not found")
	ErrItemTypeRequired   = errors.New("item type is required")
	ErrDuplicateToken     = errors.New("item token already exists")
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrInvalidDate        = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidLatitude    = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude   = errors.New("longitude must be between -180 and 180")
	ErrInvalidWarranty    = errors.New("warranty months must not be negative")
	ErrEncodingFailed     = errors.New("failed to create QR code")
	ErrConcurrentUpdate   = errors.New("item was modified concurrently, retries exhausted")
)

type (
	CreateItemRequest struct {
		ItemType          string                 `json:"item_type" form:"item_type" validate:"required"`
		Vendor            string                 `json:"vendor" form:"vendor" validate:"omitempty"`
		LotNumber         string                 `json:"lot_number" form:"lot_number" validate:"omitempty"`
		DateOfSupply      string                 `json:"date_of_supply" form:"date_of_supply" validate:"omitempty"`
		ManufactureDate   string                 `json:"manufacture_date" form:"manufacture_date" validate:"omitempty"`
		WarrantyMonths    *int                   `json:"warranty_months" form:"warranty_months" validate:"omitempty,min=0"`
		WarrantyStartDate string                 `json:"warranty_start_date" form:"warranty_start_date" validate:"omitempty"`
		WarrantyEndDate   string                 `json:"warranty_end_date" form:"warranty_end_date" validate:"omitempty"`
		GeoLat            *float64               `json:"geo_lat" form:"geo_lat" validate:"omitempty,min=-90,max=90"`
		GeoLng            *float64               `json:"geo_lng" form:"geo_lng" validate:"omitempty,min=-180,max=180"`
		Location          string                 `json:"location" form:"location" validate:"omitempty"`
		Geotag            string                 `json:"geotag" form:"geotag" validate:"omitempty"`
		QRAccessPassword  string                 `json:"qr_access_password" form:"qr_access_password" validate:"omitempty"`
		DynamicData       map[string]interface{} `json:"dynamic_data" validate:"omitempty"`
		ProductImage      *multipart.FileHeader  `json:"-" form:"-" validate:"omitempty"`
	}

	UpdateItemRequest struct {
		ItemType       string                 `json:"item_type" validate:"omitempty"`
		Vendor         string                 `json:"vendor" validate:"omitempty"`
		LotNumber      string                 `json:"lot_number" validate:"omitempty"`
		DateOfSupply   string                 `json:"date_of_supply" validate:"omitempty"`
		WarrantyMonths *int                   `json:"warranty_months" validate:"omitempty,min=0"`
		GeoLat         *float64               `json:"geo_lat" validate:"omitempty,min=-90,max=90"`
		GeoLng         *float64               `json:"geo_lng" validate:"omitempty,min=-180,max=180"`
		Location       string                 `json:"location" validate:"omitempty"`
		Geotag         string                 `json:"geotag" validate:"omitempty"`
		DynamicData    map[string]interface{} `json:"dynamic_data" validate:"omitempty"`
	}

	ItemResponse struct {
		ID                string                 `json:"id"`
		UUIDToken         string                 `json:"uuid_token"`
		ItemType          string                 `json:"item_type"`
		Vendor            string                 `json:"vendor,omitempty"`
		LotNumber         string                 `json:"lot_number,omitempty"`
		DateOfSupply      *time.Time             `json:"date_of_supply,omitempty"`
		ManufactureDate   *time.Time             `json:"manufacture_date,omitempty"`
		WarrantyMonths    *int                   `json:"warranty_months,omitempty"`
		WarrantyStartDate *time.Time             `json:"warranty_start_date,omitempty"`
		WarrantyEndDate   *time.Time             `json:"warranty_end_date,omitempty"`
		GeoLat            *float64               `json:"geo_lat,omitempty"`
		GeoLng            *float64               `json:"geo_lng,omitempty"`
		Location          string                 `json:"location,omitempty"`
		Geotag            string                 `json:"geotag,omitempty"`
		ProductImageURL   string                 `json:"product_image_url,omitempty"`
		DynamicData       map[string]interface{} `json:"dynamic_data"`
		CreatedBy         string                 `json:"created_by"`
		CreatedAt         time.Time              `json:"created_at"`
		UpdatedAt         time.Time              `json:"updated_at"`
	}

	QRCodeResponse struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}

	CreateItemResponse struct {
		Item   ItemResponse   `json:"item"`
		QRCode QRCodeResponse `json:"qr_code"`
	}

	UploadProductImageRequest struct {
		ItemID string                `json:"item_id" form:"item_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	MaintenanceRequest struct {
		MaintenanceType string `json:"maintenance_type" validate:"required"`
		Description     string `json:"description" validate:"omitempty"`
		Status          string `json:"status" validate:"omitempty"`
		Notes           string `json:"notes" validate:"omitempty"`
	}

	MaintenanceRecordResponse struct {
		ID              string    `json:"id"`
		MaintenanceType string    `json:"maintenanceType"`
		Description     string    `json:"description"`
		Status          string    `json:"status"`
		Notes           string    `json:"notes"`
		PerformedBy     string    `json:"performedBy"`
		PerformedAt     time.Time `json:"performedAt"`
		Timestamp       string    `json:"timestamp"`
	}

	AddMaintenanceResponse struct {
		MaintenanceRecord MaintenanceRecordResponse `json:"maintenance_record"`
		Item              ItemResponse              `json:"item"`
	}
)
