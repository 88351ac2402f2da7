package domain

import (
	"time"
)

var (
	MessageSuccessScan           = "QR code scanned successfully"
	MessageSuccessGetScanHistory = "scan history retrieved successfully"
	MessageSuccessResolveDynamic = "dynamic QR data retrieved successfully"

	MessageFailedScan           = "failed to scan QR code"
	MessageFailedGetScanHistory = "failed to retrieve scan history"
	MessageFailedResolveDynamic = "failed to retrieve dynamic QR data"
)

type (
	ScanRequest struct {
		Location string `json:"location" validate:"omitempty"`
	}

	ScanLogResponse struct {
		ID        string    `json:"id"`
		ItemID    string    `json:"item_id"`
		ScannedBy string    `json:"scanned_by"`
		Location  string    `json:"location,omitempty"`
		ScannedAt time.Time `json:"scanned_at"`
	}

	ScanResponse struct {
		ScanLog ScanLogResponse `json:"scan_log"`
		Item    ItemResponse    `json:"item"`
	}
)
