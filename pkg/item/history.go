package item

import (
	"time"

	"rail-qr-backend/domain"

	"gorm.io/datatypes"
)

const (
	keyMaintenanceHistory = "maintenanceHistory"
	keyLastUpdated        = "lastUpdated"
	keyIsDynamic          = "isDynamic"
)

// maintenanceRecordMap builds the JSON shape appended to
// dynamicData.maintenanceHistory. Records are immutable once appended.
func maintenanceRecordMap(rec domain.MaintenanceRecordResponse) map[string]interface{} {
	return map[string]interface{}{
		"id":              rec.ID,
		"maintenanceType": rec.MaintenanceType,
		"description":     rec.Description,
		"status":          rec.Status,
		"notes":           rec.Notes,
		"performedBy":     rec.PerformedBy,
		"performedAt":     rec.PerformedAt.UTC().Format(time.RFC3339),
		"timestamp":       rec.Timestamp,
	}
}

// appendMaintenanceRecord merges a new maintenance record into an item's
// dynamic data blob. Existing entries and every other key in the blob are
// preserved verbatim; only maintenanceHistory grows, and the lastUpdated /
// isDynamic bookkeeping fields are refreshed.
func appendMaintenanceRecord(data datatypes.JSONMap, rec domain.MaintenanceRecordResponse, now time.Time) datatypes.JSONMap {
	if data == nil {
		data = datatypes.JSONMap{}
	}

	history, _ := data[keyMaintenanceHistory].([]interface{})
	data[keyMaintenanceHistory] = append(history, maintenanceRecordMap(rec))
	data[keyLastUpdated] = now.UTC().Format(time.RFC3339)
	data[keyIsDynamic] = true

	return data
}
