package item

import (
	"testing"
	"time"

	"rail-qr-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testRecord(id string) domain.MaintenanceRecordResponse {
	performedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	return domain.MaintenanceRecordResponse{
		ID:              id,
		MaintenanceType: "inspection",
		Description:     "visual check of clamp seating",
		Status:          "completed",
		Notes:           "no findings",
		PerformedBy:     "inspector-1",
		PerformedAt:     performedAt,
		Timestamp:       performedAt.Format(time.RFC3339),
	}
}

func TestAppendMaintenanceRecordToEmptyBlob(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	data := appendMaintenanceRecord(nil, testRecord("rec-1"), now)

	history, ok := data[keyMaintenanceHistory].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 1)

	entry, ok := history[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "rec-1", entry["id"])
	assert.Equal(t, "inspection", entry["maintenanceType"])
	assert.Equal(t, "completed", entry["status"])
	assert.Equal(t, "inspector-1", entry["performedBy"])
	assert.Equal(t, "2025-06-01T10:30:00Z", entry["performedAt"])

	assert.Equal(t, "2025-06-01T10:30:00Z", data[keyLastUpdated])
	assert.Equal(t, true, data[keyIsDynamic])
}

func TestAppendMaintenanceRecordGrowsHistory(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	data := datatypes.JSONMap{}
	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		data = appendMaintenanceRecord(data, testRecord(id), now.Add(time.Duration(i)*time.Minute))
	}

	history, ok := data[keyMaintenanceHistory].([]interface{})
	require.True(t, ok)
	require.Len(t, history, 3)

	// Entries keep arrival order and earlier ones are untouched.
	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		entry := history[i].(map[string]interface{})
		assert.Equal(t, id, entry["id"])
	}

	assert.Equal(t, "2025-06-01T10:32:00Z", data[keyLastUpdated])
}

func TestAppendMaintenanceRecordPreservesUnrelatedKeys(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	data := datatypes.JSONMap{
		"inspectionNotes": "installed during night shift",
		"qualityReport":   map[string]interface{}{"grade": "A"},
		"batchFlags":      []interface{}{"expedited"},
	}

	data = appendMaintenanceRecord(data, testRecord("rec-1"), now)

	assert.Equal(t, "installed during night shift", data["inspectionNotes"])
	assert.Equal(t, map[string]interface{}{"grade": "A"}, data["qualityReport"])
	assert.Equal(t, []interface{}{"expedited"}, data["batchFlags"])
}

func TestAppendMaintenanceRecordRefreshesBookkeeping(t *testing.T) {
	first := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	data := appendMaintenanceRecord(nil, testRecord("rec-1"), first)
	data = appendMaintenanceRecord(data, testRecord("rec-2"), second)

	assert.Equal(t, second.Format(time.RFC3339), data[keyLastUpdated])
	assert.Equal(t, true, data[keyIsDynamic])
}
