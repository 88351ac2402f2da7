package document

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rail-qr-backend/domain"
	"rail-qr-backend/pkg/qr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "a3bb189e-8bf9-4888-9912-ace4e6543002"

func testQRImage(t *testing.T) []byte {
	t.Helper()
	png, err := qr.NewEncoder(filepath.Join(t.TempDir(), "qrcodes")).
		EncodeBytes(testToken, "http://localhost:5173")
	require.NoError(t, err)
	return png
}

func minimalItem() domain.ItemResponse {
	return domain.ItemResponse{
		ID:        "item-1",
		UUIDToken: testToken,
		ItemType:  "Elastic Rail Clip",
	}
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := Render(RenderInput{
		Item:        minimalItem(),
		QRImage:     testQRImage(t),
		GeneratedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output must start with the PDF magic")
	assert.Contains(t, string(out), "%%EOF")
}

func TestRenderWithoutImages(t *testing.T) {
	// Both images absent: the document must still render.
	out, err := Render(RenderInput{
		Item:        minimalItem(),
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderSkipsUnrecognisedProductImage(t *testing.T) {
	out, err := Render(RenderInput{
		Item:         minimalItem(),
		ProductImage: []byte("definitely not an image"),
		QRImage:      testQRImage(t),
		GeneratedAt:  time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderWithFullDetails(t *testing.T) {
	supply := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	item := minimalItem()
	item.Vendor = "Acme Rail"
	item.LotNumber = "LOT-77"
	item.DateOfSupply = &supply
	item.Location = "KM 42+300"
	item.DynamicData = map[string]interface{}{
		"inspectionNotes": "Seating verified after tamping. " + strings.Repeat("All clamps within tolerance. ", 40),
		"qualityReport":   "Grade A",
		"serviceDate":     "2025-05-01",
		"nextInspection":  "2025-11-01",
	}

	history := make([]domain.ScanLogResponse, 0, 8)
	for i := 0; i < 8; i++ {
		history = append(history, domain.ScanLogResponse{
			ID:        "log",
			ItemID:    "item-1",
			ScannedBy: "worker1",
			ScannedAt: time.Date(2025, 5, 1, 8+i, 0, 0, 0, time.UTC),
		})
	}

	out, err := Render(RenderInput{
		Item:        item,
		ScanHistory: history,
		QRImage:     testQRImage(t),
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// Long inspection notes spill over the line limit and force pagination.
	assert.Greater(t, len(out), 1000)
}

func TestDetectImageType(t *testing.T) {
	assert.Equal(t, "PNG", detectImageType(testQRImage(t)))
	assert.Equal(t, "JPG", detectImageType(append([]byte{0xff, 0xd8}, make([]byte, 16)...)))
	assert.Equal(t, "", detectImageType([]byte("plain text")))
	assert.Equal(t, "", detectImageType(nil))
}

func TestOrNAHelpers(t *testing.T) {
	assert.Equal(t, "N/A", orNA(""))
	assert.Equal(t, "Acme", orNA("Acme"))

	assert.Equal(t, "N/A", dateOrNA(nil))
	d := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-14", dateOrNA(&d))
}

func TestStringField(t *testing.T) {
	data := map[string]interface{}{
		"inspectionNotes": "ok",
		"count":           3,
	}
	assert.Equal(t, "ok", stringField(data, "inspectionNotes"))
	assert.Equal(t, "", stringField(data, "count"), "non-string values are ignored")
	assert.Equal(t, "", stringField(data, "missing"))
	assert.Equal(t, "", stringField(nil, "inspectionNotes"))
}
