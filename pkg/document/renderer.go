package document

import (
	"bytes"
	"fmt"
	"time"

	"rail-qr-backend/domain"

	"github.com/jung-kurt/gofpdf"
)

// A4 layout constants in millimetres. Pagination is decided per block: before
// drawing, the running cursor is measured against the relevant threshold and
// a fresh page is started when the block would not fit.
const (
	pageTopMargin    = 20.0
	lineBottomLimit  = 250.0
	blockBottomLimit = 200.0
	textWidth        = 180.0
	lineHeight       = 6.0
)

type RenderInput struct {
	Item         domain.ItemResponse
	ScanHistory  []domain.ScanLogResponse
	ProductImage []byte
	QRImage      []byte
	GeneratedAt  time.Time
}

// Render assembles the printable item document: title band, optional product
// image, item-type banner, facts table, populated free-text history sections,
// service information, recent scans, the QR image with its token, and a
// per-page footer.
func Render(input RenderInput) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(false, 0)

	generatedAt := input.GeneratedAt
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.Text(15, 285, fmt.Sprintf("Generated on %s at %s",
			generatedAt.Format("2006-01-02"), generatedAt.Format("15:04:05")))
		pdf.Text(15, 290, "Track Railways Track Fittings Management System")
		pdf.Text(178, 290, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()))
	})

	pdf.AddPage()

	// Title band.
	pdf.SetFillColor(79, 70, 229)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 30, "Details from QR Code", "", 0, "C", false, 0, "")

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 12)

	y := 50.0

	if len(input.ProductImage) > 0 {
		if imageType := detectImageType(input.ProductImage); imageType != "" {
			opts := gofpdf.ImageOptions{ImageType: imageType}
			pdf.RegisterImageOptionsReader("product-image", opts, bytes.NewReader(input.ProductImage))
			pdf.ImageOptions("product-image", 15, y, 60, 60, false, opts, 0, "")
			y += 70
		}
	}

	// Item type banner.
	pdf.SetFillColor(248, 249, 250)
	pdf.Rect(10, y, 190, 15, "F")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(15, y+10, "Product Name:")
	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(80, y+10, input.Item.ItemType)
	y += 25

	// Facts table. Missing values render as N/A so the table shape is stable.
	facts := []struct {
		label string
		value string
	}{
		{"Vendor Name:", orNA(input.Item.Vendor)},
		{"Lot Number:", orNA(input.Item.LotNumber)},
		{"Manufacture Date:", dateOrNA(input.Item.ManufactureDate)},
		{"Supply Date:", dateOrNA(input.Item.DateOfSupply)},
		{"Location (Address):", orNA(input.Item.Location)},
		{"Geotag (Coordinates):", orNA(input.Item.Geotag)},
		{"Warranty Start Date:", dateOrNA(input.Item.WarrantyStartDate)},
		{"Warranty End Date:", dateOrNA(input.Item.WarrantyEndDate)},
	}

	pdf.SetFontSize(10)
	for i, fact := range facts {
		y = breakIfNeeded(pdf, y, lineBottomLimit)
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
			pdf.Rect(10, y, 190, 12, "F")
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(15, y+8, fact.label)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(80, y+8, fact.value)
		y += 15
	}

	// Free-text history sections; absent fields are omitted entirely.
	sections := []struct {
		key   string
		title string
	}{
		{"inspectionNotes", "Inspection Notes:"},
		{"qualityReport", "Quality Report:"},
		{"recommendations", "Recommendations:"},
		{"vendorNotes", "Vendor Notes:"},
	}
	for _, section := range sections {
		text := stringField(input.Item.DynamicData, section.key)
		if text == "" {
			continue
		}
		y = breakIfNeeded(pdf, y, blockBottomLimit)
		y = drawSectionHeader(pdf, y, section.title)
		for _, line := range pdf.SplitText(text, textWidth) {
			y = breakIfNeeded(pdf, y, lineBottomLimit)
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(15, y, line)
			y += lineHeight
		}
		y += 10
	}

	// Service information block.
	serviceDate := stringField(input.Item.DynamicData, "serviceDate")
	nextInspection := stringField(input.Item.DynamicData, "nextInspection")
	if serviceDate != "" || nextInspection != "" {
		y = breakIfNeeded(pdf, y, blockBottomLimit)
		y = drawSectionHeader(pdf, y, "Service Information:")
		if serviceDate != "" {
			y = drawLabelledLine(pdf, y, "Service Date:", serviceDate)
		}
		if nextInspection != "" {
			y = drawLabelledLine(pdf, y, "Next Inspection:", nextInspection)
		}
		y += 10
	}

	// Recent scan activity.
	if len(input.ScanHistory) > 0 {
		y = breakIfNeeded(pdf, y, blockBottomLimit)
		y = drawSectionHeader(pdf, y, fmt.Sprintf("Scan Activity (%d total):", len(input.ScanHistory)))
		recent := input.ScanHistory
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, scanLog := range recent {
			y = breakIfNeeded(pdf, y, lineBottomLimit)
			line := scanLog.ScannedAt.Format("2006-01-02 15:04")
			if scanLog.Location != "" {
				line += " - " + scanLog.Location
			}
			line += " (by " + scanLog.ScannedBy + ")"
			pdf.SetFont("Helvetica", "", 10)
			pdf.Text(15, y, line)
			y += lineHeight
		}
		y += 10
	}

	// QR code with its token.
	if len(input.QRImage) > 0 {
		y = breakIfNeeded(pdf, y, blockBottomLimit)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr-code", opts, bytes.NewReader(input.QRImage))
		pdf.ImageOptions("qr-code", 15, y, 50, 50, false, opts, 0, "")
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(75, y+20, "QR Code")
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(75, y+30, fmt.Sprintf("Unique ID: %s", input.Item.UUIDToken))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func breakIfNeeded(pdf *gofpdf.Fpdf, y, limit float64) float64 {
	if y > limit {
		pdf.AddPage()
		return pageTopMargin
	}
	return y
}

func drawSectionHeader(pdf *gofpdf.Fpdf, y float64, title string) float64 {
	pdf.SetFillColor(248, 249, 250)
	pdf.Rect(10, y, 190, 15, "F")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(15, y+10, title)
	return y + 20
}

func drawLabelledLine(pdf *gofpdf.Fpdf, y float64, label, value string) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(15, y, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(80, y, value)
	return y + 12
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	value, _ := data[key].(string)
	return value
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func dateOrNA(value *time.Time) string {
	if value == nil {
		return "N/A"
	}
	return value.Format("2006-01-02")
}

func detectImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 2 && data[0] == 0xff && data[1] == 0xd8:
		return "JPG"
	}
	return ""
}
