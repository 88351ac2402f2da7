package document

import (
	"context"
	"fmt"
	"log"
	"time"

	"rail-qr-backend/internal/utils/storage"
	"rail-qr-backend/pkg/item"
	"rail-qr-backend/pkg/qr"
	"rail-qr-backend/pkg/scan"
)

type (
	DocumentService interface {
		GenerateItemPDF(ctx context.Context, uuidToken string) ([]byte, string, error)
	}

	documentService struct {
		itemService item.ItemService
		scanService scan.ScanService
		encoder     qr.Encoder
		s3          storage.AwsS3
		baseURL     string
		now         func() time.Time
	}
)

func NewDocumentService(itemService item.ItemService, scanService scan.ScanService, encoder qr.Encoder, s3 storage.AwsS3, baseURL string) DocumentService {
	return &documentService{
		itemService: itemService,
		scanService: scanService,
		encoder:     encoder,
		s3:          s3,
		baseURL:     baseURL,
		now:         time.Now,
	}
}

// GenerateItemPDF gathers an item, its scan history and both images, then
// renders the printable document. An unreadable product image is logged and
// skipped; the document must still be produced. A missing QR PNG on disk is
// rebuilt in memory from the stored token.
func (s *documentService) GenerateItemPDF(ctx context.Context, uuidToken string) ([]byte, string, error) {
	resolved, err := s.itemService.GetItemByToken(ctx, uuidToken)
	if err != nil {
		return nil, "", err
	}

	scanHistory, err := s.scanService.GetScanHistory(ctx, resolved.ID)
	if err != nil {
		return nil, "", err
	}

	qrImage, err := s.encoder.ReadPNG(uuidToken)
	if err != nil {
		qrImage, err = s.encoder.EncodeBytes(uuidToken, s.baseURL)
		if err != nil {
			return nil, "", err
		}
	}

	var productImage []byte
	if resolved.ProductImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(resolved.ProductImageURL)
		if objectKey != "" {
			productImage, err = s.s3.DownloadFile(objectKey)
			if err != nil {
				log.Printf("skipping unreadable product image for item %s: %v", resolved.ID, err)
				productImage = nil
			}
		}
	}

	documentBytes, err := Render(RenderInput{
		Item:         resolved,
		ScanHistory:  scanHistory,
		ProductImage: productImage,
		QRImage:      qrImage,
		GeneratedAt:  s.now(),
	})
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("qr-details-%s.pdf", uuidToken)
	return documentBytes, filename, nil
}
