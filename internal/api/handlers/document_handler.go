package handlers

import (
	"fmt"

	"rail-qr-backend/domain"
	"rail-qr-backend/internal/api/presenters"
	"rail-qr-backend/pkg/document"

	"github.com/gofiber/fiber/v2"
)

type (
	DocumentHandler interface {
		DownloadItemPDF(c *fiber.Ctx) error
	}

	documentHandler struct {
		documentService document.DocumentService
	}
)

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandler{documentService: documentService}
}

func (h *documentHandler) DownloadItemPDF(c *fiber.Ctx) error {
	uuidToken := c.Params("token")

	documentBytes, filename, err := h.documentService.GenerateItemPDF(c.Context(), uuidToken)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGeneratePDF, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(documentBytes)
}
