package handlers

import (
	"rail-qr-backend/domain"
	"rail-qr-backend/internal/api/presenters"
	"rail-qr-backend/pkg/scan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ScanHandler interface {
		ScanToken(c *fiber.Ctx) error
		GetScanHistory(c *fiber.Ctx) error
		ResolveDynamic(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

func (h *scanHandler) ScanToken(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	uuidToken := c.Params("token")
	req := new(domain.ScanRequest)

	// Location is optional free text; an empty body is fine.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedScan, err)
	}

	res, err := h.scanService.ScanToken(c.Context(), uuidToken, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedScan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessScan)
}

func (h *scanHandler) GetScanHistory(c *fiber.Ctx) error {
	itemID := c.Params("id")

	res, err := h.scanService.GetScanHistory(c.Context(), itemID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetScanHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"scans": res}, fiber.StatusOK, domain.MessageSuccessGetScanHistory)
}

func (h *scanHandler) ResolveDynamic(c *fiber.Ctx) error {
	uuidToken := c.Params("token")

	res, err := h.scanService.ResolveDynamic(c.Context(), uuidToken)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedResolveDynamic, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessResolveDynamic)
}
