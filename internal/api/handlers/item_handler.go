package handlers

import (
	"strconv"

	"rail-qr-backend/domain"
	"rail-qr-backend/internal/api/presenters"
	"rail-qr-backend/pkg/item"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ItemHandler interface {
		CreateItem(c *fiber.Ctx) error
		GetItemByToken(c *fiber.Ctx) error
		GetItems(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		UploadProductImage(c *fiber.Ctx) error
		AddMaintenance(c *fiber.Ctx) error
		GetItemQR(c *fiber.Ctx) error
	}

	itemHandler struct {
		itemService item.ItemService
		validator   *validator.Validate
	}
)

func NewItemHandler(itemService item.ItemService, validator *validator.Validate) ItemHandler {
	return &itemHandler{
		itemService: itemService,
		validator:   validator,
	}
}

func (h *itemHandler) CreateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// The creation form may carry an optional product image.
	if file, err := c.FormFile("product_image"); err == nil {
		req.ProductImage = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateItem, err)
	}

	res, err := h.itemService.CreateItem(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateItem)
}

func (h *itemHandler) GetItemByToken(c *fiber.Ctx) error {
	uuidToken := c.Params("token")

	res, err := h.itemService.GetItemByToken(c.Context(), uuidToken)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItem)
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	search := c.Query("search")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	items, count, err := h.itemService.GetItems(c.Context(), search, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"items": items,
		"pagination": fiber.Map{
			"currentPage":  page,
			"totalPages":   (count + int64(limit) - 1) / int64(limit),
			"totalItems":   count,
			"itemsPerPage": limit,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) UpdateItem(c *fiber.Ctx) error {
	itemID := c.Params("id")
	req := new(domain.UpdateItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateItem, err)
	}

	res, err := h.itemService.UpdateItem(c.Context(), itemID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUpdateItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateItem)
}

func (h *itemHandler) DeleteItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	if err := h.itemService.DeleteItem(c.Context(), itemID); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *itemHandler) UploadProductImage(c *fiber.Ctx) error {
	req := new(domain.UploadProductImageRequest)
	req.ItemID = c.Params("id")

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	imageURL, err := h.itemService.UploadProductImage(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"image_url": imageURL}, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *itemHandler) AddMaintenance(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	uuidToken := c.Params("token")
	req := new(domain.MaintenanceRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMaintenance, err)
	}

	res, err := h.itemService.AppendMaintenance(c.Context(), uuidToken, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedAddMaintenance, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddMaintenance)
}

// GetItemQR regenerates the stored QR PNG for an existing token, or returns
// it as an inline data URL when ?format=dataurl is requested.
func (h *itemHandler) GetItemQR(c *fiber.Ctx) error {
	uuidToken := c.Params("token")

	if c.Query("format") == "dataurl" {
		dataURL, err := h.itemService.QRDataURL(c.Context(), uuidToken)
		if err != nil {
			return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGenerateQR, err)
		}
		return presenters.SuccessResponse(c, fiber.Map{"data_url": dataURL}, fiber.StatusOK, domain.MessageSuccessGenerateQR)
	}

	res, err := h.itemService.RegenerateQR(c.Context(), uuidToken)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGenerateQR, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateQR)
}
