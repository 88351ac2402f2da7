package handlers

import (
	"errors"

	"rail-qr-backend/domain"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service-level sentinel errors onto HTTP status codes so
// callers can distinguish a missing item from a malformed token or a
// uniqueness conflict.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateToken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUnauthorizedAccess),
		errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrEncodingFailed),
		errors.Is(err, domain.ErrRenderFailed),
		errors.Is(err, domain.ErrConcurrentUpdate):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
