package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"libris/internal/domain"
	applog "libris/internal/log"
)

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps a domain error kind onto its HTTP status. Business rejections
// surface their message; infra and unknown failures do not leak internals.
func fail(c *fiber.Ctx, action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrInvalidMember),
		errors.Is(err, domain.ErrHasActiveLoans):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		applog.Error(c, action, err, nil)
		return jsonError(c, fiber.StatusServiceUnavailable, "store unavailable")
	default:
		applog.Error(c, action, err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "internal error")
	}
}
