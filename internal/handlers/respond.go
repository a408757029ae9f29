package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tleroy/geocaching-api/internal/httperr"
)

// statusFor maps a service error onto the HTTP taxonomy: 400 missing
// field, 401 credential/ownership failures, 403 non-admin on an admin
// route, 404 unresolved id, 409 duplicate email, 500 anything else.
func statusFor(err error) int {
	switch {
	case errors.Is(err, httperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, httperr.ErrInvalidCredentials),
		errors.Is(err, httperr.ErrInvalidToken),
		errors.Is(err, httperr.ErrUnauthorized),
		errors.Is(err, httperr.ErrInvalidPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, httperr.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, httperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, httperr.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		// Store errors are not for clients.
		msg = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{"msg": msg})
}

// identity pulls the acting user out of what the auth middleware
// stashed in the request locals.
func identity(c *fiber.Ctx) (string, bool) {
	userID, _ := c.Locals("user_id").(string)
	isAdmin, _ := c.Locals("is_admin").(bool)
	return userID, isAdmin
}
