package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/oauth"
)

// ErrorHandler is the single place errors become HTTP responses. Handlers and
// services return error kinds; this maps each kind to a stable status and a
// structured JSON body. Unexpected errors are logged in full server-side and
// reach the client only as a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})

	case errors.Is(err, domain.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authenticated",
		})

	case errors.Is(err, domain.ErrDuplicateUser):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "User already exists",
		})

	case errors.Is(err, domain.ErrMissingEmailClaim):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "OAuth2 user email not found",
		})

	case errors.Is(err, oauth.ErrInvalidState),
		errors.Is(err, oauth.ErrExchangeFailed),
		errors.Is(err, oauth.ErrProfileFetchFailed):
		log.Printf("[ERROR_HANDLER] External login failed [%s %s]: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication failed",
		})

	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Message,
		})

	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": validation.Message,
		})

	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"message": fiberErr.Message,
		})
	}

	log.Printf("[ERROR_HANDLER] Unexpected error [%s %s]: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "An unexpected error occurred",
	})
}
