package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/crypto"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

// Every response, success or failure, is the same envelope. Clients only
// ever parse one shape.
func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  status,
		"success": status < fiber.StatusBadRequest,
		"message": message,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return respond(c, status, message, nil)
}

// mapServiceError is the shared fallback mapping. Handlers intercept
// errors that need a request-specific message (conflicts, mostly) before
// delegating here. Domain lookups failing is a client error across the
// board; cipher failures stay generic so nothing about the encryption
// setup leaks.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return fail(c, fiber.StatusBadRequest, "Invalid request.")
	case errors.Is(err, services.ErrConflict):
		return fail(c, fiber.StatusBadRequest, "Conflict.")
	case errors.Is(err, services.ErrConversationNotFound):
		return fail(c, fiber.StatusBadRequest, "Conversation does not exist.")
	case errors.Is(err, services.ErrMessageNotFound):
		return fail(c, fiber.StatusBadRequest, "Message does not exist.")
	case errors.Is(err, services.ErrReadNotFound):
		return fail(c, fiber.StatusBadRequest, "Conversation read does not exist.")
	case errors.Is(err, services.ErrFastMessageNotFound):
		return fail(c, fiber.StatusBadRequest, "Fast message not found.")
	case errors.Is(err, services.ErrCrossConversation):
		return fail(c, fiber.StatusBadRequest, "Message does not belong to the conversation read.")
	case errors.Is(err, crypto.ErrCipher):
		return fail(c, fiber.StatusInternalServerError, "Failed to process message content.")
	default:
		return fail(c, fiber.StatusInternalServerError, "Something went wrong.")
	}
}
