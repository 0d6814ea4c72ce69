package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

type readApplicationService interface {
	AdvanceCursor(ctx context.Context, readID int64, messageID int64) (*models.ConversationRead, error)
}

type ConversationReadHandler struct {
	service readApplicationService
}

func NewConversationReadHandler(service readApplicationService) *ConversationReadHandler {
	return &ConversationReadHandler{service: service}
}

type updateConversationReadRequest struct {
	ConversationReadID int64 `json:"conversationReadId"`
	LastReadMessageID  int64 `json:"lastReadMessageId"`
}

func (h *ConversationReadHandler) UpdateConversationRead(c *fiber.Ctx) error {
	var req updateConversationReadRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.ConversationReadID <= 0 {
		return fail(c, fiber.StatusBadRequest, "Conversation Read ID is required.")
	}
	if req.LastReadMessageID <= 0 {
		return fail(c, fiber.StatusBadRequest, "Last read message ID is required.")
	}

	read, err := h.service.AdvanceCursor(c.Context(), req.ConversationReadID, req.LastReadMessageID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Conversation Read updated successfully.", fiber.Map{
		"conversation_read": read,
	})
}
