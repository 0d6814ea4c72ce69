package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

type messageApplicationService interface {
	CreateMessage(ctx context.Context, input services.CreateMessageInput) (*models.Message, error)
	ListMessages(ctx context.Context, input services.ListMessagesInput) ([]models.Message, int, error)
}

type MessageHandler struct {
	service messageApplicationService
}

func NewMessageHandler(service messageApplicationService) *MessageHandler {
	return &MessageHandler{service: service}
}

type createMessageRequest struct {
	ConversationID       int64  `json:"conversationId"`
	CustomerID           *int64 `json:"customerId"`
	ContentType          string `json:"contentType"`
	Body                 string `json:"body"`
	IsBranchAddressQuery bool   `json:"isBranchAddressQuery"`
	IsProductQuery       bool   `json:"isProductQuery"`
	ProductID            int64  `json:"productId"`
	Token                string `json:"token"`
}

func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	var req createMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.ConversationID <= 0 {
		return fail(c, fiber.StatusBadRequest, "Conversation ID is required.")
	}
	if strings.TrimSpace(req.Body) == "" {
		return fail(c, fiber.StatusBadRequest, "Message body is required.")
	}

	message, err := h.service.CreateMessage(c.Context(), services.CreateMessageInput{
		ConversationID:       req.ConversationID,
		CustomerID:           req.CustomerID,
		ContentType:          req.ContentType,
		Body:                 req.Body,
		IsBranchAddressQuery: req.IsBranchAddressQuery,
		IsProductQuery:       req.IsProductQuery,
		ProductID:            req.ProductID,
		Token:                req.Token,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusCreated, "Message created successfully.", fiber.Map{
		"message": message,
	})
}

func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	conversationID, ok := parseID(c.Query("conversationId"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Conversation ID is required.")
	}

	pageSize := parsePageSize(c.Query("pageSize"), defaultMessagePageSize)

	if fromValue := c.Query("fromId"); fromValue != "" {
		fromID, ok := parseID(fromValue)
		if !ok {
			return fail(c, fiber.StatusBadRequest, "Invalid from message id.")
		}

		messages, _, err := h.service.ListMessages(c.Context(), services.ListMessagesInput{
			ConversationID: conversationID,
			PageSize:       pageSize,
			FromID:         fromID,
		})
		if err != nil {
			return mapServiceError(c, err)
		}

		return respond(c, fiber.StatusOK, "Messages retrieved successfully.", fiber.Map{
			"pageSize":   pageSize,
			"itemsCount": len(messages),
			"fromId":     fromID,
			"messages":   messages,
		})
	}

	pageNumber := parsePositiveInt(c.Query("pageNumber"), 1)

	messages, total, err := h.service.ListMessages(c.Context(), services.ListMessagesInput{
		ConversationID: conversationID,
		PageNumber:     pageNumber,
		PageSize:       pageSize,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Messages retrieved successfully.", fiber.Map{
		"pageNumber": pageNumber,
		"pageSize":   pageSize,
		"itemsCount": len(messages),
		"count":      total,
		"messages":   messages,
	})
}
