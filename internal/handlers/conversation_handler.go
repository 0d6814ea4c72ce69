package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

type conversationApplicationService interface {
	CreateConversation(ctx context.Context, customerID int64) (*models.Conversation, error)
	ListInbox(ctx context.Context, pageNumber int, pageSize int) ([]models.ConversationSummary, int, error)
	AdminSummary(ctx context.Context, conversationID int64) (*models.ConversationSummary, error)
	CustomerSummary(ctx context.Context, customerID int64) (*models.ConversationSummary, error)
}

type ConversationHandler struct {
	service conversationApplicationService
}

func NewConversationHandler(service conversationApplicationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

type createConversationRequest struct {
	CustomerID int64 `json:"customerId"`
}

func (h *ConversationHandler) CreateConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.CustomerID <= 0 {
		return fail(c, fiber.StatusBadRequest, "Customer ID is required.")
	}

	conversation, err := h.service.CreateConversation(c.Context(), req.CustomerID)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return fail(c, fiber.StatusBadRequest, "Conversation already exists.")
		}
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusCreated, "Conversation created successfully.", fiber.Map{
		"conversation": conversation,
	})
}

func (h *ConversationHandler) GetConversations(c *fiber.Ctx) error {
	pageNumber := parsePositiveInt(c.Query("pageNumber"), 1)
	pageSize := parsePageSize(c.Query("pageSize"), defaultConversationPageSize)

	conversations, total, err := h.service.ListInbox(c.Context(), pageNumber, pageSize)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Conversations retrieved successfully.", fiber.Map{
		"pageNumber":    pageNumber,
		"pageSize":      pageSize,
		"itemsCount":    len(conversations),
		"count":         total,
		"conversations": conversations,
	})
}

func (h *ConversationHandler) GetConversationByID(c *fiber.Ctx) error {
	conversationID, ok := parseID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid conversation id.")
	}

	summary, err := h.service.AdminSummary(c.Context(), conversationID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Conversation retrieved successfully.", summary)
}

func (h *ConversationHandler) GetConversationByCustomer(c *fiber.Ctx) error {
	customerID, ok := parseID(c.Params("customerId"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Customer ID is required.")
	}

	summary, err := h.service.CustomerSummary(c.Context(), customerID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Conversation retrieved successfully.", summary)
}
