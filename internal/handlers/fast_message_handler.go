package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

type fastMessageApplicationService interface {
	Create(ctx context.Context, shorthand, body string) (*models.FastMessage, error)
	List(ctx context.Context, pageNumber, pageSize int, searchQuery, sortBy, sortDirection string) ([]models.FastMessage, int, error)
	Update(ctx context.Context, fastMessageID int64, shorthand, body string) (*models.FastMessage, error)
	Delete(ctx context.Context, fastMessageID int64) (*models.FastMessage, error)
}

type FastMessageHandler struct {
	service fastMessageApplicationService
}

func NewFastMessageHandler(service fastMessageApplicationService) *FastMessageHandler {
	return &FastMessageHandler{service: service}
}

type fastMessageRequest struct {
	Shorthand string `json:"shorthand"`
	Body      string `json:"body"`
}

func (h *FastMessageHandler) CreateFastMessage(c *fiber.Ctx) error {
	var req fastMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	fastMessage, err := h.service.Create(c.Context(), req.Shorthand, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return fail(c, fiber.StatusBadRequest, "Fast message with this shorthand already exists.")
		}
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusCreated, "Fast message created successfully.", fiber.Map{
		"fast_message": fastMessage,
	})
}

func (h *FastMessageHandler) GetFastMessages(c *fiber.Ctx) error {
	pageNumber := parsePositiveInt(c.Query("pageNumber"), 1)
	pageSize := parsePageSize(c.Query("pageSize"), defaultFastMessagePageSize)

	fastMessages, total, err := h.service.List(
		c.Context(),
		pageNumber,
		pageSize,
		c.Query("searchQuery"),
		c.Query("sortBy", "shorthand"),
		c.Query("sortDirection", "asc"),
	)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Fast messages retrieved successfully.", fiber.Map{
		"pageNumber":    pageNumber,
		"pageSize":      pageSize,
		"itemsCount":    len(fastMessages),
		"count":         total,
		"fast_messages": fastMessages,
	})
}

func (h *FastMessageHandler) UpdateFastMessage(c *fiber.Ctx) error {
	fastMessageID, ok := parseID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid fast message id.")
	}

	var req fastMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	fastMessage, err := h.service.Update(c.Context(), fastMessageID, req.Shorthand, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrConflict) {
			return fail(c, fiber.StatusBadRequest, "Fast message with this shorthand already exists.")
		}
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Fast message updated successfully.", fiber.Map{
		"fast_message": fastMessage,
	})
}

func (h *FastMessageHandler) DeleteFastMessage(c *fiber.Ctx) error {
	fastMessageID, ok := parseID(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid fast message id.")
	}

	fastMessage, err := h.service.Delete(c.Context(), fastMessageID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return respond(c, fiber.StatusOK, "Fast message deleted successfully.", fiber.Map{
		"fast_message": fastMessage,
	})
}
