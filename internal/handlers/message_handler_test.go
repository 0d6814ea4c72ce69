package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

type stubMessageService struct {
	created   *models.Message
	createErr error
	listed    []models.Message
	listTotal int
	listErr   error
	lastInput services.CreateMessageInput
	lastList  services.ListMessagesInput
}

func (s *stubMessageService) CreateMessage(_ context.Context, input services.CreateMessageInput) (*models.Message, error) {
	s.lastInput = input
	return s.created, s.createErr
}

func (s *stubMessageService) ListMessages(_ context.Context, input services.ListMessagesInput) ([]models.Message, int, error) {
	s.lastList = input
	return s.listed, s.listTotal, s.listErr
}

func TestCreateMessageReturnsCreated(t *testing.T) {
	customerID := int64(42)
	service := &stubMessageService{
		created: &models.Message{ID: 5, ConversationID: 9, CustomerID: &customerID, Body: "hello"},
	}
	handler := NewMessageHandler(service)

	app := fiber.New()
	app.Post("/api/v1/messages", handler.CreateMessage)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(
		`{"conversationId":9,"customerId":42,"body":"hello","isBranchAddressQuery":true,"token":"abc"}`,
	))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	input := service.lastInput
	if input.ConversationID != 9 || input.CustomerID == nil || *input.CustomerID != 42 {
		t.Fatalf("unexpected forwarded input: %+v", input)
	}
	if !input.IsBranchAddressQuery || input.Token != "abc" {
		t.Fatalf("auto-reply fields not forwarded: %+v", input)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		Message models.Message `json:"message"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.Message.ID != 5 || data.Message.Body != "hello" {
		t.Fatalf("unexpected message: %+v", data.Message)
	}
}

func TestCreateMessageRequiresConversationID(t *testing.T) {
	handler := NewMessageHandler(&stubMessageService{})

	app := fiber.New()
	app.Post("/api/v1/messages", handler.CreateMessage)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, resp); body.Message != "Conversation ID is required." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestCreateMessageRequiresBody(t *testing.T) {
	handler := NewMessageHandler(&stubMessageService{})

	app := fiber.New()
	app.Post("/api/v1/messages", handler.CreateMessage)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"conversationId":9,"body":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, resp); body.Message != "Message body is required." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestCreateMessageUnknownConversation(t *testing.T) {
	handler := NewMessageHandler(&stubMessageService{createErr: services.ErrConversationNotFound})

	app := fiber.New()
	app.Post("/api/v1/messages", handler.CreateMessage)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"conversationId":99,"body":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, resp); body.Message != "Conversation does not exist." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestGetMessagesOffsetMode(t *testing.T) {
	service := &stubMessageService{
		listed: []models.Message{
			{ID: 1, ConversationID: 9, Body: "first", CreatedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)},
			{ID: 2, ConversationID: 9, Body: "second", CreatedAt: time.Date(2026, 5, 1, 8, 1, 0, 0, time.UTC)},
		},
		listTotal: 12,
	}
	handler := NewMessageHandler(service)

	app := fiber.New()
	app.Get("/api/v1/messages", handler.GetMessages)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages?conversationId=9&pageNumber=2&pageSize=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastList.ConversationID != 9 || service.lastList.PageNumber != 2 || service.lastList.PageSize != 5 {
		t.Fatalf("unexpected forwarded input: %+v", service.lastList)
	}
	if service.lastList.FromID != 0 {
		t.Fatalf("offset mode must not set a from id, got %d", service.lastList.FromID)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		PageNumber int              `json:"pageNumber"`
		PageSize   int              `json:"pageSize"`
		ItemsCount int              `json:"itemsCount"`
		Count      int              `json:"count"`
		Messages   []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.Count != 12 || data.ItemsCount != 2 || len(data.Messages) != 2 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestGetMessagesFromIDMode(t *testing.T) {
	service := &stubMessageService{
		listed: []models.Message{{ID: 7, ConversationID: 9, Body: "older"}},
	}
	handler := NewMessageHandler(service)

	app := fiber.New()
	app.Get("/api/v1/messages", handler.GetMessages)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages?conversationId=9&fromId=10&pageSize=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastList.FromID != 10 || service.lastList.PageSize != 5 {
		t.Fatalf("unexpected forwarded input: %+v", service.lastList)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		PageSize   int              `json:"pageSize"`
		ItemsCount int              `json:"itemsCount"`
		FromID     int64            `json:"fromId"`
		Messages   []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.FromID != 10 || data.ItemsCount != 1 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestGetMessagesRequiresConversationID(t *testing.T) {
	handler := NewMessageHandler(&stubMessageService{})

	app := fiber.New()
	app.Get("/api/v1/messages", handler.GetMessages)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/messages?pageNumber=1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
