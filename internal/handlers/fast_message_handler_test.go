package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
)

type stubFastMessageService struct {
	created         *models.FastMessage
	createErr       error
	listed          []models.FastMessage
	listTotal       int
	listErr         error
	updated         *models.FastMessage
	updateErr       error
	deleted         *models.FastMessage
	deleteErr       error
	lastID          int64
	lastShorthand   string
	lastSearchQuery string
	lastSortBy      string
	lastSortDir     string
}

func (s *stubFastMessageService) Create(_ context.Context, shorthand, _ string) (*models.FastMessage, error) {
	s.lastShorthand = shorthand
	return s.created, s.createErr
}

func (s *stubFastMessageService) List(_ context.Context, _, _ int, searchQuery, sortBy, sortDirection string) ([]models.FastMessage, int, error) {
	s.lastSearchQuery = searchQuery
	s.lastSortBy = sortBy
	s.lastSortDir = sortDirection
	return s.listed, s.listTotal, s.listErr
}

func (s *stubFastMessageService) Update(_ context.Context, fastMessageID int64, shorthand, _ string) (*models.FastMessage, error) {
	s.lastID = fastMessageID
	s.lastShorthand = shorthand
	return s.updated, s.updateErr
}

func (s *stubFastMessageService) Delete(_ context.Context, fastMessageID int64) (*models.FastMessage, error) {
	s.lastID = fastMessageID
	return s.deleted, s.deleteErr
}

func newFastMessageApp(service *stubFastMessageService) *fiber.App {
	handler := NewFastMessageHandler(service)
	app := fiber.New()
	app.Post("/api/v1/fast-messages", handler.CreateFastMessage)
	app.Get("/api/v1/fast-messages", handler.GetFastMessages)
	app.Put("/api/v1/fast-messages/:id", handler.UpdateFastMessage)
	app.Delete("/api/v1/fast-messages/:id", handler.DeleteFastMessage)
	return app
}

func TestCreateFastMessageReturnsCreated(t *testing.T) {
	service := &stubFastMessageService{
		created: &models.FastMessage{ID: 1, Shorthand: "hi", Body: "Hello!"},
	}
	app := newFastMessageApp(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fast-messages", strings.NewReader(
		`{"shorthand":"hi","body":"Hello!"}`,
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
	if service.lastShorthand != "hi" {
		t.Fatalf("expected shorthand forwarded, got %q", service.lastShorthand)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		FastMessage models.FastMessage `json:"fast_message"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.FastMessage.ID != 1 {
		t.Fatalf("unexpected record: %+v", data.FastMessage)
	}
}

func TestCreateFastMessageShorthandConflict(t *testing.T) {
	app := newFastMessageApp(&stubFastMessageService{createErr: services.ErrConflict})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fast-messages", strings.NewReader(
		`{"shorthand":"hi","body":"Hello!"}`,
	))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, resp); body.Message != "Fast message with this shorthand already exists." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestGetFastMessagesForwardsFilters(t *testing.T) {
	service := &stubFastMessageService{
		listed:    []models.FastMessage{{ID: 1, Shorthand: "hi"}},
		listTotal: 3,
	}
	app := newFastMessageApp(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/fast-messages?searchQuery=greet&sortBy=created_at&sortDirection=desc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastSearchQuery != "greet" || service.lastSortBy != "created_at" || service.lastSortDir != "desc" {
		t.Fatalf("filters not forwarded: %q %q %q", service.lastSearchQuery, service.lastSortBy, service.lastSortDir)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		Count        int                  `json:"count"`
		FastMessages []models.FastMessage `json:"fast_messages"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.Count != 3 || len(data.FastMessages) != 1 {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestUpdateFastMessageUnknownID(t *testing.T) {
	app := newFastMessageApp(&stubFastMessageService{updateErr: services.ErrFastMessageNotFound})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/fast-messages/9", strings.NewReader(
		`{"shorthand":"hi","body":"Hello!"}`,
	))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeEnvelope(t, resp); body.Message != "Fast message not found." {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestDeleteFastMessageReturnsDeletedRecord(t *testing.T) {
	service := &stubFastMessageService{
		deleted: &models.FastMessage{ID: 4, Shorthand: "bye", Body: "Goodbye!"},
	}
	app := newFastMessageApp(service)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/fast-messages/4", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastID != 4 {
		t.Fatalf("expected id 4 forwarded, got %d", service.lastID)
	}

	body := decodeEnvelope(t, resp)
	var data struct {
		FastMessage models.FastMessage `json:"fast_message"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.FastMessage.Shorthand != "bye" {
		t.Fatalf("unexpected record: %+v", data.FastMessage)
	}
}

func TestDeleteFastMessageInvalidID(t *testing.T) {
	app := newFastMessageApp(&stubFastMessageService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/fast-messages/abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
