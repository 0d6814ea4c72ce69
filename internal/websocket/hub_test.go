package chatws

import (
	"testing"
	"time"

	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

func TestBroadcastMessageFromCustomerAssignsAdmin(t *testing.T) {
	hub := NewHub()
	customerID := int64(42)

	hub.BroadcastMessage(&models.Message{
		ID:             5,
		ConversationID: 9,
		CustomerID:     &customerID,
		ContentType:    models.ContentTypeText,
		Body:           "hello",
		CreatedAt:      time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}, customerID)

	select {
	case event := <-hub.broadcast:
		if event.Type != "message" {
			t.Fatalf("unexpected event type %q", event.Type)
		}
		if event.Assignee.ID != AdminKey {
			t.Fatalf("customer message must be assigned to admin, got %q", event.Assignee.ID)
		}
		if event.customerKey != "42" {
			t.Fatalf("unexpected customer key %q", event.customerKey)
		}
		if event.CreatedAt != "2026-05-01T08:00:00Z" {
			t.Fatalf("unexpected created_at %q", event.CreatedAt)
		}
	default:
		t.Fatal("no event queued")
	}
}

func TestBroadcastMessageFromAdminAssignsCustomer(t *testing.T) {
	hub := NewHub()

	hub.BroadcastMessage(&models.Message{
		ID:             6,
		ConversationID: 9,
		ContentType:    models.ContentTypeText,
		Body:           "how can we help",
		CreatedAt:      time.Now(),
	}, 42)

	select {
	case event := <-hub.broadcast:
		if event.Assignee.ID != "42" {
			t.Fatalf("admin message must be assigned to the customer, got %q", event.Assignee.ID)
		}
	default:
		t.Fatal("no event queued")
	}
}

func TestDeliverReachesBothParties(t *testing.T) {
	hub := NewHub()

	adminClient := &Client{hub: hub, partyKey: AdminKey, send: make(chan []byte, 1)}
	customerClient := &Client{hub: hub, partyKey: "42", send: make(chan []byte, 1)}
	otherClient := &Client{hub: hub, partyKey: "77", send: make(chan []byte, 1)}

	hub.clients[AdminKey] = map[*Client]struct{}{adminClient: {}}
	hub.clients["42"] = map[*Client]struct{}{customerClient: {}}
	hub.clients["77"] = map[*Client]struct{}{otherClient: {}}

	hub.deliver(&MessageEvent{
		Type:        "message",
		ID:          5,
		Body:        "hello",
		customerKey: "42",
	})

	if len(adminClient.send) != 1 {
		t.Fatal("admin client must receive the event")
	}
	if len(customerClient.send) != 1 {
		t.Fatal("conversation customer must receive the event")
	}
	if len(otherClient.send) != 0 {
		t.Fatal("unrelated customer must not receive the event")
	}
}

func TestDeliverDropsStalledClient(t *testing.T) {
	hub := NewHub()

	stalled := &Client{hub: hub, partyKey: AdminKey, send: make(chan []byte)}
	hub.clients[AdminKey] = map[*Client]struct{}{stalled: {}}

	hub.deliver(&MessageEvent{Type: "message", ID: 5, customerKey: "42"})

	if _, ok := hub.clients[AdminKey]; ok {
		t.Fatal("stalled client must be evicted")
	}
	if _, open := <-stalled.send; open {
		t.Fatal("stalled client send channel must be closed")
	}
}
