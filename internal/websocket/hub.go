package chatws

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

// AdminKey is the subscription key shared by all admin viewers. Customer
// viewers subscribe under their decimal customer id.
const AdminKey = "admin"

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *MessageEvent
}

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	partyKey string
	send     chan []byte
}

// MessageEvent is the wire payload for one created message: the message's
// fields flattened, plus the assignee hint for inbox routing.
type MessageEvent struct {
	Type           string   `json:"type"`
	ID             int64    `json:"id"`
	ConversationID int64    `json:"conversation_id"`
	CustomerID     *int64   `json:"customer_id"`
	ContentType    string   `json:"content_type"`
	Body           string   `json:"body"`
	Markdown       bool     `json:"markdown"`
	CreatedAt      string   `json:"created_at"`
	Assignee       Assignee `json:"assignee"`

	customerKey string
}

type Assignee struct {
	ID string `json:"id"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *MessageEvent, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, partyKey string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		partyKey: partyKey,
		send:     make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.partyKey]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.partyKey] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.partyKey]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.partyKey)
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastMessage fans a committed message out to both parties of its
// conversation. Delivery is fire and forget: absent subscribers miss the
// event and reconcile through the paginated message list.
func (h *Hub) BroadcastMessage(message *models.Message, conversationCustomerID int64) {
	customerKey := strconv.FormatInt(conversationCustomerID, 10)

	assignee := Assignee{ID: customerKey}
	if message.FromCustomer() {
		assignee = Assignee{ID: AdminKey}
	}

	h.broadcast <- &MessageEvent{
		Type:           "message",
		ID:             message.ID,
		ConversationID: message.ConversationID,
		CustomerID:     message.CustomerID,
		ContentType:    message.ContentType,
		Body:           message.Body,
		Markdown:       message.Markdown,
		CreatedAt:      message.CreatedAt.UTC().Format(time.RFC3339Nano),
		Assignee:       assignee,
		customerKey:    customerKey,
	}
}

func (h *Hub) deliver(event *MessageEvent) {
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Printf("chat hub encode event: %v", err)
		return
	}

	h.sendToParty(AdminKey, encoded)
	h.sendToParty(event.customerKey, encoded)
}

func (h *Hub) sendToParty(partyKey string, payload []byte) {
	set, ok := h.clients[partyKey]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, partyKey)
	}
}

// ReadPump drains the connection until the peer goes away. The realtime
// channel is push only; messages are created over HTTP.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
