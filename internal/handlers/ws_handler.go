package handlers

import (
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	chatws "github.com/phamtuankietuit/new-chat-server/internal/websocket"
)

type WebSocketHandler struct {
	hub *chatws.Hub
}

func NewWebSocketHandler(hub *chatws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Upgrade resolves which party the connection subscribes as: admin viewers
// share one key, customer viewers subscribe under their customer id.
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fail(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required.")
	}

	partyKey := chatws.AdminKey
	if c.Query("admin") != "true" {
		customerID, ok := parseID(c.Query("customerId"))
		if !ok {
			return fail(c, fiber.StatusBadRequest, "Customer ID is required.")
		}
		partyKey = strconv.FormatInt(customerID, 10)
	}

	c.Locals("party_key", partyKey)
	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(conn *websocket.Conn) {
	partyKey, _ := conn.Locals("party_key").(string)
	client := chatws.NewClient(h.hub, conn, partyKey)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}
