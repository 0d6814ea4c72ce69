package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phamtuankietuit/new-chat-server/internal/config"
	"github.com/phamtuankietuit/new-chat-server/internal/crypto"
	"github.com/phamtuankietuit/new-chat-server/internal/handlers"
	"github.com/phamtuankietuit/new-chat-server/internal/repository"
	"github.com/phamtuankietuit/new-chat-server/internal/services"
	chatws "github.com/phamtuankietuit/new-chat-server/internal/websocket"
)

// RegisterRoutes builds the whole wiring: codec, repositories, services,
// handlers, and the static route table. No reflection, no registration
// magic; what is routed is what is listed here.
func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) error {
	codec, err := crypto.NewCodec(cfg.EncryptionKey)
	if err != nil {
		return err
	}

	conversationRepo := repository.NewConversationRepository(db)
	readRepo := repository.NewConversationReadRepository(db)
	messageRepo := repository.NewMessageRepository(db, codec)
	fastMessageRepo := repository.NewFastMessageRepository(db, codec)

	hub := chatws.NewHub()
	go hub.Run()

	var autoReply *services.AutoReplyService
	if cfg.CatalogBaseURL != "" {
		catalog := services.NewCatalogService(cfg.CatalogBaseURL, cfg.CatalogTimeout)
		autoReply = services.NewAutoReplyService(catalog, messageRepo, hub)
	}

	conversationService := services.NewConversationService(db, conversationRepo, readRepo, messageRepo)
	messageService := newMessageService(conversationRepo, messageRepo, hub, autoReply)
	readService := services.NewReadService(readRepo, messageRepo)
	fastMessageService := services.NewFastMessageService(fastMessageRepo)

	conversationHandler := handlers.NewConversationHandler(conversationService)
	messageHandler := handlers.NewMessageHandler(messageService)
	readHandler := handlers.NewConversationReadHandler(readService)
	fastMessageHandler := handlers.NewFastMessageHandler(fastMessageService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	api := app.Group("/api/v1")

	conversations := api.Group("/conversations")
	conversations.Post("", conversationHandler.CreateConversation)
	conversations.Get("", conversationHandler.GetConversations)
	conversations.Get("/customer/:customerId", conversationHandler.GetConversationByCustomer)
	conversations.Get("/:id", conversationHandler.GetConversationByID)

	api.Put("/conversation-reads", readHandler.UpdateConversationRead)

	messages := api.Group("/messages")
	messages.Post("", messageHandler.CreateMessage)
	messages.Get("", messageHandler.GetMessages)

	fastMessages := api.Group("/fast-messages")
	fastMessages.Post("", fastMessageHandler.CreateFastMessage)
	fastMessages.Get("", fastMessageHandler.GetFastMessages)
	fastMessages.Put("/:id", fastMessageHandler.UpdateFastMessage)
	fastMessages.Delete("/:id", fastMessageHandler.DeleteFastMessage)

	api.Use("/ws", wsHandler.Upgrade)
	api.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	return nil
}

func newMessageService(
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	hub *chatws.Hub,
	autoReply *services.AutoReplyService,
) *services.MessageService {
	// A nil *AutoReplyService must become a nil interface, otherwise the
	// dispatch guard inside the service never trips.
	if autoReply == nil {
		return services.NewMessageService(conversationRepo, messageRepo, hub, nil)
	}
	return services.NewMessageService(conversationRepo, messageRepo, hub, autoReply)
}
