package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/repository"
)

type conversationGetter interface {
	GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error)
}

type messageStore interface {
	Create(ctx context.Context, input repository.CreateMessageInput) (*models.Message, error)
	GetByID(ctx context.Context, messageID int64) (*models.Message, error)
	ListByConversation(ctx context.Context, conversationID int64, limit int, offset int) ([]models.Message, int, error)
	ListBefore(ctx context.Context, conversationID int64, beforeCreatedAt time.Time, beforeID int64, limit int) ([]models.Message, error)
}

type messageBroadcaster interface {
	BroadcastMessage(message *models.Message, conversationCustomerID int64)
}

type autoReplyDispatcher interface {
	Dispatch(ctx context.Context, conversation *models.Conversation, req AutoReplyRequest)
}

type MessageService struct {
	conversationRepo conversationGetter
	messageRepo      messageStore
	hub              messageBroadcaster
	autoReply        autoReplyDispatcher
}

func NewMessageService(
	conversationRepo conversationGetter,
	messageRepo messageStore,
	hub messageBroadcaster,
	autoReply autoReplyDispatcher,
) *MessageService {
	return &MessageService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		hub:              hub,
		autoReply:        autoReply,
	}
}

type CreateMessageInput struct {
	ConversationID       int64
	CustomerID           *int64
	ContentType          string
	Body                 string
	IsBranchAddressQuery bool
	IsProductQuery       bool
	ProductID            int64
	Token                string
}

// CreateMessage persists and broadcasts one message. The optional
// auto-reply enrichment runs after the message is committed and can never
// fail the creation that triggered it.
func (s *MessageService) CreateMessage(ctx context.Context, input CreateMessageInput) (*models.Message, error) {
	if input.ConversationID <= 0 {
		return nil, ErrInvalidInput
	}

	contentType := input.ContentType
	if contentType == "" {
		contentType = models.ContentTypeText
	}
	if contentType != models.ContentTypeText && contentType != models.ContentTypeImage {
		return nil, ErrInvalidInput
	}

	if strings.TrimSpace(input.Body) == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	message, err := s.messageRepo.Create(ctx, repository.CreateMessageInput{
		ConversationID: conversation.ID,
		CustomerID:     input.CustomerID,
		ContentType:    contentType,
		Body:           input.Body,
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastMessage(message, conversation.CustomerID)

	if s.autoReply != nil && (input.IsBranchAddressQuery || input.IsProductQuery) {
		s.autoReply.Dispatch(ctx, conversation, AutoReplyRequest{
			BranchAddress: input.IsBranchAddressQuery,
			ProductQuery:  input.IsProductQuery,
			ProductID:     input.ProductID,
			Token:         input.Token,
		})
	}

	return message, nil
}

type ListMessagesInput struct {
	ConversationID int64
	PageNumber     int
	PageSize       int
	FromID         int64
}

// ListMessages returns one page, oldest first. FromID selects the
// cursor-based mode: messages strictly older than the referenced message.
// Without it the offset mode applies and total carries the conversation's
// message count.
func (s *MessageService) ListMessages(ctx context.Context, input ListMessagesInput) ([]models.Message, int, error) {
	if input.ConversationID <= 0 || input.PageSize <= 0 {
		return nil, 0, ErrInvalidInput
	}

	if input.FromID > 0 {
		from, err := s.messageRepo.GetByID(ctx, input.FromID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, 0, ErrMessageNotFound
			}
			return nil, 0, err
		}
		if from.ConversationID != input.ConversationID {
			return nil, 0, ErrInvalidInput
		}

		messages, err := s.messageRepo.ListBefore(ctx, input.ConversationID, from.CreatedAt, from.ID, input.PageSize)
		if err != nil {
			return nil, 0, err
		}

		reverse(messages)
		return messages, len(messages), nil
	}

	if input.PageNumber <= 0 {
		return nil, 0, ErrInvalidInput
	}

	messages, total, err := s.messageRepo.ListByConversation(
		ctx,
		input.ConversationID,
		input.PageSize,
		(input.PageNumber-1)*input.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}

	reverse(messages)
	return messages, total, nil
}

// Storage order is newest first; callers display oldest first.
func reverse(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
