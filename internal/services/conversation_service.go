package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/repository"
)

type conversationReader interface {
	GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error)
	GetByCustomerID(ctx context.Context, customerID int64) (*models.Conversation, error)
	ListInbox(ctx context.Context, limit int, offset int) ([]repository.InboxRow, int, error)
}

type readCursorReader interface {
	GetForConversation(ctx context.Context, conversationID int64, isAdmin bool) (*models.ConversationRead, error)
}

type unreadMessageReader interface {
	GetByID(ctx context.Context, messageID int64) (*models.Message, error)
	Latest(ctx context.Context, conversationID int64) (*models.Message, error)
	ListUnreadSince(ctx context.Context, conversationID int64, fromCustomer bool, after time.Time) ([]models.Message, error)
}

type ConversationService struct {
	db               *pgxpool.Pool
	conversationRepo conversationReader
	readRepo         readCursorReader
	messageRepo      unreadMessageReader
}

func NewConversationService(
	db *pgxpool.Pool,
	conversationRepo conversationReader,
	readRepo readCursorReader,
	messageRepo unreadMessageReader,
) *ConversationService {
	return &ConversationService{
		db:               db,
		conversationRepo: conversationRepo,
		readRepo:         readRepo,
		messageRepo:      messageRepo,
	}
}

// CreateConversation bootstraps the one conversation a customer gets: the
// conversation row plus one cursor per party, in a single transaction. The
// existence pre-check is advisory; the unique index on customer_id is the
// final arbiter of the duplicate race.
func (s *ConversationService) CreateConversation(ctx context.Context, customerID int64) (*models.Conversation, error) {
	if customerID <= 0 {
		return nil, ErrInvalidInput
	}

	_, err := s.conversationRepo.GetByCustomerID(ctx, customerID)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txConversationRepo := repository.NewConversationRepository(tx)
	txReadRepo := repository.NewConversationReadRepository(tx)

	conversation, err := txConversationRepo.Create(ctx, customerID)
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if _, err := txReadRepo.Create(ctx, conversation.ID, false); err != nil {
		return nil, err
	}
	if _, err := txReadRepo.Create(ctx, conversation.ID, true); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return conversation, nil
}

// ListInbox is the admin view: one page of conversations that have
// messages, newest activity first, each with its unread count and latest
// message.
func (s *ConversationService) ListInbox(
	ctx context.Context,
	pageNumber int,
	pageSize int,
) ([]models.ConversationSummary, int, error) {
	if pageNumber <= 0 || pageSize <= 0 {
		return nil, 0, ErrInvalidInput
	}

	rows, total, err := s.conversationRepo.ListInbox(ctx, pageSize, (pageNumber-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]models.ConversationSummary, 0, len(rows))
	for _, row := range rows {
		unread, err := s.unreadCount(ctx, &row.AdminRead, true)
		if err != nil {
			return nil, 0, err
		}

		latest, err := s.messageRepo.Latest(ctx, row.Conversation.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, err
		}

		summaries = append(summaries, models.ConversationSummary{
			ID:                 row.Conversation.ID,
			ConversationReadID: row.AdminRead.ID,
			CustomerID:         row.Conversation.CustomerID,
			UnreadCount:        unread,
			LatestMessage:      latest,
		})
	}

	return summaries, total, nil
}

// AdminSummary reports the admin-side unread state of one conversation.
func (s *ConversationService) AdminSummary(ctx context.Context, conversationID int64) (*models.ConversationSummary, error) {
	if conversationID <= 0 {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	return s.summary(ctx, conversation, true)
}

// CustomerSummary reports the customer-side unread state of the
// customer's conversation.
func (s *ConversationService) CustomerSummary(ctx context.Context, customerID int64) (*models.ConversationSummary, error) {
	if customerID <= 0 {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	return s.summary(ctx, conversation, false)
}

func (s *ConversationService) summary(
	ctx context.Context,
	conversation *models.Conversation,
	viewerIsAdmin bool,
) (*models.ConversationSummary, error) {
	read, err := s.readRepo.GetForConversation(ctx, conversation.ID, viewerIsAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReadNotFound
		}
		return nil, err
	}

	unread, err := s.unreadCount(ctx, read, viewerIsAdmin)
	if err != nil {
		return nil, err
	}

	return &models.ConversationSummary{
		ID:                 conversation.ID,
		ConversationReadID: read.ID,
		CustomerID:         conversation.CustomerID,
		UnreadCount:        unread,
	}, nil
}

// unreadCount reconciles a read cursor against the message stream. The
// boundary is the created time of the last-read message when the cursor
// points at one, otherwise the cursor's own updated time, so a freshly
// bootstrapped conversation reports zero. A single qualifying message
// created in the same instant as the boundary is the just-read message
// showing up again under timestamp granularity collisions and counts as
// zero.
func (s *ConversationService) unreadCount(
	ctx context.Context,
	read *models.ConversationRead,
	viewerIsAdmin bool,
) (int, error) {
	lastReadTime := read.UpdatedAt
	if read.LastReadMessageID != nil {
		lastRead, err := s.messageRepo.GetByID(ctx, *read.LastReadMessageID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		if err == nil {
			lastReadTime = lastRead.CreatedAt
		}
	}

	qualifying, err := s.messageRepo.ListUnreadSince(ctx, read.ConversationID, viewerIsAdmin, lastReadTime)
	if err != nil {
		return 0, err
	}

	if len(qualifying) == 1 && qualifying[0].CreatedAt.Equal(lastReadTime) {
		return 0, nil
	}

	return len(qualifying), nil
}
