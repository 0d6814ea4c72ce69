package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

type readCursorStore interface {
	GetByID(ctx context.Context, readID int64) (*models.ConversationRead, error)
	UpdateLastRead(ctx context.Context, readID int64, messageID int64) (*models.ConversationRead, error)
}

type messageGetter interface {
	GetByID(ctx context.Context, messageID int64) (*models.Message, error)
}

type ReadService struct {
	readRepo    readCursorStore
	messageRepo messageGetter
}

func NewReadService(readRepo readCursorStore, messageRepo messageGetter) *ReadService {
	return &ReadService{
		readRepo:    readRepo,
		messageRepo: messageRepo,
	}
}

// AdvanceCursor points a read cursor at a message. The message must belong
// to the cursor's conversation; last_read_message_id is not a foreign key,
// so this is the only place that relationship is enforced. Re-advancing to
// the same message is allowed.
func (s *ReadService) AdvanceCursor(ctx context.Context, readID int64, messageID int64) (*models.ConversationRead, error) {
	if readID <= 0 || messageID <= 0 {
		return nil, ErrInvalidInput
	}

	read, err := s.readRepo.GetByID(ctx, readID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReadNotFound
		}
		return nil, err
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	if message.ConversationID != read.ConversationID {
		return nil, ErrCrossConversation
	}

	return s.readRepo.UpdateLastRead(ctx, read.ID, message.ID)
}
