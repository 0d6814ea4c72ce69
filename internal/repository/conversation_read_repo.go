package repository

import (
	"context"

	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

type ConversationReadRepository struct {
	db DBTX
}

func NewConversationReadRepository(db DBTX) *ConversationReadRepository {
	return &ConversationReadRepository{db: db}
}

func (r *ConversationReadRepository) Create(
	ctx context.Context,
	conversationID int64,
	isAdmin bool,
) (*models.ConversationRead, error) {
	query := `
		INSERT INTO conversation_reads (conversation_id, is_admin)
		VALUES ($1, $2)
		RETURNING id, conversation_id, is_admin, last_read_message_id, created_at, updated_at
	`

	var read models.ConversationRead
	err := r.db.QueryRow(ctx, query, conversationID, isAdmin).Scan(
		&read.ID,
		&read.ConversationID,
		&read.IsAdmin,
		&read.LastReadMessageID,
		&read.CreatedAt,
		&read.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &read, nil
}

func (r *ConversationReadRepository) GetByID(ctx context.Context, readID int64) (*models.ConversationRead, error) {
	query := `
		SELECT id, conversation_id, is_admin, last_read_message_id, created_at, updated_at
		FROM conversation_reads
		WHERE id = $1
	`

	var read models.ConversationRead
	err := r.db.QueryRow(ctx, query, readID).Scan(
		&read.ID,
		&read.ConversationID,
		&read.IsAdmin,
		&read.LastReadMessageID,
		&read.CreatedAt,
		&read.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &read, nil
}

func (r *ConversationReadRepository) GetForConversation(
	ctx context.Context,
	conversationID int64,
	isAdmin bool,
) (*models.ConversationRead, error) {
	query := `
		SELECT id, conversation_id, is_admin, last_read_message_id, created_at, updated_at
		FROM conversation_reads
		WHERE conversation_id = $1 AND is_admin = $2
	`

	var read models.ConversationRead
	err := r.db.QueryRow(ctx, query, conversationID, isAdmin).Scan(
		&read.ID,
		&read.ConversationID,
		&read.IsAdmin,
		&read.LastReadMessageID,
		&read.CreatedAt,
		&read.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &read, nil
}

func (r *ConversationReadRepository) UpdateLastRead(
	ctx context.Context,
	readID int64,
	messageID int64,
) (*models.ConversationRead, error) {
	query := `
		UPDATE conversation_reads
		SET last_read_message_id = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, conversation_id, is_admin, last_read_message_id, created_at, updated_at
	`

	var read models.ConversationRead
	err := r.db.QueryRow(ctx, query, readID, messageID).Scan(
		&read.ID,
		&read.ConversationID,
		&read.IsAdmin,
		&read.LastReadMessageID,
		&read.CreatedAt,
		&read.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &read, nil
}
