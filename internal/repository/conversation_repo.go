package repository

import (
	"context"

	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(ctx context.Context, customerID int64) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (customer_id)
		VALUES ($1)
		RETURNING id, customer_id, created_at, updated_at
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&conversation.ID,
		&conversation.CustomerID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `
		SELECT id, customer_id, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, conversationID).Scan(
		&conversation.ID,
		&conversation.CustomerID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *ConversationRepository) GetByCustomerID(ctx context.Context, customerID int64) (*models.Conversation, error) {
	query := `
		SELECT id, customer_id, created_at, updated_at
		FROM conversations
		WHERE customer_id = $1
	`

	var conversation models.Conversation
	err := r.db.QueryRow(ctx, query, customerID).Scan(
		&conversation.ID,
		&conversation.CustomerID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

// InboxRow is one admin-inbox conversation joined with its admin read
// cursor. Conversations with no messages yet are excluded; the inbox is
// ordered by latest message time, newest first.
type InboxRow struct {
	Conversation models.Conversation
	AdminRead    models.ConversationRead
}

func (r *ConversationRepository) ListInbox(
	ctx context.Context,
	limit int,
	offset int,
) ([]InboxRow, int, error) {
	totalQuery := `
		SELECT COUNT(*)
		FROM conversations c
		WHERE EXISTS (
			SELECT 1 FROM messages m WHERE m.conversation_id = c.id
		)
	`

	var total int
	if err := r.db.QueryRow(ctx, totalQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT
			c.id,
			c.customer_id,
			c.created_at,
			c.updated_at,
			cr.id,
			cr.conversation_id,
			cr.is_admin,
			cr.last_read_message_id,
			cr.created_at,
			cr.updated_at
		FROM conversations c
		JOIN conversation_reads cr
			ON cr.conversation_id = c.id AND cr.is_admin = TRUE
		JOIN LATERAL (
			SELECT created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		ORDER BY lm.created_at DESC, c.id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	inbox := make([]InboxRow, 0)
	for rows.Next() {
		var row InboxRow
		if err := rows.Scan(
			&row.Conversation.ID,
			&row.Conversation.CustomerID,
			&row.Conversation.CreatedAt,
			&row.Conversation.UpdatedAt,
			&row.AdminRead.ID,
			&row.AdminRead.ConversationID,
			&row.AdminRead.IsAdmin,
			&row.AdminRead.LastReadMessageID,
			&row.AdminRead.CreatedAt,
			&row.AdminRead.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}

		inbox = append(inbox, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return inbox, total, nil
}
