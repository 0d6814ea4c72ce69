package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

// BodyCodec encrypts message bodies on the way into the store and
// decrypts them on the way out. Empty bodies pass through unchanged.
type BodyCodec interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

type MessageRepository struct {
	db    DBTX
	codec BodyCodec
}

func NewMessageRepository(db DBTX, codec BodyCodec) *MessageRepository {
	return &MessageRepository{db: db, codec: codec}
}

type CreateMessageInput struct {
	ConversationID int64
	CustomerID     *int64
	ContentType    string
	Body           string
	Markdown       bool
}

func (r *MessageRepository) Create(ctx context.Context, input CreateMessageInput) (*models.Message, error) {
	encrypted, err := r.codec.Encrypt(input.Body)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO messages (conversation_id, customer_id, content_type, body, markdown)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, conversation_id, customer_id, content_type, markdown, created_at
	`

	var message models.Message
	err = r.db.QueryRow(
		ctx,
		query,
		input.ConversationID,
		input.CustomerID,
		input.ContentType,
		encrypted,
		input.Markdown,
	).Scan(
		&message.ID,
		&message.ConversationID,
		&message.CustomerID,
		&message.ContentType,
		&message.Markdown,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	message.Body = input.Body
	return &message, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, messageID int64) (*models.Message, error) {
	query := `
		SELECT id, conversation_id, customer_id, content_type, body, markdown, created_at
		FROM messages
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, messageID))
}

func (r *MessageRepository) Latest(ctx context.Context, conversationID int64) (*models.Message, error) {
	query := `
		SELECT id, conversation_id, customer_id, content_type, body, markdown, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, conversationID))
}

// ListByConversation returns one offset-based page of a conversation's
// messages, newest first, along with the total message count.
func (r *MessageRepository) ListByConversation(
	ctx context.Context,
	conversationID int64,
	limit int,
	offset int,
) ([]models.Message, int, error) {
	totalQuery := `
		SELECT COUNT(*)
		FROM messages
		WHERE conversation_id = $1
	`

	var total int
	if err := r.db.QueryRow(ctx, totalQuery, conversationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, conversation_id, customer_id, content_type, body, markdown, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	messages, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// ListBefore returns messages strictly older than the referenced message,
// newest first, capped at limit. Same-instant rows are ordered by id.
func (r *MessageRepository) ListBefore(
	ctx context.Context,
	conversationID int64,
	beforeCreatedAt time.Time,
	beforeID int64,
	limit int,
) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, customer_id, content_type, body, markdown, created_at
		FROM messages
		WHERE conversation_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, conversationID, beforeCreatedAt, beforeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// ListUnreadSince returns the other party's messages created after the
// given boundary, oldest first. fromCustomer selects which side counts as
// the other party for the viewer.
func (r *MessageRepository) ListUnreadSince(
	ctx context.Context,
	conversationID int64,
	fromCustomer bool,
	after time.Time,
) ([]models.Message, error) {
	condition := "customer_id IS NULL"
	if fromCustomer {
		condition = "customer_id IS NOT NULL"
	}

	query := `
		SELECT id, conversation_id, customer_id, content_type, body, markdown, created_at
		FROM messages
		WHERE conversation_id = $1
		  AND ` + condition + `
		  AND created_at > $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *MessageRepository) scanOne(row pgx.Row) (*models.Message, error) {
	var message models.Message
	if err := row.Scan(
		&message.ID,
		&message.ConversationID,
		&message.CustomerID,
		&message.ContentType,
		&message.Body,
		&message.Markdown,
		&message.CreatedAt,
	); err != nil {
		return nil, err
	}

	body, err := r.codec.Decrypt(message.Body)
	if err != nil {
		return nil, err
	}
	message.Body = body

	return &message, nil
}

func (r *MessageRepository) scanAll(rows pgx.Rows) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.CustomerID,
			&message.ContentType,
			&message.Body,
			&message.Markdown,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}

		body, err := r.codec.Decrypt(message.Body)
		if err != nil {
			return nil, err
		}
		message.Body = body

		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
