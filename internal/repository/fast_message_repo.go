package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
)

type FastMessageRepository struct {
	db    DBTX
	codec BodyCodec
}

func NewFastMessageRepository(db DBTX, codec BodyCodec) *FastMessageRepository {
	return &FastMessageRepository{db: db, codec: codec}
}

func (r *FastMessageRepository) Create(ctx context.Context, shorthand, body string) (*models.FastMessage, error) {
	encrypted, err := r.codec.Encrypt(body)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO fast_messages (shorthand, body)
		VALUES ($1, $2)
		RETURNING id, shorthand, created_at, updated_at
	`

	var fastMessage models.FastMessage
	err = r.db.QueryRow(ctx, query, shorthand, encrypted).Scan(
		&fastMessage.ID,
		&fastMessage.Shorthand,
		&fastMessage.CreatedAt,
		&fastMessage.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fastMessage.Body = body
	return &fastMessage, nil
}

func (r *FastMessageRepository) GetByID(ctx context.Context, fastMessageID int64) (*models.FastMessage, error) {
	query := `
		SELECT id, shorthand, body, created_at, updated_at
		FROM fast_messages
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, fastMessageID))
}

func (r *FastMessageRepository) GetByShorthand(ctx context.Context, shorthand string) (*models.FastMessage, error) {
	query := `
		SELECT id, shorthand, body, created_at, updated_at
		FROM fast_messages
		WHERE shorthand = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, shorthand))
}

// GetOtherByShorthand finds a different record already using a shorthand,
// for the update-time conflict check.
func (r *FastMessageRepository) GetOtherByShorthand(
	ctx context.Context,
	fastMessageID int64,
	shorthand string,
) (*models.FastMessage, error) {
	query := `
		SELECT id, shorthand, body, created_at, updated_at
		FROM fast_messages
		WHERE shorthand = $1 AND id <> $2
	`

	return r.scanOne(r.db.QueryRow(ctx, query, shorthand, fastMessageID))
}

type ListFastMessagesInput struct {
	SearchQuery   string
	SortBy        string
	SortDirection string
	Limit         int
	Offset        int
}

func (r *FastMessageRepository) List(ctx context.Context, input ListFastMessagesInput) ([]models.FastMessage, int, error) {
	orderBy := "shorthand"
	if input.SortBy == "created_at" {
		orderBy = "created_at"
	}
	direction := "ASC"
	if input.SortDirection == "desc" {
		direction = "DESC"
	}

	search := "%" + input.SearchQuery + "%"

	totalQuery := `
		SELECT COUNT(*)
		FROM fast_messages
		WHERE shorthand ILIKE $1
	`

	var total int
	if err := r.db.QueryRow(ctx, totalQuery, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, shorthand, body, created_at, updated_at
		FROM fast_messages
		WHERE shorthand ILIKE $1
		ORDER BY ` + orderBy + ` ` + direction + `, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, search, input.Limit, input.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	fastMessages := make([]models.FastMessage, 0)
	for rows.Next() {
		var fastMessage models.FastMessage
		if err := rows.Scan(
			&fastMessage.ID,
			&fastMessage.Shorthand,
			&fastMessage.Body,
			&fastMessage.CreatedAt,
			&fastMessage.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}

		body, err := r.codec.Decrypt(fastMessage.Body)
		if err != nil {
			return nil, 0, err
		}
		fastMessage.Body = body

		fastMessages = append(fastMessages, fastMessage)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return fastMessages, total, nil
}

func (r *FastMessageRepository) Update(ctx context.Context, fastMessageID int64, shorthand, body string) (*models.FastMessage, error) {
	encrypted, err := r.codec.Encrypt(body)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE fast_messages
		SET shorthand = $2, body = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, shorthand, created_at, updated_at
	`

	var fastMessage models.FastMessage
	err = r.db.QueryRow(ctx, query, fastMessageID, shorthand, encrypted).Scan(
		&fastMessage.ID,
		&fastMessage.Shorthand,
		&fastMessage.CreatedAt,
		&fastMessage.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	fastMessage.Body = body
	return &fastMessage, nil
}

func (r *FastMessageRepository) Delete(ctx context.Context, fastMessageID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM fast_messages WHERE id = $1`, fastMessageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *FastMessageRepository) scanOne(row pgx.Row) (*models.FastMessage, error) {
	var fastMessage models.FastMessage
	if err := row.Scan(
		&fastMessage.ID,
		&fastMessage.Shorthand,
		&fastMessage.Body,
		&fastMessage.CreatedAt,
		&fastMessage.UpdatedAt,
	); err != nil {
		return nil, err
	}

	body, err := r.codec.Decrypt(fastMessage.Body)
	if err != nil {
		return nil, err
	}
	fastMessage.Body = body

	return &fastMessage, nil
}
