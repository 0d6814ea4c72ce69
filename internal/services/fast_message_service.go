package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/phamtuankietuit/new-chat-server/internal/models"
	"github.com/phamtuankietuit/new-chat-server/internal/repository"
)

type fastMessageStore interface {
	Create(ctx context.Context, shorthand, body string) (*models.FastMessage, error)
	GetByID(ctx context.Context, fastMessageID int64) (*models.FastMessage, error)
	GetByShorthand(ctx context.Context, shorthand string) (*models.FastMessage, error)
	GetOtherByShorthand(ctx context.Context, fastMessageID int64, shorthand string) (*models.FastMessage, error)
	List(ctx context.Context, input repository.ListFastMessagesInput) ([]models.FastMessage, int, error)
	Update(ctx context.Context, fastMessageID int64, shorthand, body string) (*models.FastMessage, error)
	Delete(ctx context.Context, fastMessageID int64) error
}

type FastMessageService struct {
	fastMessageRepo fastMessageStore
}

func NewFastMessageService(fastMessageRepo fastMessageStore) *FastMessageService {
	return &FastMessageService{fastMessageRepo: fastMessageRepo}
}

func (s *FastMessageService) Create(ctx context.Context, shorthand, body string) (*models.FastMessage, error) {
	shorthand = strings.TrimSpace(shorthand)
	if shorthand == "" || strings.TrimSpace(body) == "" {
		return nil, ErrInvalidInput
	}

	_, err := s.fastMessageRepo.GetByShorthand(ctx, shorthand)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	fastMessage, err := s.fastMessageRepo.Create(ctx, shorthand, body)
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return fastMessage, nil
}

func (s *FastMessageService) List(
	ctx context.Context,
	pageNumber int,
	pageSize int,
	searchQuery string,
	sortBy string,
	sortDirection string,
) ([]models.FastMessage, int, error) {
	if pageNumber <= 0 || pageSize <= 0 {
		return nil, 0, ErrInvalidInput
	}

	return s.fastMessageRepo.List(ctx, repository.ListFastMessagesInput{
		SearchQuery:   searchQuery,
		SortBy:        sortBy,
		SortDirection: sortDirection,
		Limit:         pageSize,
		Offset:        (pageNumber - 1) * pageSize,
	})
}

func (s *FastMessageService) Update(ctx context.Context, fastMessageID int64, shorthand, body string) (*models.FastMessage, error) {
	shorthand = strings.TrimSpace(shorthand)
	if fastMessageID <= 0 || shorthand == "" || strings.TrimSpace(body) == "" {
		return nil, ErrInvalidInput
	}

	// A different record may already own the shorthand; the record itself
	// keeping its shorthand is fine.
	_, err := s.fastMessageRepo.GetOtherByShorthand(ctx, fastMessageID, shorthand)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if _, err := s.fastMessageRepo.GetByID(ctx, fastMessageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFastMessageNotFound
		}
		return nil, err
	}

	fastMessage, err := s.fastMessageRepo.Update(ctx, fastMessageID, shorthand, body)
	if err != nil {
		if repository.UniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return fastMessage, nil
}

func (s *FastMessageService) Delete(ctx context.Context, fastMessageID int64) (*models.FastMessage, error) {
	if fastMessageID <= 0 {
		return nil, ErrInvalidInput
	}

	fastMessage, err := s.fastMessageRepo.GetByID(ctx, fastMessageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFastMessageNotFound
		}
		return nil, err
	}

	if err := s.fastMessageRepo.Delete(ctx, fastMessageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFastMessageNotFound
		}
		return nil, err
	}

	return fastMessage, nil
}
