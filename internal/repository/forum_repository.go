package repository

import (
	"context"

	"github.com/benjamintzh/KNY/internal/domain"
)

type ForumRepository interface {
	Create(ctx context.Context, forum *domain.Forum) error
	// GetByID returns (nil, nil) when no record exists.
	GetByID(ctx context.Context, id int64) (*domain.Forum, error)
	List(ctx context.Context) ([]*domain.Forum, error)
	// ListRecent returns the newest forums first, at most limit of them.
	ListRecent(ctx context.Context, limit int) ([]*domain.Forum, error)
}
