package repository

import (
	"context"

	"github.com/benjamintzh/KNY/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByForum returns the forum's comments oldest first, each carrying
	// the author's display name.
	ListByForum(ctx context.Context, forumID int64) ([]*domain.Comment, error)
}
