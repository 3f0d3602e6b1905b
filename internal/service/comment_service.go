package service

import (
	"context"
	"time"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	forums   repository.ForumRepository
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

func NewCommentService(comments repository.CommentRepository, forums repository.ForumRepository) *CommentService {
	return &CommentService{
		comments: comments,
		forums:   forums,
	}
}

func (s *CommentService) ListByForum(ctx context.Context, forumID int64) ([]*domain.Comment, error) {
	return s.comments.ListByForum(ctx, forumID)
}

// Create posts a comment as the principal. The route is publicly reachable,
// so the principal check lives here rather than in the middleware.
func (s *CommentService) Create(ctx context.Context, principal *domain.Principal, forumID int64, req CreateCommentRequest) (*domain.Comment, error) {
	if principal == nil {
		return nil, domain.ErrNotAuthenticated
	}

	forum, err := s.forums.GetByID(ctx, forumID)
	if err != nil {
		return nil, err
	}
	if forum == nil {
		return nil, domain.NewNotFound("Forum not found with ID: %d", forumID)
	}

	comment := &domain.Comment{
		ForumID:       forumID,
		Content:       req.Content,
		CreatedBy:     principal.Email,
		CreatedByName: principal.Name,
		CreatedAt:     time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}
