package service

import (
	"context"
	"time"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/repository"
)

// feedSize is how many recent forums the community feed shows.
const feedSize = 5

type ForumService struct {
	forums repository.ForumRepository
}

type CreateForumRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

func NewForumService(forums repository.ForumRepository) *ForumService {
	return &ForumService{forums: forums}
}

func (s *ForumService) Create(ctx context.Context, principal *domain.Principal, req CreateForumRequest) (*domain.Forum, error) {
	forum := &domain.Forum{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   principal.Email,
		CreatedAt:   time.Now(),
	}
	if err := s.forums.Create(ctx, forum); err != nil {
		return nil, err
	}
	return forum, nil
}

func (s *ForumService) Get(ctx context.Context, id int64) (*domain.Forum, error) {
	forum, err := s.forums.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if forum == nil {
		return nil, domain.NewNotFound("Forum not found with ID: %d", id)
	}
	return forum, nil
}

func (s *ForumService) List(ctx context.Context) ([]*domain.Forum, error) {
	return s.forums.List(ctx)
}

// Feed returns the most recently created forums.
func (s *ForumService) Feed(ctx context.Context) ([]*domain.Forum, error) {
	return s.forums.ListRecent(ctx, feedSize)
}
