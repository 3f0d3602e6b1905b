package repository

import (
	"context"

	"github.com/benjamintzh/KNY/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// GetByEmail returns (nil, nil) when no record exists.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateName(ctx context.Context, email, name string) error
}
