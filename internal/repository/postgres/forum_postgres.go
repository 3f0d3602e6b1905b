package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/repository"
)

type forumRepository struct {
	db *sqlx.DB
}

// NewForumRepository creates a new PostgreSQL forum repository
func NewForumRepository(db *sqlx.DB) repository.ForumRepository {
	return &forumRepository{db: db}
}

// Create inserts a new forum and fills in its generated id
func (r *forumRepository) Create(ctx context.Context, forum *domain.Forum) error {
	query := `
		INSERT INTO forums (title, description, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		forum.Title, forum.Description, forum.CreatedBy, forum.CreatedAt,
	).Scan(&forum.ID)
	if err != nil {
		return fmt.Errorf("failed to create forum: %w", err)
	}

	return nil
}

// GetByID retrieves a forum by its ID
func (r *forumRepository) GetByID(ctx context.Context, id int64) (*domain.Forum, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM forums
		WHERE id = $1`

	var forum domain.Forum
	err := r.db.GetContext(ctx, &forum, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get forum by id: %w", err)
	}

	return &forum, nil
}

// List retrieves all forums
func (r *forumRepository) List(ctx context.Context) ([]*domain.Forum, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM forums
		ORDER BY id ASC`

	forums := []*domain.Forum{}
	err := r.db.SelectContext(ctx, &forums, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}

	return forums, nil
}

// ListRecent retrieves the newest forums for the community feed
func (r *forumRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Forum, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM forums
		ORDER BY id DESC
		LIMIT $1`

	forums := []*domain.Forum{}
	err := r.db.SelectContext(ctx, &forums, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent forums: %w", err)
	}

	return forums, nil
}
