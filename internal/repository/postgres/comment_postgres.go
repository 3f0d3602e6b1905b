package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/benjamintzh/KNY/internal/domain"
	"github.com/benjamintzh/KNY/internal/repository"
)

type commentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sqlx.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment and fills in its generated id
func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (forum_id, content, created_by, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		comment.ForumID, comment.Content, comment.CreatedBy, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListByForum retrieves a forum's comments with author display names
func (r *commentRepository) ListByForum(ctx context.Context, forumID int64) ([]*domain.Comment, error) {
	query := `
		SELECT c.id, c.forum_id, c.content, c.created_by,
			   COALESCE(u.name, '') AS created_by_name, c.created_at
		FROM comments c
		LEFT JOIN users u ON u.email = c.created_by
		WHERE c.forum_id = $1
		ORDER BY c.created_at ASC`

	comments := []*domain.Comment{}
	err := r.db.SelectContext(ctx, &comments, query, forumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments by forum: %w", err)
	}

	return comments, nil
}
