package domain

import (
	"time"
)

type Comment struct {
	ID        int64  `json:"id" db:"id"`
	ForumID   int64  `json:"forum_id" db:"forum_id"`
	Content   string `json:"content" db:"content"`
	CreatedBy string `json:"created_by" db:"created_by"`
	// Display name of the author, joined from the users table on read.
	CreatedByName string    `json:"created_by_name" db:"created_by_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
