package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Published bool      `json:"published" db:"published"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (p *Post) Path() string {
	return "/posts/" + p.ID.String()
}

type CreatePostRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Body      string `json:"body" binding:"required"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=255"`
	Body      *string `json:"body"`
	Published *bool   `json:"published"`
}
