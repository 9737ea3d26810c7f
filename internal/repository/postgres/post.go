package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

type postRepository struct {
	BaseRepository
}

func NewPostRepository(base BaseRepository) repository.PostRepository {
	return &postRepository{base}
}

const postInsertColumns = `id, user_id, title, body, published, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
        INSERT INTO posts (` + postInsertColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.GetDB().ExecContext(ctx, query,
		post.ID, post.UserID, post.Title, post.Body, post.Published,
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := `SELECT * FROM posts WHERE id = $1`

	var post model.Post
	if err := r.GetDB().GetContext(ctx, &post, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("post", err)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	query := `
        UPDATE posts SET title = $2, body = $3, published = $4, updated_at = $5
        WHERE id = $1
    `

	post.UpdatedAt = time.Now()
	_, err := r.GetDB().ExecContext(ctx, query,
		post.ID, post.Title, post.Body, post.Published, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`

	if _, err := r.GetDB().ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.Post, int64, error) {
	var total int64
	if err := r.GetDB().GetContext(ctx, &total,
		`SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
        SELECT * FROM posts
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `

	var posts []*model.Post
	if err := r.GetDB().SelectContext(ctx, &posts, query, userID, p.Limit(), p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}
