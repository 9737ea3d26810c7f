package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

type commentRepository struct {
	BaseRepository
}

func NewCommentRepository(base BaseRepository) repository.CommentRepository {
	return &commentRepository{base}
}

const commentInsertColumns = `id, post_id, user_id, body, created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
        INSERT INTO comments (` + commentInsertColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6)
    `

	_, err := r.GetDB().ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.UserID, comment.Body,
		comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := `SELECT * FROM comments WHERE id = $1`

	var comment model.Comment
	if err := r.GetDB().GetContext(ctx, &comment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("comment", err)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`

	if _, err := r.GetDB().ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID, p model.Pagination) ([]*model.Comment, int64, error) {
	var total int64
	if err := r.GetDB().GetContext(ctx, &total,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	query := `
        SELECT * FROM comments
        WHERE post_id = $1
        ORDER BY created_at ASC
        LIMIT $2 OFFSET $3
    `

	var comments []*model.Comment
	if err := r.GetDB().SelectContext(ctx, &comments, query, postID, p.Limit(), p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, total, nil
}
