package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
)

type followRepository struct {
	BaseRepository
}

func NewFollowRepository(base BaseRepository) repository.FollowRepository {
	return &followRepository{base}
}

const followInsertColumns = `id, follower_id, followed_id, created_at`

func (r *followRepository) Create(ctx context.Context, follow *model.Follow) error {
	query := `
        INSERT INTO follows (` + followInsertColumns + `)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (follower_id, followed_id) DO NOTHING
    `

	_, err := r.GetDB().ExecContext(ctx, query,
		follow.ID, follow.FollowerID, follow.FollowedID, follow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uuid.UUID) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	if _, err := r.GetDB().ExecContext(ctx, query, followerID, followedID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`
	if err := r.GetDB().GetContext(ctx, &exists, query, followerID, followedID); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, followedID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT follower_id FROM follows WHERE followed_id = $1`

	var ids []uuid.UUID
	if err := r.GetDB().SelectContext(ctx, &ids, query, followedID); err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return ids, nil
}
