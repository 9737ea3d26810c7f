package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

const userColumns = `
	id, email, username, first_name, last_name, password_hash,
	COALESCE(bio, '') AS bio,
	COALESCE(avatar_url, '') AS avatar_url,
	active, notification_preferences, last_seen_at, created_at, updated_at
`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
        INSERT INTO users (
            id, email, username, first_name, last_name, password_hash,
            bio, avatar_url, active, notification_preferences,
            last_seen_at, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	_, err := r.GetDB().ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Bio,
		user.AvatarURL,
		user.Active,
		user.NotificationPrefs,
		user.LastSeenAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) getBy(ctx context.Context, column string, value interface{}) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	var user model.User
	if err := r.GetDB().GetContext(ctx, &user, query, value); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
        UPDATE users SET
            email = $2, username = $3, first_name = $4, last_name = $5,
            password_hash = $6, bio = $7, avatar_url = $8, active = $9,
            notification_preferences = $10, last_seen_at = $11, updated_at = $12
        WHERE id = $1
    `

	user.UpdatedAt = time.Now()
	_, err := r.GetDB().ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Bio,
		user.AvatarURL,
		user.Active,
		user.NotificationPrefs,
		user.LastSeenAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// userDependentDeletes removes every row the account owns or is referenced
// by. Column names must match the insert statements of the other
// repositories in this package.
var userDependentDeletes = []string{
	`DELETE FROM notifications WHERE user_id = $1 OR actor_id = $1`,
	`DELETE FROM user_activities WHERE user_id = $1`,
	`DELETE FROM comments WHERE user_id = $1`,
	`DELETE FROM posts WHERE user_id = $1`,
	`DELETE FROM follows WHERE follower_id = $1 OR followed_id = $1`,
}

// Delete removes the account and everything hanging off it in one
// transaction, so a partial failure never leaves orphaned rows.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, query := range userDependentDeletes {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to delete user data: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
