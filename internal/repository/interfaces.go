package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.Post, int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPost(ctx context.Context, postID uuid.UUID, p model.Pagination) ([]*model.Comment, int64, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow *model.Follow) error
	Delete(ctx context.Context, followerID, followedID uuid.UUID) error
	Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error)
	FollowerIDs(ctx context.Context, followedID uuid.UUID) ([]uuid.UUID, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.UserActivity) error

	// Prune deletes the user's oldest rows beyond keep, as one bulk
	// statement. Returns the number of rows removed.
	Prune(ctx context.Context, userID uuid.UUID, keep int) (int64, error)

	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.UserActivity, error)
	ListWithPagination(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.UserActivity, int64, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByTypeSince(ctx context.Context, userID uuid.UUID, since time.Time) (map[model.ActivityType]int64, error)
	CountByDaySince(ctx context.Context, userID uuid.UUID, since time.Time) (map[string]int64, error)
	TopUsers(ctx context.Context, since time.Time, limit int) ([]model.UserActivityCount, error)
	Analytics(ctx context.Context) (*model.ActivityAnalytics, error)

	// UserIDsOverLimit lists users whose activity count exceeds keep; used
	// by the safety-net cleanup worker.
	UserIDsOverLimit(ctx context.Context, keep int) ([]uuid.UUID, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)

	// MarkRead sets read_at only when currently null; MarkUnread clears it
	// only when set. Both report whether a row actually changed.
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkUnread(ctx context.Context, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error)
	ListWithPagination(ctx context.Context, userID uuid.UUID, filter model.NotificationFilter, p model.Pagination) ([]*model.Notification, int64, error)
	Analytics(ctx context.Context) (*model.NotificationAnalytics, error)
}
