package comment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	"github.com/hirenbhut/social-api/internal/service/activity"
	"github.com/hirenbhut/social-api/internal/service/notification"
	"github.com/hirenbhut/social-api/pkg/logger"
)

// Service handles comment creation and deletion plus the activity and
// notification side effects. Both side effects follow the fire-and-forget
// convention: their failures are logged and never abort the comment
// operation itself.
type Service struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
	recorder *activity.Recorder
	notifier *notification.Service
	logger   *logger.Logger
}

func NewService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	recorder *activity.Recorder,
	notifier *notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		comments: comments,
		posts:    posts,
		users:    users,
		recorder: recorder,
		notifier: notifier,
		logger:   log,
	}
}

// Create persists the comment, records a comment_created activity for the
// commenter and notifies the post author. Commenting on one's own post
// creates no notification.
func (s *Service) Create(ctx context.Context, userID, postID uuid.UUID, body string) (*model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &model.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if _, err := s.recorder.RecordSync(ctx, userID, model.ActivityCommentCreated, &activity.RecordOptions{
		Description: "Commented on post: " + post.Title,
		Trackable:   model.Ref{Type: model.RefTypeComment, ID: comment.ID},
	}); err != nil {
		s.logger.Error(err, "failed to record comment activity", "comment_id", comment.ID.String())
	}

	if post.UserID != userID {
		s.notifyAuthor(ctx, post, comment)
	}

	return comment, nil
}

func (s *Service) notifyAuthor(ctx context.Context, post *model.Post, comment *model.Comment) {
	commenterName := "Someone"
	if commenter, err := s.users.GetByID(ctx, comment.UserID); err == nil {
		commenterName = commenter.DisplayName()
	}

	_, err := s.notifier.Notify(ctx, post.UserID, model.NotificationPostCommented,
		"New Comment on Your Post",
		fmt.Sprintf("%s commented on your post '%s'", commenterName, post.Title),
		&notification.NotifyOptions{
			ActorID: comment.UserID,
			Subject: model.Ref{Type: model.RefTypePost, ID: post.ID},
			URL:     fmt.Sprintf("%s#comment-%s", post.Path(), comment.ID),
			Metadata: model.JSONMap{
				"post_id":    post.ID.String(),
				"comment_id": comment.ID.String(),
			},
		},
	)
	if err != nil {
		s.logger.Error(err, "failed to notify post author", "post_id", post.ID.String())
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	return s.comments.GetByID(ctx, id)
}

func (s *Service) ListByPost(ctx context.Context, postID uuid.UUID, p model.Pagination) ([]*model.Comment, int64, error) {
	return s.comments.ListByPost(ctx, postID, p)
}

// Delete removes the comment and records a deletion trace for its author.
func (s *Service) Delete(ctx context.Context, comment *model.Comment) error {
	post, postErr := s.posts.GetByID(ctx, comment.PostID)

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return err
	}

	description := "Deleted a comment"
	if postErr == nil {
		description = "Deleted comment on post: " + post.Title
	}
	if _, err := s.recorder.RecordSync(ctx, comment.UserID, model.ActivityFeatureUsed, &activity.RecordOptions{
		Description: description,
		Trackable:   model.Ref{Type: model.RefTypeComment, ID: comment.ID},
	}); err != nil {
		s.logger.Error(err, "failed to record comment deletion", "comment_id", comment.ID.String())
	}

	return nil
}
