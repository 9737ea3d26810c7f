package post

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

// Service handles post CRUD plus the activity trail and the
// new-post-from-followed notification fanout.
type Service struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	follows  repository.FollowRepository
	recorder *activity.Recorder
	notifier *notification.Service
	logger   *logger.Logger
}

func NewService(
	posts repository.PostRepository,
	users repository.UserRepository,
	follows repository.FollowRepository,
	recorder *activity.Recorder,
	notifier *notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		posts:    posts,
		users:    users,
		follows:  follows,
		recorder: recorder,
		notifier: notifier,
		logger:   log,
	}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreatePostRequest) (*model.Post, error) {
	now := time.Now()
	post := &model.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if _, err := s.recorder.RecordSync(ctx, userID, model.ActivityPostCreated, &activity.RecordOptions{
		Trackable: model.Ref{Type: model.RefTypePost, ID: post.ID},
	}); err != nil {
		s.logger.Error(err, "failed to record post activity", "post_id", post.ID.String())
	}

	if post.Published {
		s.fanOutToFollowers(ctx, post)
	}

	return post, nil
}

// fanOutToFollowers notifies everyone following the author. Failures for
// individual followers are logged and skipped.
func (s *Service) fanOutToFollowers(ctx context.Context, post *model.Post) {
	author, err := s.users.GetByID(ctx, post.UserID)
	if err != nil {
		s.logger.Error(err, "failed to load post author", "post_id", post.ID.String())
		return
	}

	followerIDs, err := s.follows.FollowerIDs(ctx, post.UserID)
	if err != nil {
		s.logger.Error(err, "failed to list followers", "post_id", post.ID.String())
		return
	}

	for _, followerID := range followerIDs {
		_, err := s.notifier.Notify(ctx, followerID, model.NotificationNewPostFromFollowed,
			"New Post",
			fmt.Sprintf("%s published '%s'", author.DisplayName(), post.Title),
			&notification.NotifyOptions{
				ActorID: post.UserID,
				Subject: model.Ref{Type: model.RefTypePost, ID: post.ID},
			},
		)
		if err != nil {
			s.logger.Error(err, "failed to notify follower",
				"post_id", post.ID.String(),
				"follower_id", followerID.String(),
			)
		}
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.Post, int64, error) {
	return s.posts.ListByUser(ctx, userID, p)
}

func (s *Service) Update(ctx context.Context, post *model.Post, req *model.UpdatePostRequest) (*model.Post, error) {
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if _, err := s.recorder.RecordSync(ctx, post.UserID, model.ActivityPostUpdated, &activity.RecordOptions{
		Trackable: model.Ref{Type: model.RefTypePost, ID: post.ID},
	}); err != nil {
		s.logger.Error(err, "failed to record post update", "post_id", post.ID.String())
	}

	return post, nil
}

func (s *Service) Delete(ctx context.Context, post *model.Post) error {
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	if _, err := s.recorder.RecordSync(ctx, post.UserID, model.ActivityPostDeleted, &activity.RecordOptions{
		Description: "Deleted post: " + post.Title,
	}); err != nil {
		s.logger.Error(err, "failed to record post deletion", "post_id", post.ID.String())
	}

	return nil
}
