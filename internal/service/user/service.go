package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	"github.com/hirenbhut/social-api/internal/service/activity"
	"github.com/hirenbhut/social-api/internal/service/notification"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
	"github.com/hirenbhut/social-api/pkg/logger"
)

// Service handles profiles, notification preferences and the follow graph.
type Service struct {
	users    repository.UserRepository
	follows  repository.FollowRepository
	recorder *activity.Recorder
	notifier *notification.Service
	logger   *logger.Logger
}

func NewService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	recorder *activity.Recorder,
	notifier *notification.Service,
	log *logger.Logger,
) *Service {
	return &Service{
		users:    users,
		follows:  follows,
		recorder: recorder,
		notifier: notifier,
		logger:   log,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.GetByUsername(ctx, username)
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile applies the changed fields and records a profile_updated
// activity (avatar_uploaded when the avatar changed).
func (s *Service) UpdateProfile(ctx context.Context, user *model.User, req *UpdateProfileRequest) (*model.User, error) {
	avatarChanged := false
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil && *req.AvatarURL != user.AvatarURL {
		user.AvatarURL = *req.AvatarURL
		avatarChanged = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	activityType := model.ActivityProfileUpdated
	if avatarChanged {
		activityType = model.ActivityAvatarUploaded
	}
	if _, err := s.recorder.RecordSync(ctx, user.ID, activityType, nil); err != nil {
		s.logger.Error(err, "failed to record profile update", "user_id", user.ID.String())
	}

	return user, nil
}

// UpdatePreferences replaces the notification preference map.
func (s *Service) UpdatePreferences(ctx context.Context, user *model.User, prefs model.JSONMap) error {
	user.NotificationPrefs = prefs
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if _, err := s.recorder.RecordSync(ctx, user.ID, model.ActivityPreferenceChanged, nil); err != nil {
		s.logger.Error(err, "failed to record preference change", "user_id", user.ID.String())
	}
	return nil
}

// Follow links follower to followed, records the activity and notifies the
// followed user. Following yourself is rejected.
func (s *Service) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if followerID == followedID {
		return apperrors.NewValidation("cannot follow yourself")
	}
	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		return err
	}

	follow := &model.Follow{
		ID:         uuid.New(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now(),
	}
	if err := s.follows.Create(ctx, follow); err != nil {
		return err
	}

	if _, err := s.recorder.RecordSync(ctx, followerID, model.ActivityFollowUser, &activity.RecordOptions{
		Trackable: model.Ref{Type: model.RefTypeUser, ID: followedID},
	}); err != nil {
		s.logger.Error(err, "failed to record follow", "follower_id", followerID.String())
	}

	if _, err := s.notifier.NotifyWithDefaults(ctx, followedID, model.NotificationNewFollower, &notification.NotifyOptions{
		ActorID: followerID,
	}); err != nil {
		s.logger.Error(err, "failed to notify new follower", "followed_id", followedID.String())
	}

	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) error {
	if err := s.follows.Delete(ctx, followerID, followedID); err != nil {
		return err
	}

	if _, err := s.recorder.RecordSync(ctx, followerID, model.ActivityUnfollowUser, &activity.RecordOptions{
		Trackable: model.Ref{Type: model.RefTypeUser, ID: followedID},
	}); err != nil {
		s.logger.Error(err, "failed to record unfollow", "follower_id", followerID.String())
	}

	return nil
}

// Delete removes the user together with their posts, comments, activity
// and notification history.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
