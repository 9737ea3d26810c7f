package activity

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

// Service is the activity recorder: an append-only audit trail of user
// actions with a per-user retention cap.
type Service struct {
	repo    repository.ActivityRepository
	users   repository.UserRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(repo repository.ActivityRepository, users repository.UserRepository, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{repo: repo, users: users, logger: log, metrics: m}
}

// RecordOptions carries the optional fields of a Record call.
type RecordOptions struct {
	Description string
	Trackable   model.Ref
	Metadata    model.JSONMap
}

// Record appends one immutable activity entry and then prunes the user's
// history beyond the retention cap. A prune failure is logged, not returned:
// the entry itself has already persisted.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, activityType model.ActivityType, opts *RecordOptions) (*model.UserActivity, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewValidation("user is required")
	}
	if !activityType.Valid() {
		return nil, apperrors.NewValidation("unknown activity type %d", int(activityType))
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("user %s does not exist", userID)
		}
		return nil, err
	}

	entry := &model.UserActivity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		Description:  activityType.Humanize(),
		CreatedAt:    time.Now(),
	}
	if opts != nil {
		// A blank caller description keeps the humanized default.
		if desc := strings.TrimSpace(opts.Description); desc != "" {
			entry.Description = desc
		}
		if !opts.Trackable.IsZero() {
			entry.TrackableType = opts.Trackable.Type
			entry.TrackableID = opts.Trackable.ID
		}
		entry.Metadata = opts.Metadata
	}
	if utf8.RuneCountInString(entry.Description) > model.ActivityDescriptionMaxLen {
		return nil, apperrors.NewValidation("description exceeds %d characters", model.ActivityDescriptionMaxLen)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.metrics.ActivitiesRecorded.WithLabelValues(activityType.String()).Inc()

	s.prune(ctx, userID)

	return entry, nil
}

func (s *Service) prune(ctx context.Context, userID uuid.UUID) {
	start := time.Now()
	removed, err := s.repo.Prune(ctx, userID, model.ActivityRetentionLimit)
	if err != nil {
		s.logger.Error(err, "activity retention prune failed", "user_id", userID.String())
		return
	}
	s.metrics.PruneLatency.Observe(time.Since(start).Seconds())
	if removed > 0 {
		s.metrics.ActivitiesPruned.Add(float64(removed))
	}
}

// Timeline returns the user's most recent entries, newest first.
func (s *Service) Timeline(ctx context.Context, userID uuid.UUID, limit int) ([]*model.UserActivity, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, p model.Pagination) ([]*model.UserActivity, int64, error) {
	return s.repo.ListWithPagination(ctx, userID, p)
}

// Summary aggregates a user's activity over the trailing window.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, window time.Duration) (*model.ActivitySummary, error) {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	since := time.Now().Add(-window)

	byType, err := s.repo.CountByTypeSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	byDay, err := s.repo.CountByDaySince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	summary := &model.ActivitySummary{
		SignIns:        byType[model.ActivitySignIn],
		ProfileUpdates: byType[model.ActivityProfileUpdated],
		ActivityTypes:  byType,
	}
	for activityType, count := range byType {
		summary.TotalActivities += count
		if activityType.Social() {
			summary.SocialInteractions += count
		}
	}

	var best int64
	for day, count := range byDay {
		if count > best || (count == best && day > summary.MostActiveDay) {
			best = count
			summary.MostActiveDay = day
		}
	}

	return summary, nil
}

// TopUsers ranks users by activity count since the given time.
func (s *Service) TopUsers(ctx context.Context, since time.Time, limit int) ([]model.UserActivityCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopUsers(ctx, since, limit)
}

func (s *Service) Analytics(ctx context.Context) (*model.ActivityAnalytics, error) {
	return s.repo.Analytics(ctx)
}

func (s *Service) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountForUser(ctx, userID)
}
