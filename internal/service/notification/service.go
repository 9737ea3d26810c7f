package notification

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
	"github.com/hirenbhut/social-api/pkg/messaging"
	"github.com/hirenbhut/social-api/pkg/metrics"
	"github.com/hirenbhut/social-api/pkg/push"
)

// Service is the notification center: it creates notifications, tracks their
// read state and fans out best-effort delivery signals.
type Service struct {
	repo      repository.NotificationRepository
	users     repository.UserRepository
	broker    messaging.Broker
	push      push.Dispatcher
	presenter *Presenter
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	repo repository.NotificationRepository,
	users repository.UserRepository,
	broker messaging.Broker,
	dispatcher push.Dispatcher,
	presenter *Presenter,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		broker:    broker,
		push:      dispatcher,
		presenter: presenter,
		logger:    log,
		metrics:   m,
	}
}

// NotifyOptions carries the optional fields of a Notify call.
type NotifyOptions struct {
	ActorID  uuid.UUID
	Subject  model.Ref
	Priority *model.Priority
	URL      string
	Metadata model.JSONMap
}

// Notify validates and persists a notification, then pushes the real-time
// event and, for high and urgent priorities, the push dispatch. Both
// deliveries are best-effort: their failures are logged and never returned.
func (s *Service) Notify(ctx context.Context, recipientID uuid.UUID, notificationType model.NotificationType, title, message string, opts *NotifyOptions) (*model.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, apperrors.NewValidation("recipient is required")
	}
	if !notificationType.Valid() {
		return nil, apperrors.NewValidation("unknown notification type %d", int(notificationType))
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.NewValidation("title is required")
	}
	if utf8.RuneCountInString(title) > model.NotificationTitleMaxLen {
		return nil, apperrors.NewValidation("title exceeds %d characters", model.NotificationTitleMaxLen)
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidation("message is required")
	}
	if utf8.RuneCountInString(message) > model.NotificationMessageMaxLen {
		return nil, apperrors.NewValidation("message exceeds %d characters", model.NotificationMessageMaxLen)
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewValidation("recipient %s does not exist", recipientID)
		}
		return nil, err
	}

	n := &model.Notification{
		ID:        uuid.New(),
		UserID:    recipientID,
		Type:      notificationType,
		Priority:  model.PriorityNormal,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if opts != nil {
		n.ActorID = opts.ActorID
		if !opts.Subject.IsZero() {
			n.NotifiableType = opts.Subject.Type
			n.NotifiableID = opts.Subject.ID
		}
		if opts.Priority != nil && opts.Priority.Valid() {
			n.Priority = *opts.Priority
		}
		n.URL = opts.URL
		n.Metadata = opts.Metadata
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.metrics.NotificationsCreated.WithLabelValues(n.Type.String(), n.Priority.String()).Inc()

	s.broadcast(ctx, n)

	if recipient.PushEnabled() && (n.Priority == model.PriorityHigh || n.Priority == model.PriorityUrgent) {
		s.metrics.PushDispatches.Inc()
		if err := s.push.Dispatch(ctx, recipientID, n.Title, n.Message); err != nil {
			s.logger.Error(err, "push dispatch failed", "notification_id", n.ID.String())
		}
	}

	return n, nil
}

// NotifyWithDefaults generates the title and message for the type before
// creating the notification.
func (s *Service) NotifyWithDefaults(ctx context.Context, recipientID uuid.UUID, notificationType model.NotificationType, opts *NotifyOptions) (*model.Notification, error) {
	actorName := "Someone"
	if opts != nil && opts.ActorID != uuid.Nil {
		if name, ok := s.presenter.resolver.UserDisplayName(ctx, opts.ActorID); ok {
			actorName = name
		}
	}

	title, message := generateContent(notificationType, actorName)
	return s.Notify(ctx, recipientID, notificationType, title, message, opts)
}

// realtimeEvent is the payload published on the recipient's channel.
type realtimeEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	Priority string `json:"priority"`
	URL      string `json:"url,omitempty"`
	Time     string `json:"time"`
}

func (s *Service) broadcast(ctx context.Context, n *model.Notification) {
	event := realtimeEvent{
		ID:       n.ID.String(),
		Title:    n.Title,
		Message:  s.presenter.SummaryText(ctx, n),
		Icon:     s.presenter.Icon(n.Type),
		Priority: n.Priority.String(),
		URL:      s.presenter.ActionURL(ctx, n),
		Time:     s.presenter.TimeAgo(n, time.Now()),
	}

	channel := messaging.NotificationChannel(n.UserID.String())
	if err := s.broker.Publish(ctx, channel, event); err != nil {
		s.metrics.BroadcastFailures.Inc()
		s.logger.Error(err, "failed to publish real-time notification",
			"notification_id", n.ID.String(),
			"channel", channel,
		)
	}
}

// MarkRead stamps read_at. Marking an already-read notification again is a
// no-op, not an error.
func (s *Service) MarkRead(ctx context.Context, n *model.Notification) error {
	if n.Read() {
		return nil
	}

	now := time.Now()
	changed, err := s.repo.MarkRead(ctx, n.ID, now)
	if err != nil {
		return err
	}
	if changed {
		n.ReadAt = &now
		s.metrics.NotificationsRead.Inc()
	}
	return nil
}

// MarkUnread clears read_at, a no-op when already unread.
func (s *Service) MarkUnread(ctx context.Context, n *model.Notification) error {
	if n.Unread() {
		return nil
	}

	changed, err := s.repo.MarkUnread(ctx, n.ID)
	if err != nil {
		return err
	}
	if changed {
		n.ReadAt = nil
	}
	return nil
}

// MarkAllRead stamps every unread notification of the user in one bulk
// update and returns the number affected.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.metrics.NotificationsRead.Add(float64(count))
	}
	return count, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, n *model.Notification) error {
	return s.repo.Delete(ctx, n.ID)
}

// ClearAll deletes every notification of the user regardless of read state.
func (s *Service) ClearAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, userID, limit)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter model.NotificationFilter, p model.Pagination) ([]*model.Notification, int64, error) {
	switch filter {
	case "", model.NotificationFilterAll, model.NotificationFilterUnread,
		model.NotificationFilterSystem, model.NotificationFilterSocial:
	default:
		filter = model.NotificationFilterAll
	}
	return s.repo.ListWithPagination(ctx, userID, filter, p)
}

func (s *Service) Analytics(ctx context.Context) (*model.NotificationAnalytics, error) {
	return s.repo.Analytics(ctx)
}

func generateContent(notificationType model.NotificationType, actorName string) (string, string) {
	switch notificationType {
	case model.NotificationWelcome:
		return "Welcome to our platform!", "Thank you for joining us. Complete your profile to get started."
	case model.NotificationNewFollower:
		return "New Follower", actorName + " started following you."
	case model.NotificationPostLiked:
		return "Post Liked", actorName + " liked your post."
	case model.NotificationPostCommented:
		return "New Comment", actorName + " commented on your post."
	case model.NotificationMentioned:
		return "You were mentioned", actorName + " mentioned you in a post."
	case model.NotificationRoleChanged:
		return "Role Updated", "Your account role has been updated."
	default:
		return notificationType.Humanize(), "You have a new notification."
	}
}
