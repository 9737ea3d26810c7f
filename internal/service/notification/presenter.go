package notification

import (
	"context"
	"time"

	"fmt"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
)

// Resolver looks up the objects a notification's weak actor and subject
// references point at. A false return means the object has been deleted,
// which every rendering treats as a normal state.
type Resolver interface {
	UserDisplayName(ctx context.Context, id uuid.UUID) (string, bool)
	UserProfilePath(ctx context.Context, id uuid.UUID) (string, bool)
	PostPath(ctx context.Context, id uuid.UUID) (string, bool)
}

// Presenter computes the derived display state of notifications: summary
// line, icon, background styling, action URL and relative time. All values
// are recomputed on read, never stored.
type Presenter struct {
	resolver Resolver
}

func NewPresenter(resolver Resolver) *Presenter {
	return &Presenter{resolver: resolver}
}

var notificationIcons = map[model.NotificationType]string{
	model.NotificationWelcome:             "fas fa-hand-wave text-primary",
	model.NotificationAccountVerified:     "fas fa-check-circle text-success",
	model.NotificationPasswordChanged:     "fas fa-key text-warning",
	model.NotificationSecurityAlert:       "fas fa-shield-alt text-danger",
	model.NotificationNewFollower:         "fas fa-user-plus text-success",
	model.NotificationPostLiked:           "fas fa-heart text-danger",
	model.NotificationPostCommented:       "fas fa-comment text-primary",
	model.NotificationMentioned:           "fas fa-at text-info",
	model.NotificationFriendRequest:       "fas fa-user-friends text-success",
	model.NotificationNewPostFromFollowed: "fas fa-plus-circle text-info",
	model.NotificationRoleChanged:         "fas fa-crown text-warning",
	model.NotificationFeatureAnnouncement: "fas fa-bullhorn text-primary",
	model.NotificationMaintenance:         "fas fa-tools text-warning",
}

const notificationDefaultIcon = "fas fa-bell text-muted"

func (p *Presenter) Icon(notificationType model.NotificationType) string {
	if icon, ok := notificationIcons[notificationType]; ok {
		return icon
	}
	return notificationDefaultIcon
}

// SummaryText renders the kind-specific one-liner. A missing actor renders
// as "Someone"; unmapped kinds fall back to the truncated message.
func (p *Presenter) SummaryText(ctx context.Context, n *model.Notification) string {
	switch n.Type {
	case model.NotificationNewFollower:
		return p.actorName(ctx, n) + " started following you"
	case model.NotificationPostLiked:
		return p.actorName(ctx, n) + " liked your post"
	case model.NotificationPostCommented:
		return p.actorName(ctx, n) + " commented on your post"
	case model.NotificationMentioned:
		return p.actorName(ctx, n) + " mentioned you"
	case model.NotificationFriendRequest:
		return p.actorName(ctx, n) + " sent you a friend request"
	case model.NotificationRoleChanged:
		return "Your role has been updated"
	default:
		return truncate(n.Message, 100)
	}
}

func (p *Presenter) actorName(ctx context.Context, n *model.Notification) string {
	if n.ActorID != uuid.Nil {
		if name, ok := p.resolver.UserDisplayName(ctx, n.ActorID); ok {
			return name
		}
	}
	return "Someone"
}

// BackgroundClass styles the notification row. Read notifications always get
// the neutral style regardless of priority.
func (p *Presenter) BackgroundClass(n *model.Notification) string {
	if n.Read() {
		return "bg-light"
	}

	switch n.Priority {
	case model.PriorityUrgent:
		return "bg-danger-subtle"
	case model.PriorityHigh:
		return "bg-warning-subtle"
	case model.PriorityNormal:
		return "bg-info-subtle"
	default:
		return "bg-light"
	}
}

// ActionURL routes a notification to the page it is about. Empty string
// means no destination.
func (p *Presenter) ActionURL(ctx context.Context, n *model.Notification) string {
	switch n.Type {
	case model.NotificationNewFollower, model.NotificationFriendRequest:
		if n.ActorID != uuid.Nil {
			if path, ok := p.resolver.UserProfilePath(ctx, n.ActorID); ok {
				return path
			}
		}
		return ""
	case model.NotificationPostLiked, model.NotificationPostCommented, model.NotificationNewPostFromFollowed:
		if n.NotifiableType == model.RefTypePost {
			if path, ok := p.resolver.PostPath(ctx, n.NotifiableID); ok {
				return path
			}
		}
		return ""
	case model.NotificationMentioned:
		return n.URL
	case model.NotificationRoleChanged:
		return "/profile"
	case model.NotificationFeatureAnnouncement:
		return "/announcements"
	default:
		return n.URL
	}
}

// TimeAgo renders age with abbreviated units, switching to month/day beyond
// one week. The buckets match the activity presenter's; only the labels
// differ, and both formats are kept because each is observable to its own
// caller.
func (p *Presenter) TimeAgo(n *model.Notification, now time.Time) string {
	diff := now.Sub(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return n.CreatedAt.Format("Jan 02")
	}
}

// truncate shortens s to at most max runes, ellipsis included.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
