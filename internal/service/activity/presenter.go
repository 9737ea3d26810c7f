package activity

import (
	"context"
	"fmt"

	"time"

	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/model"
)

// Resolver looks up the objects an activity's weak trackable reference
// points at. A false return means the object no longer exists, which every
// rendering falls back from gracefully.
type Resolver interface {
	PostTitle(ctx context.Context, id uuid.UUID) (string, bool)
	UserDisplayName(ctx context.Context, id uuid.UUID) (string, bool)
}

// Presenter computes the derived display state of activity entries. Nothing
// here is stored; every value is recomputed on read.
type Presenter struct {
	resolver Resolver
}

func NewPresenter(resolver Resolver) *Presenter {
	return &Presenter{resolver: resolver}
}

var activityIcons = map[model.ActivityType]string{
	model.ActivitySignIn:          "fas fa-sign-in-alt text-success",
	model.ActivitySignOut:         "fas fa-sign-out-alt text-muted",
	model.ActivityPasswordChanged: "fas fa-key text-warning",
	model.ActivityEmailChanged:    "fas fa-envelope text-info",
	model.ActivityProfileUpdated:  "fas fa-user-edit text-primary",
	model.ActivityAvatarUploaded:  "fas fa-image text-success",
	model.ActivityPostCreated:     "fas fa-plus-circle text-success",
	model.ActivityPostUpdated:     "fas fa-edit text-info",
	model.ActivityCommentCreated:  "fas fa-comment text-primary",
	model.ActivityLikeGiven:       "fas fa-heart text-danger",
	model.ActivityFollowUser:      "fas fa-user-plus text-success",
	model.ActivityRoleAssigned:    "fas fa-crown text-warning",
}

const activityDefaultIcon = "fas fa-circle text-muted"

// Icon returns the CSS icon classes for an activity type.
func (p *Presenter) Icon(activityType model.ActivityType) string {
	if icon, ok := activityIcons[activityType]; ok {
		return icon
	}
	return activityDefaultIcon
}

// FormattedDescription renders kind-specific display text. When the
// trackable object has been deleted the generic phrase for the kind is used;
// unrecognized kinds fall back to the stored description.
func (p *Presenter) FormattedDescription(ctx context.Context, entry *model.UserActivity) string {
	switch entry.ActivityType {
	case model.ActivitySignIn:
		return "Signed in"
	case model.ActivitySignOut:
		return "Signed out"
	case model.ActivityProfileUpdated:
		return "Updated profile information"
	case model.ActivityAvatarUploaded:
		return "Uploaded a new profile picture"
	case model.ActivityPostCreated:
		if entry.TrackableType == model.RefTypePost {
			if title, ok := p.resolver.PostTitle(ctx, entry.TrackableID); ok {
				return fmt.Sprintf("Created a new post: \"%s\"", truncate(title, 50))
			}
		}
		return "Created a new post"
	case model.ActivityCommentCreated:
		if entry.TrackableType == model.RefTypeComment {
			return "Commented on a post"
		}
		return "Added a comment"
	case model.ActivityLikeGiven:
		return "Liked a post"
	case model.ActivityFollowUser:
		if entry.TrackableType == model.RefTypeUser {
			if name, ok := p.resolver.UserDisplayName(ctx, entry.TrackableID); ok {
				return "Started following " + name
			}
		}
		return "Followed a user"
	default:
		return entry.Description
	}
}

// TimeAgo renders an entry's age in full words, switching to an absolute
// date beyond one week.
func (p *Presenter) TimeAgo(entry *model.UserActivity, now time.Time) string {
	diff := now.Sub(entry.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff/time.Minute), "minute") + " ago"
	case diff < 24*time.Hour:
		return pluralize(int(diff/time.Hour), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return pluralize(int(diff/(24*time.Hour)), "day") + " ago"
	default:
		return entry.CreatedAt.Format("January 02, 2006")
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
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
