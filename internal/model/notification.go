package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotificationType is the closed enumeration of notification kinds. Codes are
// grouped in ranges: 0-9 system, 10-19 social, 20-29 content, 30-39 admin.
type NotificationType int

const (
	// System notifications
	NotificationWelcome         NotificationType = 0
	NotificationAccountVerified NotificationType = 1
	NotificationPasswordChanged NotificationType = 2
	NotificationSecurityAlert   NotificationType = 3

	// Social notifications
	NotificationNewFollower   NotificationType = 10
	NotificationPostLiked     NotificationType = 11
	NotificationPostCommented NotificationType = 12
	NotificationMentioned     NotificationType = 13
	NotificationFriendRequest NotificationType = 14

	// Content notifications
	NotificationNewPostFromFollowed NotificationType = 20
	NotificationPostUpdated         NotificationType = 21
	NotificationContentFeatured     NotificationType = 22

	// Admin notifications
	NotificationRoleChanged         NotificationType = 30
	NotificationAccountWarning      NotificationType = 31
	NotificationFeatureAnnouncement NotificationType = 32
	NotificationMaintenance         NotificationType = 33
)

var notificationTypeNames = map[NotificationType]string{
	NotificationWelcome:             "welcome",
	NotificationAccountVerified:     "account_verified",
	NotificationPasswordChanged:     "password_changed",
	NotificationSecurityAlert:       "security_alert",
	NotificationNewFollower:         "new_follower",
	NotificationPostLiked:           "post_liked",
	NotificationPostCommented:       "post_commented",
	NotificationMentioned:           "mentioned",
	NotificationFriendRequest:       "friend_request",
	NotificationNewPostFromFollowed: "new_post_from_followed",
	NotificationPostUpdated:         "post_updated",
	NotificationContentFeatured:     "content_featured",
	NotificationRoleChanged:         "role_changed",
	NotificationAccountWarning:      "account_warning",
	NotificationFeatureAnnouncement: "feature_announcement",
	NotificationMaintenance:         "maintenance",
}

func (t NotificationType) Valid() bool {
	_, ok := notificationTypeNames[t]
	return ok
}

func (t NotificationType) String() string {
	if name, ok := notificationTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Humanize renders the snake_case name as display text, e.g. "Post liked".
func (t NotificationType) Humanize() string {
	name := strings.ReplaceAll(t.String(), "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Coarse type groups used by the listing filter. The system group includes
// the two admin broadcast kinds because they render in the system tab.
var (
	SystemNotificationTypes = []NotificationType{
		NotificationWelcome, NotificationAccountVerified,
		NotificationPasswordChanged, NotificationSecurityAlert,
		NotificationFeatureAnnouncement, NotificationMaintenance,
	}
	SocialNotificationTypes = []NotificationType{
		NotificationNewFollower, NotificationPostLiked,
		NotificationPostCommented, NotificationMentioned,
		NotificationFriendRequest,
	}
)

// Priority orders notifications for display and gates the push dispatch.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
	PriorityUrgent Priority = 3
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityNormal: "normal",
	PriorityHigh:   "high",
	PriorityUrgent: "urgent",
}

func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "normal"
}

const (
	NotificationTitleMaxLen   = 255
	NotificationMessageMaxLen = 1000
	ActivityDescriptionMaxLen = 500
)

// Notification is a user-facing message with mutable read state. ActorID and
// the notifiable pair are weak references; the referenced rows may be deleted
// independently.
type Notification struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"user_id" db:"user_id"`
	ActorID        uuid.UUID        `json:"actor_id,omitempty" db:"actor_id"`
	NotifiableType string           `json:"notifiable_type,omitempty" db:"notifiable_type"`
	NotifiableID   uuid.UUID        `json:"notifiable_id,omitempty" db:"notifiable_id"`
	Type           NotificationType `json:"notification_type" db:"notification_type"`
	Priority       Priority         `json:"priority" db:"priority"`
	Title          string           `json:"title" db:"title"`
	Message        string           `json:"message" db:"message"`
	URL            string           `json:"url,omitempty" db:"url"`
	ReadAt         *time.Time       `json:"read_at,omitempty" db:"read_at"`
	Metadata       JSONMap          `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}

func (n *Notification) Read() bool {
	return n.ReadAt != nil
}

func (n *Notification) Unread() bool {
	return n.ReadAt == nil
}

func (n *Notification) Notifiable() Ref {
	return Ref{Type: n.NotifiableType, ID: n.NotifiableID}
}

// NotificationAnalytics is the reporting aggregate over all notifications.
type NotificationAnalytics struct {
	TotalNotifications int64                      `json:"total_notifications"`
	UnreadNotifications int64                     `json:"unread_notifications"`
	ByType             map[NotificationType]int64 `json:"by_type"`
	ByPriority         map[Priority]int64         `json:"by_priority"`
	ThisWeek           int64                      `json:"this_week"`
	TopRecipients      []UserActivityCount        `json:"top_recipients"`
}

// NotificationFilter narrows a listing query.
type NotificationFilter string

const (
	NotificationFilterAll    NotificationFilter = "all"
	NotificationFilterUnread NotificationFilter = "unread"
	NotificationFilterSystem NotificationFilter = "system"
	NotificationFilterSocial NotificationFilter = "social"
)
