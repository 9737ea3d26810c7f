package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActivityType is the closed enumeration of tracked user actions. The integer
// codes are persisted and must stay stable.
type ActivityType int

const (
	// Authentication activities
	ActivitySignIn           ActivityType = 0
	ActivitySignOut          ActivityType = 1
	ActivityPasswordChanged  ActivityType = 2
	ActivityEmailChanged     ActivityType = 3
	ActivityAccountConfirmed ActivityType = 4

	// Profile activities
	ActivityProfileUpdated     ActivityType = 10
	ActivityAvatarUploaded     ActivityType = 11
	ActivityCoverPhotoUploaded ActivityType = 12

	// Social activities
	ActivityPostCreated    ActivityType = 20
	ActivityPostUpdated    ActivityType = 21
	ActivityPostDeleted    ActivityType = 22
	ActivityCommentCreated ActivityType = 23
	ActivityLikeGiven      ActivityType = 24
	ActivityFollowUser     ActivityType = 25
	ActivityUnfollowUser   ActivityType = 26

	// System activities
	ActivityFeatureUsed       ActivityType = 30
	ActivityPreferenceChanged ActivityType = 31
	ActivityNotificationRead  ActivityType = 32

	// Admin activities
	ActivityRoleAssigned    ActivityType = 40
	ActivityRoleRemoved     ActivityType = 41
	ActivityUserSuspended   ActivityType = 42
	ActivityUserUnsuspended ActivityType = 43
)

var activityTypeNames = map[ActivityType]string{
	ActivitySignIn:             "sign_in",
	ActivitySignOut:            "sign_out",
	ActivityPasswordChanged:    "password_changed",
	ActivityEmailChanged:       "email_changed",
	ActivityAccountConfirmed:   "account_confirmed",
	ActivityProfileUpdated:     "profile_updated",
	ActivityAvatarUploaded:     "avatar_uploaded",
	ActivityCoverPhotoUploaded: "cover_photo_uploaded",
	ActivityPostCreated:        "post_created",
	ActivityPostUpdated:        "post_updated",
	ActivityPostDeleted:        "post_deleted",
	ActivityCommentCreated:     "comment_created",
	ActivityLikeGiven:          "like_given",
	ActivityFollowUser:         "follow_user",
	ActivityUnfollowUser:       "unfollow_user",
	ActivityFeatureUsed:        "feature_used",
	ActivityPreferenceChanged:  "preference_changed",
	ActivityNotificationRead:   "notification_read",
	ActivityRoleAssigned:       "role_assigned",
	ActivityRoleRemoved:        "role_removed",
	ActivityUserSuspended:      "user_suspended",
	ActivityUserUnsuspended:    "user_unsuspended",
}

func (t ActivityType) Valid() bool {
	_, ok := activityTypeNames[t]
	return ok
}

func (t ActivityType) String() string {
	if name, ok := activityTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Humanize renders the snake_case name as display text, e.g. "Post created".
func (t ActivityType) Humanize() string {
	name := strings.ReplaceAll(t.String(), "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Code sets used by group filters and summaries.
var (
	AuthenticationActivityTypes = []ActivityType{
		ActivitySignIn, ActivitySignOut, ActivityPasswordChanged,
		ActivityEmailChanged, ActivityAccountConfirmed,
	}
	SocialActivityTypes = []ActivityType{
		ActivityPostCreated, ActivityPostUpdated, ActivityPostDeleted,
		ActivityCommentCreated, ActivityLikeGiven, ActivityFollowUser,
		ActivityUnfollowUser,
	}
)

func (t ActivityType) Social() bool {
	return t >= ActivityPostCreated && t <= ActivityUnfollowUser
}

func (t ActivityType) Authentication() bool {
	return t >= ActivitySignIn && t <= ActivityAccountConfirmed
}

// UserActivity is one immutable audit-trail entry. Rows are only ever
// inserted, pruned by the per-user retention cap, or cascade-deleted with
// their owner.
type UserActivity struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	UserID        uuid.UUID    `json:"user_id" db:"user_id"`
	ActivityType  ActivityType `json:"activity_type" db:"activity_type"`
	Description   string       `json:"description" db:"description"`
	TrackableType string       `json:"trackable_type,omitempty" db:"trackable_type"`
	TrackableID   uuid.UUID    `json:"trackable_id,omitempty" db:"trackable_id"`
	Metadata      JSONMap      `json:"metadata,omitempty" db:"metadata"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
}

// Trackable returns the weak reference to the activity's subject, zero when
// the activity has none.
func (a *UserActivity) Trackable() Ref {
	return Ref{Type: a.TrackableType, ID: a.TrackableID}
}

// ActivityRetentionLimit caps how many activities are kept per user. The
// oldest rows beyond the cap are pruned after every insert.
const ActivityRetentionLimit = 1000

// ActivitySummary aggregates a user's activity over a time window.
type ActivitySummary struct {
	TotalActivities    int64                  `json:"total_activities"`
	SignIns            int64                  `json:"sign_ins"`
	ProfileUpdates     int64                  `json:"profile_updates"`
	SocialInteractions int64                  `json:"social_interactions"`
	MostActiveDay      string                 `json:"most_active_day,omitempty"`
	ActivityTypes      map[ActivityType]int64 `json:"activity_types"`
}

// ActivityAnalytics is the cross-user reporting aggregate.
type ActivityAnalytics struct {
	TotalActivities int64                  `json:"total_activities"`
	ThisMonth       int64                  `json:"this_month"`
	DailyAverage    float64                `json:"daily_average"`
	ByType          map[ActivityType]int64 `json:"by_type"`
	ByDay           map[string]int64       `json:"by_day"`
	TopUsers        []UserActivityCount    `json:"top_users"`
}

type UserActivityCount struct {
	Username string `json:"username" db:"username"`
	Count    int64  `json:"count" db:"count"`
}
