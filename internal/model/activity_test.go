package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivityTypeCodes(t *testing.T) {
	// Persisted codes, must never change.
	codes := map[ActivityType]int{
		ActivitySignIn:             0,
		ActivitySignOut:            1,
		ActivityPasswordChanged:    2,
		ActivityEmailChanged:       3,
		ActivityAccountConfirmed:   4,
		ActivityProfileUpdated:     10,
		ActivityAvatarUploaded:     11,
		ActivityCoverPhotoUploaded: 12,
		ActivityPostCreated:        20,
		ActivityPostUpdated:        21,
		ActivityPostDeleted:        22,
		ActivityCommentCreated:     23,
		ActivityLikeGiven:          24,
		ActivityFollowUser:         25,
		ActivityUnfollowUser:       26,
		ActivityFeatureUsed:        30,
		ActivityPreferenceChanged:  31,
		ActivityNotificationRead:   32,
		ActivityRoleAssigned:       40,
		ActivityRoleRemoved:        41,
		ActivityUserSuspended:      42,
		ActivityUserUnsuspended:    43,
	}
	for activityType, code := range codes {
		assert.Equal(t, code, int(activityType), activityType.String())
	}
}

func TestActivityTypeValid(t *testing.T) {
	assert.True(t, ActivitySignIn.Valid())
	assert.True(t, ActivityUserUnsuspended.Valid())
	assert.False(t, ActivityType(5).Valid())
	assert.False(t, ActivityType(99).Valid())
	assert.False(t, ActivityType(-1).Valid())
}

func TestActivityTypeString(t *testing.T) {
	assert.Equal(t, "sign_in", ActivitySignIn.String())
	assert.Equal(t, "comment_created", ActivityCommentCreated.String())
	assert.Equal(t, "unknown", ActivityType(99).String())
}

func TestActivityTypeHumanize(t *testing.T) {
	assert.Equal(t, "Post created", ActivityPostCreated.Humanize())
	assert.Equal(t, "Sign in", ActivitySignIn.Humanize())
	assert.Equal(t, "Cover photo uploaded", ActivityCoverPhotoUploaded.Humanize())
}

func TestActivityTypeGroups(t *testing.T) {
	assert.True(t, ActivityPostCreated.Social())
	assert.True(t, ActivityUnfollowUser.Social())
	assert.False(t, ActivitySignIn.Social())
	assert.False(t, ActivityFeatureUsed.Social())

	assert.True(t, ActivitySignIn.Authentication())
	assert.True(t, ActivityAccountConfirmed.Authentication())
	assert.False(t, ActivityProfileUpdated.Authentication())
}

func TestActivityRetentionLimit(t *testing.T) {
	assert.Equal(t, 1000, ActivityRetentionLimit)
}

func TestTrackableRef(t *testing.T) {
	entry := &UserActivity{}
	assert.True(t, entry.Trackable().IsZero())

	entry.TrackableType = RefTypePost
	assert.True(t, entry.Trackable().IsZero(), "type without id is still zero")
}
