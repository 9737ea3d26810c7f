package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotificationTypeCodes(t *testing.T) {
	codes := map[NotificationType]int{
		NotificationWelcome:             0,
		NotificationAccountVerified:     1,
		NotificationPasswordChanged:     2,
		NotificationSecurityAlert:       3,
		NotificationNewFollower:         10,
		NotificationPostLiked:           11,
		NotificationPostCommented:       12,
		NotificationMentioned:           13,
		NotificationFriendRequest:       14,
		NotificationNewPostFromFollowed: 20,
		NotificationPostUpdated:         21,
		NotificationContentFeatured:     22,
		NotificationRoleChanged:         30,
		NotificationAccountWarning:      31,
		NotificationFeatureAnnouncement: 32,
		NotificationMaintenance:         33,
	}
	for notificationType, code := range codes {
		assert.Equal(t, code, int(notificationType), notificationType.String())
	}
}

func TestNotificationTypeValid(t *testing.T) {
	assert.True(t, NotificationWelcome.Valid())
	assert.True(t, NotificationMaintenance.Valid())
	assert.False(t, NotificationType(4).Valid())
	assert.False(t, NotificationType(99).Valid())
}

func TestSystemGroupIncludesAdminBroadcasts(t *testing.T) {
	assert.Contains(t, SystemNotificationTypes, NotificationFeatureAnnouncement)
	assert.Contains(t, SystemNotificationTypes, NotificationMaintenance)
	assert.NotContains(t, SystemNotificationTypes, NotificationRoleChanged)
	assert.NotContains(t, SocialNotificationTypes, NotificationFeatureAnnouncement)
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 0, int(PriorityLow))
	assert.Equal(t, 1, int(PriorityNormal))
	assert.Equal(t, 2, int(PriorityHigh))
	assert.Equal(t, 3, int(PriorityUrgent))

	assert.Equal(t, "urgent", PriorityUrgent.String())
	assert.Equal(t, "normal", Priority(9).String())
	assert.False(t, Priority(9).Valid())
}

func TestNotificationReadState(t *testing.T) {
	n := &Notification{}
	assert.True(t, n.Unread())
	assert.False(t, n.Read())

	now := time.Now()
	n.ReadAt = &now
	assert.True(t, n.Read())
	assert.False(t, n.Unread())
}

func TestLengthBounds(t *testing.T) {
	assert.Equal(t, 255, NotificationTitleMaxLen)
	assert.Equal(t, 1000, NotificationMessageMaxLen)
	assert.Equal(t, 500, ActivityDescriptionMaxLen)
}
