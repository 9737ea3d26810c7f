package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hirenbhut/social-api/internal/model"
)

type fakeResolver struct {
	postTitles map[uuid.UUID]string
	userNames  map[uuid.UUID]string
}

func (r *fakeResolver) PostTitle(_ context.Context, id uuid.UUID) (string, bool) {
	title, ok := r.postTitles[id]
	return title, ok
}

func (r *fakeResolver) UserDisplayName(_ context.Context, id uuid.UUID) (string, bool) {
	name, ok := r.userNames[id]
	return name, ok
}

func TestIcon(t *testing.T) {
	p := NewPresenter(&fakeResolver{})

	assert.Equal(t, "fas fa-sign-in-alt text-success", p.Icon(model.ActivitySignIn))
	assert.Equal(t, "fas fa-heart text-danger", p.Icon(model.ActivityLikeGiven))
	assert.Equal(t, "fas fa-circle text-muted", p.Icon(model.ActivityEmailChanged))
}

func TestFormattedDescription(t *testing.T) {
	postID := uuid.New()
	userID := uuid.New()
	p := NewPresenter(&fakeResolver{
		postTitles: map[uuid.UUID]string{postID: "Go Concurrency Patterns"},
		userNames:  map[uuid.UUID]string{userID: "jdoe"},
	})
	ctx := context.Background()

	entry := &model.UserActivity{ActivityType: model.ActivitySignIn}
	assert.Equal(t, "Signed in", p.FormattedDescription(ctx, entry))

	entry = &model.UserActivity{
		ActivityType:  model.ActivityPostCreated,
		TrackableType: model.RefTypePost,
		TrackableID:   postID,
	}
	assert.Equal(t, `Created a new post: "Go Concurrency Patterns"`, p.FormattedDescription(ctx, entry))

	// Deleted post falls back to the generic phrase.
	entry.TrackableID = uuid.New()
	assert.Equal(t, "Created a new post", p.FormattedDescription(ctx, entry))

	// Titles with embedded quotes are wrapped plainly, never Go-escaped.
	quotedID := uuid.New()
	pq := NewPresenter(&fakeResolver{postTitles: map[uuid.UUID]string{quotedID: `Say "hello"`}})
	entry = &model.UserActivity{
		ActivityType:  model.ActivityPostCreated,
		TrackableType: model.RefTypePost,
		TrackableID:   quotedID,
	}
	assert.Equal(t, `Created a new post: "Say "hello""`, pq.FormattedDescription(ctx, entry))

	entry = &model.UserActivity{
		ActivityType:  model.ActivityFollowUser,
		TrackableType: model.RefTypeUser,
		TrackableID:   userID,
	}
	assert.Equal(t, "Started following jdoe", p.FormattedDescription(ctx, entry))

	entry.TrackableID = uuid.New()
	assert.Equal(t, "Followed a user", p.FormattedDescription(ctx, entry))

	// Unmapped kinds render the stored description.
	entry = &model.UserActivity{
		ActivityType: model.ActivityFeatureUsed,
		Description:  "Deleted comment on post: Hello",
	}
	assert.Equal(t, "Deleted comment on post: Hello", p.FormattedDescription(ctx, entry))
}

func TestFormattedDescriptionTruncatesTitle(t *testing.T) {
	postID := uuid.New()
	long := "This title is definitely much longer than fifty characters in total"
	p := NewPresenter(&fakeResolver{postTitles: map[uuid.UUID]string{postID: long}})

	entry := &model.UserActivity{
		ActivityType:  model.ActivityPostCreated,
		TrackableType: model.RefTypePost,
		TrackableID:   postID,
	}
	got := p.FormattedDescription(context.Background(), entry)
	assert.Contains(t, got, "...")
	assert.Equal(t, `Created a new post: "This title is definitely much longer than fifty..."`, got)
}

func TestActivityTimeAgo(t *testing.T) {
	p := NewPresenter(&fakeResolver{})
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{59 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{time.Hour, "1 hour ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{6*24*time.Hour + 23*time.Hour, "6 days ago"},
	}
	for _, tc := range cases {
		entry := &model.UserActivity{CreatedAt: now.Add(-tc.age)}
		assert.Equal(t, tc.want, p.TimeAgo(entry, now), tc.age.String())
	}

	// Exactly one week old switches to the absolute date.
	entry := &model.UserActivity{CreatedAt: now.Add(-7 * 24 * time.Hour)}
	assert.Equal(t, "August 21, 2026", p.TimeAgo(entry, now))
}
