package comment

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/service/activity"
	"github.com/hirenbhut/social-api/internal/service/notification"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
)

var testMetrics = metrics.New("comment_test")

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakePostRepo struct {
	posts map[uuid.UUID]*model.Post
}

func (r *fakePostRepo) Create(_ context.Context, p *model.Post) error {
	r.posts[p.ID] = p
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	if p, ok := r.posts[id]; ok {
		return p, nil
	}
	return nil, apperrors.NewNotFound("post", nil)
}

func (r *fakePostRepo) Update(_ context.Context, p *model.Post) error {
	r.posts[p.ID] = p
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListByUser(_ context.Context, _ uuid.UUID, _ model.Pagination) ([]*model.Post, int64, error) {
	return nil, 0, nil
}

type fakeCommentRepo struct {
	comments map[uuid.UUID]*model.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, c *model.Comment) error {
	r.comments[c.ID] = c
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, apperrors.NewNotFound("comment", nil)
}

func (r *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID uuid.UUID, _ model.Pagination) ([]*model.Comment, int64, error) {
	var out []*model.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

type fakeActivityRepo struct {
	entries []*model.UserActivity
}

func (r *fakeActivityRepo) Create(_ context.Context, entry *model.UserActivity) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) Prune(_ context.Context, _ uuid.UUID, _ int) (int64, error) {
	return 0, nil
}

func (r *fakeActivityRepo) ListByUser(_ context.Context, _ uuid.UUID, _ int) ([]*model.UserActivity, error) {
	return nil, nil
}

func (r *fakeActivityRepo) ListWithPagination(_ context.Context, _ uuid.UUID, _ model.Pagination) ([]*model.UserActivity, int64, error) {
	return nil, 0, nil
}

func (r *fakeActivityRepo) CountForUser(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeActivityRepo) CountByTypeSince(_ context.Context, _ uuid.UUID, _ time.Time) (map[model.ActivityType]int64, error) {
	return nil, nil
}

func (r *fakeActivityRepo) CountByDaySince(_ context.Context, _ uuid.UUID, _ time.Time) (map[string]int64, error) {
	return nil, nil
}

func (r *fakeActivityRepo) TopUsers(_ context.Context, _ time.Time, _ int) ([]model.UserActivityCount, error) {
	return nil, nil
}

func (r *fakeActivityRepo) Analytics(_ context.Context) (*model.ActivityAnalytics, error) {
	return &model.ActivityAnalytics{}, nil
}

func (r *fakeActivityRepo) UserIDsOverLimit(_ context.Context, _ int) ([]uuid.UUID, error) {
	return nil, nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, _ uuid.UUID) (*model.Notification, error) {
	return nil, apperrors.NewNotFound("notification", nil)
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ uuid.UUID, _ time.Time) (bool, error) {
	return false, nil
}

func (r *fakeNotificationRepo) MarkUnread(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, _ uuid.UUID, _ time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeNotificationRepo) DeleteAllForUser(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) ListRecent(_ context.Context, _ uuid.UUID, _ int) ([]*model.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) ListWithPagination(_ context.Context, _ uuid.UUID, _ model.NotificationFilter, _ model.Pagination) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) Analytics(_ context.Context) (*model.NotificationAnalytics, error) {
	return &model.NotificationAnalytics{}, nil
}

type fakeBroker struct{}

func (fakeBroker) Publish(context.Context, string, interface{}) error { return nil }
func (fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}
func (fakeBroker) Close() error { return nil }

type fakeDispatcher struct{}

func (fakeDispatcher) Dispatch(context.Context, uuid.UUID, string, string) error { return nil }

type resolver struct {
	users *fakeUserRepo
	posts *fakePostRepo
}

func (r resolver) UserDisplayName(ctx context.Context, id uuid.UUID) (string, bool) {
	u, err := r.users.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return u.DisplayName(), true
}

func (r resolver) UserProfilePath(ctx context.Context, id uuid.UUID) (string, bool) {
	u, err := r.users.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return u.ProfilePath(), true
}

func (r resolver) PostPath(ctx context.Context, id uuid.UUID) (string, bool) {
	p, err := r.posts.GetByID(ctx, id)
	if err != nil {
		return "", false
	}
	return p.Path(), true
}

type fixture struct {
	svc              *Service
	activityRepo     *fakeActivityRepo
	notificationRepo *fakeNotificationRepo
	commentRepo      *fakeCommentRepo
	author           *model.User
	commenter        *model.User
	post             *model.Post
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	author := &model.User{ID: uuid.New(), Username: "author"}
	commenter := &model.User{ID: uuid.New(), Username: "commenter"}
	post := &model.Post{
		ID:     uuid.New(),
		UserID: author.ID,
		Title:  "Go Concurrency Patterns",
	}

	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{author.ID: author, commenter.ID: commenter}}
	posts := &fakePostRepo{posts: map[uuid.UUID]*model.Post{post.ID: post}}
	comments := &fakeCommentRepo{comments: map[uuid.UUID]*model.Comment{}}
	activityRepo := &fakeActivityRepo{}
	notificationRepo := &fakeNotificationRepo{}

	log := testLogger()
	activitySvc := activity.NewService(activityRepo, users, log, testMetrics)
	recorder := activity.NewRecorder(activitySvc, log)
	presenter := notification.NewPresenter(resolver{users: users, posts: posts})
	notifier := notification.NewService(notificationRepo, users, fakeBroker{}, fakeDispatcher{}, presenter, log, testMetrics)

	return &fixture{
		svc:              NewService(comments, posts, users, recorder, notifier, log),
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		commentRepo:      comments,
		author:           author,
		commenter:        commenter,
		post:             post,
	}
}

func TestCreateRecordsActivityAndNotifiesAuthor(t *testing.T) {
	f := newFixture(t)

	comment, err := f.svc.Create(context.Background(), f.commenter.ID, f.post.ID, "Great write-up")
	require.NoError(t, err)
	assert.Contains(t, f.commentRepo.comments, comment.ID)

	// One activity for the commenter.
	require.Len(t, f.activityRepo.entries, 1)
	entry := f.activityRepo.entries[0]
	assert.Equal(t, f.commenter.ID, entry.UserID)
	assert.Equal(t, model.ActivityCommentCreated, entry.ActivityType)
	assert.Equal(t, "Commented on post: Go Concurrency Patterns", entry.Description)
	assert.Equal(t, model.RefTypeComment, entry.TrackableType)
	assert.Equal(t, comment.ID, entry.TrackableID)

	// One unread notification for the author, attributed to the commenter.
	require.Len(t, f.notificationRepo.notifications, 1)
	n := f.notificationRepo.notifications[0]
	assert.Equal(t, f.author.ID, n.UserID)
	assert.Equal(t, f.commenter.ID, n.ActorID)
	assert.Equal(t, model.NotificationPostCommented, n.Type)
	assert.True(t, n.Unread())
	assert.Equal(t, "commenter commented on your post 'Go Concurrency Patterns'", n.Message)
	assert.Equal(t, f.post.Path()+"#comment-"+comment.ID.String(), n.URL)
	assert.Equal(t, model.RefTypePost, n.NotifiableType)
	assert.Equal(t, f.post.ID, n.NotifiableID)
}

func TestCreateOnOwnPostSkipsNotification(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.author.ID, f.post.ID, "Replying to myself")
	require.NoError(t, err)

	assert.Len(t, f.activityRepo.entries, 1, "activity is still recorded")
	assert.Empty(t, f.notificationRepo.notifications, "no self-notification")
}

func TestCreateOnMissingPost(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.commenter.ID, uuid.New(), "Hello")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.commentRepo.comments)
}

func TestDeleteRecordsTrace(t *testing.T) {
	f := newFixture(t)

	comment, err := f.svc.Create(context.Background(), f.commenter.ID, f.post.ID, "Great write-up")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), comment))
	assert.NotContains(t, f.commentRepo.comments, comment.ID)

	require.Len(t, f.activityRepo.entries, 2)
	trace := f.activityRepo.entries[1]
	assert.Equal(t, model.ActivityFeatureUsed, trace.ActivityType)
	assert.Equal(t, "Deleted comment on post: Go Concurrency Patterns", trace.Description)
}
