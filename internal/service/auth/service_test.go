package auth

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/service/activity"
	"github.com/hirenbhut/social-api/internal/service/notification"
	pkgauth "github.com/hirenbhut/social-api/pkg/auth"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
	"github.com/hirenbhut/social-api/pkg/logger"
	"github.com/hirenbhut/social-api/pkg/metrics"
	"github.com/hirenbhut/social-api/pkg/security"
)

var testMetrics = metrics.New("auth_test")

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

// The async activity recorder touches these fakes from its own goroutine,
// so they are guarded unlike the fakes in the sibling service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*model.UserActivity
}

func (r *fakeActivityRepo) Create(_ context.Context, entry *model.UserActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (fakeBroker) Publish(context.Context, string, interface{}) error       { return nil }
func (fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (fakeBroker) Close() error                                             { return nil }

type fakeDispatcher struct {
	dispatched []string
}

func (d *fakeDispatcher) Dispatch(_ context.Context, _ uuid.UUID, title, _ string) error {
	d.dispatched = append(d.dispatched, title)
	return nil
}

type fakeEmail struct {
	welcomes []string
	alerts   []string
}

func (e *fakeEmail) SendWelcome(_ context.Context, to, _ string) error {
	e.welcomes = append(e.welcomes, to)
	return nil
}

func (e *fakeEmail) SendSecurityAlert(_ context.Context, to, _ string) error {
	e.alerts = append(e.alerts, to)
	return nil
}

type emptyResolver struct{}

func (emptyResolver) UserDisplayName(context.Context, uuid.UUID) (string, bool) { return "", false }
func (emptyResolver) UserProfilePath(context.Context, uuid.UUID) (string, bool) { return "", false }
func (emptyResolver) PostPath(context.Context, uuid.UUID) (string, bool)        { return "", false }

type fixture struct {
	svc              *Service
	users            *fakeUserRepo
	notificationRepo *fakeNotificationRepo
	dispatcher       *fakeDispatcher
	email            *fakeEmail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
	activityRepo := &fakeActivityRepo{}
	notificationRepo := &fakeNotificationRepo{}
	dispatcher := &fakeDispatcher{}
	emailSvc := &fakeEmail{}

	log := testLogger()
	activitySvc := activity.NewService(activityRepo, users, log, testMetrics)
	recorder := activity.NewRecorder(activitySvc, log)
	notifier := notification.NewService(notificationRepo, users, fakeBroker{}, dispatcher, notification.NewPresenter(emptyResolver{}), log, testMetrics)
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)

	return &fixture{
		svc:              NewService(users, jwtSvc, hasher, emailSvc, recorder, notifier, log),
		users:            users,
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
		email:            emailSvc,
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Register(context.Background(), &RegisterRequest{
		Email:    "JDoe@Example.com",
		Username: "jdoe",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", user.Email, "email is stored lowercased")
	assert.True(t, user.Active)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	require.Len(t, f.notificationRepo.notifications, 1)
	assert.Equal(t, model.NotificationWelcome, f.notificationRepo.notifications[0].Type)
	assert.Equal(t, []string{"jdoe@example.com"}, f.email.welcomes)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Email:    "not-an-email",
		Username: "jdoe",
		Password: "correct horse",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.Register(context.Background(), &RegisterRequest{
		Email:    "jdoe@example.com",
		Username: "jd",
		Password: "correct horse",
	})
	assert.True(t, apperrors.IsValidation(err), "username under 3 characters")

	_, err = f.svc.Register(context.Background(), &RegisterRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "short",
	})
	assert.True(t, apperrors.IsValidation(err), "password under 8 characters")

	assert.Zero(t, f.users.count())
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &RegisterRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "correct horse",
	})
	require.NoError(t, err)

	resp, err := f.svc.Login(ctx, "JDOE@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotNil(t, resp.User.LastSeenAt)

	claims, err := f.svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, err = f.svc.Login(ctx, "jdoe@example.com", "wrong password")
	assert.Error(t, err)

	_, err = f.svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.svc.Register(ctx, &RegisterRequest{
		Email:    "jdoe@example.com",
		Username: "jdoe",
		Password: "correct horse",
	})
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, user, "wrong", "battery staple")
	assert.Error(t, err, "current password must match")

	err = f.svc.ChangePassword(ctx, user, "correct horse", "short")
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, f.svc.ChangePassword(ctx, user, "correct horse", "battery staple"))

	_, err = f.svc.Login(ctx, "jdoe@example.com", "battery staple")
	require.NoError(t, err)

	// The security alert is high priority, so it reaches the push channel.
	require.Len(t, f.notificationRepo.notifications, 2)
	alert := f.notificationRepo.notifications[1]
	assert.Equal(t, model.NotificationPasswordChanged, alert.Type)
	assert.Equal(t, model.PriorityHigh, alert.Priority)
	assert.Contains(t, f.dispatcher.dispatched, "Password Changed")
	assert.Equal(t, []string{"jdoe@example.com"}, f.email.alerts)
}
