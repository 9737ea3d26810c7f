package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirenbhut/social-api/internal/handler"
	"github.com/hirenbhut/social-api/internal/model"
	pkgauth "github.com/hirenbhut/social-api/pkg/auth"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

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

func newAuthFixture(t *testing.T) (*AuthMiddleware, *fakeUserRepo, *model.User, string, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	u := &model.User{ID: uuid.New(), Email: "jdoe@example.com", Username: "jdoe", Active: true}
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{u.ID: u}}

	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	token, err := jwtSvc.GenerateAccessToken(pkgauth.Claims{UserID: u.ID, Email: u.Email, Username: u.Username})
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtSvc, repo)
	engine := gin.New()
	engine.GET("/me", m.Authenticate(), func(c *gin.Context) {
		current, ok := handler.CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, current.Username)
	})

	return m, repo, u, token, engine
}

func get(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	_, _, _, _, engine := newAuthFixture(t)

	assert.Equal(t, http.StatusUnauthorized, get(engine, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(engine, "not-a-jwt").Code)
}

func TestAuthenticateLoadsCurrentUser(t *testing.T) {
	_, _, _, token, engine := newAuthFixture(t)

	w := get(engine, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jdoe", w.Body.String())
}

func TestInvalidateDropsCachedUser(t *testing.T) {
	m, repo, u, token, engine := newAuthFixture(t)

	require.Equal(t, http.StatusOK, get(engine, token).Code)

	// The row changed but the cached copy is still served.
	renamed := *u
	renamed.Username = "johnd"
	repo.users[u.ID] = &renamed
	assert.Equal(t, "jdoe", get(engine, token).Body.String())

	// Invalidation forces a reload on the next request.
	m.Invalidate(u.ID.String())
	assert.Equal(t, "johnd", get(engine, token).Body.String())
}

func TestInvalidateRemovesDeletedAccount(t *testing.T) {
	m, repo, u, token, engine := newAuthFixture(t)

	require.Equal(t, http.StatusOK, get(engine, token).Code)

	require.NoError(t, repo.Delete(context.Background(), u.ID))
	m.Invalidate(u.ID.String())

	assert.Equal(t, http.StatusUnauthorized, get(engine, token).Code)
}
