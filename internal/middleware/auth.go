package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/hirenbhut/social-api/internal/handler"
	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/repository"
	"github.com/hirenbhut/social-api/pkg/auth"
)

type AuthMiddleware struct {
	jwtService auth.JWTService
	users      repository.UserRepository
	userCache  *cache.Cache
}

func NewAuthMiddleware(jwtService auth.JWTService, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		userCache:  cache.New(time.Minute, 5*time.Minute),
	}
}

// Authenticate verifies the bearer token and loads the current user into
// the request context. Loaded users are cached briefly to keep hot
// endpoints like unread_count off the database.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		user, err := m.loadUser(c, claims.UserID.String())
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("user not found"))
			c.Abort()
			return
		}

		handler.SetCurrentUser(c, user)
		c.Next()
	}
}

func (m *AuthMiddleware) loadUser(c *gin.Context, id string) (*model.User, error) {
	if cached, ok := m.userCache.Get(id); ok {
		return cached.(*model.User), nil
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	user, err := m.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}

	m.userCache.Set(id, user, cache.DefaultExpiration)
	return user, nil
}

// Invalidate drops a cached user, for callers that mutate user rows and
// need the next request to see the change.
func (m *AuthMiddleware) Invalidate(id string) {
	m.userCache.Delete(id)
}
