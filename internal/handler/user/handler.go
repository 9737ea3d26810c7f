package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/handler"
	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/service/user"
	apperrors "github.com/hirenbhut/social-api/pkg/errors"
)

type Handler struct {
	service   *user.Service
	userCache handler.CacheInvalidator
}

func NewHandler(service *user.Service, userCache handler.CacheInvalidator) *Handler {
	return &Handler{service: service, userCache: userCache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", h.Me)
		users.PUT("/me", h.UpdateProfile)
		users.DELETE("/me", h.DeleteAccount)
		users.GET("/:username", h.GetByUsername)
		users.POST("/:username/follow", h.Follow)
		users.DELETE("/:username/follow", h.Unfollow)
	}
}

type profileJSON struct {
	ID          uuid.UUID     `json:"id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Bio         string        `json:"bio,omitempty"`
	AvatarURL   string        `json:"avatar_url,omitempty"`
	ProfilePath string        `json:"profile_path"`
	Online      bool          `json:"online"`
	Prefs       model.JSONMap `json:"notification_prefs,omitempty"`
}

func renderProfile(u *model.User, includePrefs bool) profileJSON {
	p := profileJSON{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		ProfilePath: u.ProfilePath(),
		Online:      u.Online(),
	}
	if includePrefs {
		p.Prefs = u.NotificationPrefs
	}
	return p
}

func (h *Handler) Me(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(renderProfile(current, true)))
}

func (h *Handler) GetByUsername(c *gin.Context) {
	u, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(renderProfile(u, false)))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), current, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	h.userCache.Invalidate(current.ID.String())

	c.JSON(http.StatusOK, handler.NewSuccessResponse(renderProfile(updated, true)))
}

func (h *Handler) Follow(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	target, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}

	if err := h.service.Follow(c.Request.Context(), current.ID, target.ID); err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"following": target.Username}))
}

func (h *Handler) Unfollow(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	target, err := h.service.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), current.ID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"unfollowed": target.Username}))
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), current.ID); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	// The account is gone; its token must stop resolving immediately.
	h.userCache.Invalidate(current.ID.String())

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "account deleted"}))
}
