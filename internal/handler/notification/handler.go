package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/handler"
	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/service/notification"
	"github.com/hirenbhut/social-api/internal/service/user"
)

type Handler struct {
	service   *notification.Service
	userSvc   *user.Service
	presenter *notification.Presenter
	userCache handler.CacheInvalidator
}

func NewHandler(service *notification.Service, userSvc *user.Service, presenter *notification.Presenter, userCache handler.CacheInvalidator) *Handler {
	return &Handler{service: service, userSvc: userSvc, presenter: presenter, userCache: userCache}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/recent", h.Recent)
		notifications.GET("/unread_count", h.UnreadCount)
		notifications.GET("/analytics", h.Analytics)
		notifications.GET("/preferences", h.GetPreferences)
		notifications.PUT("/preferences", h.UpdatePreferences)
		notifications.GET("/:id", h.Get)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/:id/unread", h.MarkUnread)
		notifications.POST("/read_all", h.MarkAllRead)
		notifications.DELETE("/:id", h.Delete)
		notifications.DELETE("", h.ClearAll)
	}
}

// notificationJSON is the listing projection consumed by the notification
// dropdown and the notifications page.
type notificationJSON struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	TimeAgo  string    `json:"time_ago"`
	Read     bool      `json:"read"`
	Icon     string    `json:"icon"`
	Priority string    `json:"priority"`
	URL      string    `json:"url,omitempty"`
}

func (h *Handler) render(c *gin.Context, n *model.Notification) notificationJSON {
	ctx := c.Request.Context()
	return notificationJSON{
		ID:       n.ID,
		Type:     n.Type.String(),
		Title:    n.Title,
		Message:  h.presenter.SummaryText(ctx, n),
		TimeAgo:  h.presenter.TimeAgo(n, time.Now()),
		Read:     n.Read(),
		Icon:     h.presenter.Icon(n.Type),
		Priority: n.Priority.String(),
		URL:      h.presenter.ActionURL(ctx, n),
	}
}

func (h *Handler) List(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pagination"))
		return
	}
	filter := model.NotificationFilter(c.DefaultQuery("filter", "all"))

	notifications, total, err := h.service.List(c.Request.Context(), current.ID, filter, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	unread, err := h.service.UnreadCount(c.Request.Context(), current.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	items := make([]notificationJSON, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, h.render(c, n))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"notifications": items,
		"unread_count":  unread,
		"total":         total,
		"filter":        filter,
	}))
}

func (h *Handler) Recent(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	notifications, err := h.service.Recent(c.Request.Context(), current.ID, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	unread, err := h.service.UnreadCount(c.Request.Context(), current.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	items := make([]notificationJSON, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, h.render(c, n))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"notifications": items,
		"unread_count":  unread,
	}))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), current.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"unread_count": count}))
}

// owned loads the notification and rejects access by anyone but its
// recipient.
func (h *Handler) owned(c *gin.Context) (*model.Notification, bool) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid notification ID"))
		return nil, false
	}

	n, err := h.service.Get(c.Request.Context(), id)
	if err != nil || n.UserID != current.ID {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("notification not found"))
		return nil, false
	}
	return n, true
}

func (h *Handler) Get(c *gin.Context) {
	n, ok := h.owned(c)
	if !ok {
		return
	}

	// Opening a notification marks it read.
	if err := h.service.MarkRead(c.Request.Context(), n); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.render(c, n)))
}

func (h *Handler) MarkRead(c *gin.Context) {
	n, ok := h.owned(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), n); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"status": "read"}))
}

func (h *Handler) MarkUnread(c *gin.Context) {
	n, ok := h.owned(c)
	if !ok {
		return
	}

	if err := h.service.MarkUnread(c.Request.Context(), n); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"status": "unread"}))
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	count, err := h.service.MarkAllRead(c.Request.Context(), current.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"marked_read": count}))
}

func (h *Handler) Delete(c *gin.Context) {
	n, ok := h.owned(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), n); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "notification deleted"}))
}

func (h *Handler) ClearAll(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	count, err := h.service.ClearAll(c.Request.Context(), current.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cleared": count}))
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(analytics))
}

func (h *Handler) GetPreferences(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	prefs := current.NotificationPrefs
	if prefs == nil {
		prefs = model.JSONMap{}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(prefs))
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var prefs model.JSONMap
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid preferences"))
		return
	}

	if err := h.userSvc.UpdatePreferences(c.Request.Context(), current, prefs); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	// Drop the cached user so push gating sees the new preferences on the
	// next request instead of after the cache TTL.
	h.userCache.Invalidate(current.ID.String())

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"message": "preferences updated"}))
}
