package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hirenbhut/social-api/internal/handler"
	"github.com/hirenbhut/social-api/internal/model"
	"github.com/hirenbhut/social-api/internal/service/activity"
)

type Handler struct {
	service   *activity.Service
	presenter *activity.Presenter
}

func NewHandler(service *activity.Service, presenter *activity.Presenter) *Handler {
	return &Handler{service: service, presenter: presenter}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	activities := r.Group("/activities")
	{
		activities.GET("", h.List)
		activities.GET("/timeline", h.Timeline)
		activities.GET("/summary", h.Summary)
		activities.GET("/top_users", h.TopUsers)
		activities.GET("/analytics", h.Analytics)
	}
}

type activityJSON struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	TimeAgo     string    `json:"time_ago"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) render(c *gin.Context, entry *model.UserActivity) activityJSON {
	return activityJSON{
		ID:          entry.ID,
		Type:        entry.ActivityType.String(),
		Description: h.presenter.FormattedDescription(c.Request.Context(), entry),
		Icon:        h.presenter.Icon(entry.ActivityType),
		TimeAgo:     h.presenter.TimeAgo(entry, time.Now()),
		CreatedAt:   entry.CreatedAt,
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

	entries, total, err := h.service.List(c.Request.Context(), current.ID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	items := make([]activityJSON, 0, len(entries))
	for _, entry := range entries {
		items = append(items, h.render(c, entry))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"activities": items,
		"total":      total,
	}))
}

func (h *Handler) Timeline(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, err := h.service.Timeline(c.Request.Context(), current.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	items := make([]activityJSON, 0, len(entries))
	for _, entry := range entries {
		items = append(items, h.render(c, entry))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"activities": items}))
}

func (h *Handler) Summary(c *gin.Context) {
	current, ok := handler.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		days = 30
	}

	summary, err := h.service.Summary(c.Request.Context(), current.ID, time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summary))
}

func (h *Handler) TopUsers(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 || days > 365 {
		days = 7
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	top, err := h.service.TopUsers(c.Request.Context(), time.Now().AddDate(0, 0, -days), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"top_users": top}))
}

func (h *Handler) Analytics(c *gin.Context) {
	analytics, err := h.service.Analytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(analytics))
}
