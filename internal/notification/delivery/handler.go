package delivery

import (
	"errors"
	"log"
	"net/http"

	"tasko-backend/internal/notification/domain"
	"tasko-backend/internal/notification/usecase"
	"tasko-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	live                http.Handler
}

// NewNotificationHandler creates a NotificationHandler. live serves the
// WebSocket stream and may be nil.
func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, live http.Handler) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase, live: live}
}

// RegisterRoutes mounts the notification endpoints on /api/notifications
func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/count", h.GetCount)
		notifications.GET("/unread", h.GetUnread)
		notifications.GET("/task/:taskId", h.GetByTask)
		if h.live != nil {
			notifications.GET("/ws", gin.WrapH(h.live))
		}
		notifications.GET("/:id", h.GetNotification)
		notifications.POST("", h.CreateNotification)
		notifications.PUT("/read-all", h.MarkAllRead)
		notifications.PUT("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}

// GET /api/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	list, err := h.notificationUsecase.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}
	response.List(c, list)
}

// GET /api/notifications/count
func (h *NotificationHandler) GetCount(c *gin.Context) {
	count, err := h.notificationUsecase.Count(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch notification count")
		return
	}
	response.OK(c, count)
}

// GET /api/notifications/unread
func (h *NotificationHandler) GetUnread(c *gin.Context) {
	list, err := h.notificationUsecase.ListUnread(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch unread notifications")
		return
	}
	response.List(c, list)
}

// GET /api/notifications/task/:taskId
func (h *NotificationHandler) GetByTask(c *gin.Context) {
	list, err := h.notificationUsecase.ListByTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondError(c, err, "Failed to fetch task notifications")
		return
	}
	response.List(c, list)
}

// GET /api/notifications/:id
func (h *NotificationHandler) GetNotification(c *gin.Context) {
	n, err := h.notificationUsecase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch notification")
		return
	}
	response.OK(c, n)
}

// POST /api/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req usecase.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	n, err := h.notificationUsecase.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create notification")
		return
	}
	response.Created(c, n, "Notification created successfully")
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.notificationUsecase.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}
	response.OKWithMessage(c, n, "Notification marked as read")
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	changed, err := h.notificationUsecase.MarkAllRead(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to mark notifications as read")
		return
	}
	response.OKWithMessage(c, gin.H{"updated": changed}, "All notifications marked as read")
}

// DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationUsecase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete notification")
		return
	}
	response.OKWithMessage(c, nil, "Notification deleted successfully")
}

func respondError(c *gin.Context, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, verr.Message)
	case errors.Is(err, domain.ErrNotificationNotFound):
		response.NotFound(c, "Notification not found")
	default:
		log.Printf("[NotificationHandler] %s: %v", fallback, err)
		response.Internal(c, fallback)
	}
}
