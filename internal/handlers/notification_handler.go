package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rbse-library/library-service/internal/models"
	"github.com/rbse-library/library-service/internal/repositories"
	"github.com/rbse-library/library-service/internal/services"
	"github.com/rbse-library/library-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationEventService
}

// BulkNotificationRequest is the staff-facing fan-out payload.
type BulkNotificationRequest struct {
	UserIDs []string                `json:"user_ids" binding:"required"`
	Type    models.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`

	RelatedID   *string `json:"related_id"`
	RelatedType *string `json:"related_type"`
}

func NewNotificationHandler(notificationService services.NotificationEventService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// ListNotifications lists the authenticated user's notifications.
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	page, limit := parsePagination(c)
	filters := repositories.NotificationFilters{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if readStr := c.Query("is_read"); readStr != "" {
		if read, err := strconv.ParseBool(readStr); err == nil {
			filters.IsRead = &read
		}
	}

	notifications, total, err := h.notificationService.ListByUser(c.Request.Context(), userID, filters)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Notifications", gin.H{
		"notifications": notifications,
		"pagination":    buildPagination(total, page, limit),
	})
}

// UnreadCount returns how many notifications are unread.
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Unread count", gin.H{"count": count})
}

// MarkRead marks one notification as read.
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Notification marked read", nil)
}

// MarkAllRead marks every notification for the user as read.
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.RespondError(c, http.StatusUnauthorized, CodeAuthentication, "Not authorized to access this route. Please login.", nil)
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "All notifications marked read", nil)
}

// SendBulk fans a notification out to a set of users.
// POST /api/v1/notifications/bulk
func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req BulkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondBindError(c, err)
		return
	}

	h.LogRequest(c, "Sending bulk notification", "recipients", len(req.UserIDs), "type", req.Type)

	err := h.notificationService.SendBulkNotification(c.Request.Context(), req.UserIDs, &services.NotificationRequest{
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		RelatedID:   req.RelatedID,
		RelatedType: req.RelatedType,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.RespondSuccess(c, http.StatusOK, "Notification sent", gin.H{"recipients": len(req.UserIDs)})
}
