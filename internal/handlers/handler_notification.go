package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
)

// notificationHandler handles HTTP requests related to notifications.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers all notification-related routes.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := newNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.GET("/:id/target", h.resolveClick)
		notifications.POST("/:id/read", h.markRead)
		notifications.POST("/read-all", h.markAllRead)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Description Lists the caller's notifications, newest first, with the unread badge count.
// @Tags notifications
// @Produce json
// @Param limit query int false "Maximum notifications to return"
// @Success 200 {object} dto.ListNotificationsResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), requesterID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	unread, err := h.notificationService.UnreadCount(c.Request.Context(), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListNotificationsResponse{
		Notifications: dto.ToNotificationResponses(notifications),
		UnreadCount:   unread,
	})
}

// resolveClick godoc
// @Summary Resolve a notification click target
// @Description Returns the navigation target of a notification. Does not mark it read.
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} domain.RedirectTarget
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/target [get]
func (h *notificationHandler) resolveClick(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.GetNotificationByID(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.notificationService.ResolveClick(*notification))
}

// markRead godoc
// @Summary Mark a notification read
// @Description Marks one of the caller's notifications read. Idempotent.
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkNotificationAsRead(c.Request.Context(), c.Param("id"), requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllRead godoc
// @Summary Mark all notifications read
// @Description Marks every notification of the caller read. Idempotent.
// @Tags notifications
// @Success 204
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	requesterID, ok := actorID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllNotificationsAsRead(c.Request.Context(), requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
