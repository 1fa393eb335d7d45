package dto

import (
	"time"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string    `json:"notificationID"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	IsRead         bool      `json:"isRead"`
	TargetPage     string    `json:"targetPage,omitempty"`
	TargetID       string    `json:"targetId,omitempty"`
	ItemType       string    `json:"itemType,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ListNotificationsResponse bundles a recipient's notifications with the
// unread badge count.
type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// ToNotificationResponse converts a domain.AppNotification to its DTO.
func ToNotificationResponse(n *domain.AppNotification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           string(n.Type),
		IsRead:         n.IsRead,
		TargetPage:     n.TargetPage,
		TargetID:       n.TargetID,
		ItemType:       string(n.ItemType),
		CreatedAt:      n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications to DTOs.
func ToNotificationResponses(notifications []domain.AppNotification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses
}
