package repositories

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// NotificationReader defines read operations for notification data.
type NotificationReader interface {
	// FindNotificationByID retrieves a notification by id.
	FindNotificationByID(ctx context.Context, notificationID string) (*domain.AppNotification, error)

	// ListNotificationsByUser retrieves a recipient's notifications, newest first.
	ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]domain.AppNotification, error)

	// CountUnreadByUser counts the recipient's unread notifications.
	CountUnreadByUser(ctx context.Context, userID string) (int, error)
}

// NotificationWriter defines write operations for notification data.
type NotificationWriter interface {
	// SaveNotifications inserts a batch of notifications.
	SaveNotifications(ctx context.Context, notifications []domain.AppNotification) error

	// MarkRead sets IsRead on a single notification owned by userID.
	// Idempotent; marking an already-read notification changes nothing.
	MarkRead(ctx context.Context, notificationID string, userID string) error

	// MarkAllRead sets IsRead on every notification owned by userID. Idempotent.
	MarkAllRead(ctx context.Context, userID string) error
}

// NotificationRepositoryFacade combines all notification repository interfaces.
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
