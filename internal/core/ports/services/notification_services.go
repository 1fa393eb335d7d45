package services

import (
	"context"

	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// NotificationSvcFacade is the notification router: it turns domain events
// into persisted notifications and resolves notification clicks into
// navigation targets.
type NotificationSvcFacade interface {
	// Publish fans a domain event out into one notification per recipient.
	// Best-effort: a persistence failure is logged, never propagated, so the
	// triggering business operation cannot be failed by its side effect.
	Publish(ctx context.Context, event domain.Event)

	// GetNotificationByID retrieves one of the recipient's notifications.
	GetNotificationByID(ctx context.Context, notificationID string, actorID string) (*domain.AppNotification, error)

	// ListNotifications retrieves the recipient's notifications, newest first.
	ListNotifications(ctx context.Context, actorID string, limit int) ([]domain.AppNotification, error)

	// UnreadCount counts the recipient's unread notifications.
	UnreadCount(ctx context.Context, actorID string) (int, error)

	// MarkNotificationAsRead marks one notification read. Recipient only;
	// idempotent.
	MarkNotificationAsRead(ctx context.Context, notificationID string, actorID string) error

	// MarkAllNotificationsAsRead marks every notification of the recipient
	// read. Idempotent.
	MarkAllNotificationsAsRead(ctx context.Context, actorID string) error

	// ResolveClick maps a notification to its navigation target. Pure: same
	// payload, same target, independent of read state; it never marks
	// anything read.
	ResolveClick(notification domain.AppNotification) domain.RedirectTarget
}
