package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/platform/metrics"
)

// Deep-link pages the UI knows how to render.
const (
	pageAdvances  = "advances"
	pageDashboard = "dashboard"
)

// pageItemTypes backfills the item type for notifications persisted before
// the type was stored explicitly. New pages get an entry here, not a new
// branch in ResolveClick.
var pageItemTypes = map[string]domain.ItemType{
	pageAdvances:  domain.ItemAdvance,
	pageDashboard: domain.ItemExpense,
}

// notificationService routes domain events to recipients and resolves
// notification clicks into navigation targets.
type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepositoryFacade
	userRepo         portsrepo.UserReader
}

// NewNotificationService creates the notification router.
func NewNotificationService(
	notificationRepo portsrepo.NotificationRepositoryFacade,
	userRepo portsrepo.UserReader,
) portssvc.NotificationSvcFacade {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// recipients resolves who an event addresses. Requests fan out to the
// approver pool; decisions go back to the custody holder. The actor never
// notifies themselves.
func (s *notificationService) recipients(ctx context.Context, event domain.Event) ([]string, error) {
	var ids []string
	switch event.Kind {
	case domain.EventAdvanceRequested, domain.EventExpenseSubmitted:
		adminIDs, err := s.userRepo.ListUserIDsByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to list approvers: %w", err)
		}
		ids = adminIDs
	default:
		if event.OwnerID != "" {
			ids = []string{event.OwnerID}
		}
	}

	out := ids[:0]
	for _, id := range ids {
		if id != event.ActorID {
			out = append(out, id)
		}
	}
	return out, nil
}

// compose builds the notification content and deep link for an event.
func compose(event domain.Event) (title, message string, typ domain.NotificationType, page string) {
	switch event.Kind {
	case domain.EventAdvanceRequested:
		return "New Advance Request",
			fmt.Sprintf("An advance of %s was requested and awaits review.", event.Amount),
			domain.NotifyInfo, pageAdvances
	case domain.EventAdvanceApproved:
		return "Advance Approved",
			fmt.Sprintf("Your advance of %s was approved and is now in your custody.", event.Amount),
			domain.NotifySuccess, pageAdvances
	case domain.EventAdvanceRejected:
		return "Advance Rejected",
			fmt.Sprintf("Your advance request of %s was rejected: %s", event.Amount, event.Reason),
			domain.NotifyError, pageAdvances
	case domain.EventAdvanceSettled:
		if event.HadDeficit {
			return "Advance Settled with Deficit",
				fmt.Sprintf("Your advance of %s was settled with an outstanding deficit of %s.", event.Amount, event.Deficit),
				domain.NotifyWarning, pageAdvances
		}
		return "Advance Settled",
			fmt.Sprintf("Your advance of %s was settled in full.", event.Amount),
			domain.NotifySuccess, pageAdvances
	case domain.EventExpenseSubmitted:
		return "New Expense Submitted",
			fmt.Sprintf("An expense of %s was submitted and awaits review.", event.Amount),
			domain.NotifyInfo, pageDashboard
	case domain.EventExpenseApproved:
		return "Expense Approved",
			fmt.Sprintf("Your expense of %s was approved.", event.Amount),
			domain.NotifySuccess, pageDashboard
	case domain.EventExpenseRejected:
		return "Expense Rejected",
			fmt.Sprintf("Your expense of %s was rejected: %s", event.Amount, event.Reason),
			domain.NotifyError, pageDashboard
	case domain.EventExpenseRevised:
		return "Expense Revised",
			fmt.Sprintf("Your approved expense was revised to %s.", event.Amount),
			domain.NotifyInfo, pageDashboard
	default:
		return "Notification",
			fmt.Sprintf("Activity on item %s.", event.SubjectID),
			domain.NotifyInfo, pageDashboard
	}
}

// Publish fans an event out into one notification per recipient. Best-effort:
// failures are logged and counted, never returned, so the business operation
// that emitted the event cannot be failed by its side effect.
func (s *notificationService) Publish(ctx context.Context, event domain.Event) {
	recipientIDs, err := s.recipients(ctx, event)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve notification recipients", slog.String("event", string(event.Kind)))
		metrics.NotificationFailures.Inc()
		return
	}
	if len(recipientIDs) == 0 {
		return
	}

	title, message, typ, page := compose(event)
	now := time.Now().UTC()
	notifications := make([]domain.AppNotification, len(recipientIDs))
	for i, recipientID := range recipientIDs {
		notifications[i] = domain.AppNotification{
			NotificationID: uuid.NewString(),
			UserID:         recipientID,
			Title:          title,
			Message:        message,
			Type:           typ,
			TargetPage:     page,
			TargetID:       event.SubjectID,
			ItemType:       event.ItemType,
			CreatedAt:      now,
		}
	}

	if err := s.notificationRepo.SaveNotifications(ctx, notifications); err != nil {
		s.LogError(ctx, err, "Failed to save notifications",
			slog.String("event", string(event.Kind)),
			slog.Int("recipients", len(recipientIDs)))
		metrics.NotificationFailures.Inc()
		return
	}
	metrics.NotificationsEmitted.Add(float64(len(notifications)))
}

// GetNotificationByID retrieves one of the recipient's notifications.
func (s *notificationService) GetNotificationByID(ctx context.Context, notificationID string, actorID string) (*domain.AppNotification, error) {
	notification, err := s.notificationRepo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find notification %s: %w", notificationID, err)
	}
	if notification.UserID != actorID {
		return nil, apperrors.ErrNotFound
	}
	return notification, nil
}

// ListNotifications retrieves the recipient's notifications, newest first.
func (s *notificationService) ListNotifications(ctx context.Context, actorID string, limit int) ([]domain.AppNotification, error) {
	notifications, err := s.notificationRepo.ListNotificationsByUser(ctx, actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", actorID, err)
	}
	return notifications, nil
}

// UnreadCount counts the recipient's unread notifications.
func (s *notificationService) UnreadCount(ctx context.Context, actorID string) (int, error) {
	count, err := s.notificationRepo.CountUnreadByUser(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", actorID, err)
	}
	return count, nil
}

// MarkNotificationAsRead marks one notification read. Recipient only.
func (s *notificationService) MarkNotificationAsRead(ctx context.Context, notificationID string, actorID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("failed to find notification %s: %w", notificationID, err)
	}
	if notification.UserID != actorID {
		return apperrors.ErrNotFound
	}
	if notification.IsRead {
		return nil
	}
	if err := s.notificationRepo.MarkRead(ctx, notificationID, actorID); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}
	return nil
}

// MarkAllNotificationsAsRead marks every notification of the recipient read.
func (s *notificationService) MarkAllNotificationsAsRead(ctx context.Context, actorID string) error {
	if err := s.notificationRepo.MarkAllRead(ctx, actorID); err != nil {
		return fmt.Errorf("failed to mark notifications read for user %s: %w", actorID, err)
	}
	return nil
}

// ResolveClick maps a notification to its navigation target. Pure function
// of the payload: the stored item type wins, with a page lookup as fallback
// for notifications persisted before the type was stored. Read state is
// never consulted or changed.
func (s *notificationService) ResolveClick(notification domain.AppNotification) domain.RedirectTarget {
	itemType := notification.ItemType
	if itemType == "" {
		itemType = pageItemTypes[notification.TargetPage]
	}
	return domain.RedirectTarget{
		Page:     notification.TargetPage,
		ItemType: itemType,
		ItemID:   notification.TargetID,
	}
}
