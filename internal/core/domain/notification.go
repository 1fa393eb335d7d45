package domain

import "time"

// NotificationType controls how the UI styles a notification.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

// ItemType identifies the kind of record a notification deep-links to.
// It is stored explicitly at creation time rather than guessed from the
// target page.
type ItemType string

const (
	ItemAdvance ItemType = "ADVANCE"
	ItemExpense ItemType = "EXPENSE"
)

// AppNotification is an in-app notification addressed to a single recipient.
// Immutable once created, except for the IsRead flag which only the
// recipient may toggle.
type AppNotification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	UserID         string           `json:"userID"`         // recipient
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"isRead"`
	TargetPage     string           `json:"targetPage,omitempty"` // deep-link page
	TargetID       string           `json:"targetId,omitempty"`   // deep-link record id
	ItemType       ItemType         `json:"itemType,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// RedirectTarget is the resolved navigation target of a notification click,
// returned to the presentation layer as an explicit value. The presentation
// layer owns clearing it once consumed.
type RedirectTarget struct {
	Page     string   `json:"page"`
	ItemType ItemType `json:"itemType"`
	ItemID   string   `json:"itemId"`
}
