package models

import "time"

// Notification is the database row model for an in-app notification.
type Notification struct {
	NotificationID string    `db:"notification_id"`
	UserID         string    `db:"user_id"`
	Title          string    `db:"title"`
	Message        string    `db:"message"`
	Type           string    `db:"type"`
	IsRead         bool      `db:"is_read"`
	TargetPage     string    `db:"target_page"`
	TargetID       string    `db:"target_id"`
	ItemType       string    `db:"item_type"`
	CreatedAt      time.Time `db:"created_at"`
}
