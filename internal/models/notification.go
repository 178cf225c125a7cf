package models

import "time"

type NotificationType string

const (
	NotificationWelcome       NotificationType = "welcome"
	NotificationNewResource   NotificationType = "new_resource"
	NotificationAnnouncement  NotificationType = "announcement"
	NotificationPasswordReset NotificationType = "password_reset"
)

// Notification is an in-app message for a single user.
type Notification struct {
	ID      string           `json:"id" gorm:"primaryKey;size:36"`
	UserID  string           `json:"user_id" gorm:"not null;size:36;index:idx_notifications_user_read,priority:1"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Message string           `json:"message" gorm:"not null;size:1000"`
	Type    NotificationType `json:"type" gorm:"default:announcement;size:30"`
	IsRead  bool             `json:"is_read" gorm:"default:false;index:idx_notifications_user_read,priority:2"`

	RelatedID   *string `json:"related_id" gorm:"size:36"`
	RelatedType *string `json:"related_type" gorm:"size:30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
