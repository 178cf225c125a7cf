package models

import "time"

// Bookmark pins a resource for a user. One bookmark per user per resource.
type Bookmark struct {
	ID         string `json:"id" gorm:"primaryKey;size:36"`
	UserID     string `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_bookmarks_user_resource,priority:1;index:idx_bookmarks_user_created,priority:1"`
	ResourceID string `json:"resource_id" gorm:"not null;size:36;uniqueIndex:idx_bookmarks_user_resource,priority:2"`
	Notes      string `json:"notes" gorm:"size:500"`

	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_bookmarks_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
