package models

import "time"

// AccessLog records one access to a digital resource.
type AccessLog struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	UserID     string    `json:"user_id" gorm:"not null;size:36;index:idx_access_logs_user_date,priority:1"`
	ResourceID string    `json:"resource_id" gorm:"not null;size:36;index:idx_access_logs_resource_date,priority:1"`
	AccessedAt time.Time `json:"accessed_at" gorm:"not null;index;index:idx_access_logs_user_date,priority:2,sort:desc;index:idx_access_logs_resource_date,priority:2,sort:desc"`
	IPAddress  string    `json:"ip_address" gorm:"size:45"`
	UserAgent  string    `json:"user_agent" gorm:"size:500"`
	Duration   int       `json:"duration" gorm:"default:0"`

	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Resource *Resource `json:"resource,omitempty" gorm:"foreignKey:ResourceID"`

	CreatedAt time.Time `json:"created_at"`
}

func (AccessLog) TableName() string {
	return "access_logs"
}
