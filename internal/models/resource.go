package models

import (
	"time"

	"gorm.io/datatypes"
)

type ResourceType string

const (
	ResourceEbook     ResourceType = "ebook"
	ResourcePDF       ResourceType = "pdf"
	ResourceVideo     ResourceType = "video"
	ResourceAudio     ResourceType = "audio"
	ResourceStreaming ResourceType = "streaming"
)

type ResourceLanguage string

const (
	LanguageHindi    ResourceLanguage = "Hindi"
	LanguageEnglish  ResourceLanguage = "English"
	LanguageSanskrit ResourceLanguage = "Sanskrit"
	LanguageOther    ResourceLanguage = "Other"
)

// Resource is a catalogued digital item: an uploaded file or a streaming link.
type Resource struct {
	ID          string           `json:"id" gorm:"primaryKey;size:36"`
	Title       string           `json:"title" gorm:"not null;size:500"`
	Type        ResourceType     `json:"type" gorm:"not null;size:20;index:idx_resources_type_board_class,priority:1"`
	Author      string           `json:"author" gorm:"size:200"`
	Subject     string           `json:"subject" gorm:"size:100"`
	Class       *int             `json:"class" gorm:"index:idx_resources_type_board_class,priority:3"`
	Board       string           `json:"board" gorm:"default:RBSE;size:20;index:idx_resources_type_board_class,priority:2"`
	Language    ResourceLanguage `json:"language" gorm:"not null;size:20"`
	FileURL     string           `json:"file_url" gorm:"not null;size:1000"`
	FileSize    int64            `json:"file_size" gorm:"default:0"`
	StreamingURL *string         `json:"streaming_url"`
	ThumbnailURL *string         `json:"thumbnail_url"`
	Description string           `json:"description" gorm:"size:2000"`
	AccessCount int64            `json:"access_count" gorm:"default:0;index"`
	Tags        datatypes.JSON   `json:"tags" gorm:"type:jsonb"`

	UploadedBy string `json:"uploaded_by" gorm:"not null;size:36"`
	Uploader   *User  `json:"uploader,omitempty" gorm:"foreignKey:UploadedBy"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Resource) TableName() string {
	return "resources"
}

// ValidResourceType reports whether t is a known resource type.
func ValidResourceType(t ResourceType) bool {
	switch t {
	case ResourceEbook, ResourcePDF, ResourceVideo, ResourceAudio, ResourceStreaming:
		return true
	}
	return false
}
